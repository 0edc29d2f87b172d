package fourier

import "fmt"

// GeometryFromSpectrum runs the forward half of one iteration: symmetric and
// asymmetric forward transforms followed by the extension to the full
// poloidal interval. The returned geometry is the merged field.
func (tr *Transformer) GeometryFromSpectrum(c *Coefficients) (*RealSpaceGeometry, error) {
	geom := tr.NewGeometry()
	if err := tr.FourierToReal(c, geom); err != nil {
		return nil, fmt.Errorf("symmetric forward transform: %w", err)
	}
	if !tr.S.LAsym {
		return geom, nil
	}
	asym := tr.NewGeometry()
	if err := tr.FourierToRealAsymm(c, asym); err != nil {
		return nil, fmt.Errorf("asymmetric forward transform: %w", err)
	}
	if err := tr.SymmetrizeRealSpaceGeometry(geom, asym); err != nil {
		return nil, fmt.Errorf("geometry extension: %w", err)
	}
	return geom, nil
}

// ForcesToSpectrum runs the return half: force symmetrization followed by the
// symmetric and asymmetric inverse transforms. f holds the full-grid forces
// and is overwritten with its symmetric part.
func (tr *Transformer) ForcesToSpectrum(f *RealSpaceForces) (*SpectralForces, error) {
	out := tr.NewSpectralForces()
	if tr.S.LAsym {
		asym := tr.NewForces()
		if err := tr.SymmetrizeForces(f, asym); err != nil {
			return nil, fmt.Errorf("force symmetrization: %w", err)
		}
		if err := tr.RealToFourierAsymm(asym, out); err != nil {
			return nil, fmt.Errorf("asymmetric inverse transform: %w", err)
		}
	}
	if err := tr.RealToFourier(f, out); err != nil {
		return nil, fmt.Errorf("symmetric inverse transform: %w", err)
	}
	return out, nil
}
