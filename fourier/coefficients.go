package fourier

import (
	"fmt"

	"github.com/notargets/asymfourier/basis"
	"github.com/notargets/asymfourier/sizes"
	"github.com/notargets/asymfourier/utils"
)

// Coefficients is the spectral state of R, Z and lambda on a contiguous range
// of surfaces starting at NsMin. Each array holds NumSurfaces*MNSize values
// indexed by sizes.IndexMN.
type Coefficients struct {
	S           *sizes.Sizes
	NsMin       int
	NumSurfaces int

	Rmncc, Rmnss []float64 // symmetric R
	Rmnsc, Rmncs []float64 // asymmetric R
	Zmnsc, Zmncs []float64 // symmetric Z
	Zmncc, Zmnss []float64 // asymmetric Z
	Lmnsc, Lmncs []float64 // symmetric lambda
	Lmncc, Lmnss []float64 // asymmetric lambda
}

func NewCoefficients(s *sizes.Sizes, nsMin, numSurfaces int) *Coefficients {
	n := numSurfaces * s.MNSize
	return &Coefficients{
		S: s, NsMin: nsMin, NumSurfaces: numSurfaces,
		Rmncc: make([]float64, n), Rmnss: make([]float64, n),
		Rmnsc: make([]float64, n), Rmncs: make([]float64, n),
		Zmnsc: make([]float64, n), Zmncs: make([]float64, n),
		Zmncc: make([]float64, n), Zmnss: make([]float64, n),
		Lmnsc: make([]float64, n), Lmncs: make([]float64, n),
		Lmncc: make([]float64, n), Lmnss: make([]float64, n),
	}
}

// Family returns the array for field with poloidal trig pol and toroidal trig tor
func (c *Coefficients) Family(field Field, pol, tor basis.Trig) []float64 {
	return *c.family(family{field, pol, tor})
}

func (c *Coefficients) family(fm family) *[]float64 {
	switch fm.field {
	case FieldR:
		return pick(fm, &c.Rmncc, &c.Rmnss, &c.Rmnsc, &c.Rmncs)
	case FieldZ:
		return pick(fm, &c.Zmncc, &c.Zmnss, &c.Zmnsc, &c.Zmncs)
	default:
		return pick(fm, &c.Lmncc, &c.Lmnss, &c.Lmnsc, &c.Lmncs)
	}
}

func pick(fm family, cc, ss, sc, cs *[]float64) *[]float64 {
	switch {
	case fm.pol == basis.Cos && fm.tor == basis.Cos:
		return cc
	case fm.pol == basis.Sin && fm.tor == basis.Sin:
		return ss
	case fm.pol == basis.Sin:
		return sc
	default:
		return cs
	}
}

// Set stores a coefficient of the normalized basis on global surface j
func (c *Coefficients) Set(field Field, pol, tor basis.Trig, j, m, n int, value float64) error {
	fm := family{field, pol, tor}
	if err := c.checkMode(fm, j, m, n); err != nil {
		return err
	}
	(*c.family(fm))[c.S.IndexMN(j-c.NsMin, m, n)] = value
	return nil
}

// SetPhysical stores a boundary-style amplitude, the factor in front of
// trig(m theta) trig(n nfp zeta), converting it to the normalized basis.
func (c *Coefficients) SetPhysical(fb *basis.FourierBasis, field Field, pol, tor basis.Trig,
	j, m, n int, amplitude float64) error {
	if m < 0 || m >= c.S.Mpol || n < 0 || n > c.S.Ntor {
		return c.checkMode(family{field, pol, tor}, j, m, n)
	}
	return c.Set(field, pol, tor, j, m, n, fb.PhysicalToInternal(m, n, amplitude))
}

// Get reads a coefficient of the normalized basis
func (c *Coefficients) Get(field Field, pol, tor basis.Trig, j, m, n int) float64 {
	return (*c.family(family{field, pol, tor}))[c.S.IndexMN(j-c.NsMin, m, n)]
}

func (c *Coefficients) checkMode(fm family, j, m, n int) error {
	name := fm.coefficientName()
	switch {
	case j < c.NsMin || j >= c.NsMin+c.NumSurfaces:
		return utils.NewValidationError(name,
			fmt.Sprintf("surface outside [%d,%d)", c.NsMin, c.NsMin+c.NumSurfaces), j)
	case m < 0 || m >= c.S.Mpol:
		return utils.NewValidationError(name, fmt.Sprintf("m outside [0,%d)", c.S.Mpol), m)
	case n < 0 || n > c.S.Ntor:
		return utils.NewValidationError(name, fmt.Sprintf("n outside [0,%d]", c.S.Ntor), n)
	case fm.unused(c.S.LThreeD, c.S.LAsym, m, n):
		return utils.NewValidationError(name,
			fmt.Sprintf("mode (m=%d, n=%d) is not part of this family", m, n), nil)
	}
	return nil
}

// Validate checks array lengths and that every structurally unused entry
// is exactly zero.
func (c *Coefficients) Validate() error {
	return validateFamilies(c.S, c.NumSurfaces, func(fm family) ([]float64, string) {
		return *c.family(fm), fm.coefficientName()
	})
}

// Zero clears every family
func (c *Coefficients) Zero() {
	for _, fm := range families {
		clear(*c.family(fm))
	}
}

// SpectralForces are the Fourier-space force residuals on the force surfaces.
type SpectralForces struct {
	S           *sizes.Sizes
	NsMin       int
	NumSurfaces int

	Frcc, Frss, Frsc, Frcs []float64
	Fzsc, Fzcs, Fzcc, Fzss []float64
	Flsc, Flcs, Flcc, Flss []float64
}

func NewSpectralForces(s *sizes.Sizes, nsMin, numSurfaces int) *SpectralForces {
	n := numSurfaces * s.MNSize
	return &SpectralForces{
		S: s, NsMin: nsMin, NumSurfaces: numSurfaces,
		Frcc: make([]float64, n), Frss: make([]float64, n),
		Frsc: make([]float64, n), Frcs: make([]float64, n),
		Fzsc: make([]float64, n), Fzcs: make([]float64, n),
		Fzcc: make([]float64, n), Fzss: make([]float64, n),
		Flsc: make([]float64, n), Flcs: make([]float64, n),
		Flcc: make([]float64, n), Flss: make([]float64, n),
	}
}

func (f *SpectralForces) Family(field Field, pol, tor basis.Trig) []float64 {
	return *f.family(family{field, pol, tor})
}

func (f *SpectralForces) family(fm family) *[]float64 {
	switch fm.field {
	case FieldR:
		return pick(fm, &f.Frcc, &f.Frss, &f.Frsc, &f.Frcs)
	case FieldZ:
		return pick(fm, &f.Fzcc, &f.Fzss, &f.Fzsc, &f.Fzcs)
	default:
		return pick(fm, &f.Flcc, &f.Flss, &f.Flsc, &f.Flcs)
	}
}

func (f *SpectralForces) Get(field Field, pol, tor basis.Trig, j, m, n int) float64 {
	return (*f.family(family{field, pol, tor}))[f.S.IndexMN(j-f.NsMin, m, n)]
}

// checkLengths only looks at sizes; the transforms overwrite every entry
func (f *SpectralForces) checkLengths() error {
	want := f.NumSurfaces * f.S.MNSize
	for _, fm := range families {
		if err := utils.CheckLength(fm.forceName(), *f.family(fm), want); err != nil {
			return err
		}
	}
	return nil
}

func validateFamilies(s *sizes.Sizes, numSurfaces int, get func(family) ([]float64, string)) error {
	want := numSurfaces * s.MNSize
	for _, fm := range families {
		data, name := get(fm)
		if err := utils.CheckLength(name, data, want); err != nil {
			return err
		}
		for jl := 0; jl < numSurfaces; jl++ {
			for m := 0; m < s.Mpol; m++ {
				for n := 0; n <= s.Ntor; n++ {
					if !fm.unused(s.LThreeD, s.LAsym, m, n) {
						continue
					}
					if v := data[s.IndexMN(jl, m, n)]; v != 0 {
						return utils.NewValidationError(name,
							fmt.Sprintf("unused mode (m=%d, n=%d) on local surface %d must be zero", m, n, jl), v)
					}
				}
			}
		}
	}
	return nil
}
