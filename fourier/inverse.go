package fourier

import (
	"github.com/notargets/asymfourier/basis"
	"github.com/notargets/asymfourier/precision"
	"github.com/notargets/asymfourier/sizes"
	"gonum.org/v1/gonum/mat"
)

// RealToFourier projects the symmetric force channels onto frcc, frss, fzsc,
// fzcs, flsc and flcs. See RealToFourierAsymm for the projection.
func (tr *Transformer) RealToFourier(f *RealSpaceForces, out *SpectralForces) error {
	return tr.stage(StageInverseSymmetric, tr.forceUnits, func() error {
		return tr.inverse(StageInverseSymmetric, f, out, true)
	})
}

// RealToFourierAsymm projects the antisymmetric force channels, as produced
// by SymmetrizeForces, onto frsc, frcs, fzcc, fzss, flcc and flss. For a
// family with basis function phi the weak form is
//
//	F(m,n) = sum over the half grid of w * (A*phi + B*dphi/dtheta - C*dphi/dzeta)
//
// with w the trapezoidal weights folded into cosmui/sinmui. Lambda has no A
// channel and its B channel is tested against the theta derivative of the
// partner poloidal function, which matches the blmn polarity. Only m = 0 is
// formed on the magnetic axis and lambda is never accumulated there. The
// families written are cleared first; the others in out are left alone.
func (tr *Transformer) RealToFourierAsymm(f *RealSpaceForces, out *SpectralForces) error {
	return tr.stage(StageInverseAsymmetric, tr.forceUnits, func() error {
		return tr.inverse(StageInverseAsymmetric, f, out, false)
	})
}

func (tr *Transformer) inverse(stage string, f *RealSpaceForces, out *SpectralForces, symmetric bool) error {
	if err := tr.checkSizes("forces", f.S); err != nil {
		return err
	}
	if err := tr.checkSizes("spectral forces", out.S); err != nil {
		return err
	}
	if err := tr.checkForceRange("forces", f.NsMin, f.NumSurfaces); err != nil {
		return err
	}
	if err := tr.checkForceRange("spectral forces", out.NsMin, out.NumSurfaces); err != nil {
		return err
	}
	if err := f.checkLengths(); err != nil {
		return err
	}
	if err := out.checkLengths(); err != nil {
		return err
	}

	if err := tr.forEachSurface(tr.forceUnits, func(j int) {
		tr.inverseSurface(f, out, j, symmetric)
	}); err != nil {
		return err
	}
	return checkSpectralFinite(stage, out, symmetric)
}

func (out *SpectralForces) clearSurface(jl int, symmetric bool) {
	lo, hi := jl*out.S.MNSize, (jl+1)*out.S.MNSize
	for _, fm := range families {
		if fm.symmetric() == symmetric {
			clear((*out.family(fm))[lo:hi])
		}
	}
}

// thetaWeights returns the integration weights for the A/C and the B
// channels of family fm, one row per m.
func (tr *Transformer) thetaWeights(fm family) (w, wd *mat.Dense) {
	w = tr.Basis.PolIntMatrix(fm.pol)
	if fm.field == FieldL {
		return w, tr.Basis.PolDerivIntMatrix(fm.pol.Partner())
	}
	return w, tr.Basis.PolDerivIntMatrix(fm.pol)
}

// skipInverse reports families and modes not formed on surface j
func skipInverse(fm family, j, m int) bool {
	if j == 0 && (m > 0 || fm.field == FieldL) {
		return true
	}
	return fm.pol == basis.Sin && m == 0
}

// inverseWork is the per-surface scratch of the inverse transform
type inverseWork struct {
	a, c   [2]*mat.Dense // [NZeta, Mpol] theta sums per m parity
	tmp    *mat.Dense    // [NZeta, Mpol]
	as, cs *mat.Dense    // [NZeta, Mpol] column m taken from parity m%2
	fm     *mat.Dense    // [Mpol, Ntor+1]
	fn     *mat.Dense    // [Mpol, Ntor+1]
}

func newInverseWork(s *sizes.Sizes) *inverseWork {
	w := &inverseWork{
		tmp: mat.NewDense(s.NZeta, s.Mpol, nil),
		as:  mat.NewDense(s.NZeta, s.Mpol, nil),
		cs:  mat.NewDense(s.NZeta, s.Mpol, nil),
		fm:  mat.NewDense(s.Mpol, s.Ntor+1, nil),
		fn:  mat.NewDense(s.Mpol, s.Ntor+1, nil),
	}
	for p := range w.a {
		w.a[p] = mat.NewDense(s.NZeta, s.Mpol, nil)
		w.c[p] = mat.NewDense(s.NZeta, s.Mpol, nil)
	}
	return w
}

// thetaSums forms as(k,m) = sum_l A w + B wd and cs(k,m) = -sum_l C w over
// the half grid, reading parity m%2. Columns of modes skipped on surface j
// are zero.
func (tr *Transformer) thetaSums(w *inverseWork, f *RealSpaceForces, fm family, j int) {
	if tr.compensated {
		tr.thetaSumsCompensated(w, f, fm, j)
		return
	}
	var (
		s                = tr.S
		jl               = j - f.NsMin
		ca, hasA, cb, cc = forceChannels(fm.field)
		wt, wd           = tr.thetaWeights(fm)
	)
	for par := Even; par <= Odd; par++ {
		w.a[par].Mul(halfGridView(s, f.Data[par][cb], jl), wd.T())
		if hasA {
			w.tmp.Mul(halfGridView(s, f.Data[par][ca], jl), wt.T())
			w.a[par].Add(w.a[par], w.tmp)
		}
		if s.LThreeD {
			w.c[par].Mul(halfGridView(s, f.Data[par][cc], jl), wt.T())
			w.c[par].Scale(-1, w.c[par])
		}
	}
	for k := 0; k < s.NZeta; k++ {
		for m := 0; m < s.Mpol; m++ {
			if skipInverse(fm, j, m) {
				w.as.Set(k, m, 0)
				w.cs.Set(k, m, 0)
				continue
			}
			w.as.Set(k, m, w.a[m%2].At(k, m))
			w.cs.Set(k, m, w.c[m%2].At(k, m))
		}
	}
}

// thetaSumsCompensated is thetaSums with each (k, m) sum accumulated in
// double-double, so large canceling force contributions do not swamp small
// ones before the result is rounded.
func (tr *Transformer) thetaSumsCompensated(w *inverseWork, f *RealSpaceForces, fm family, j int) {
	var (
		s                = tr.S
		base             = (j - f.NsMin) * s.NZnT
		ca, hasA, cb, cc = forceChannels(fm.field)
		wt, wd           = tr.thetaWeights(fm)
		acc, accC        precision.Accumulator
	)
	for m := 0; m < s.Mpol; m++ {
		var (
			par     = m % 2
			wm, wdm = wt.RawRowView(m), wd.RawRowView(m)
			fa      []float64
			fbv, fc = f.Data[par][cb][base:], f.Data[par][cc][base:]
			skip    = skipInverse(fm, j, m)
		)
		if hasA {
			fa = f.Data[par][ca][base:]
		}
		for k := 0; k < s.NZeta; k++ {
			acc.Reset()
			accC.Reset()
			row := k * s.NThetaEff
			for l := 0; l < s.NThetaReduced && !skip; l++ {
				if hasA {
					acc.AddProduct(fa[row+l], wm[l])
				}
				acc.AddProduct(fbv[row+l], wdm[l])
				if s.LThreeD {
					accC.AddProduct(fc[row+l], wm[l])
				}
			}
			w.as.Set(k, m, acc.Sum())
			w.cs.Set(k, m, -accC.Sum())
		}
	}
}

// inverseSurface projects one surface: the theta sums of thetaSums are
// contracted with the toroidal tables, F = as^T tor + cs^T dtor. In 2D only
// n = 0 is formed and the C channels do not enter.
func (tr *Transformer) inverseSurface(f *RealSpaceForces, out *SpectralForces, j int, symmetric bool) {
	var (
		s  = tr.S
		fb = tr.Basis
		jl = j - f.NsMin
		w  = newInverseWork(s)
	)
	out.clearSurface(jl, symmetric)

	for _, fm := range families {
		if fm.symmetric() != symmetric || fm.unusedFamily(s.LAsym) {
			continue
		}
		if !s.LThreeD && fm.tor == basis.Sin {
			continue
		}
		if j == 0 && fm.field == FieldL {
			continue
		}
		tr.thetaSums(w, f, fm, j)
		w.fm.Mul(w.as.T(), fb.TorMatrix(fm.tor))
		if s.LThreeD {
			w.fn.Mul(w.cs.T(), fb.TorDerivMatrix(fm.tor))
			w.fm.Add(w.fm, w.fn)
		}
		dst := (*out.family(fm))[jl*s.MNSize : (jl+1)*s.MNSize]
		mat.NewDense(s.Mpol, s.Ntor+1, dst).Copy(w.fm)
	}
}
