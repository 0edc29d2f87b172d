package fourier

import (
	"github.com/notargets/asymfourier/basis"
	"github.com/notargets/asymfourier/sizes"
	"gonum.org/v1/gonum/mat"
)

// FourierToReal evaluates the stellarator-symmetric families (rmncc, rmnss,
// zmnsc, zmncs, lmnsc, lmncs) into g on the half grid theta in [0, pi].
// g is overwritten; points with theta > pi are left zero for
// SymmetrizeRealSpaceGeometry.
func (tr *Transformer) FourierToReal(c *Coefficients, g *RealSpaceGeometry) error {
	return tr.stage(StageForwardSymmetric, tr.geometryUnits, func() error {
		return tr.forward(StageForwardSymmetric, c, g, true)
	})
}

// FourierToRealAsymm evaluates the asymmetric families (rmnsc, rmncs, zmncc,
// zmnss, lmncc, lmnss) into g on the half grid. Each field uses the trig
// function opposite to its symmetric part in theta. g is overwritten; without
// lasym it is simply cleared.
func (tr *Transformer) FourierToRealAsymm(c *Coefficients, g *RealSpaceGeometry) error {
	return tr.stage(StageForwardAsymmetric, tr.geometryUnits, func() error {
		return tr.forward(StageForwardAsymmetric, c, g, false)
	})
}

func (tr *Transformer) forward(stage string, c *Coefficients, g *RealSpaceGeometry, symmetric bool) error {
	if err := tr.checkSizes("coefficients", c.S); err != nil {
		return err
	}
	if err := tr.checkSizes("geometry", g.S); err != nil {
		return err
	}
	if err := tr.checkGeometryRange("coefficients", c.NsMin, c.NumSurfaces); err != nil {
		return err
	}
	if err := tr.checkGeometryRange("geometry", g.NsMin, g.NumSurfaces); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := g.checkLengths(); err != nil {
		return err
	}

	if err := tr.forEachSurface(tr.geometryUnits, func(j int) {
		tr.forwardSurface(c, g, j, symmetric)
	}); err != nil {
		return err
	}
	return checkGeometryFinite(stage, g)
}

func (g *RealSpaceGeometry) clearSurface(jl int) {
	lo, hi := jl*g.S.NZnT, (jl+1)*g.S.NZnT
	for p := range g.Data {
		for q := range g.Data[p] {
			clear(g.Data[p][q][lo:hi])
		}
	}
}

// halfGridView views the theta in [0, pi] columns of one surface of data as a
// [NZeta, NThetaReduced] matrix sharing storage with data.
func halfGridView(s *sizes.Sizes, data []float64, jl int) *mat.Dense {
	full := mat.NewDense(s.NZeta, s.NThetaEff, data[jl*s.NZnT:(jl+1)*s.NZnT])
	return full.Slice(0, s.NZeta, 0, s.NThetaReduced).(*mat.Dense)
}

// forwardWork is the per-surface scratch of the forward transform
type forwardWork struct {
	cm    *mat.Dense // [Mpol, Ntor+1] coefficients of one m parity
	a, an *mat.Dense // [NZeta, Mpol] toroidal sums
	x     *mat.Dense // [NZeta, NThetaReduced]
}

func newForwardWork(s *sizes.Sizes) *forwardWork {
	return &forwardWork{
		cm: mat.NewDense(s.Mpol, s.Ntor+1, nil),
		a:  mat.NewDense(s.NZeta, s.Mpol, nil),
		an: mat.NewDense(s.NZeta, s.Mpol, nil),
		x:  mat.NewDense(s.NZeta, s.NThetaReduced, nil),
	}
}

// selectParity copies the rows of coef with m of parity par into cm, scaled,
// and zeroes the others. It reports whether any selected entry is nonzero.
func (w *forwardWork) selectParity(coef []float64, par Parity, scale float64) (nonZero bool) {
	r, nn := w.cm.Dims()
	for m := 0; m < r; m++ {
		row := w.cm.RawRowView(m)
		if Parity(m%2) != par {
			clear(row)
			continue
		}
		for n, v := range coef[m*nn : (m+1)*nn] {
			row[n] = v * scale
			nonZero = nonZero || v != 0
		}
	}
	return
}

// spread adds a * pol to dst
func (w *forwardWork) spread(dst, a *mat.Dense, pol mat.Matrix) {
	w.x.Mul(a, pol)
	dst.Add(dst, w.x)
}

// forwardSurface is the two-stage separable sum, done per m parity: the
// toroidal sums a = tor * c^T and an = dtor * c^T (one column per m) come
// first, then X += a * pol, Xu += a * dpol and Xv += an * pol spread them
// over theta. Odd m is scaled by 1/sqrt(s) into the odd accumulators. In 2D
// only n = 0 exists and the zeta derivatives stay zero.
func (tr *Transformer) forwardSurface(c *Coefficients, g *RealSpaceGeometry, j int, symmetric bool) {
	var (
		s     = tr.S
		fb    = tr.Basis
		jl    = j - g.NsMin
		w     = newForwardWork(s)
		scale = [2]float64{1., tr.Profiles.InvSqrtS(j)}
	)
	g.clearSurface(jl)

	for _, fm := range families {
		if fm.symmetric() != symmetric || fm.unusedFamily(s.LAsym) {
			continue
		}
		if !s.LThreeD && fm.tor == basis.Sin {
			continue
		}
		coef := (*c.family(fm))[jl*s.MNSize : (jl+1)*s.MNSize]
		qv, qu, qz := geometryQuantities(fm.field)
		for par := Even; par <= Odd; par++ {
			if !w.selectParity(coef, par, scale[par]) {
				continue
			}
			w.a.Mul(fb.TorMatrix(fm.tor), w.cm.T())
			w.spread(halfGridView(s, g.Data[par][qv], jl), w.a, fb.PolMatrix(fm.pol))
			w.spread(halfGridView(s, g.Data[par][qu], jl), w.a, fb.PolDerivMatrix(fm.pol))
			if s.LThreeD {
				w.an.Mul(fb.TorDerivMatrix(fm.tor), w.cm.T())
				w.spread(halfGridView(s, g.Data[par][qz], jl), w.an, fb.PolMatrix(fm.pol))
			}
		}
	}
}
