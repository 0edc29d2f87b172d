// Package basis builds the trigonometric tables shared by every transform.
//
// Poloidal tables have one row per mode m and one column per point of the
// half grid theta in [0, pi]; toroidal tables have one row per point k and one
// column per mode n. Both carry the mode normalization mscale(m), nscale(n)
// (1 for the zero mode, sqrt(2) otherwise), so the basis functions are
// orthonormal under the discrete average over the full (theta, zeta) grid.
package basis

import (
	"math"

	"github.com/notargets/asymfourier/sizes"
	"gonum.org/v1/gonum/mat"
)

// Trig selects the cosine or sine member of a table pair
type Trig uint8

const (
	Cos Trig = iota
	Sin
)

// Partner returns the opposite trig function
func (t Trig) Partner() Trig { return 1 - t }

func (t Trig) String() string {
	if t == Cos {
		return "cos"
	}
	return "sin"
}

type FourierBasis struct {
	S *sizes.Sizes

	MScale []float64 // len Mpol
	NScale []float64 // len Ntor+1

	// [Mpol, NThetaReduced]
	CosMU, SinMU   *mat.Dense // cos(m theta), sin(m theta)
	CosMUM, SinMUM *mat.Dense // d/dtheta of sin(m theta), cos(m theta)
	CosMUI, SinMUI *mat.Dense // integration weights
	CosMUMI        *mat.Dense // m * CosMUI
	SinMUMI        *mat.Dense // -m * SinMUI

	// [NZeta, Ntor+1]
	CosNV, SinNV   *mat.Dense // cos(n nfp zeta), sin(n nfp zeta)
	CosNVN, SinNVN *mat.Dense // d/dzeta of sin(n nfp zeta), cos(n nfp zeta)
}

// NewFourierBasis builds the tables for s. s must come from sizes.New; a nil
// or hand-built inconsistent Sizes is a programming error and panics.
func NewFourierBasis(s *sizes.Sizes) (fb *FourierBasis) {
	if s == nil || s.NThetaReduced < 2 || s.NZeta < 1 || s.Mpol < 1 {
		panic("basis: invalid sizes")
	}
	var (
		mpol  = s.Mpol
		ntor  = s.Ntor
		nth2  = s.NThetaReduced
		nzeta = s.NZeta
	)
	fb = &FourierBasis{
		S:       s,
		MScale:  make([]float64, mpol),
		NScale:  make([]float64, ntor+1),
		CosMU:   mat.NewDense(mpol, nth2, nil),
		SinMU:   mat.NewDense(mpol, nth2, nil),
		CosMUM:  mat.NewDense(mpol, nth2, nil),
		SinMUM:  mat.NewDense(mpol, nth2, nil),
		CosMUI:  mat.NewDense(mpol, nth2, nil),
		SinMUI:  mat.NewDense(mpol, nth2, nil),
		CosMUMI: mat.NewDense(mpol, nth2, nil),
		SinMUMI: mat.NewDense(mpol, nth2, nil),
		CosNV:   mat.NewDense(nzeta, ntor+1, nil),
		SinNV:   mat.NewDense(nzeta, ntor+1, nil),
		CosNVN:  mat.NewDense(nzeta, ntor+1, nil),
		SinNVN:  mat.NewDense(nzeta, ntor+1, nil),
	}
	for m := range fb.MScale {
		fb.MScale[m] = modeScale(m)
	}
	for n := range fb.NScale {
		fb.NScale[n] = modeScale(n)
	}

	// Trapezoidal weights on [0, pi]; the two end points are their own mirror
	dnorm := 1. / float64(nzeta*(nth2-1))
	for m := 0; m < mpol; m++ {
		fm := float64(m)
		for l := 0; l < nth2; l++ {
			theta := 2. * math.Pi * float64(l) / float64(s.NThetaEven)
			c := math.Cos(fm*theta) * fb.MScale[m]
			sn := math.Sin(fm*theta) * fb.MScale[m]
			w := dnorm
			if l == 0 || l == nth2-1 {
				w *= 0.5
			}
			fb.CosMU.Set(m, l, c)
			fb.SinMU.Set(m, l, sn)
			fb.CosMUM.Set(m, l, fm*c)
			fb.SinMUM.Set(m, l, -fm*sn)
			fb.CosMUI.Set(m, l, c*w)
			fb.SinMUI.Set(m, l, sn*w)
			fb.CosMUMI.Set(m, l, fm*c*w)
			fb.SinMUMI.Set(m, l, -fm*sn*w)
		}
	}
	for k := 0; k < nzeta; k++ {
		// n*nfp*zeta_k with zeta_k = 2 pi k / (nfp nzeta)
		arg := 2. * math.Pi * float64(k) / float64(nzeta)
		for n := 0; n <= ntor; n++ {
			fn := float64(n)
			c := math.Cos(fn*arg) * fb.NScale[n]
			sn := math.Sin(fn*arg) * fb.NScale[n]
			nn := fn * float64(s.NFP)
			fb.CosNV.Set(k, n, c)
			fb.SinNV.Set(k, n, sn)
			fb.CosNVN.Set(k, n, nn*c)
			fb.SinNVN.Set(k, n, -nn*sn)
		}
	}
	return
}

func modeScale(m int) float64 {
	if m == 0 {
		return 1.
	}
	return math.Sqrt2
}

// PolMatrix is cosmu or sinmu
func (fb *FourierBasis) PolMatrix(t Trig) *mat.Dense {
	if t == Cos {
		return fb.CosMU
	}
	return fb.SinMU
}

// PolDerivMatrix is the theta derivative of the t-family basis:
// d/dtheta cos -> sinmum, d/dtheta sin -> cosmum.
func (fb *FourierBasis) PolDerivMatrix(t Trig) *mat.Dense {
	if t == Cos {
		return fb.SinMUM
	}
	return fb.CosMUM
}

// PolIntMatrix is cosmui or sinmui
func (fb *FourierBasis) PolIntMatrix(t Trig) *mat.Dense {
	if t == Cos {
		return fb.CosMUI
	}
	return fb.SinMUI
}

// PolDerivIntMatrix is PolDerivMatrix with integration weights folded in
func (fb *FourierBasis) PolDerivIntMatrix(t Trig) *mat.Dense {
	if t == Cos {
		return fb.SinMUMI
	}
	return fb.CosMUMI
}

// TorMatrix is cosnv or sinnv
func (fb *FourierBasis) TorMatrix(t Trig) *mat.Dense {
	if t == Cos {
		return fb.CosNV
	}
	return fb.SinNV
}

// TorDerivMatrix is the zeta derivative of the t-family basis:
// d/dzeta cos -> sinnvn, d/dzeta sin -> cosnvn.
func (fb *FourierBasis) TorDerivMatrix(t Trig) *mat.Dense {
	if t == Cos {
		return fb.SinNVN
	}
	return fb.CosNVN
}

// Pol returns row m of PolMatrix
func (fb *FourierBasis) Pol(t Trig, m int) []float64 { return fb.PolMatrix(t).RawRowView(m) }

// PolDeriv returns row m of PolDerivMatrix
func (fb *FourierBasis) PolDeriv(t Trig, m int) []float64 { return fb.PolDerivMatrix(t).RawRowView(m) }

// PolInt returns row m of PolIntMatrix
func (fb *FourierBasis) PolInt(t Trig, m int) []float64 { return fb.PolIntMatrix(t).RawRowView(m) }

// PolDerivInt returns row m of PolDerivIntMatrix
func (fb *FourierBasis) PolDerivInt(t Trig, m int) []float64 {
	return fb.PolDerivIntMatrix(t).RawRowView(m)
}

// Tor returns row k (all n) of TorMatrix
func (fb *FourierBasis) Tor(t Trig, k int) []float64 { return fb.TorMatrix(t).RawRowView(k) }

// TorDeriv returns row k of TorDerivMatrix
func (fb *FourierBasis) TorDeriv(t Trig, k int) []float64 { return fb.TorDerivMatrix(t).RawRowView(k) }

// PhysicalToInternal converts an amplitude of cos/sin(m theta) cos/sin(n zeta)
// into the coefficient of the normalized basis.
func (fb *FourierBasis) PhysicalToInternal(m, n int, amplitude float64) float64 {
	return amplitude / (fb.MScale[m] * fb.NScale[n])
}

// InternalToPhysical is the inverse of PhysicalToInternal
func (fb *FourierBasis) InternalToPhysical(m, n int, coefficient float64) float64 {
	return coefficient * fb.MScale[m] * fb.NScale[n]
}
