package basis

import (
	"fmt"
	"math"
	"testing"

	"github.com/notargets/asymfourier/sizes"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// TestPoloidalOrthonormality checks that the integration weights invert the
// poloidal basis: the weighted half-grid sum of two even products equals the
// full-grid average, so sum_l cosmui(m) cosmu(m') = delta / nzeta.
func TestPoloidalOrthonormality(t *testing.T) {
	for _, nth := range []int{8, 16, 18} {
		s := sizes.MustNew(true, 1, nth/2, 1, nth, 3)
		fb := NewFourierBasis(s)
		t.Run(fmt.Sprintf("ntheta=%d", nth), func(t *testing.T) {
			nz := float64(s.NZeta)
			for m := 0; m < s.Mpol; m++ {
				for mp := 0; mp < s.Mpol; mp++ {
					var cc, ss float64
					ci, si := fb.PolInt(Cos, m), fb.PolInt(Sin, m)
					c, sn := fb.Pol(Cos, mp), fb.Pol(Sin, mp)
					for l := 0; l < s.NThetaReduced; l++ {
						cc += ci[l] * c[l]
						ss += si[l] * sn[l]
					}
					wantCC, wantSS := 0., 0.
					if m == mp {
						wantCC = 1.
						if m > 0 {
							wantSS = 1.
						}
					}
					assert.InDelta(t, wantCC, cc*nz, 1.e-13, "cos m=%d m'=%d", m, mp)
					assert.InDelta(t, wantSS, ss*nz, 1.e-13, "sin m=%d m'=%d", m, mp)
				}
			}
		})
	}
}

func TestToroidalOrthonormality(t *testing.T) {
	s := sizes.MustNew(true, 5, 2, 3, 8, 7)
	fb := NewFourierBasis(s)
	for n := 0; n <= s.Ntor; n++ {
		for np := 0; np <= s.Ntor; np++ {
			var cc, ss float64
			for k := 0; k < s.NZeta; k++ {
				cc += fb.Tor(Cos, k)[n] * fb.Tor(Cos, k)[np]
				ss += fb.Tor(Sin, k)[n] * fb.Tor(Sin, k)[np]
			}
			cc /= float64(s.NZeta)
			ss /= float64(s.NZeta)
			wantCC, wantSS := 0., 0.
			if n == np {
				wantCC = 1.
				if n > 0 {
					wantSS = 1.
				}
			}
			assert.InDelta(t, wantCC, cc, 1.e-13)
			assert.InDelta(t, wantSS, ss, 1.e-13)
		}
	}
}

func TestDerivativeTables(t *testing.T) {
	s := sizes.MustNew(true, 3, 4, 2, 12, 5)
	fb := NewFourierBasis(s)
	for m := 0; m < s.Mpol; m++ {
		for l := 0; l < s.NThetaReduced; l++ {
			theta := 2. * math.Pi * float64(l) / float64(s.NThetaEven)
			fm := float64(m)
			// d/dtheta cos(m theta) = -m sin(m theta)
			assert.InDelta(t, -fm*math.Sin(fm*theta)*fb.MScale[m], fb.PolDeriv(Cos, m)[l], 1.e-14)
			assert.InDelta(t, fm*math.Cos(fm*theta)*fb.MScale[m], fb.PolDeriv(Sin, m)[l], 1.e-14)
			assert.InDelta(t, fm*fb.PolInt(Cos, m)[l], fb.PolDerivInt(Sin, m)[l], 1.e-16)
			assert.InDelta(t, -fm*fb.PolInt(Sin, m)[l], fb.PolDerivInt(Cos, m)[l], 1.e-16)
		}
	}
	for k := 0; k < s.NZeta; k++ {
		zeta := 2. * math.Pi * float64(k) / float64(s.NFP*s.NZeta)
		for n := 0; n <= s.Ntor; n++ {
			nn := float64(n * s.NFP)
			assert.InDelta(t, math.Cos(nn*zeta)*fb.NScale[n], fb.Tor(Cos, k)[n], 1.e-14)
			assert.InDelta(t, -nn*math.Sin(nn*zeta)*fb.NScale[n], fb.TorDeriv(Cos, k)[n], 1.e-13)
			assert.InDelta(t, nn*math.Cos(nn*zeta)*fb.NScale[n], fb.TorDeriv(Sin, k)[n], 1.e-13)
		}
	}
}

func TestNormalization(t *testing.T) {
	s := sizes.MustNew(true, 1, 3, 1, 16, 3)
	fb := NewFourierBasis(s)
	assert.Equal(t, 1., fb.MScale[0])
	assert.Equal(t, math.Sqrt2, fb.MScale[2])
	assert.InDelta(t, 0.3/2, fb.PhysicalToInternal(1, 1, 0.3), 1.e-15)
	assert.InDelta(t, 0.3, fb.InternalToPhysical(1, 1, fb.PhysicalToInternal(1, 1, 0.3)), 1.e-15)
	assert.Equal(t, Sin, Cos.Partner())
	assert.Panics(t, func() { NewFourierBasis(nil) })
}

func TestMatrixAccessors(t *testing.T) {
	s := sizes.MustNew(true, 2, 4, 2, 12, 5)
	fb := NewFourierBasis(s)
	for _, tr := range []Trig{Cos, Sin} {
		for _, m := range []*mat.Dense{fb.PolMatrix(tr), fb.PolDerivMatrix(tr), fb.PolIntMatrix(tr), fb.PolDerivIntMatrix(tr)} {
			r, c := m.Dims()
			assert.Equal(t, s.Mpol, r)
			assert.Equal(t, s.NThetaReduced, c)
		}
		for _, m := range []*mat.Dense{fb.TorMatrix(tr), fb.TorDerivMatrix(tr)} {
			r, c := m.Dims()
			assert.Equal(t, s.NZeta, r)
			assert.Equal(t, s.Ntor+1, c)
		}
		assert.Equal(t, fb.PolMatrix(tr).RawRowView(3), fb.Pol(tr, 3))
		assert.Equal(t, fb.TorDerivMatrix(tr).RawRowView(4), fb.TorDeriv(tr, 4))
	}
	// sin(m theta) at m = 0 and sin(n zeta) at n = 0 are exact zero rows/columns
	assert.Equal(t, make([]float64, s.NThetaReduced), fb.Pol(Sin, 0))
	assert.Equal(t, make([]float64, s.NZeta), mat.Col(nil, 0, fb.TorMatrix(Sin)))
	assert.Equal(t, make([]float64, s.NZeta), mat.Col(nil, 0, fb.TorDerivMatrix(Cos)))
}
