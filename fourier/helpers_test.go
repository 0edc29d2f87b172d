package fourier

import (
	"math"
	"math/rand"
	"testing"

	"github.com/notargets/asymfourier/basis"
	"github.com/notargets/asymfourier/partitions"
	"github.com/notargets/asymfourier/sizes"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

type testSetup struct {
	s       *sizes.Sizes
	sqrtSF  []float64
	nsMin   int // geometry and force surfaces start here
	size    int
	workers int
	layout  partitions.PartitionStrategy

	compensated bool
}

func newTestTransformer(t *testing.T, ts testSetup) *Transformer {
	t.Helper()
	ns := len(ts.sqrtSF)
	rp, err := partitions.NewRadialPartition(ns, ts.nsMin, ns, ts.nsMin, ns)
	require.NoError(t, err)
	prof, err := NewProfiles(ts.sqrtSF)
	require.NoError(t, err)
	tr, err := NewTransformer(Config{
		Sizes:         ts.s,
		Partition:     rp,
		Profiles:      prof,
		Workers:       ts.workers,
		PartitionSize: ts.size,
		Strategy:      ts.layout,

		CompensatedSums: ts.compensated,
	})
	require.NoError(t, err)
	return tr
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func uniformSqrtS(ns int) []float64 {
	out := make([]float64, ns)
	for j := 1; j < ns; j++ {
		out[j] = math.Sqrt(float64(j) / float64(ns-1))
	}
	return out
}

// fillRandom sets every live entry of the selected fields. With axisRule
// set, surface 0 only gets m = 0 and no lambda, which is all the inverse
// transform can recover there.
func fillRandom(rng *rand.Rand, c *Coefficients, fields []Field, axisRule bool) {
	s := c.S
	for _, fm := range families {
		if fm.unusedFamily(s.LAsym) || !containsField(fields, fm.field) {
			continue
		}
		data := *c.family(fm)
		for jl := 0; jl < c.NumSurfaces; jl++ {
			j := c.NsMin + jl
			for m := 0; m < s.Mpol; m++ {
				for n := 0; n <= s.Ntor; n++ {
					if fm.unused(s.LThreeD, s.LAsym, m, n) {
						continue
					}
					if axisRule && j == 0 && (m > 0 || fm.field == FieldL) {
						continue
					}
					data[s.IndexMN(jl, m, n)] = (2*rng.Float64() - 1) / float64(1+m+n)
				}
			}
		}
	}
}

func containsField(fields []Field, f Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}

func cloneCoefficients(c *Coefficients) *Coefficients {
	out := NewCoefficients(c.S, c.NsMin, c.NumSurfaces)
	for _, fm := range families {
		copy(*out.family(fm), *c.family(fm))
	}
	return out
}

// scaleFamilies multiplies the symmetric or the asymmetric families
func scaleFamilies(c *Coefficients, symmetric bool, factor float64) {
	for _, fm := range families {
		if fm.symmetric() != symmetric {
			continue
		}
		for i := range *c.family(fm) {
			(*c.family(fm))[i] *= factor
		}
	}
}

func trig(t basis.Trig, x float64) (v, dv float64) {
	if t == basis.Cos {
		return math.Cos(x), -math.Sin(x)
	}
	return math.Sin(x), math.Cos(x)
}

// directEval sums every family of field at (theta, zeta) without any table,
// returning the value and its theta and zeta derivatives.
func directEval(fb *basis.FourierBasis, c *Coefficients, field Field, j int, theta, zeta float64) (v, vu, vv float64) {
	s := c.S
	for _, fm := range families {
		if fm.field != field {
			continue
		}
		for m := 0; m < s.Mpol; m++ {
			for n := 0; n <= s.Ntor; n++ {
				amp := fb.InternalToPhysical(m, n, c.Get(field, fm.pol, fm.tor, j, m, n))
				if amp == 0 {
					continue
				}
				nn := float64(n * s.NFP)
				pm, dpm := trig(fm.pol, float64(m)*theta)
				tn, dtn := trig(fm.tor, nn*zeta)
				v += amp * pm * tn
				vu += amp * float64(m) * dpm * tn
				vv += amp * pm * nn * dtn
			}
		}
	}
	return
}

// forcesFrom copies geometry quantities into force channels
func forcesFrom(tr *Transformer, g *RealSpaceGeometry, mapping map[Channel]Quantity) *RealSpaceForces {
	f := tr.NewForces()
	for c, q := range mapping {
		for p := range f.Data {
			copy(f.Data[p][c], g.Data[p][q])
		}
	}
	return f
}

func maxAbsDiff(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}
