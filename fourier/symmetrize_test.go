package fourier

import (
	"math/rand"
	"testing"

	"github.com/notargets/asymfourier/sizes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionParityWithoutAsymmetricInput(t *testing.T) {
	s := sizes.MustNew(true, 2, 4, 2, 10, 5)
	tr := newTestTransformer(t, testSetup{s: s, sqrtSF: uniformSqrtS(3)})
	c := tr.NewCoefficients()
	fillRandom(rand.New(rand.NewSource(1)), c, []Field{FieldR, FieldZ, FieldL}, false)
	scaleFamilies(c, false, 0)

	g, err := tr.GeometryFromSpectrum(c)
	require.NoError(t, err)
	nth := s.NThetaEven
	for jl := 0; jl < g.NumSurfaces; jl++ {
		for q := Quantity(0); q < NumQuantities; q++ {
			p := reflectionParity[q]
			for par := Even; par <= Odd; par++ {
				x := g.Get(q, par)[jl*s.NZnT : (jl+1)*s.NZnT]
				for k := 0; k < s.NZeta; k++ {
					kr := (s.NZeta - k) % s.NZeta
					for l := 1; l < nth; l++ {
						assert.InDelta(t, p*x[kr*nth+nth-l], x[k*nth+l], 1.e-12,
							"%v %v jl=%d k=%d l=%d", q, par, jl, k, l)
					}
				}
			}
		}
	}
}

func TestExtensionIsNoOpWithoutLasym(t *testing.T) {
	s := sizes.MustNew(false, 1, 3, 0, 8, 1)
	tr := newTestTransformer(t, testSetup{s: s, sqrtSF: ones(2)})
	sym, asym := tr.NewGeometry(), tr.NewGeometry()
	sym.Data[Even][R1][0] = 2
	asym.Data[Even][R1][0] = 3
	require.NoError(t, tr.SymmetrizeRealSpaceGeometry(sym, asym))
	assert.Equal(t, 2., sym.Data[Even][R1][0])
}

// polarityMapping feeds each force channel a geometry quantity whose
// symmetric part has the channel's polarity.
var polarityMapping = map[Channel]Quantity{
	Armn: R1, Brmn: Ru, Crmn: Rv,
	Azmn: Z1, Bzmn: Zu, Czmn: Zv,
	Blmn: L1, Clmn: Lv,
}

func halfGrid(s *sizes.Sizes, data []float64) []float64 {
	var out []float64
	for jk := 0; jk < len(data)/s.NThetaEff; jk++ {
		out = append(out, data[jk*s.NThetaEff:jk*s.NThetaEff+s.NThetaReduced]...)
	}
	return out
}

func TestForcePolarity(t *testing.T) {
	s := sizes.MustNew(true, 3, 3, 2, 8, 5)
	tr := newTestTransformer(t, testSetup{s: s, sqrtSF: uniformSqrtS(3), size: 1, workers: 2})
	c := tr.NewCoefficients()
	fillRandom(rand.New(rand.NewSource(21)), c, []Field{FieldR, FieldZ, FieldL}, false)

	symOnly, asymOnly := cloneCoefficients(c), cloneCoefficients(c)
	scaleFamilies(symOnly, false, 0)
	scaleFamilies(asymOnly, true, 0)
	gSym, err := tr.GeometryFromSpectrum(symOnly)
	require.NoError(t, err)
	gAsym, err := tr.GeometryFromSpectrum(asymOnly)
	require.NoError(t, err)

	split := func(c *Coefficients) (*RealSpaceForces, *RealSpaceForces) {
		g, err := tr.GeometryFromSpectrum(c)
		require.NoError(t, err)
		f, fa := forcesFrom(tr, g, polarityMapping), tr.NewForces()
		require.NoError(t, tr.SymmetrizeForces(f, fa))
		return f, fa
	}

	f, fa := split(c)
	flipped := cloneCoefficients(c)
	scaleFamilies(flipped, false, -1)
	ff, ffa := split(flipped)

	for ch, q := range polarityMapping {
		for par := Even; par <= Odd; par++ {
			wantSym := halfGrid(s, gSym.Get(q, par))
			wantAsym := halfGrid(s, gAsym.Get(q, par))
			assert.InDeltaSlice(t, wantSym, halfGrid(s, f.Get(ch, par)), 1.e-12, "%v %v symmetric", ch, par)
			assert.InDeltaSlice(t, wantAsym, halfGrid(s, fa.Get(ch, par)), 1.e-12, "%v %v antisymmetric", ch, par)

			// flipping the asymmetric input flips only the antisymmetric output
			assert.InDeltaSlice(t, halfGrid(s, f.Get(ch, par)), halfGrid(s, ff.Get(ch, par)), 1.e-12, "%v %v", ch, par)
			negated := halfGrid(s, fa.Get(ch, par))
			for i := range negated {
				negated[i] = -negated[i]
			}
			assert.InDeltaSlice(t, negated, halfGrid(s, ffa.Get(ch, par)), 1.e-12, "%v %v", ch, par)
		}
	}
}

func TestSymmetrizeForcesSelfMirrorRows(t *testing.T) {
	// a constant field has no antisymmetric part for even polarity and no
	// symmetric part for odd polarity, including on rows l = 0 and l = N/2
	s := sizes.MustNew(true, 1, 2, 1, 4, 3)
	tr := newTestTransformer(t, testSetup{s: s, sqrtSF: ones(1)})
	f, fa := tr.NewForces(), tr.NewForces()
	for p := range f.Data {
		for c := range f.Data[p] {
			for i := range f.Data[p][c] {
				f.Data[p][c][i] = 1
			}
		}
	}
	require.NoError(t, tr.SymmetrizeForces(f, fa))
	for c := Channel(0); c < NumChannels; c++ {
		wantSym, wantAsym := 1., 0.
		if symmetricPolarity[c] < 0 {
			wantSym, wantAsym = 0., 1.
		}
		for _, v := range halfGrid(s, f.Get(c, Even)) {
			assert.Equal(t, wantSym, v, c.String())
		}
		for _, v := range halfGrid(s, fa.Get(c, Odd)) {
			assert.Equal(t, wantAsym, v, c.String())
		}
	}
}

func TestSymmetrizeForcesWithoutLasym(t *testing.T) {
	s := sizes.MustNew(false, 1, 2, 0, 8, 1)
	tr := newTestTransformer(t, testSetup{s: s, sqrtSF: ones(1)})
	f, fa := tr.NewForces(), tr.NewForces()
	f.Data[Even][Armn][1] = 5
	fa.Data[Even][Armn][1] = 7
	require.NoError(t, tr.SymmetrizeForces(f, fa))
	assert.Equal(t, 5., f.Data[Even][Armn][1])
	assert.Equal(t, 0., fa.Data[Even][Armn][1])
}
