package precision

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/notargets/asymfourier/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oraclePrec = 256

func bf(x float64) *big.Float { return new(big.Float).SetPrec(oraclePrec).SetFloat64(x) }

func ulp(x float64) float64 {
	x = math.Abs(x)
	return math.Nextafter(x, math.Inf(1)) - x
}

func TestErrorFreeTransforms(t *testing.T) {
	a, b := 1.+math.Ldexp(1, -30), 1.-math.Ldexp(1, -30)
	p, e := TwoProd(a, b)
	exact := new(big.Float).SetPrec(oraclePrec).Mul(bf(a), bf(b))
	got := new(big.Float).SetPrec(oraclePrec).Add(bf(p), bf(e))
	assert.Zero(t, exact.Cmp(got))
	assert.NotZero(t, e)

	s, e := TwoSum(1., math.Ldexp(1, -60))
	assert.Equal(t, 1., s)
	assert.Equal(t, math.Ldexp(1, -60), e)
}

func TestDoubleDoubleDivision(t *testing.T) {
	x := Diff(1., math.Ldexp(1, -70))
	q := x.Div(FromFloat(3.))
	back := q.Mul(FromFloat(3.))
	r := back.Sub(x)
	assert.Less(t, math.Abs(r.Float64()), 1.e-30)
}

func TestCompensatedSumAccuracy(t *testing.T) {
	const n = 1000000
	values := make([]float64, n)
	naive := 0.
	for i := range values {
		values[i] = 1.e-10
		naive += values[i]
	}
	got := CompensatedSum(values)
	errComp := math.Abs(got - 1.e-4)
	errNaive := math.Abs(naive - 1.e-4)
	assert.LessOrEqual(t, errComp, 1.e-12)
	assert.Less(t, errComp, errNaive)
}

func TestCompensatedSumMixedMagnitudes(t *testing.T) {
	values := []float64{1.e16, 1., -1.e16, 1.}
	assert.Equal(t, 2., CompensatedSum(values))
	assert.Equal(t, 0., CompensatedSum(nil))
}

func TestCompensatedSum_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("N equal terms sum to N*v within a few ulp", prop.ForAll(
		func(v float64, n int) bool {
			values := make([]float64, n)
			for i := range values {
				values[i] = v
			}
			got := CompensatedSum(values)
			exact, _ := new(big.Float).SetPrec(oraclePrec).Mul(bf(v), bf(float64(n))).Float64()
			return math.Abs(got-exact) <= 2*ulp(exact)
		},
		gen.Float64Range(-1.e3, 1.e3),
		gen.IntRange(1, 20000),
	))
	properties.TestingRun(t)
}

func TestHighPrecisionDotProduct(t *testing.T) {
	a := []float64{1.e8, 3., -1.e8, 0.1}
	b := []float64{1., 1. / 3., 1., 10.}
	got, err := HighPrecisionDotProduct(a, b)
	require.NoError(t, err)

	oracle := new(big.Float).SetPrec(oraclePrec)
	for i := range a {
		oracle.Add(oracle, new(big.Float).SetPrec(oraclePrec).Mul(bf(a[i]), bf(b[i])))
	}
	want, _ := oracle.Float64()
	assert.InDelta(t, want, got, 2*ulp(want))

	_, err = HighPrecisionDotProduct(a, b[:2])
	var ve *utils.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func radialOracle(in RadialForceTerms) (float64, float64) {
	half := bf(0.5)
	fd := new(big.Float).SetPrec(oraclePrec).Sub(bf(in.ZupO), bf(in.ZupI))
	fd.Quo(fd, bf(in.DeltaS))
	pr := new(big.Float).SetPrec(oraclePrec).Add(bf(in.TaupO), bf(in.TaupI))
	pr.Mul(pr, half)
	m1 := new(big.Float).SetPrec(oraclePrec).Add(bf(in.GbvbvO), bf(in.GbvbvI))
	m1.Mul(m1, half).Mul(m1, bf(in.R1Even))
	m2 := new(big.Float).SetPrec(oraclePrec).Mul(bf(in.GbvbvO), bf(in.SqrtSHO))
	m2.Add(m2, new(big.Float).SetPrec(oraclePrec).Mul(bf(in.GbvbvI), bf(in.SqrtSHI)))
	m2.Mul(m2, half).Mul(m2, bf(in.R1Odd))

	scale := 0.
	for _, term := range []*big.Float{fd, pr, m1, m2} {
		f, _ := term.Float64()
		scale = math.Max(scale, math.Abs(f))
	}
	res := new(big.Float).SetPrec(oraclePrec).Add(fd, pr)
	res.Sub(res, m1).Sub(res, m2)
	out, _ := res.Float64()
	return out, scale
}

func TestCalculateHighPrecisionRadialForce(t *testing.T) {
	tests := []struct {
		name string
		in   RadialForceTerms
	}{
		{"generic", RadialForceTerms{
			ZupO: 0.731, ZupI: 0.729, TaupO: 1.2, TaupI: 1.1,
			GbvbvO: 0.4, GbvbvI: 0.39, R1Even: 1.3, R1Odd: 0.02,
			DeltaS: 0.25, SqrtSHO: 0.8, SqrtSHI: 0.7}},
		{"near cancellation", RadialForceTerms{
			ZupO: 1. + math.Ldexp(1, -45), ZupI: 1., TaupO: 1.e-3, TaupI: 1.e-3,
			GbvbvO: 1.e-3, GbvbvI: 1.e-3, R1Even: 1., R1Odd: 0.,
			DeltaS: 1. / 3., SqrtSHO: 1., SqrtSHI: 1.}},
		{"axis neighbours", RadialForceTerms{
			ZupO: -2.5e-3, ZupI: 0., TaupO: 3., TaupI: 0.,
			GbvbvO: 7., GbvbvI: 0., R1Even: 10., R1Odd: 0.1,
			DeltaS: 1. / 49., SqrtSHO: math.Sqrt(0.5 / 49.), SqrtSHI: 0.}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, scale := radialOracle(tt.in)
			got := CalculateHighPrecisionRadialForce(tt.in)
			assert.InDelta(t, want, got, ulp(want)+1.e-28*scale)
		})
	}
}

func TestCalculateHighPrecisionVerticalForce(t *testing.T) {
	rupO, rupI, ds := 2.+math.Ldexp(1, -40), 2., 1./7.
	want := new(big.Float).SetPrec(oraclePrec).Sub(bf(rupO), bf(rupI))
	want.Quo(want, bf(ds)).Neg(want)
	w, _ := want.Float64()
	assert.InDelta(t, w, CalculateHighPrecisionVerticalForce(rupO, rupI, ds), ulp(w))
	assert.Equal(t, 0., CalculateHighPrecisionVerticalForce(1.5, 1.5, 0.1))
}
