package precision

import (
	"github.com/notargets/asymfourier/utils"
)

// Accumulator is a running compensated sum
type Accumulator struct {
	sum DD
}

func (acc *Accumulator) Add(v float64) { acc.sum = acc.sum.AddFloat(v) }

// AddProduct accumulates a*b with the product error kept
func (acc *Accumulator) AddProduct(a, b float64) { acc.sum = acc.sum.Add(Prod(a, b)) }

func (acc *Accumulator) Sum() float64 { return acc.sum.Float64() }

func (acc *Accumulator) Extended() DD { return acc.sum }

func (acc *Accumulator) Reset() { acc.sum = DD{} }

// CompensatedSum sums values with the running error carried in the low word
// of a double-double, so the result is the correctly rounded sum except in
// pathological cancellation.
func CompensatedSum(values []float64) float64 {
	var acc Accumulator
	for _, v := range values {
		acc.Add(v)
	}
	return acc.Sum()
}

// HighPrecisionDotProduct forms each product exactly and sums compensated
func HighPrecisionDotProduct(a, b []float64) (float64, error) {
	if err := utils.CheckLength("b", b, len(a)); err != nil {
		return 0, err
	}
	var acc Accumulator
	for i := range a {
		acc.AddProduct(a[i], b[i])
	}
	return acc.Sum(), nil
}
