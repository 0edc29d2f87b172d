// Package precision holds the extended-precision primitives used where force
// accumulation has to survive cancellation between nearly equal terms.
//
// Extended precision is a double-double: an unevaluated sum Hi+Lo of two
// float64 values with |Lo| <= ulp(Hi)/2, giving roughly 106 bits of
// significand. All error-free transforms are built on math.FMA.
package precision

import "math"

type DD struct {
	Hi, Lo float64
}

func FromFloat(x float64) DD { return DD{Hi: x} }

// Float64 rounds back to double
func (x DD) Float64() float64 { return x.Hi + x.Lo }

// TwoSum returns s, e with s = fl(a+b) and s+e == a+b exactly
func TwoSum(a, b float64) (s, e float64) {
	s = a + b
	bb := s - a
	e = (a - (s - bb)) + (b - bb)
	return
}

// quickTwoSum requires |a| >= |b|
func quickTwoSum(a, b float64) (s, e float64) {
	s = a + b
	e = b - (s - a)
	return
}

// TwoProd returns p, e with p = fl(a*b) and p+e == a*b exactly
func TwoProd(a, b float64) (p, e float64) {
	p = a * b
	e = math.FMA(a, b, -p)
	return
}

func (x DD) Neg() DD { return DD{Hi: -x.Hi, Lo: -x.Lo} }

func (x DD) Add(y DD) DD {
	s, e := TwoSum(x.Hi, y.Hi)
	t, f := TwoSum(x.Lo, y.Lo)
	e += t
	s, e = quickTwoSum(s, e)
	e += f
	s, e = quickTwoSum(s, e)
	return DD{Hi: s, Lo: e}
}

func (x DD) Sub(y DD) DD { return x.Add(y.Neg()) }

// AddFloat adds a double without first widening it
func (x DD) AddFloat(b float64) DD {
	s, e := TwoSum(x.Hi, b)
	e += x.Lo
	s, e = quickTwoSum(s, e)
	return DD{Hi: s, Lo: e}
}

func (x DD) Mul(y DD) DD {
	p, e := TwoProd(x.Hi, y.Hi)
	e += x.Hi*y.Lo + x.Lo*y.Hi
	p, e = quickTwoSum(p, e)
	return DD{Hi: p, Lo: e}
}

// Scale multiplies by a power of two exactly
func (x DD) Scale(f float64) DD { return DD{Hi: x.Hi * f, Lo: x.Lo * f} }

// Div uses three rounds of long division on the leading word
func (x DD) Div(y DD) DD {
	q1 := x.Hi / y.Hi
	r := x.Sub(y.Mul(FromFloat(q1)))
	q2 := r.Hi / y.Hi
	r = r.Sub(y.Mul(FromFloat(q2)))
	q3 := r.Hi / y.Hi
	q1, q2 = quickTwoSum(q1, q2)
	return DD{Hi: q1, Lo: q2}.AddFloat(q3)
}

// Diff returns a-b exactly as a double-double
func Diff(a, b float64) DD {
	s, e := TwoSum(a, -b)
	return DD{Hi: s, Lo: e}
}

// Prod returns a*b exactly as a double-double
func Prod(a, b float64) DD {
	p, e := TwoProd(a, b)
	return DD{Hi: p, Lo: e}
}
