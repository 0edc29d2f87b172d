package precision

// RadialForceTerms are the half-grid neighbours entering the radial force A_R
// at one full-grid point. _o and _i denote the outer and inner half-surface.
type RadialForceTerms struct {
	ZupO, ZupI     float64 // Z derivative
	TaupO, TaupI   float64 // pressure times tau
	GbvbvO, GbvbvI float64 // magnetic pressure
	R1Even, R1Odd  float64
	DeltaS         float64
	SqrtSHO        float64
	SqrtSHI        float64
}

// CalculateHighPrecisionRadialForce evaluates
//
//	(zup_o - zup_i)/ds + (taup_o + taup_i)/2
//	  - (gbvbv_o + gbvbv_i)/2 * r1_e
//	  - (gbvbv_o*sqrtSH_o + gbvbv_i*sqrtSH_i)/2 * r1_o
//
// entirely in double-double and rounds once at the end.
func CalculateHighPrecisionRadialForce(t RadialForceTerms) float64 {
	ds := FromFloat(t.DeltaS)

	finiteDiff := Diff(t.ZupO, t.ZupI).Div(ds)
	pressure := FromFloat(t.TaupO).AddFloat(t.TaupI).Scale(0.5)

	gSum := FromFloat(t.GbvbvO).AddFloat(t.GbvbvI).Scale(0.5)
	magEven := gSum.Mul(FromFloat(t.R1Even))

	gWeighted := Prod(t.GbvbvO, t.SqrtSHO).Add(Prod(t.GbvbvI, t.SqrtSHI)).Scale(0.5)
	magOdd := gWeighted.Mul(FromFloat(t.R1Odd))

	return finiteDiff.Add(pressure).Sub(magEven).Sub(magOdd).Float64()
}

// CalculateHighPrecisionVerticalForce evaluates -(rup_o - rup_i)/ds
func CalculateHighPrecisionVerticalForce(rupO, rupI, deltaS float64) float64 {
	return Diff(rupO, rupI).Div(FromFloat(deltaS)).Neg().Float64()
}
