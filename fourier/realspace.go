package fourier

import (
	"github.com/notargets/asymfourier/sizes"
	"github.com/notargets/asymfourier/utils"
)

// Parity selects the even-m or odd-m accumulator. Odd-m contributions are
// stored divided by sqrt(s); the physical value is Even + sqrt(s)*Odd.
type Parity uint8

const (
	Even Parity = iota
	Odd
)

func (p Parity) String() string {
	if p == Even {
		return "even"
	}
	return "odd"
}

// Quantity is a real-space geometry output
type Quantity uint8

const (
	R1 Quantity = iota // R
	Ru                 // dR/dtheta
	Rv                 // dR/dzeta
	Z1
	Zu
	Zv
	L1 // lambda
	Lu
	Lv
	NumQuantities
)

var quantityNames = [NumQuantities]string{"r1", "ru", "rv", "z1", "zu", "zv", "lambda", "lu", "lv"}

func (q Quantity) String() string { return quantityNames[q] }

// reflectionParity is the sign picked up by the stellarator-symmetric part
// under (theta, zeta) -> (-theta, -zeta). The asymmetric part carries the
// opposite sign.
var reflectionParity = [NumQuantities]float64{
	R1: 1, Ru: -1, Rv: -1,
	Z1: -1, Zu: 1, Zv: 1,
	L1: -1, Lu: 1, Lv: 1,
}

// geometryQuantities maps a field to its value, theta and zeta derivative
func geometryQuantities(f Field) (val, du, dv Quantity) {
	switch f {
	case FieldR:
		return R1, Ru, Rv
	case FieldZ:
		return Z1, Zu, Zv
	default:
		return L1, Lu, Lv
	}
}

// RealSpaceGeometry holds R, Z, lambda and their angular derivatives on
// NumSurfaces surfaces starting at NsMin, indexed by sizes.IndexKL.
type RealSpaceGeometry struct {
	S           *sizes.Sizes
	NsMin       int
	NumSurfaces int

	Data [2][NumQuantities][]float64 // [Parity][Quantity]
}

func NewRealSpaceGeometry(s *sizes.Sizes, nsMin, numSurfaces int) *RealSpaceGeometry {
	g := &RealSpaceGeometry{S: s, NsMin: nsMin, NumSurfaces: numSurfaces}
	for p := range g.Data {
		for q := range g.Data[p] {
			g.Data[p][q] = make([]float64, numSurfaces*s.NZnT)
		}
	}
	return g
}

// Get returns the accumulator for q
func (g *RealSpaceGeometry) Get(q Quantity, p Parity) []float64 { return g.Data[p][q] }

// Physical combines both accumulators at global surface j, grid point (k, l)
func (g *RealSpaceGeometry) Physical(prof *Profiles, q Quantity, j, k, l int) float64 {
	i := g.S.IndexKL(j-g.NsMin, k, l)
	return g.Data[Even][q][i] + prof.SqrtS(j)*g.Data[Odd][q][i]
}

func (g *RealSpaceGeometry) checkLengths() error {
	want := g.NumSurfaces * g.S.NZnT
	for p := range g.Data {
		for q := range g.Data[p] {
			if err := utils.CheckLength(Quantity(q).String()+"_"+Parity(p).String(), g.Data[p][q], want); err != nil {
				return err
			}
		}
	}
	return nil
}

// Channel is one of the eight real-space force components. A multiplies the
// basis function, B its theta derivative and C its zeta derivative.
type Channel uint8

const (
	Armn Channel = iota
	Brmn
	Crmn
	Azmn
	Bzmn
	Czmn
	Blmn
	Clmn
	NumChannels
)

var channelNames = [NumChannels]string{"armn", "brmn", "crmn", "azmn", "bzmn", "czmn", "blmn", "clmn"}

func (c Channel) String() string { return channelNames[c] }

// symmetricPolarity is +1 when the symmetric part of a channel is
// (f + f_rev)/2 and -1 when it is (f - f_rev)/2.
var symmetricPolarity = [NumChannels]float64{
	Armn: 1, Bzmn: 1, Czmn: 1, Clmn: 1,
	Brmn: -1, Azmn: -1, Blmn: -1, Crmn: -1,
}

// forceChannels maps a field to its A, B, C channels; lambda has no A channel
func forceChannels(f Field) (a Channel, hasA bool, b, c Channel) {
	switch f {
	case FieldR:
		return Armn, true, Brmn, Crmn
	case FieldZ:
		return Azmn, true, Bzmn, Czmn
	default:
		return 0, false, Blmn, Clmn
	}
}

// RealSpaceForces holds the force residual channels on NumSurfaces surfaces
// starting at NsMin, laid out like RealSpaceGeometry.
type RealSpaceForces struct {
	S           *sizes.Sizes
	NsMin       int
	NumSurfaces int

	Data [2][NumChannels][]float64 // [Parity][Channel]
}

func NewRealSpaceForces(s *sizes.Sizes, nsMin, numSurfaces int) *RealSpaceForces {
	f := &RealSpaceForces{S: s, NsMin: nsMin, NumSurfaces: numSurfaces}
	for p := range f.Data {
		for c := range f.Data[p] {
			f.Data[p][c] = make([]float64, numSurfaces*s.NZnT)
		}
	}
	return f
}

func (f *RealSpaceForces) Get(c Channel, p Parity) []float64 { return f.Data[p][c] }

func (f *RealSpaceForces) checkLengths() error {
	want := f.NumSurfaces * f.S.NZnT
	for p := range f.Data {
		for c := range f.Data[p] {
			if err := utils.CheckLength(Channel(c).String()+"_"+Parity(p).String(), f.Data[p][c], want); err != nil {
				return err
			}
		}
	}
	return nil
}
