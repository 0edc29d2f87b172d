package fourier

import (
	"math"

	"github.com/notargets/asymfourier/utils"
)

// Profiles carries sqrt(s) on the full radial grid. Index 0 is the magnetic
// axis, where sqrt(s) may be zero; divisions there use the axis guard, the
// value on the first surface off the axis.
type Profiles struct {
	SqrtSF []float64

	axisGuard float64
}

func NewProfiles(sqrtSF []float64) (*Profiles, error) {
	if len(sqrtSF) == 0 {
		return nil, utils.NewValidationError("sqrtSF", "must cover at least one surface", 0)
	}
	for j, v := range sqrtSF {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, utils.NewValidationError("sqrtSF", "must be finite and non-negative", v)
		}
		if j > 0 && v == 0 {
			return nil, utils.NewValidationError("sqrtSF", "only the axis may have sqrt(s) = 0", j)
		}
	}
	guard := sqrtSF[0]
	if guard == 0 {
		if len(sqrtSF) < 2 {
			return nil, utils.NewValidationError("sqrtSF", "axis-only grid has no guard surface", sqrtSF)
		}
		guard = sqrtSF[1]
	}
	return &Profiles{SqrtSF: append([]float64(nil), sqrtSF...), axisGuard: guard}, nil
}

// UniformProfiles places ns surfaces at s_j = j/(ns-1). A single surface
// sits at s = 1.
func UniformProfiles(ns int) (*Profiles, error) {
	if ns < 1 {
		return nil, utils.NewValidationError("ns", "must be >= 1", ns)
	}
	sqrtSF := make([]float64, ns)
	if ns == 1 {
		sqrtSF[0] = 1
	}
	for j := 1; j < ns; j++ {
		sqrtSF[j] = math.Sqrt(float64(j) / float64(ns-1))
	}
	return NewProfiles(sqrtSF)
}

// NumSurfaces is the radial grid size
func (p *Profiles) NumSurfaces() int { return len(p.SqrtSF) }

// SqrtS is sqrt(s) at surface j with the axis guard applied
func (p *Profiles) SqrtS(j int) float64 {
	if v := p.SqrtSF[j]; v != 0 {
		return v
	}
	return p.axisGuard
}

func (p *Profiles) InvSqrtS(j int) float64 { return 1. / p.SqrtS(j) }
