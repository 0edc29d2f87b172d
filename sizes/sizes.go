// Package sizes holds the angular resolution of an equilibrium solve and the
// grid dimensions derived from it.
package sizes

import (
	"fmt"

	"github.com/notargets/asymfourier/utils"
)

// Sizes is immutable after New.
type Sizes struct {
	LAsym   bool // non-stellarator-symmetric run
	LThreeD bool // ntor > 0

	NFP    int // field periods
	Mpol   int // poloidal modes m in [0, Mpol)
	Ntor   int // toroidal modes n in [0, Ntor]
	NTheta int // requested poloidal points
	NZeta  int // toroidal points per field period

	NThetaEven    int // NTheta rounded down to even, points on [0, 2pi)
	NThetaReduced int // points on [0, pi] including both ends
	NThetaEff     int // NThetaEven if LAsym, else NThetaReduced
	NZnT          int // NZeta * NThetaEff, real-space points per surface
	MNSize        int // Mpol * (Ntor + 1), spectral entries per surface
}

// New validates the resolution parameters and derives the grid sizes.
func New(lasym bool, nfp, mpol, ntor, ntheta, nzeta int) (*Sizes, error) {
	switch {
	case nfp < 1:
		return nil, utils.NewValidationError("nfp", "must be >= 1", nfp)
	case mpol < 1:
		return nil, utils.NewValidationError("mpol", "must be >= 1", mpol)
	case ntor < 0:
		return nil, utils.NewValidationError("ntor", "must be >= 0", ntor)
	case nzeta < 1:
		return nil, utils.NewValidationError("nzeta", "must be >= 1", nzeta)
	}
	nThetaEven := 2 * (ntheta / 2)
	if nThetaEven < 2 {
		return nil, utils.NewValidationError("ntheta", "must be >= 2", ntheta)
	}
	// m = nThetaEven/2 aliases onto the Nyquist mode and loses its sine partner
	if mpol > nThetaEven/2 {
		return nil, utils.NewValidationError("ntheta",
			fmt.Sprintf("needs at least %d points to resolve mpol=%d", 2*mpol, mpol), ntheta)
	}
	if nzeta < 2*ntor+1 {
		return nil, utils.NewValidationError("nzeta",
			fmt.Sprintf("needs at least %d points to resolve ntor=%d", 2*ntor+1, ntor), nzeta)
	}

	s := &Sizes{
		LAsym:         lasym,
		LThreeD:       ntor > 0,
		NFP:           nfp,
		Mpol:          mpol,
		Ntor:          ntor,
		NTheta:        ntheta,
		NZeta:         nzeta,
		NThetaEven:    nThetaEven,
		NThetaReduced: nThetaEven/2 + 1,
		MNSize:        mpol * (ntor + 1),
	}
	s.NThetaEff = s.NThetaReduced
	if lasym {
		s.NThetaEff = s.NThetaEven
	}
	s.NZnT = s.NZeta * s.NThetaEff
	return s, nil
}

// MustNew is New for static configurations known to be valid
func MustNew(lasym bool, nfp, mpol, ntor, ntheta, nzeta int) *Sizes {
	s, err := New(lasym, nfp, mpol, ntor, ntheta, nzeta)
	if err != nil {
		panic(err)
	}
	return s
}

// IndexMN is the spectral index of (m, n) on local surface jl.
func (s *Sizes) IndexMN(jl, m, n int) int {
	return (jl*s.Mpol+m)*(s.Ntor+1) + n
}

// IndexKL is the real-space index of (k, l) on local surface jl.
func (s *Sizes) IndexKL(jl, k, l int) int {
	return jl*s.NZnT + k*s.NThetaEff + l
}

func (s *Sizes) String() string {
	return fmt.Sprintf("Sizes{lasym=%t nfp=%d mpol=%d ntor=%d ntheta=%d(even=%d reduced=%d eff=%d) nzeta=%d}",
		s.LAsym, s.NFP, s.Mpol, s.Ntor, s.NTheta, s.NThetaEven, s.NThetaReduced, s.NThetaEff, s.NZeta)
}
