package partitions

import (
	"fmt"

	"github.com/notargets/asymfourier/utils"
)

// RadialPartition describes the flux surfaces one worker owns. Geometry lives
// on [NsMinF1, NsMaxF1), forces on [NsMinF, NsMaxF). All transforms are
// pure maps over these ranges with no cross-surface dependence.
type RadialPartition struct {
	Ns int // total surfaces, index 0 is the magnetic axis

	NsMinF1, NsMaxF1 int
	NsMinF, NsMaxF   int
}

// NewRadialPartition validates the ranges against ns
func NewRadialPartition(ns, nsMinF1, nsMaxF1, nsMinF, nsMaxF int) (*RadialPartition, error) {
	if ns < 1 {
		return nil, utils.NewValidationError("ns", "must be >= 1", ns)
	}
	if nsMinF1 < 0 || nsMaxF1 > ns || nsMinF1 >= nsMaxF1 {
		return nil, utils.NewValidationError("nsF1",
			fmt.Sprintf("geometry range [%d,%d) must be a non-empty subrange of [0,%d)",
				nsMinF1, nsMaxF1, ns), nil)
	}
	if nsMinF < nsMinF1 || nsMaxF > nsMaxF1 || nsMinF >= nsMaxF {
		return nil, utils.NewValidationError("nsF",
			fmt.Sprintf("force range [%d,%d) must be a non-empty subrange of [%d,%d)",
				nsMinF, nsMaxF, nsMinF1, nsMaxF1), nil)
	}
	return &RadialPartition{
		Ns:      ns,
		NsMinF1: nsMinF1, NsMaxF1: nsMaxF1,
		NsMinF: nsMinF, NsMaxF: nsMaxF,
	}, nil
}

// FullRadialPartition owns every surface for both geometry and forces
func FullRadialPartition(ns int) *RadialPartition {
	rp, err := NewRadialPartition(ns, 0, ns, 0, ns)
	if err != nil {
		panic(err)
	}
	return rp
}

// NumF1 is the number of geometry surfaces
func (rp *RadialPartition) NumF1() int { return rp.NsMaxF1 - rp.NsMinF1 }

// NumF is the number of force surfaces
func (rp *RadialPartition) NumF() int { return rp.NsMaxF - rp.NsMinF }

// Partition is a unit of work: a set of radial surfaces processed in sequence
// by one goroutine.
type Partition struct {
	ID int

	Surfaces    []int // global surface indices
	NumSurfaces int
	MaxSurfaces int // max(NumSurfaces) across the layout
}

// PartitionLayout manages the decomposition of a surface range into work units
type PartitionLayout struct {
	Partitions []Partition

	MaxSurfaces   int // max(NumSurfaces) across all partitions
	FirstSurface  int
	TotalSurfaces int
	NumPartitions int

	// Surface to partition mapping, indexed by surface-FirstSurface
	SToP []int
}

// GetPartition returns the partition owning global surface j, or -1
func (pl *PartitionLayout) GetPartition(j int) int {
	local := j - pl.FirstSurface
	if local < 0 || local >= len(pl.SToP) {
		return -1
	}
	return pl.SToP[local]
}

// ValidateLayout checks that every surface belongs to exactly one partition
func (pl *PartitionLayout) ValidateLayout() error {
	seen := make([]int, pl.TotalSurfaces)
	actualMax := 0
	for _, p := range pl.Partitions {
		if p.NumSurfaces != len(p.Surfaces) {
			return fmt.Errorf("partition %d: NumSurfaces %d != len(Surfaces) %d",
				p.ID, p.NumSurfaces, len(p.Surfaces))
		}
		if p.MaxSurfaces != pl.MaxSurfaces {
			return fmt.Errorf("partition %d: MaxSurfaces %d != layout MaxSurfaces %d",
				p.ID, p.MaxSurfaces, pl.MaxSurfaces)
		}
		if p.NumSurfaces > actualMax {
			actualMax = p.NumSurfaces
		}
		for _, j := range p.Surfaces {
			local := j - pl.FirstSurface
			if local < 0 || local >= pl.TotalSurfaces {
				return fmt.Errorf("partition %d: surface %d outside [%d,%d)",
					p.ID, j, pl.FirstSurface, pl.FirstSurface+pl.TotalSurfaces)
			}
			seen[local]++
		}
	}
	for local, c := range seen {
		if c != 1 {
			return fmt.Errorf("surface %d assigned to %d partitions", pl.FirstSurface+local, c)
		}
	}
	if actualMax != pl.MaxSurfaces {
		return fmt.Errorf("computed MaxSurfaces %d != stored MaxSurfaces %d",
			actualMax, pl.MaxSurfaces)
	}
	return nil
}
