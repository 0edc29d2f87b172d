package partitions

import (
	"fmt"
	"math"
)

// PartitionBuilder splits a contiguous surface range into work units
type PartitionBuilder struct {
	FirstSurface int
	NumSurfaces  int

	TargetPartitionSize int // desired surfaces per partition
	Strategy            PartitionStrategy
}

// PartitionStrategy defines how surfaces are grouped
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // consecutive surfaces
	RoundRobin                              // distribute cyclically
)

func (s PartitionStrategy) String() string {
	switch s {
	case BlockPartition:
		return "block"
	case RoundRobin:
		return "round-robin"
	default:
		return fmt.Sprintf("PartitionStrategy(%d)", int(s))
	}
}

// ParseStrategy maps a strategy name back to its value
func ParseStrategy(name string) (PartitionStrategy, error) {
	switch name {
	case "block", "":
		return BlockPartition, nil
	case "round-robin", "roundrobin":
		return RoundRobin, nil
	}
	return BlockPartition, fmt.Errorf("unknown partition strategy %q", name)
}

// BuildPartitions creates a partition layout for the surface range
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumSurfaces < 1 {
		return nil, fmt.Errorf("cannot partition %d surfaces", pb.NumSurfaces)
	}
	// Step 1: Determine the number of partitions
	numPartitions := pb.calculateNumPartitions()

	// Step 2: Assign each surface to a partition
	sToP := pb.partitionSurfaces(numPartitions)

	// Step 3: Create the partition structures, dropping empty ones
	partitions := pb.createPartitions(sToP, numPartitions)

	// Step 4: Every partition carries the layout-wide maximum
	maxSurfaces := 0
	for _, p := range partitions {
		if p.NumSurfaces > maxSurfaces {
			maxSurfaces = p.NumSurfaces
		}
	}
	for i := range partitions {
		partitions[i].MaxSurfaces = maxSurfaces
	}

	// Step 5: Assemble and validate the layout
	layout := &PartitionLayout{
		Partitions:    partitions,
		MaxSurfaces:   maxSurfaces,
		FirstSurface:  pb.FirstSurface,
		TotalSurfaces: pb.NumSurfaces,
		NumPartitions: len(partitions),
		SToP:          sToP,
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

// calculateNumPartitions is ceil(NumSurfaces / TargetPartitionSize)
func (pb *PartitionBuilder) calculateNumPartitions() int {
	size := pb.TargetPartitionSize
	// An unset target means one surface per partition
	if size < 1 {
		size = 1
	}
	numPartitions := int(math.Ceil(float64(pb.NumSurfaces) / float64(size)))
	if numPartitions < 1 {
		numPartitions = 1
	}
	return numPartitions
}

// partitionSurfaces assigns local surface indices to partitions
func (pb *PartitionBuilder) partitionSurfaces(numPartitions int) []int {
	sToP := make([]int, pb.NumSurfaces)
	switch pb.Strategy {
	case RoundRobin:
		// Surface i goes to partition i mod numPartitions
		for i := range sToP {
			sToP[i] = i % numPartitions
		}
	default:
		// Consecutive runs of perPartition surfaces; the last run may be short
		perPartition := int(math.Ceil(float64(pb.NumSurfaces) / float64(numPartitions)))
		for i := range sToP {
			sToP[i] = i / perPartition
			// Clamp in case rounding pushed the index past the end
			if sToP[i] >= numPartitions {
				sToP[i] = numPartitions - 1
			}
		}
	}
	return sToP
}

// createPartitions collects the global surface indices of each partition in
// increasing order and renumbers the non-empty partitions from zero
func (pb *PartitionBuilder) createPartitions(sToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i] = Partition{ID: i}
	}
	// sToP is indexed by local surface, Surfaces holds global indices
	for local, part := range sToP {
		partitions[part].Surfaces = append(partitions[part].Surfaces, pb.FirstSurface+local)
		partitions[part].NumSurfaces++
	}
	// Block partitioning with a ceil'd block size can leave trailing partitions empty
	out := partitions[:0]
	for _, p := range partitions {
		if p.NumSurfaces > 0 {
			p.ID = len(out)
			out = append(out, p)
		}
	}
	// Point sToP at the renumbered IDs
	if len(out) != numPartitions {
		for _, p := range out {
			for _, j := range p.Surfaces {
				sToP[j-pb.FirstSurface] = p.ID
			}
		}
	}
	return out
}
