// Package fourier implements the spectral <-> real-space transforms for
// stellarator-symmetric and asymmetric equilibria: the forward transforms,
// the extension of the half-grid geometry to the full poloidal interval, the
// decomposition of real-space forces into symmetric and antisymmetric parts,
// and the inverse (force) transforms.
package fourier

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/notargets/asymfourier/basis"
	"github.com/notargets/asymfourier/diagnostics"
	"github.com/notargets/asymfourier/partitions"
	"github.com/notargets/asymfourier/sizes"
	"github.com/notargets/asymfourier/utils"
	"golang.org/x/sync/errgroup"
)

// Stage labels used in logs, metrics and NonFiniteError
const (
	StageForwardSymmetric  = "forward_symmetric"
	StageForwardAsymmetric = "forward_asymmetric"
	StageExtendGeometry    = "extend_geometry"
	StageSymmetrizeForces  = "symmetrize_forces"
	StageInverseSymmetric  = "inverse_symmetric"
	StageInverseAsymmetric = "inverse_asymmetric"
)

type Config struct {
	Sizes     *sizes.Sizes
	Partition *partitions.RadialPartition
	Profiles  *Profiles

	Workers       int // concurrent work units, 0 means GOMAXPROCS
	PartitionSize int // surfaces per work unit, 0 means 1
	Strategy      partitions.PartitionStrategy

	// CompensatedSums accumulates the theta sums of the inverse transforms
	// in double-double instead of plain float64 products.
	CompensatedSums bool

	Sink    diagnostics.Sink    // nil means no output
	Metrics *diagnostics.Metrics // nil means no metrics
}

// Transformer owns the basis tables and the work decomposition for one
// resolution. All methods are safe to call sequentially; a single call runs
// its surfaces concurrently.
type Transformer struct {
	S         *sizes.Sizes
	Basis     *basis.FourierBasis
	Partition *partitions.RadialPartition
	Profiles  *Profiles

	geometryUnits *partitions.PartitionLayout // over [NsMinF1, NsMaxF1)
	forceUnits    *partitions.PartitionLayout // over [NsMinF, NsMaxF)

	workers     int
	compensated bool
	sink        diagnostics.Sink
	metrics *diagnostics.Metrics
}

func NewTransformer(cfg Config) (tr *Transformer, err error) {
	if cfg.Sizes == nil {
		return nil, utils.NewValidationError("sizes", "required", nil)
	}
	if cfg.Partition == nil {
		return nil, utils.NewValidationError("partition", "required", nil)
	}
	if cfg.Profiles == nil {
		return nil, utils.NewValidationError("profiles", "required", nil)
	}
	if cfg.Profiles.NumSurfaces() != cfg.Partition.Ns {
		return nil, utils.NewValidationError("profiles",
			fmt.Sprintf("expected %d surfaces", cfg.Partition.Ns), cfg.Profiles.NumSurfaces())
	}
	if cfg.Workers < 0 {
		return nil, utils.NewValidationError("workers", "must be >= 0", cfg.Workers)
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rp := cfg.Partition
	geometryUnits, err := (&partitions.PartitionBuilder{
		FirstSurface:        rp.NsMinF1,
		NumSurfaces:         rp.NumF1(),
		TargetPartitionSize: cfg.PartitionSize,
		Strategy:            cfg.Strategy,
	}).BuildPartitions()
	if err != nil {
		return nil, fmt.Errorf("failed to partition geometry surfaces: %w", err)
	}
	forceUnits, err := (&partitions.PartitionBuilder{
		FirstSurface:        rp.NsMinF,
		NumSurfaces:         rp.NumF(),
		TargetPartitionSize: cfg.PartitionSize,
		Strategy:            cfg.Strategy,
	}).BuildPartitions()
	if err != nil {
		return nil, fmt.Errorf("failed to partition force surfaces: %w", err)
	}

	tr = &Transformer{
		S:             cfg.Sizes,
		Basis:         basis.NewFourierBasis(cfg.Sizes),
		Partition:     rp,
		Profiles:      cfg.Profiles,
		geometryUnits: geometryUnits,
		forceUnits:    forceUnits,
		workers:       workers,
		compensated:   cfg.CompensatedSums,
		sink:          diagnostics.OrNop(cfg.Sink),
		metrics:       cfg.Metrics,
	}
	return
}

// NewCoefficients allocates coefficients on the geometry surfaces
func (tr *Transformer) NewCoefficients() *Coefficients {
	return NewCoefficients(tr.S, tr.Partition.NsMinF1, tr.Partition.NumF1())
}

// NewGeometry allocates a geometry buffer on the geometry surfaces
func (tr *Transformer) NewGeometry() *RealSpaceGeometry {
	return NewRealSpaceGeometry(tr.S, tr.Partition.NsMinF1, tr.Partition.NumF1())
}

// NewForces allocates a real-space force buffer on the force surfaces
func (tr *Transformer) NewForces() *RealSpaceForces {
	return NewRealSpaceForces(tr.S, tr.Partition.NsMinF, tr.Partition.NumF())
}

// NewSpectralForces allocates spectral forces on the force surfaces
func (tr *Transformer) NewSpectralForces() *SpectralForces {
	return NewSpectralForces(tr.S, tr.Partition.NsMinF, tr.Partition.NumF())
}

// WorkUnits reports how many geometry and force work units a call fans out to
func (tr *Transformer) WorkUnits() (geometry, forces int) {
	return tr.geometryUnits.NumPartitions, tr.forceUnits.NumPartitions
}

// forEachSurface runs fn for every surface of layout. Work units run
// concurrently, surfaces inside a unit in order. Wait is the barrier. A
// panic inside fn stops its unit and is returned as an error.
func (tr *Transformer) forEachSurface(layout *partitions.PartitionLayout, fn func(j int)) error {
	var g errgroup.Group
	g.SetLimit(tr.workers)
	for _, p := range layout.Partitions {
		p := p
		g.Go(func() (err error) {
			j := -1
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("work unit %d, surface %d: %v", p.ID, j, r)
				}
			}()
			for _, j = range p.Surfaces {
				fn(j)
			}
			return nil
		})
	}
	return g.Wait()
}

// stage wraps one public operation with timing, metrics and reporting
func (tr *Transformer) stage(name string, layout *partitions.PartitionLayout, run func() error) (err error) {
	start := time.Now()
	err = run()
	tr.metrics.ObserveCall(name, time.Since(start))
	if err != nil {
		var nf *utils.NonFiniteError
		if errors.As(err, &nf) {
			tr.metrics.NonFinite(name)
		}
		tr.sink.Error("transform failed", err, diagnostics.String("stage", name))
		return
	}
	tr.sink.Debug("transform complete",
		diagnostics.String("stage", name),
		diagnostics.Int("surfaces", layout.TotalSurfaces),
		diagnostics.Int("work_units", layout.NumPartitions),
		diagnostics.Int("workers", tr.workers),
		diagnostics.Float64("seconds", time.Since(start).Seconds()))
	return
}

func (tr *Transformer) checkGeometryRange(name string, nsMin, num int) error {
	if nsMin != tr.Partition.NsMinF1 || num != tr.Partition.NumF1() {
		return utils.NewValidationError(name,
			fmt.Sprintf("must cover geometry surfaces [%d,%d)", tr.Partition.NsMinF1, tr.Partition.NsMaxF1),
			[2]int{nsMin, nsMin + num})
	}
	return nil
}

func (tr *Transformer) checkForceRange(name string, nsMin, num int) error {
	if nsMin != tr.Partition.NsMinF || num != tr.Partition.NumF() {
		return utils.NewValidationError(name,
			fmt.Sprintf("must cover force surfaces [%d,%d)", tr.Partition.NsMinF, tr.Partition.NsMaxF),
			[2]int{nsMin, nsMin + num})
	}
	return nil
}

func (tr *Transformer) checkSizes(name string, s *sizes.Sizes) error {
	if s != tr.S && (s == nil || *s != *tr.S) {
		return utils.NewValidationError(name, "built for a different resolution", s)
	}
	return nil
}

// checkGeometryFinite scans both accumulators of every quantity
func checkGeometryFinite(stage string, g *RealSpaceGeometry) error {
	for q := Quantity(0); q < NumQuantities; q++ {
		for p := Even; p <= Odd; p++ {
			if err := utils.CheckFinite(stage, q.String()+"_"+p.String(), g.Data[p][q], g.S.NZnT, g.NsMin); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkForcesFinite(stage string, f *RealSpaceForces) error {
	for c := Channel(0); c < NumChannels; c++ {
		for p := Even; p <= Odd; p++ {
			if err := utils.CheckFinite(stage, c.String()+"_"+p.String(), f.Data[p][c], f.S.NZnT, f.NsMin); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkSpectralFinite(stage string, f *SpectralForces, symmetric bool) error {
	for _, fm := range families {
		if fm.symmetric() != symmetric {
			continue
		}
		if err := utils.CheckFinite(stage, fm.forceName(), *f.family(fm), f.S.MNSize, f.NsMin); err != nil {
			return err
		}
	}
	return nil
}
