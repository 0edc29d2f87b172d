package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/notargets/asymfourier/basis"
	"github.com/notargets/asymfourier/config"
	"github.com/notargets/asymfourier/diagnostics"
	"github.com/notargets/asymfourier/fourier"
	"github.com/notargets/asymfourier/partitions"
	"github.com/notargets/asymfourier/precision"
	"github.com/notargets/asymfourier/sizes"
	"github.com/notargets/asymfourier/utils"
	"gonum.org/v1/gonum/floats"
)

const (
	roundTripTolerance = 1.e-9
	roundTripSeed      = 1
)

var errCheck = errors.New("self-check failed")

type checker struct {
	cfg     config.Config
	sink    diagnostics.Sink
	metrics *diagnostics.Metrics
}

func (ck *checker) transformer(s *sizes.Sizes, rp *partitions.RadialPartition, prof *fourier.Profiles) (*fourier.Transformer, error) {
	strategy, err := ck.cfg.PartitionStrategy()
	if err != nil {
		return nil, err
	}
	return fourier.NewTransformer(fourier.Config{
		Sizes:         s,
		Partition:     rp,
		Profiles:      prof,
		Workers:       ck.cfg.Workers,
		PartitionSize: ck.cfg.PartitionSize,
		Strategy:      strategy,
		Sink:          ck.sink,
		Metrics:       ck.metrics,

		CompensatedSums: ck.cfg.Compensated,
	})
}

// precision checks the extended-precision helpers on sums whose float64
// evaluation loses every significant digit.
func (ck *checker) precision() error {
	dot, err := precision.HighPrecisionDotProduct([]float64{1.e8, 1, -1.e8}, []float64{1.e8, 1, 1.e8})
	if err != nil {
		return err
	}
	if dot != 1 {
		return fmt.Errorf("%w: dot product = %v, want 1", errCheck, dot)
	}
	sum := precision.CompensatedSum([]float64{1.e16, 1, 1, -1.e16})
	if sum != 2 {
		return fmt.Errorf("%w: compensated sum = %v, want 2", errCheck, sum)
	}
	ck.sink.Debug("precision", diagnostics.Float64("dot", dot), diagnostics.Float64("sum", sum))
	return nil
}

// tokamak places a shifted circular cross-section with a small up-down
// asymmetry on every surface and checks that the merged geometry stays
// finite and inside the expected major-radius band.
func (ck *checker) tokamak() error {
	s, err := ck.cfg.ToSizes()
	if err != nil {
		return err
	}
	if s.Mpol < 2 {
		return utils.NewValidationError("mpol", "the tokamak check needs m = 1", s.Mpol)
	}
	prof, err := fourier.UniformProfiles(ck.cfg.Ns)
	if err != nil {
		return err
	}
	tr, err := ck.transformer(s, partitions.FullRadialPartition(ck.cfg.Ns), prof)
	if err != nil {
		return err
	}

	const r0, a, asym = 1.0, 0.3, 0.001
	c := tr.NewCoefficients()
	for j := c.NsMin; j < c.NsMin+c.NumSurfaces; j++ {
		for _, set := range []struct {
			field    fourier.Field
			pol, tor basis.Trig
			m        int
			amp      float64
		}{
			{fourier.FieldR, basis.Cos, basis.Cos, 0, r0},
			{fourier.FieldR, basis.Cos, basis.Cos, 1, a},
			{fourier.FieldZ, basis.Sin, basis.Cos, 1, a},
			{fourier.FieldR, basis.Sin, basis.Cos, 1, asym},
		} {
			if !s.LAsym && !fourier.Symmetric(set.field, set.pol, set.tor) {
				continue
			}
			if err := c.SetPhysical(tr.Basis, set.field, set.pol, set.tor, j, set.m, 0, set.amp); err != nil {
				return err
			}
		}
	}

	g, err := tr.GeometryFromSpectrum(c)
	if err != nil {
		return err
	}
	bound := a + asym
	rMin, rMax := math.Inf(1), math.Inf(-1)
	for j := g.NsMin; j < g.NsMin+g.NumSurfaces; j++ {
		for k := 0; k < s.NZeta; k++ {
			for l := 0; l < s.NThetaEff; l++ {
				r := g.Physical(tr.Profiles, fourier.R1, j, k, l)
				rMin, rMax = math.Min(rMin, r), math.Max(rMax, r)
			}
		}
	}
	if rMin < r0-bound-1.e-12 || rMax > r0+bound+1.e-12 {
		return fmt.Errorf("%w: R in [%g, %g], want within %g of %g", errCheck, rMin, rMax, bound, r0)
	}
	ck.sink.Info("tokamak geometry", diagnostics.Float64("r_min", rMin), diagnostics.Float64("r_max", rMax))
	return nil
}

// roundTrip feeds R back as armn and Z as azmn on surfaces with sqrt(s) = 1
// and checks that the inverse transforms recover the R and Z coefficients.
// The axis is left out because only m = 0 survives the inverse there.
func (ck *checker) roundTrip() error {
	s, err := ck.cfg.ToSizes()
	if err != nil {
		return err
	}
	ns := ck.cfg.Ns
	sqrtSF := make([]float64, ns)
	floats.AddConst(1, sqrtSF)
	prof, err := fourier.NewProfiles(sqrtSF)
	if err != nil {
		return err
	}
	rp, err := partitions.NewRadialPartition(ns, 1, ns, 1, ns)
	if err != nil {
		return err
	}
	tr, err := ck.transformer(s, rp, prof)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(roundTripSeed))
	c := tr.NewCoefficients()
	fields := []fourier.Field{fourier.FieldR, fourier.FieldZ}
	for _, field := range fields {
		for _, p := range fourier.TrigPairs {
			for j := c.NsMin; j < c.NsMin+c.NumSurfaces; j++ {
				for m := 0; m < s.Mpol; m++ {
					for n := 0; n <= s.Ntor; n++ {
						if !fourier.Live(s, field, p[0], p[1], m, n) {
							continue
						}
						v := (2*rng.Float64() - 1) / float64(1+m+n)
						if err := c.Set(field, p[0], p[1], j, m, n, v); err != nil {
							return err
						}
					}
				}
			}
		}
	}

	g, err := tr.GeometryFromSpectrum(c)
	if err != nil {
		return err
	}
	f := tr.NewForces()
	for par := range f.Data {
		copy(f.Data[par][fourier.Armn], g.Data[par][fourier.R1])
		copy(f.Data[par][fourier.Azmn], g.Data[par][fourier.Z1])
	}
	out, err := tr.ForcesToSpectrum(f)
	if err != nil {
		return err
	}

	worst := 0.
	for _, field := range fields {
		for _, p := range fourier.TrigPairs {
			d := floats.Distance(c.Family(field, p[0], p[1]), out.Family(field, p[0], p[1]), math.Inf(1))
			worst = math.Max(worst, d)
		}
	}
	if worst > roundTripTolerance {
		return fmt.Errorf("%w: round trip deviates by %g", errCheck, worst)
	}
	ck.sink.Info("round trip", diagnostics.Float64("max_error", worst))
	return nil
}
