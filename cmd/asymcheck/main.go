// Command asymcheck builds a transform engine from flags and environment,
// runs the self-checks against it and exits with a code per failure class.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/notargets/asymfourier/config"
	"github.com/notargets/asymfourier/diagnostics"
	"github.com/notargets/asymfourier/utils"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitInvalid   = 2 // bad configuration or input
	exitNonFinite = 3 // a transform produced NaN or Inf
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.ParseFlags("asymcheck", args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitInvalid
	}
	level, _ := cfg.Level()

	var sink *diagnostics.ZerologSink
	if cfg.JSONLog {
		sink = diagnostics.NewJSONSink(stderr, "asymcheck", level)
	} else {
		sink = diagnostics.NewConsoleSink(stderr, level)
	}
	sink.Info("starting", diagnostics.String("config", cfg.String()))

	reg := prometheus.NewRegistry()
	ck := &checker{cfg: cfg, sink: sink, metrics: diagnostics.NewMetrics(reg)}
	for _, c := range []struct {
		name string
		run  func() error
	}{
		{"precision", ck.precision},
		{"tokamak", ck.tokamak},
		{"round_trip", ck.roundTrip},
	} {
		if err := c.run(); err != nil {
			sink.Error("check failed", err, diagnostics.String("check", c.name))
			return exitCode(err)
		}
		sink.Info("check passed", diagnostics.String("check", c.name))
	}
	if err := reportCalls(reg, sink); err != nil {
		sink.Error("metrics", err)
		return exitFailure
	}
	return exitOK
}

func exitCode(err error) int {
	var ve *utils.ValidationError
	var nf *utils.NonFiniteError
	switch {
	case errors.As(err, &ve):
		return exitInvalid
	case errors.As(err, &nf):
		return exitNonFinite
	}
	return exitFailure
}

// reportCalls logs the per-stage call counters collected during the checks
func reportCalls(reg *prometheus.Registry, sink diagnostics.Sink) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "asymfourier_transform_calls_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			stage := ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "stage" {
					stage = lp.GetValue()
				}
			}
			sink.Debug("transform calls", diagnostics.String("stage", stage),
				diagnostics.Int("calls", int(m.GetCounter().GetValue())))
		}
	}
	return nil
}
