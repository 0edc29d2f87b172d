// Package config holds the run parameters of the asymcheck tool: the angular
// resolution, the radial grid and the work decomposition. Values come from
// defaults, ASYMFOURIER_* environment variables and command-line flags, in
// increasing order of priority.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/notargets/asymfourier/partitions"
	"github.com/notargets/asymfourier/sizes"
	"github.com/notargets/asymfourier/utils"
	"github.com/rs/zerolog"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "ASYMFOURIER_"

// Default configuration values
const (
	DefaultMpol          = 3
	DefaultNtor          = 0
	DefaultNFP           = 1
	DefaultNTheta        = 16
	DefaultNZeta         = 1
	DefaultLasym         = true
	DefaultNs            = 5
	DefaultWorkers       = 0 // GOMAXPROCS
	DefaultPartitionSize = 1
	DefaultStrategy      = "block"
	DefaultLogLevel      = "info"
)

type Config struct {
	Mpol   int
	Ntor   int
	NFP    int
	NTheta int
	NZeta  int
	Lasym  bool

	// Ns is the number of radial surfaces including the axis
	Ns int

	Workers       int
	PartitionSize int
	Strategy      string
	Compensated   bool // inverse theta sums in double-double

	LogLevel string
	JSONLog  bool
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Mpol:          DefaultMpol,
		Ntor:          DefaultNtor,
		NFP:           DefaultNFP,
		NTheta:        DefaultNTheta,
		NZeta:         DefaultNZeta,
		Lasym:         DefaultLasym,
		Ns:            DefaultNs,
		Workers:       DefaultWorkers,
		PartitionSize: DefaultPartitionSize,
		Strategy:      DefaultStrategy,
		LogLevel:      DefaultLogLevel,
	}
}

// ToSizes derives the grid dimensions. The error is a *utils.ValidationError.
func (c Config) ToSizes() (*sizes.Sizes, error) {
	return sizes.New(c.Lasym, c.NFP, c.Mpol, c.Ntor, c.NTheta, c.NZeta)
}

// PartitionStrategy resolves the strategy name
func (c Config) PartitionStrategy() (partitions.PartitionStrategy, error) {
	st, err := partitions.ParseStrategy(strings.ToLower(c.Strategy))
	if err != nil {
		return st, utils.NewValidationError("strategy", "must be block or round-robin", c.Strategy)
	}
	return st, nil
}

// Level resolves the log level name
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, utils.NewValidationError("log-level", "unknown level", c.LogLevel)
	}
	return lvl, nil
}

// Validate checks every parameter and returns the first violation as a
// *utils.ValidationError.
func (c Config) Validate() error {
	if _, err := c.ToSizes(); err != nil {
		return err
	}
	switch {
	case c.Ns < 2:
		// the axis alone has no surface to guard 1/sqrt(s)
		return utils.NewValidationError("ns", "must be >= 2", c.Ns)
	case c.Workers < 0:
		return utils.NewValidationError("workers", "must be >= 0", c.Workers)
	case c.PartitionSize < 1:
		return utils.NewValidationError("partition-size", "must be >= 1", c.PartitionSize)
	}
	if _, err := c.PartitionStrategy(); err != nil {
		return err
	}
	_, err := c.Level()
	return err
}

func (c Config) String() string {
	return fmt.Sprintf("Config{mpol=%d ntor=%d nfp=%d ntheta=%d nzeta=%d lasym=%t ns=%d workers=%d partition-size=%d strategy=%s compensated=%t}",
		c.Mpol, c.Ntor, c.NFP, c.NTheta, c.NZeta, c.Lasym, c.Ns, c.Workers, c.PartitionSize, c.Strategy, c.Compensated)
}

// ParseFlags parses args into a Config, applies environment overrides for
// flags that were not given explicitly, and validates the result. Usage and
// parse errors are written to out.
func ParseFlags(programName string, args []string, out io.Writer) (Config, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(out)

	c := Default()
	fs.IntVar(&c.Mpol, "mpol", c.Mpol, "Number of poloidal modes, m in [0, mpol).")
	fs.IntVar(&c.Ntor, "ntor", c.Ntor, "Highest toroidal mode number, n in [0, ntor].")
	fs.IntVar(&c.NFP, "nfp", c.NFP, "Number of field periods.")
	fs.IntVar(&c.NTheta, "ntheta", c.NTheta, "Poloidal grid points on [0, 2pi).")
	fs.IntVar(&c.NZeta, "nzeta", c.NZeta, "Toroidal grid points per field period.")
	fs.BoolVar(&c.Lasym, "lasym", c.Lasym, "Include the non-stellarator-symmetric families.")
	fs.IntVar(&c.Ns, "ns", c.Ns, "Radial surfaces, including the magnetic axis.")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Concurrent work units (0 uses GOMAXPROCS).")
	fs.IntVar(&c.PartitionSize, "partition-size", c.PartitionSize, "Surfaces per work unit.")
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, "Surface grouping: block or round-robin.")
	fs.BoolVar(&c.Compensated, "compensated", c.Compensated, "Accumulate the inverse theta sums in double-double.")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error.")
	fs.BoolVar(&c.JSONLog, "json", c.JSONLog, "Write logs as JSON instead of console text.")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := c.ApplyEnv(fs); err != nil {
		fmt.Fprintln(out, "Configuration error:", err)
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		fmt.Fprintln(out, "Configuration error:", err)
		fs.Usage()
		return Config{}, err
	}
	return c, nil
}
