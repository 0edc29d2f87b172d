package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/asymfourier/utils"
)

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt falls back to defaultVal when the variable is unset
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal, utils.NewValidationError(EnvPrefix+key, "must be an integer", val)
	}
	return parsed, nil
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitive
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return defaultVal, utils.NewValidationError(EnvPrefix+key, "must be true/false, 1/0 or yes/no", val)
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	if fs == nil {
		return false
	}
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// ApplyEnv overrides every field whose flag was not set explicitly in fs.
// A nil fs applies all overrides. A variable that does not parse is a
// ValidationError naming the variable.
//
// Supported variables:
//   - ASYMFOURIER_MPOL, ASYMFOURIER_NTOR, ASYMFOURIER_NFP (int)
//   - ASYMFOURIER_NTHETA, ASYMFOURIER_NZETA, ASYMFOURIER_NS (int)
//   - ASYMFOURIER_LASYM, ASYMFOURIER_JSON, ASYMFOURIER_COMPENSATED (bool: true/false, 1/0, yes/no)
//   - ASYMFOURIER_WORKERS, ASYMFOURIER_PARTITION_SIZE (int)
//   - ASYMFOURIER_STRATEGY, ASYMFOURIER_LOG_LEVEL (string)
func (c *Config) ApplyEnv(fs *flag.FlagSet) error {
	ints := []struct {
		flag, key string
		dst       *int
	}{
		{"mpol", "MPOL", &c.Mpol},
		{"ntor", "NTOR", &c.Ntor},
		{"nfp", "NFP", &c.NFP},
		{"ntheta", "NTHETA", &c.NTheta},
		{"nzeta", "NZETA", &c.NZeta},
		{"ns", "NS", &c.Ns},
		{"workers", "WORKERS", &c.Workers},
		{"partition-size", "PARTITION_SIZE", &c.PartitionSize},
	}
	for _, v := range ints {
		if isFlagSet(fs, v.flag) {
			continue
		}
		val, err := getEnvInt(v.key, *v.dst)
		if err != nil {
			return err
		}
		*v.dst = val
	}
	bools := []struct {
		flag, key string
		dst       *bool
	}{
		{"lasym", "LASYM", &c.Lasym},
		{"json", "JSON", &c.JSONLog},
		{"compensated", "COMPENSATED", &c.Compensated},
	}
	for _, v := range bools {
		if isFlagSet(fs, v.flag) {
			continue
		}
		val, err := getEnvBool(v.key, *v.dst)
		if err != nil {
			return err
		}
		*v.dst = val
	}
	if !isFlagSet(fs, "strategy") {
		c.Strategy = getEnvString("STRATEGY", c.Strategy)
	}
	if !isFlagSet(fs, "log-level") {
		c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
	}
	return nil
}
