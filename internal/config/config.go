// Package config holds run settings unmarshalled from viper: flags, BLASTPCR_*
// environment variables, an optional YAML file and defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"blastpcr/internal/writers"
)

// ErrInvalid classifies configuration errors (exit code 2).
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "BLASTPCR"

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BlastConfig holds the aligner settings.
type BlastConfig struct {
	// directory holding makeblastdb and blastn; empty means $PATH
	BinDir   string  `mapstructure:"bin-dir"`
	Task     string  `mapstructure:"task"`
	Evalue   float64 `mapstructure:"evalue"`
	WordSize int     `mapstructure:"word-size"`
	Threads  int     `mapstructure:"threads"`
}

// Config is the root settings struct.
type Config struct {
	Primers          string `mapstructure:"primers"`
	Input            string `mapstructure:"input"`
	OutDir           string `mapstructure:"out-dir"`
	Mismatches       int    `mapstructure:"mismatches"`
	Workers          int    `mapstructure:"workers"`
	Format           string `mapstructure:"format"`
	MaxVariants      int    `mapstructure:"max-variants"`
	KeepIntermediate bool   `mapstructure:"keep-intermediate"`
	NoMatchExitCode  int    `mapstructure:"no-match-exit-code"`
	ProbeSameContig  bool   `mapstructure:"probe-same-contig"`
	Quiet            bool   `mapstructure:"quiet"`

	Log   LogConfig   `mapstructure:"log"`
	Blast BlastConfig `mapstructure:"blast"`
}

var defaults = map[string]any{
	"primers":            "",
	"input":              "",
	"out-dir":            "blastpcr_out",
	"mismatches":         1,
	"workers":            0,
	"format":             writers.FormatTSV,
	"max-variants":       4096,
	"keep-intermediate":  true,
	"no-match-exit-code": 1,
	"probe-same-contig":  false,
	"quiet":              false,
	"log.level":          "info",
	"log.format":         "text",
	"blast.bin-dir":      "",
	"blast.task":         "blastn-short",
	"blast.evalue":       1000.0,
	"blast.word-size":    7,
	"blast.threads":      1,
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file (if not empty) into v and decodes the result.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", ErrInvalid, file, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("%w: decode: %v", ErrInvalid, err)
	}
	return c, nil
}

// Validate checks value ranges and enumerations. Required paths are checked
// by the commands that need them.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, a ...any) { errs = append(errs, fmt.Errorf(format, a...)) }

	if c.Mismatches < 0 {
		bad("mismatches must be >= 0 (got %d)", c.Mismatches)
	}
	if c.Workers < 0 {
		bad("workers must be >= 0 (got %d)", c.Workers)
	}
	if c.MaxVariants < 0 {
		bad("max-variants must be >= 0 (got %d)", c.MaxVariants)
	}
	if c.NoMatchExitCode < 0 || c.NoMatchExitCode > 125 {
		bad("no-match-exit-code must be in 0..125 (got %d)", c.NoMatchExitCode)
	}
	if _, err := writers.Lookup(c.Format); err != nil {
		bad("format must be one of %s (got %q)", strings.Join(writers.Formats(), ", "), c.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		bad("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		bad("log.format must be text or json (got %q)", c.Log.Format)
	}
	if c.Blast.WordSize < 4 {
		bad("blast.word-size must be >= 4 (got %d)", c.Blast.WordSize)
	}
	if c.Blast.Threads < 1 {
		bad("blast.threads must be >= 1 (got %d)", c.Blast.Threads)
	}
	if c.Blast.Evalue <= 0 {
		bad("blast.evalue must be > 0 (got %g)", c.Blast.Evalue)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// RequirePaths reports an error for every empty name among the given keys.
func (c Config) RequirePaths(keys ...string) error {
	vals := map[string]string{"primers": c.Primers, "input": c.Input, "out-dir": c.OutDir}
	var missing []string
	for _, k := range keys {
		if vals[k] == "" {
			missing = append(missing, "--"+k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required %s", ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}
