// Package config loads the post option switches from defaults, an optional
// config file and MILOPOST_* environment variables.
package config

import (
	"strings"

	"github.com/mastercactapus/milopost/post"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, for example
	// MILOPOST_LIFECYCLE_PARK_AT_END.
	EnvPrefix = "MILOPOST"

	// FileName is the config file searched for in the working directory
	// when no path is given (any extension viper understands).
	FileName = "milopost"
)

// Config mirrors post.Options in the shape of the config file.
type Config struct {
	Output    Output    `mapstructure:"output" toml:"output"`
	Lifecycle Lifecycle `mapstructure:"lifecycle" toml:"lifecycle"`
}

// Output selects the optional header blocks.
type Output struct {
	Machine bool `mapstructure:"machine" toml:"machine"`
	Tools   bool `mapstructure:"tools" toml:"tools"`
	Version bool `mapstructure:"version" toml:"version"`
}

// Lifecycle selects the homing, probing and parking steps.
type Lifecycle struct {
	HomeBeforeStart           bool `mapstructure:"home_before_start" toml:"home_before_start"`
	ProbeWorkpieceBeforeStart bool `mapstructure:"probe_workpiece_before_start" toml:"probe_workpiece_before_start"`
	HomeBeforeOp              bool `mapstructure:"home_before_op" toml:"home_before_op"`
	ProbeWorkpieceBeforeOp    bool `mapstructure:"probe_workpiece_before_op" toml:"probe_workpiece_before_op"`
	ParkAtEnd                 bool `mapstructure:"park_at_end" toml:"park_at_end"`
}

// FromOptions returns the config matching opts.
func FromOptions(opts post.Options) Config {
	return Config{
		Output: Output{
			Machine: opts.OutputMachine,
			Tools:   opts.OutputTools,
			Version: opts.OutputVersion,
		},
		Lifecycle: Lifecycle{
			HomeBeforeStart:           opts.HomeBeforeStart,
			ProbeWorkpieceBeforeStart: opts.ProbeWorkpieceBeforeStart,
			HomeBeforeOp:              opts.HomeBeforeOp,
			ProbeWorkpieceBeforeOp:    opts.ProbeWorkpieceBeforeOp,
			ParkAtEnd:                 opts.ParkAtEnd,
		},
	}
}

// Options applies the switches to the post defaults.
func (c Config) Options() post.Options {
	opts := post.DefaultOptions()
	opts.OutputMachine = c.Output.Machine
	opts.OutputTools = c.Output.Tools
	opts.OutputVersion = c.Output.Version
	opts.HomeBeforeStart = c.Lifecycle.HomeBeforeStart
	opts.ProbeWorkpieceBeforeStart = c.Lifecycle.ProbeWorkpieceBeforeStart
	opts.HomeBeforeOp = c.Lifecycle.HomeBeforeOp
	opts.ProbeWorkpieceBeforeOp = c.Lifecycle.ProbeWorkpieceBeforeOp
	opts.ParkAtEnd = c.Lifecycle.ParkAtEnd
	return opts
}

func setDefaults(v *viper.Viper) {
	d := FromOptions(post.DefaultOptions())
	v.SetDefault("output.machine", d.Output.Machine)
	v.SetDefault("output.tools", d.Output.Tools)
	v.SetDefault("output.version", d.Output.Version)
	v.SetDefault("lifecycle.home_before_start", d.Lifecycle.HomeBeforeStart)
	v.SetDefault("lifecycle.probe_workpiece_before_start", d.Lifecycle.ProbeWorkpieceBeforeStart)
	v.SetDefault("lifecycle.home_before_op", d.Lifecycle.HomeBeforeOp)
	v.SetDefault("lifecycle.probe_workpiece_before_op", d.Lifecycle.ProbeWorkpieceBeforeOp)
	v.SetDefault("lifecycle.park_at_end", d.Lifecycle.ParkAtEnd)
}

// Load reads the config. With an empty path, a milopost.* file in the
// working directory is used if there is one. It returns the file that was
// read, or "" when only defaults and the environment apply.
func Load(path string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (path != "" || !errors.As(err, &notFound)) {
		return nil, "", errors.Wrap(err, "read config")
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, "", errors.Wrap(err, "parse config")
	}

	return &cfg, v.ConfigFileUsed(), nil
}

// DefaultTOML renders the default config as a TOML document.
func DefaultTOML() ([]byte, error) {
	data, err := toml.Marshal(FromOptions(post.DefaultOptions()))
	if err != nil {
		return nil, errors.Wrap(err, "marshal defaults")
	}
	return data, nil
}
