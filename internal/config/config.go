// Package config loads the settings shared by the spectro commands from
// defaults, an optional YAML file, SPECTRO_* environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/neurlang/spectro/codec"
	"github.com/neurlang/spectro/logging"
	"github.com/neurlang/spectro/spectral"
	"github.com/neurlang/spectro/window"
)

// EnvPrefix prefixes every environment variable read by the commands.
const EnvPrefix = "SPECTRO"

// Config represents the command configuration
type Config struct {
	SamplingFrequency int     `mapstructure:"sampling_frequency"`
	Window            string  `mapstructure:"window"`
	FrameSize         int     `mapstructure:"frame_size"`
	Overlap           int     `mapstructure:"overlap"`
	Edge              string  `mapstructure:"edge"`
	ReferenceLevel    float64 `mapstructure:"reference_level"`
	SampleWidth       int     `mapstructure:"sample_width"`
	Phase             string  `mapstructure:"phase"`
	Iterations        int     `mapstructure:"iterations"`
	Workers           int     `mapstructure:"workers"`
	LogLevel          string  `mapstructure:"log_level"`

	// keys set by a config file, the environment or a changed flag
	explicit map[string]bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sampling_frequency", 44100)
	v.SetDefault("window", window.Hann.String())
	v.SetDefault("frame_size", spectral.DefaultFrameSize)
	v.SetDefault("overlap", spectral.DefaultFrameSize/2)
	v.SetDefault("edge", spectral.EdgePad.String())
	v.SetDefault("reference_level", spectral.ReferenceLevel(2))
	v.SetDefault("sample_width", 2)
	v.SetDefault("phase", spectral.PhaseZero.String())
	v.SetDefault("iterations", spectral.DefaultIterations)
	v.SetDefault("workers", 0)
	v.SetDefault("log_level", logging.InfoLevel.String())
}

// New returns a viper instance with defaults and environment lookup. When
// configFile is set it is read from fs.
func New(fs afero.Fs, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// AddFlags registers the shared flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML config file")
	fs.Int("sampling-frequency", 44100, "sampling frequency in Hz when the input does not record it")
	fs.String("window", window.Hann.String(), "window kernel (uniform, hann, hamming, exact-blackman, blackman-harris, flat-top)")
	fs.Int("frame-size", spectral.DefaultFrameSize, "samples per analysis frame")
	fs.Int("overlap", spectral.DefaultFrameSize/2, "samples shared by consecutive frames")
	fs.String("edge", spectral.EdgePad.String(), "trailing frame policy (pad, drop, retain)")
	fs.Float64("reference-level", spectral.ReferenceLevel(2), "full scale amplitude when the input does not record it")
	fs.Int("sample-width", 2, "output sample width in bytes when the input does not record it")
	fs.String("phase", spectral.PhaseZero.String(), "missing phase policy (require, zero, griffinlim)")
	fs.Int("iterations", spectral.DefaultIterations, "Griffin-Lim iterations")
	fs.Int("workers", 0, "concurrent frames, 0 for one per CPU")
	fs.String("log-level", logging.InfoLevel.String(), "log level (debug, info, warn, error)")
}

// BindFlags binds every flag in fs to the key with dashes replaced by
// underscores.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || err != nil {
			return
		}
		err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return err
}

// FromFlags builds the configuration for a command from its parsed flags,
// reading the file named by --config from fs.
func FromFlags(fs afero.Fs, flags *pflag.FlagSet) (*Config, error) {
	file, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	v, err := New(fs, file)
	if err != nil {
		return nil, err
	}
	if err := BindFlags(v, flags); err != nil {
		return nil, err
	}
	c, err := Load(v)
	if err != nil {
		return nil, err
	}
	flags.Visit(func(f *pflag.Flag) {
		c.explicit[strings.ReplaceAll(f.Name, "-", "_")] = true
	})
	return c, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.explicit = make(map[string]bool)
	for _, key := range v.AllKeys() {
		_, env := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(key))
		if env || v.InConfig(key) {
			c.explicit[key] = true
		}
	}
	return c, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.Analysis(); err != nil {
		return err
	}
	if _, err := c.Synthesis(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.SamplingFrequency <= 0 {
		return fmt.Errorf("sampling frequency must be positive")
	}
	if !(c.ReferenceLevel > 0) {
		return fmt.Errorf("reference level must be positive")
	}
	if c.SampleWidth < 1 || c.SampleWidth > 4 {
		return fmt.Errorf("sample width must be 1 to 4 bytes")
	}
	return nil
}

// Analysis returns the spectral analysis settings.
func (c *Config) Analysis() (spectral.Config, error) {
	k, err := window.Lookup(c.Window)
	if err != nil {
		return spectral.Config{}, err
	}
	edge, err := spectral.ParseEdgePolicy(c.Edge)
	if err != nil {
		return spectral.Config{}, err
	}
	cfg := spectral.DefaultConfig()
	cfg.Window = k
	cfg.FrameSize = c.FrameSize
	cfg.Overlap = c.Overlap
	cfg.Edge = edge
	cfg.Workers = c.Workers
	if err := cfg.Validate(); err != nil {
		return spectral.Config{}, err
	}
	return cfg, nil
}

// Synthesis returns the resynthesis settings.
func (c *Config) Synthesis() (spectral.SynthOptions, error) {
	p, err := spectral.ParsePhasePolicy(c.Phase)
	if err != nil {
		return spectral.SynthOptions{}, err
	}
	if c.Workers < 0 {
		return spectral.SynthOptions{}, fmt.Errorf("workers cannot be negative")
	}
	return spectral.SynthOptions{Phase: p, Iterations: c.Iterations, Workers: c.Workers}, nil
}

// Defaults returns the metadata used for images without a sidecar. Only
// settings given by a config file, the environment or a flag are included,
// so decoding still fails on metadata nobody supplied.
func (c *Config) Defaults() codec.Metadata {
	var m codec.Metadata
	if c.explicit["sampling_frequency"] {
		m.SamplingFrequency = c.SamplingFrequency
	}
	if c.explicit["window"] {
		m.Window = c.Window
	}
	if c.explicit["reference_level"] {
		m.ReferenceLevel = c.ReferenceLevel
	}
	if c.explicit["frame_size"] {
		m.FrameSize = c.FrameSize
	}
	if c.explicit["frame_size"] || c.explicit["overlap"] {
		m.Hop = c.FrameSize - c.Overlap
	}
	if c.explicit["sample_width"] {
		m.SampleWidth = c.SampleWidth
	}
	return m
}

// Logger returns a logrus backed logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(w, level), nil
}
