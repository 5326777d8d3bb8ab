package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/gasoracle/oracled/daemon"
	"github.com/GPTx-global/gasoracle/oracled/types"
)

const (
	// FileName is the name of the config file inside the home directory
	FileName = "config.toml"

	// DataDir holds the application database
	DataDir = "data"

	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

// Config is the content of config.toml
type Config struct {
	ChainID string        `toml:"chain_id" mapstructure:"chain_id"`
	Log     LogConfig     `toml:"log" mapstructure:"log"`
	Keyring KeyringConfig `toml:"keyring" mapstructure:"keyring"`
	Server  ServerConfig  `toml:"server" mapstructure:"server"`
	Feeder  FeederConfig  `toml:"feeder" mapstructure:"feeder"`
}

type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
}

type KeyringConfig struct {
	Backend string `toml:"backend" mapstructure:"backend"`
}

type ServerConfig struct {
	Enable             bool     `toml:"enable" mapstructure:"enable"`
	Address            string   `toml:"address" mapstructure:"address"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins" mapstructure:"cors_allowed_origins"`
	EnableTelemetry    bool     `toml:"enable_telemetry" mapstructure:"enable_telemetry"`
	// PrometheusRetentionTime enables the prometheus format of /metrics when positive
	PrometheusRetentionTime int64 `toml:"prometheus_retention_time" mapstructure:"prometheus_retention_time"`
}

type FeederConfig struct {
	Enable         bool        `toml:"enable" mapstructure:"enable"`
	From           string      `toml:"from" mapstructure:"from"`
	Workers        int         `toml:"workers" mapstructure:"workers"`
	ChannelSize    int         `toml:"channel_size" mapstructure:"channel_size"`
	HealthInterval string      `toml:"health_interval" mapstructure:"health_interval"`
	MaxSilence     string      `toml:"max_silence" mapstructure:"max_silence"`
	Jobs           []JobConfig `toml:"jobs" mapstructure:"jobs"`
}

type JobConfig struct {
	Token    string `toml:"token" mapstructure:"token"`
	URL      string `toml:"url" mapstructure:"url"`
	Path     string `toml:"path" mapstructure:"path"`
	Interval string `toml:"interval" mapstructure:"interval"`
}

// DefaultConfig returns the config written by init
func DefaultConfig() *Config {
	return &Config{
		ChainID: "gasoracle-local",
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatPlain,
		},
		Keyring: KeyringConfig{
			Backend: keyring.BackendTest,
		},
		Server: ServerConfig{
			Enable:             true,
			Address:            "127.0.0.1:1318",
			CORSAllowedOrigins: []string{"*"},
			EnableTelemetry:    true,
		},
		Feeder: FeederConfig{
			Enable:         false,
			Workers:        4,
			ChannelSize:    64,
			HealthInterval: "30s",
			MaxSilence:     "10m",
			Jobs: []JobConfig{
				{
					Token:    "ATOM",
					URL:      "https://example.com/gas-prices.json",
					Path:     "cosmoshub.average",
					Interval: "1m",
				},
			},
		},
	}
}

// Validate checks the values that would only fail later at runtime
func (c Config) Validate() error {
	if c.ChainID == "" {
		return fmt.Errorf("chain_id is required")
	}
	if _, err := log.AllowLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if c.Log.Format != LogFormatPlain && c.Log.Format != LogFormatJSON {
		return fmt.Errorf("log.format must be %q or %q", LogFormatPlain, LogFormatJSON)
	}
	if c.Server.Enable && c.Server.Address == "" {
		return fmt.Errorf("server.address is required when the server is enabled")
	}
	if c.Feeder.Enable {
		if c.Feeder.From == "" {
			return fmt.Errorf("feeder.from is required when the feeder is enabled")
		}
		if _, err := c.Feeder.DaemonConfig(); err != nil {
			return errors.Wrap(err, "feeder")
		}
	}
	return nil
}

// DaemonConfig converts the feeder section into daemon settings
func (f FeederConfig) DaemonConfig() (daemon.Config, error) {
	healthInterval, err := cast.ToDurationE(f.HealthInterval)
	if err != nil {
		return daemon.Config{}, errors.Wrap(err, "health_interval")
	}
	if healthInterval <= 0 {
		return daemon.Config{}, fmt.Errorf("health_interval must be positive")
	}

	var maxSilence time.Duration
	if f.MaxSilence != "" {
		if maxSilence, err = cast.ToDurationE(f.MaxSilence); err != nil {
			return daemon.Config{}, errors.Wrap(err, "max_silence")
		}
	}

	jobs := make([]types.Job, 0, len(f.Jobs))
	for i, job := range f.Jobs {
		interval, err := cast.ToDurationE(job.Interval)
		if err != nil {
			return daemon.Config{}, errors.Wrapf(err, "jobs[%d].interval", i)
		}
		if job.Token == "" || job.URL == "" || job.Path == "" || interval <= 0 {
			return daemon.Config{}, fmt.Errorf("jobs[%d]: token, url, path and a positive interval are required", i)
		}

		jobs = append(jobs, types.Job{
			Token:    job.Token,
			URL:      job.URL,
			Path:     job.Path,
			Interval: interval,
		})
	}

	return daemon.Config{
		Workers:        f.Workers,
		ChannelSize:    f.ChannelSize,
		HealthInterval: healthInterval,
		MaxSilence:     maxSilence,
		Jobs:           jobs,
	}, nil
}

// WriteConfigFile writes config as TOML to path, creating its directory
func WriteConfigFile(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", filepath.Dir(path))
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal TOML")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// ReadConfigFile parses the TOML file at path on top of the defaults. Jobs are
// taken from the file only.
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	config.Feeder.Jobs = nil
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse TOML")
	}
	return config, nil
}

// FromViper decodes the settings loaded by v on top of the defaults
func FromViper(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	config.Feeder.Jobs = nil
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

// NewLogger builds the logger described by the log section
func (c LogConfig) NewLogger(w io.Writer) (log.Logger, error) {
	var logger log.Logger
	switch c.Format {
	case LogFormatJSON:
		logger = log.NewTMJSONLogger(log.NewSyncWriter(w))
	default:
		logger = log.NewTMLogger(log.NewSyncWriter(w))
	}

	option, err := log.AllowLevel(c.Level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, option), nil
}
