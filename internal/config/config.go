// Package config loads and validates livedom.json project
// configuration.
package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/livedom-dev/livedom/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "livedom.json"

	// DefaultAddress is the default sink server listen address.
	DefaultAddress = "localhost:7420"

	// DefaultSnapshotTTL is the default snapshot retention duration.
	DefaultSnapshotTTL = "24h"
)

// Config represents the complete livedom.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Server contains sink server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Snapshot contains snapshot store settings.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Record contains frame recorder settings.
	Record RecordConfig `json:"record,omitempty"`

	// Limits contains protocol limit settings.
	Limits LimitsConfig `json:"limits,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains sink server settings.
type ServerConfig struct {
	// Address is the host:port the server binds to.
	Address string `json:"address,omitempty"`

	// ReadTimeout is the websocket read deadline (e.g. "60s").
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout is the websocket write deadline (e.g. "10s").
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// HeartbeatInterval is how often pings are sent (e.g. "30s").
	HeartbeatInterval string `json:"heartbeatInterval,omitempty"`

	// Metrics enables the /metrics endpoint.
	Metrics bool `json:"metrics,omitempty"`
}

// SnapshotConfig contains snapshot store settings.
type SnapshotConfig struct {
	// Backend selects the store: "memory" (default) or "redis".
	Backend string `json:"backend,omitempty"`

	// RedisAddr is the Redis host:port, required for the redis backend.
	RedisAddr string `json:"redis_addr,omitempty"`

	// Prefix is the Redis key prefix.
	Prefix string `json:"prefix,omitempty"`

	// TTL is how long snapshots are retained (e.g. "24h").
	TTL string `json:"ttl,omitempty"`
}

// RecordConfig contains frame recorder settings.
type RecordConfig struct {
	// Backend selects the recorder: "none" (default), "disk" or "s3".
	Backend string `json:"backend,omitempty"`

	// Dir is the segment directory, required for the disk backend.
	Dir string `json:"dir,omitempty"`

	// Bucket is the S3 bucket, required for the s3 backend.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the S3 object key prefix.
	Prefix string `json:"prefix,omitempty"`
}

// LimitsConfig contains protocol limit settings.
type LimitsConfig struct {
	// MaxDisplays caps live displays per connection (0 = unlimited).
	MaxDisplays int `json:"maxDisplays,omitempty"`

	// MaxFrameRate caps frames per second per connection (0 = unlimited).
	MaxFrameRate int `json:"maxFrameRate,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Server: ServerConfig{
			Address:           DefaultAddress,
			ReadTimeout:       "60s",
			WriteTimeout:      "10s",
			HeartbeatInterval: "30s",
			Metrics:           true,
		},
		Snapshot: SnapshotConfig{
			Backend: "memory",
			TTL:     DefaultSnapshotTTL,
		},
		Record: RecordConfig{
			Backend: "none",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for livedom.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("LD101").
				WithDetail("No livedom.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("LD102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("LD102").
			WithDetail("Failed to parse livedom.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("LD102").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("LD102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "60s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "10s"
	}
	if c.Server.HeartbeatInterval == "" {
		c.Server.HeartbeatInterval = "30s"
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = "memory"
	}
	if c.Snapshot.TTL == "" {
		c.Snapshot.TTL = DefaultSnapshotTTL
	}
	if c.Record.Backend == "" {
		c.Record.Backend = "none"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
		return errors.New("LD103").
			WithDetail("server.address " + c.Server.Address + " is not host:port")
	}

	for _, d := range []string{c.Server.ReadTimeout, c.Server.WriteTimeout, c.Server.HeartbeatInterval, c.Snapshot.TTL} {
		if _, err := time.ParseDuration(d); err != nil {
			return errors.Newf(errors.CategoryConfig, "invalid duration %q", d)
		}
	}

	switch c.Snapshot.Backend {
	case "memory":
	case "redis":
		if c.Snapshot.RedisAddr == "" {
			return errors.New("LD105")
		}
	default:
		return errors.New("LD104").
			WithDetail("snapshot.backend " + c.Snapshot.Backend + " is not supported")
	}

	switch c.Record.Backend {
	case "none":
	case "disk":
		if c.Record.Dir == "" {
			return errors.New("LD107").
				WithDetail("record.backend is \"disk\" but record.dir is empty")
		}
	case "s3":
		if c.Record.Bucket == "" {
			return errors.New("LD107").
				WithDetail("record.backend is \"s3\" but record.bucket is empty")
		}
	default:
		return errors.New("LD106").
			WithDetail("record.backend " + c.Record.Backend + " is not supported")
	}

	if c.Limits.MaxDisplays < 0 || c.Limits.MaxFrameRate < 0 {
		return errors.Newf(errors.CategoryConfig, "limits must not be negative")
	}
	return nil
}

// ReadTimeoutDuration returns the parsed read timeout.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.Server.ReadTimeout, 60*time.Second)
}

// WriteTimeoutDuration returns the parsed write timeout.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.Server.WriteTimeout, 10*time.Second)
}

// HeartbeatDuration returns the parsed heartbeat interval.
func (c *Config) HeartbeatDuration() time.Duration {
	return mustDuration(c.Server.HeartbeatInterval, 30*time.Second)
}

// SnapshotTTLDuration returns the parsed snapshot TTL.
func (c *Config) SnapshotTTLDuration() time.Duration {
	return mustDuration(c.Snapshot.TTL, 24*time.Hour)
}

// mustDuration parses d, falling back for values that slipped past
// validation.
func mustDuration(d string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(d)
	if err != nil {
		return fallback
	}
	return parsed
}
