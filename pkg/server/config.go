package server

import (
	"net/http"
	"time"
)

// Config holds sink server settings.
type Config struct {
	// Address is the host:port to bind.
	Address string

	// ReadTimeout is the websocket read deadline.
	ReadTimeout time.Duration

	// WriteTimeout is the websocket write deadline.
	WriteTimeout time.Duration

	// HeartbeatInterval is how often pings are sent to producers.
	HeartbeatInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// ReadBufferSize is the websocket read buffer size.
	ReadBufferSize int

	// WriteBufferSize is the websocket write buffer size.
	WriteBufferSize int

	// MaxMessageSize caps incoming websocket messages.
	MaxMessageSize int64

	// MaxDisplays caps live displays per connection (0 = unlimited).
	MaxDisplays int

	// Metrics enables the /metrics endpoint.
	Metrics bool

	// CheckOrigin validates websocket upgrade origins.
	// Default: allow all (producers are trusted backends, not browsers).
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default sink server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:           "localhost:7420",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		MaxMessageSize:    1 << 20,
		Metrics:           true,
		CheckOrigin:       func(r *http.Request) bool { return true },
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	return c
}
