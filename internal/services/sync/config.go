// File: internal/services/sync/config.go
package sync

import (
	"errors"
	"time"
)

// ServerConfig configures the sync endpoint.
type ServerConfig struct {
	Host string
	Port int // 0 binds an ephemeral port

	// Broadcast tick bounds. Each tick waits a fresh uniform random
	// duration in [EmitMinInterval, EmitMaxInterval).
	EmitMinInterval time.Duration
	EmitMaxInterval time.Duration
}

func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "127.0.0.1",
		Port:            8123,
		EmitMinInterval: 1 * time.Second,
		EmitMaxInterval: 3 * time.Second,
	}
}

func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("port must be in [0, 65535]")
	}
	if c.EmitMinInterval <= 0 {
		return errors.New("emit min interval must be positive")
	}
	if c.EmitMaxInterval < c.EmitMinInterval {
		return errors.New("emit max interval must be >= emit min interval")
	}
	return nil
}

// ClientConfig configures the sync client.
type ClientConfig struct {
	URL string

	HeartbeatInterval time.Duration
	BackoffFloor      time.Duration
	BackoffCeiling    time.Duration
}

func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		HeartbeatInterval: 10 * time.Second,
		BackoffFloor:      1 * time.Second,
		BackoffCeiling:    10 * time.Second,
	}
}

func (c *ClientConfig) Validate() error {
	if c.URL == "" {
		return errors.New("endpoint URL is required")
	}
	if c.HeartbeatInterval <= 0 {
		return errors.New("heartbeat interval must be positive")
	}
	if c.BackoffFloor <= 0 {
		return errors.New("backoff floor must be positive")
	}
	if c.BackoffCeiling < c.BackoffFloor {
		return errors.New("backoff ceiling must be >= backoff floor")
	}
	return nil
}
