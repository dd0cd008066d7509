// File: internal/services/store/config.go
package store

import (
	"errors"
)

type Config struct {
	// Seed volume
	SeedChats     int
	SeedMessages  int
	SeedBatchSize int

	// Search settings
	SearchLimit int
}

func DefaultConfig() *Config {
	return &Config{
		SeedChats:     200,
		SeedMessages:  20000,
		SeedBatchSize: 500,
		SearchLimit:   50,
	}
}

func (c *Config) Validate() error {
	if c.SeedChats <= 0 {
		return errors.New("seed chat count must be positive")
	}
	if c.SeedMessages <= 0 {
		return errors.New("seed message count must be positive")
	}
	if c.SeedBatchSize <= 0 {
		return errors.New("seed batch size must be positive")
	}
	if c.SearchLimit <= 0 {
		return errors.New("search limit must be positive")
	}
	return nil
}
