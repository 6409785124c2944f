package config

import (
	"fmt"
	"strings"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// StoreConfig selects the product store backend.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	Seed   bool   `koanf:"seed"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	b.WriteString(fmt.Sprintf("  seed: %t\n", c.Seed))
	return b.String()
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreDriverMemory, StoreDriverPostgres:
		return nil
	default:
		return fmt.Errorf("unknown store driver: %q", c.Driver)
	}
}
