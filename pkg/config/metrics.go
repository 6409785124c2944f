package config

import (
	"fmt"
	"strings"
)

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// String returns a string representation of the metrics configuration.
func (c *MetricsConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Metrics ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	return b.String()
}
