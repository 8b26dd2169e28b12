// Package config defines the configuration schema for edutools.
//
// Files are JSON by default; a .yaml or .yml extension switches the loader
// to YAML. Keys use camelCase in both formats.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/edutools/edutools/internal/config/api"
	"github.com/edutools/edutools/internal/config/gateway"
	"github.com/edutools/edutools/internal/config/tool"
)

// Config is the root configuration object.
type Config struct {
	API      api.APIConfig         `json:"api" yaml:"api"`
	Gateway  gateway.GatewayConfig `json:"gateway" yaml:"gateway"`
	Tools    tool.ToolsConfig      `json:"tools" yaml:"tools"`
	LogLevel string                `json:"logLevel" yaml:"logLevel"`
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() Config {
	return Config{
		API:      api.DefaultAPIConfig(),
		Gateway:  gateway.DefaultGatewayConfig(),
		Tools:    tool.DefaultToolsConfig(),
		LogLevel: "info",
	}
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ListenAddr returns host:port for the HTTP transport.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Gateway.Host, c.Gateway.Port)
}

// ToolEnabled reports whether name is exposed on the MCP endpoint.
func (c *Config) ToolEnabled(name string) bool {
	for _, d := range c.Tools.Disabled {
		if d == name {
			return false
		}
	}
	return true
}
