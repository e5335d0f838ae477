// Package config decodes the server's HCL configuration document into the
// knobs internal/engine, internal/table, internal/session, and
// internal/persistence need at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete, decoded server configuration.
type Config struct {
	Network     NetworkSettings     `hcl:"network,block"`
	Auth        AuthSettings        `hcl:"auth,block"`
	Persistence PersistenceSettings `hcl:"persistence,block"`
	Game        GameSettings        `hcl:"game,block"`
	Maintenance MaintenanceSettings `hcl:"maintenance,block"`
}

// AuthSettings selects how a connecting client's bearer token is resolved
// to a user-id. Mode "dev" trusts the token as the user-id directly; mode
// "http" delegates to an external validation endpoint.
type AuthSettings struct {
	Mode           string `hcl:"mode,optional"`
	URL            string `hcl:"url,optional"`
	TimeoutSeconds int    `hcl:"timeout_seconds,optional"`
}

// NetworkSettings controls the websocket listener.
type NetworkSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	Origin      string `hcl:"origin,optional"`
	PingSeconds int    `hcl:"ping_seconds,optional"`
	PongSeconds int    `hcl:"pong_seconds,optional"`
}

// PersistenceSettings points at the transactional store backing
// internal/persistence's Bankroll/HandHistoryWriter/StatsWriter.
type PersistenceSettings struct {
	URL            string `hcl:"url,optional"`
	Enable         bool   `hcl:"enable,optional"`
	HandHistoryDir string `hcl:"hand_history_dir,optional"`
}

// GameSettings holds the defaults new tables and hands are created with.
type GameSettings struct {
	DefaultBlinds          string  `hcl:"default_blinds,optional"`
	RakePercent            float64 `hcl:"rake_percent,optional"`
	RakeCapBB              float64 `hcl:"rake_cap_bb,optional"`
	ActionTimeoutMs        int     `hcl:"action_timeout_ms,optional"`
	StreetTransitionMs     int     `hcl:"street_transition_ms,optional"`
	ResultDisplayMs        int     `hcl:"result_display_ms,optional"`
	PostHandDelayMs        int     `hcl:"post_hand_delay_ms,optional"`
	DisconnectGraceSeconds int     `hcl:"disconnect_grace_seconds,optional"`
}

// MaintenanceSettings seeds the atomic maintenance gate.
type MaintenanceSettings struct {
	Active  bool   `hcl:"active,optional"`
	Message string `hcl:"message,optional"`
}

// Default returns the configuration used when no file is present, mirroring
// section 6.2's recognised defaults.
func Default() *Config {
	return &Config{
		Network: NetworkSettings{
			Address:     "0.0.0.0",
			Port:        8080,
			Origin:      "*",
			PingSeconds: 54,
			PongSeconds: 60,
		},
		Auth: AuthSettings{
			Mode:           "dev",
			TimeoutSeconds: 2,
		},
		Persistence: PersistenceSettings{
			Enable:         false,
			HandHistoryDir: "./hand-history",
		},
		Game: GameSettings{
			DefaultBlinds:          "1/3",
			RakePercent:            0.05,
			RakeCapBB:              1,
			ActionTimeoutMs:        20000,
			StreetTransitionMs:     1000,
			ResultDisplayMs:        4000,
			PostHandDelayMs:        2000,
			DisconnectGraceSeconds: 30,
		},
		Maintenance: MaintenanceSettings{
			Active: false,
		},
	}
}

// Load reads and decodes filename, falling back to Default when the file
// does not exist. Zero-valued fields left unset by the document are filled
// in from the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	cfg := Default()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills any field the document left at its zero value, since
// gohcl.DecodeBody overwrites the struct passed to Default with whatever
// blocks it finds, including zero values for fields the document omits.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Network.Address == "" {
		cfg.Network.Address = def.Network.Address
	}
	if cfg.Network.Port == 0 {
		cfg.Network.Port = def.Network.Port
	}
	if cfg.Network.Origin == "" {
		cfg.Network.Origin = def.Network.Origin
	}
	if cfg.Network.PingSeconds == 0 {
		cfg.Network.PingSeconds = def.Network.PingSeconds
	}
	if cfg.Network.PongSeconds == 0 {
		cfg.Network.PongSeconds = def.Network.PongSeconds
	}
	if cfg.Persistence.HandHistoryDir == "" {
		cfg.Persistence.HandHistoryDir = def.Persistence.HandHistoryDir
	}
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = def.Auth.Mode
	}
	if cfg.Auth.TimeoutSeconds == 0 {
		cfg.Auth.TimeoutSeconds = def.Auth.TimeoutSeconds
	}
	if cfg.Game.DefaultBlinds == "" {
		cfg.Game.DefaultBlinds = def.Game.DefaultBlinds
	}
	if cfg.Game.RakePercent == 0 {
		cfg.Game.RakePercent = def.Game.RakePercent
	}
	if cfg.Game.RakeCapBB == 0 {
		cfg.Game.RakeCapBB = def.Game.RakeCapBB
	}
	if cfg.Game.ActionTimeoutMs == 0 {
		cfg.Game.ActionTimeoutMs = def.Game.ActionTimeoutMs
	}
	if cfg.Game.StreetTransitionMs == 0 {
		cfg.Game.StreetTransitionMs = def.Game.StreetTransitionMs
	}
	if cfg.Game.ResultDisplayMs == 0 {
		cfg.Game.ResultDisplayMs = def.Game.ResultDisplayMs
	}
	if cfg.Game.PostHandDelayMs == 0 {
		cfg.Game.PostHandDelayMs = def.Game.PostHandDelayMs
	}
	if cfg.Game.DisconnectGraceSeconds == 0 {
		cfg.Game.DisconnectGraceSeconds = def.Game.DisconnectGraceSeconds
	}
}

// Validate checks the decoded configuration for values the rest of the
// system cannot safely operate on.
func (c *Config) Validate() error {
	if c.Network.Port < 1 || c.Network.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Network.Port)
	}
	if _, _, err := ParseBlinds(c.Game.DefaultBlinds); err != nil {
		return fmt.Errorf("config: default_blinds: %w", err)
	}
	if c.Game.RakePercent < 0 || c.Game.RakePercent >= 1 {
		return fmt.Errorf("config: rake_percent must be in [0, 1), got %v", c.Game.RakePercent)
	}
	if c.Game.RakeCapBB < 0 {
		return fmt.Errorf("config: rake_cap_bb must not be negative")
	}
	if c.Game.ActionTimeoutMs <= 0 {
		return fmt.Errorf("config: action_timeout_ms must be positive")
	}
	if c.Persistence.Enable && c.Persistence.URL == "" {
		return fmt.Errorf("config: persistence.url is required when persistence.enable is true")
	}
	switch c.Auth.Mode {
	case "dev":
	case "http":
		if c.Auth.URL == "" {
			return fmt.Errorf("config: auth.url is required when auth.mode is \"http\"")
		}
	default:
		return fmt.Errorf("config: unknown auth.mode %q", c.Auth.Mode)
	}
	return nil
}

// ParseBlinds parses a "small/big" blind pair as used by default_blinds and
// the matchmaking:join wire message's blindLevel field.
func ParseBlinds(s string) (small, big int, err error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"small/big\", got %q", s)
	}
	small, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid small blind %q: %w", parts[0], err)
	}
	big, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid big blind %q: %w", parts[1], err)
	}
	if small <= 0 || big <= small {
		return 0, 0, fmt.Errorf("blinds must satisfy 0 < small < big, got %d/%d", small, big)
	}
	return small, big, nil
}

// ActionTimeout, StreetTransitionDelay, ResultDisplayDelay, PostHandDelay,
// and DisconnectGrace convert the millisecond/second config fields into the
// time.Duration values table.Config and control.Controller consume.

func (c *Config) ActionTimeout() time.Duration {
	return time.Duration(c.Game.ActionTimeoutMs) * time.Millisecond
}

func (c *Config) StreetTransitionDelay() time.Duration {
	return time.Duration(c.Game.StreetTransitionMs) * time.Millisecond
}

func (c *Config) ResultDisplayDelay() time.Duration {
	return time.Duration(c.Game.ResultDisplayMs) * time.Millisecond
}

func (c *Config) PostHandDelay() time.Duration {
	return time.Duration(c.Game.PostHandDelayMs) * time.Millisecond
}

func (c *Config) DisconnectGrace() time.Duration {
	return time.Duration(c.Game.DisconnectGraceSeconds) * time.Second
}

func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.Network.PingSeconds) * time.Second
}

func (c *Config) PongTimeout() time.Duration {
	return time.Duration(c.Network.PongSeconds) * time.Second
}

func (c *Config) AuthTimeout() time.Duration {
	return time.Duration(c.Auth.TimeoutSeconds) * time.Second
}
