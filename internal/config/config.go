// Package config owns the runtime configuration file surface.
//
// Ownership boundary:
// - TOML shape and defaults for the coresim binary
// - validation before the simulator is built
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/coresim/internal/sim"
)

// Config is the resolved runtime configuration for one coresim process.
type Config struct {
	Sim         sim.Config
	AdminAddr   string
	CorsOrigins []string
}

// Runtime defaults: reference workload, no admin surface.
func Default() Config {
	return Config{
		Sim: sim.DefaultConfig(),
	}
}

type fileConfig struct {
	AdminAddr       string   `toml:"admin_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
	FloatingEnabled bool     `toml:"floating_enabled"`

	Workload struct {
		Instructions int   `toml:"instructions"`
		Seed         int64 `toml:"seed"`
		AbortPercent int   `toml:"abort_percent"`
		Registers    int   `toml:"registers"`
	} `toml:"workload"`
}

// Load reads path and overlays it on the defaults. Absent keys keep their
// default values; present keys win even when zero.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load coresim config: %w", err)
	}

	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("floating_enabled") {
		cfg.Sim.FloatingEnabled = raw.FloatingEnabled
	}
	if meta.IsDefined("workload", "instructions") {
		cfg.Sim.Workload.Instructions = raw.Workload.Instructions
	}
	if meta.IsDefined("workload", "seed") {
		cfg.Sim.Workload.Seed = raw.Workload.Seed
	}
	if meta.IsDefined("workload", "abort_percent") {
		cfg.Sim.Workload.AbortPercent = raw.Workload.AbortPercent
	}
	if meta.IsDefined("workload", "registers") {
		cfg.Sim.Workload.Registers = raw.Workload.Registers
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
