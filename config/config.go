// Package config provides configuration loading for the arena server and simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"arena-server/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every server and simulation parameter.
type Config struct {
	Server          ServerConfig    `yaml:"server"`
	World           WorldConfig     `yaml:"world"`
	Actor           ActorConfig     `yaml:"actor"`
	Bot             BotConfig       `yaml:"bot"`
	Combat          CombatConfig    `yaml:"combat"`
	Effects         EffectsConfig   `yaml:"effects"`
	LeaderboardSize int             `yaml:"leaderboard_size"`
	Tiers           []sim.Tier      `yaml:"tiers"`
	Telemetry       TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds transport and loop settings.
type ServerConfig struct {
	Addr           string  `yaml:"addr"`
	WSPath         string  `yaml:"ws_path"`
	StaticDir      string  `yaml:"static_dir"`
	TickRate       int     `yaml:"tick_rate"`
	MaxConns       int     `yaml:"max_conns"`
	IPCooldownSec  int     `yaml:"ip_cooldown_sec"`
	Codec          string  `yaml:"codec"`
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
	ViewportMargin float64 `yaml:"viewport_margin"`
}

// WorldConfig holds world size and population.
type WorldConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	FoodCount       int     `yaml:"food_count"`
	BotCount        int     `yaml:"bot_count"`
	FoodRefillRatio float64 `yaml:"food_refill_ratio"` // refill when food < count * ratio
	FoodRefillBatch int     `yaml:"food_refill_batch"`
	FoodMinRadius   float64 `yaml:"food_min_radius"`
	FoodMaxRadius   float64 `yaml:"food_max_radius"`
	FoodPulseStep   float64 `yaml:"food_pulse_step"`
	Seed            int64   `yaml:"seed"`
}

// ActorConfig holds movement, health and respawn parameters.
type ActorConfig struct {
	PlayerSpeed      float64 `yaml:"player_speed"`
	BotSpeed         float64 `yaml:"bot_speed"`
	DeadZone         float64 `yaml:"dead_zone"`
	PlayerCoast      float64 `yaml:"player_coast"`
	BotArriveDist    float64 `yaml:"bot_arrive_dist"`
	BotArriveDamp    float64 `yaml:"bot_arrive_damp"`
	BaseHealth       float64 `yaml:"base_health"`
	HealthPerLevel   float64 `yaml:"health_per_level"`
	InvulnMS         int     `yaml:"invuln_ms"`
	RespawnDelayMS   int     `yaml:"respawn_delay_ms"`
	RespawnScoreKeep float64 `yaml:"respawn_score_keep"`
	SeedChance       float64 `yaml:"seed_chance"`
	SeedMinLevel     int     `yaml:"seed_min_level"`
	SeedMaxLevel     int     `yaml:"seed_max_level"`
	SeedScoreJitter  float64 `yaml:"seed_score_jitter"`
}

// BotConfig holds decision policy parameters.
type BotConfig struct {
	ForageRadius    float64 `yaml:"forage_radius"`
	SocialRadius    float64 `yaml:"social_radius"`
	WanderRange     float64 `yaml:"wander_range"`
	DecideMinMS     int     `yaml:"decide_min_ms"`
	DecideJitterMS  int     `yaml:"decide_jitter_ms"`
	AvoidWeight     float64 `yaml:"avoid_weight"`
	HuntScoreOffset float64 `yaml:"hunt_score_offset"`
}

// CombatConfig holds damage rules.
type CombatConfig struct {
	Clinch        float64 `yaml:"clinch"`
	MajorGap      int     `yaml:"major_gap"`
	MajorBase     float64 `yaml:"major_base"`
	MajorPerLevel float64 `yaml:"major_per_level"`
	MinorDamage   float64 `yaml:"minor_damage"`
	MinorChance   float64 `yaml:"minor_chance"`
	BonusRatio    float64 `yaml:"bonus_ratio"`
}

// EffectsConfig holds cosmetic particle and overlay settings.
type EffectsConfig struct {
	Drag          float64 `yaml:"drag"`
	EvolveCount   int     `yaml:"evolve_count"`
	EatCount      int     `yaml:"eat_count"`
	EvolveEventMS int     `yaml:"evolve_event_ms"`
	DamageEventMS int     `yaml:"damage_event_ms"`
	BonusEventMS  int     `yaml:"bonus_event_ms"`
}

// TelemetryConfig holds output settings.
type TelemetryConfig struct {
	OutputDir        string  `yaml:"output_dir"`
	StatsIntervalSec float64 `yaml:"stats_interval_sec"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// only keys present in the file overwrite defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size %.0fx%.0f must be positive", c.World.Width, c.World.Height))
	}
	if c.Server.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate %d must be positive", c.Server.TickRate))
	}
	if c.World.FoodCount < 0 || c.World.BotCount < 0 {
		errs = append(errs, fmt.Errorf("food_count and bot_count must not be negative"))
	}
	if c.World.FoodMinRadius <= 0 || c.World.FoodMaxRadius < c.World.FoodMinRadius {
		errs = append(errs, fmt.Errorf("food radius range [%.1f, %.1f] is invalid", c.World.FoodMinRadius, c.World.FoodMaxRadius))
	}
	switch c.Server.Codec {
	case "json", "msgpack":
	default:
		errs = append(errs, fmt.Errorf("unknown codec %q", c.Server.Codec))
	}
	if _, err := sim.NewTierTable(c.Tiers); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SimParams converts the loaded configuration into simulation parameters.
func (c *Config) SimParams() sim.Params {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return sim.Params{
		World: sim.Bounds{Width: c.World.Width, Height: c.World.Height},

		FoodCount:       c.World.FoodCount,
		FoodRefillRatio: c.World.FoodRefillRatio,
		FoodRefillBatch: c.World.FoodRefillBatch,
		FoodMinRadius:   c.World.FoodMinRadius,
		FoodMaxRadius:   c.World.FoodMaxRadius,
		FoodPulseStep:   c.World.FoodPulseStep,
		BotCount:        c.World.BotCount,

		PlayerSpeed:   c.Actor.PlayerSpeed,
		BotSpeed:      c.Actor.BotSpeed,
		DeadZone:      c.Actor.DeadZone,
		PlayerCoast:   c.Actor.PlayerCoast,
		BotArriveDist: c.Actor.BotArriveDist,
		BotArriveDamp: c.Actor.BotArriveDamp,

		BaseHealth:       c.Actor.BaseHealth,
		HealthPerLevel:   c.Actor.HealthPerLevel,
		Invulnerability:  ms(c.Actor.InvulnMS),
		RespawnDelay:     ms(c.Actor.RespawnDelayMS),
		RespawnScoreKeep: c.Actor.RespawnScoreKeep,
		SeedChance:       c.Actor.SeedChance,
		SeedMinLevel:     c.Actor.SeedMinLevel,
		SeedMaxLevel:     c.Actor.SeedMaxLevel,
		SeedScoreJitter:  c.Actor.SeedScoreJitter,

		ForageRadius:    c.Bot.ForageRadius,
		SocialRadius:    c.Bot.SocialRadius,
		WanderRange:     c.Bot.WanderRange,
		DecideMin:       ms(c.Bot.DecideMinMS),
		DecideJitter:    ms(c.Bot.DecideJitterMS),
		AvoidWeight:     c.Bot.AvoidWeight,
		HuntScoreOffset: c.Bot.HuntScoreOffset,

		Clinch:         c.Combat.Clinch,
		MajorGap:       c.Combat.MajorGap,
		MajorBase:      c.Combat.MajorBase,
		MajorPerLevel:  c.Combat.MajorPerLevel,
		MinorDamage:    c.Combat.MinorDamage,
		MinorChance:    c.Combat.MinorChance,
		KillBonusRatio: c.Combat.BonusRatio,

		ParticleDrag:    c.Effects.Drag,
		EvolveParticles: c.Effects.EvolveCount,
		EatParticles:    c.Effects.EatCount,
		EvolveEventTTL:  ms(c.Effects.EvolveEventMS),
		DamageEventTTL:  ms(c.Effects.DamageEventMS),
		BonusEventTTL:   ms(c.Effects.BonusEventMS),

		LeaderboardSize: c.LeaderboardSize,

		Tiers: c.Tiers,
	}
}

// TickInterval returns the wall-clock spacing of simulation ticks.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Server.TickRate)
}

// StatsInterval returns how often population stats are logged.
func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.Telemetry.StatsIntervalSec * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
