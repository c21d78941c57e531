// Package config holds every host knob: parameter defaults, then MOODRIG_* environment, then flags
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/moodrig/blend"
	"github.com/lixenwraith/moodrig/expression"
	"github.com/lixenwraith/moodrig/parameter"
)

// EnvPrefix is prepended to every variable name
const EnvPrefix = "MOODRIG_"

// Config is the resolved host configuration
type Config struct {
	// Rig
	Instances       int           `env:"INSTANCES"`
	FrameInterval   time.Duration `env:"FRAME_INTERVAL"`
	StableThreshold time.Duration `env:"STABLE_THRESHOLD"`
	FadeDuration    time.Duration `env:"FADE_DURATION"`
	MinInterval     time.Duration `env:"MIN_INTERVAL"`
	EmoteDelay      time.Duration `env:"EMOTE_DELAY"`
	EmoteChance     float64       `env:"EMOTE_CHANCE"`
	AnchorCount     int           `env:"ANCHOR_COUNT"`
	NeutralPenalty  float64       `env:"NEUTRAL_PENALTY"`
	AutoEmotes      bool          `env:"AUTO_EMOTES"`
	Seed            int64         `env:"SEED"`

	// Face
	SpriteFPS    float64 `env:"SPRITE_FPS"`
	AtlasRows    int     `env:"ATLAS_ROWS"`
	AtlasColumns int     `env:"ATLAS_COLUMNS"`
	AtlasPath    string  `env:"ATLAS_PATH"`

	// Host
	ServerAddress string `env:"SERVER_ADDRESS"`
	Audio         bool   `env:"AUDIO"`
	Debug         bool   `env:"DEBUG"`
	LogLevel      string `env:"LOG_LEVEL"`
	LogJSON       bool   `env:"LOG_JSON"`
}

// Default returns the configuration built from parameter
func Default() Config {
	return Config{
		Instances:       1,
		FrameInterval:   parameter.FrameUpdateInterval,
		StableThreshold: parameter.EmoteStableThreshold,
		FadeDuration:    parameter.EmoteFadeDuration,
		MinInterval:     parameter.EmoteMinInterval,
		EmoteDelay:      parameter.EmoteDelay,
		EmoteChance:     parameter.EmoteChance,
		AnchorCount:     parameter.BlendAnchorCount,
		NeutralPenalty:  parameter.NeutralDistancePenalty,
		AutoEmotes:      true,

		SpriteFPS:    parameter.SpriteFPS,
		AtlasRows:    parameter.AtlasRows,
		AtlasColumns: parameter.AtlasColumns,
		AtlasPath:    parameter.AtlasPath,

		ServerAddress: parameter.ServerAddress,
		Audio:         true,
		LogLevel:      "info",
	}
}

// Load overlays the process environment on the defaults
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom overlays environ on the defaults, the process environment when environ is nil
// Unset variables keep the default
func LoadFrom(environ map[string]string) (Config, error) {
	cfg := Default()
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterFlags binds the host-facing knobs to fs, current values as defaults
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Instances, "instances", c.Instances, "number of characters to host")
	fs.DurationVar(&c.FrameInterval, "frame", c.FrameInterval, "host frame interval")
	fs.BoolVar(&c.AutoEmotes, "auto-emotes", c.AutoEmotes, "enable self-triggered emotes")
	fs.Float64Var(&c.EmoteChance, "emote-chance", c.EmoteChance, "per-frame auto emote probability once eligible")
	fs.Float64Var(&c.NeutralPenalty, "neutral-penalty", c.NeutralPenalty, "idle anchor distance multiplier in the blend ranking")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, 0 seeds from the clock")
	fs.Float64Var(&c.SpriteFPS, "sprite-fps", c.SpriteFPS, "face animation frame rate")
	fs.StringVar(&c.ServerAddress, "addr", c.ServerAddress, "control server listen address, empty disables")
	fs.BoolVar(&c.Audio, "audio", c.Audio, "play emote and mood cues")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "write debug logs to the logs directory")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&c.LogJSON, "log-json", c.LogJSON, "emit JSON log records")
}

// Validate rejects values the rig cannot run with
func (c Config) Validate() error {
	var errs []error

	if c.Instances < 1 {
		errs = append(errs, fmt.Errorf("instances must be at least 1, got %d", c.Instances))
	}
	for name, d := range map[string]time.Duration{
		"frame interval":   c.FrameInterval,
		"stable threshold": c.StableThreshold,
		"min interval":     c.MinInterval,
		"emote delay":      c.EmoteDelay,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, d))
		}
	}
	if c.FadeDuration < 0 {
		errs = append(errs, fmt.Errorf("fade duration must not be negative, got %v", c.FadeDuration))
	}
	if c.EmoteChance < 0 || c.EmoteChance > 1 {
		errs = append(errs, fmt.Errorf("emote chance must be within [0,1], got %f", c.EmoteChance))
	}
	if c.NeutralPenalty <= 0 {
		errs = append(errs, fmt.Errorf("neutral penalty must be positive, got %f", c.NeutralPenalty))
	}
	if c.AnchorCount < 1 {
		errs = append(errs, fmt.Errorf("anchor count must be at least 1, got %d", c.AnchorCount))
	}
	if c.SpriteFPS <= 0 {
		errs = append(errs, fmt.Errorf("sprite fps must be positive, got %f", c.SpriteFPS))
	}
	if c.AtlasRows < 1 || c.AtlasColumns < 1 {
		errs = append(errs, fmt.Errorf("atlas grid must be at least 1x1, got %dx%d", c.AtlasRows, c.AtlasColumns))
	}

	return errors.Join(errs...)
}

// Blend returns the controller tuning
func (c Config) Blend() blend.Config {
	cfg := blend.DefaultConfig()
	cfg.StableThreshold = c.StableThreshold
	cfg.FadeDuration = c.FadeDuration
	cfg.MinInterval = c.MinInterval
	cfg.EmoteDelay = c.EmoteDelay
	cfg.EmoteChance = c.EmoteChance
	cfg.AnchorCount = c.AnchorCount
	cfg.NeutralPenalty = c.NeutralPenalty
	return cfg
}

// Expression returns the atlas layout
func (c Config) Expression() expression.Config {
	cfg := expression.DefaultConfig()
	cfg.AtlasPath = c.AtlasPath
	cfg.Rows = c.AtlasRows
	cfg.Columns = c.AtlasColumns
	return cfg
}
