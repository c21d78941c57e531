package config

import (
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/moodrig/parameter"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if cfg.Blend().FadeDuration != parameter.EmoteFadeDuration {
		t.Errorf("Expected fade %v, got %v", parameter.EmoteFadeDuration, cfg.Blend().FadeDuration)
	}
	if cfg.Expression().Columns != parameter.AtlasColumns {
		t.Errorf("Expected %d columns, got %d", parameter.AtlasColumns, cfg.Expression().Columns)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"MOODRIG_INSTANCES":       "3",
		"MOODRIG_FADE_DURATION":   "500ms",
		"MOODRIG_EMOTE_CHANCE":    "0.05",
		"MOODRIG_AUDIO":           "false",
		"MOODRIG_SERVER_ADDRESS":  "127.0.0.1:9000",
		"MOODRIG_NEUTRAL_PENALTY": "1.5",
		"UNRELATED":               "1",
	})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Instances != 3 {
		t.Errorf("Expected 3 instances, got %d", cfg.Instances)
	}
	if cfg.FadeDuration != 500*time.Millisecond {
		t.Errorf("Expected 500ms fade, got %v", cfg.FadeDuration)
	}
	if cfg.EmoteChance != 0.05 {
		t.Errorf("Expected chance 0.05, got %f", cfg.EmoteChance)
	}
	if cfg.Audio {
		t.Error("Expected audio disabled")
	}
	if cfg.ServerAddress != "127.0.0.1:9000" {
		t.Errorf("Expected address override, got %q", cfg.ServerAddress)
	}
	if got := cfg.Blend().NeutralPenalty; got != 1.5 {
		t.Errorf("Expected neutral penalty 1.5 in the blend config, got %f", got)
	}
	// Untouched knobs keep parameter defaults
	if cfg.StableThreshold != parameter.EmoteStableThreshold {
		t.Errorf("Expected default stable threshold, got %v", cfg.StableThreshold)
	}
}

func TestLoadFromRejectsMalformed(t *testing.T) {
	if _, err := LoadFrom(map[string]string{"MOODRIG_FRAME_INTERVAL": "soon"}); err == nil {
		t.Error("Expected malformed duration to fail")
	}
}

func TestFlagsOverlay(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("moodrig", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	if err := fs.Parse([]string{"-instances=2", "-audio=false", "-sprite-fps=24"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Instances != 2 || cfg.Audio || cfg.SpriteFPS != 24 {
		t.Errorf("Expected flags applied, got instances=%d audio=%v fps=%f", cfg.Instances, cfg.Audio, cfg.SpriteFPS)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no instances", func(c *Config) { c.Instances = 0 }, "instances"},
		{"zero frame", func(c *Config) { c.FrameInterval = 0 }, "frame interval"},
		{"negative fade", func(c *Config) { c.FadeDuration = -time.Second }, "fade"},
		{"chance above one", func(c *Config) { c.EmoteChance = 1.5 }, "emote chance"},
		{"no anchors", func(c *Config) { c.AnchorCount = 0 }, "anchor count"},
		{"zero fps", func(c *Config) { c.SpriteFPS = 0 }, "sprite fps"},
		{"empty grid", func(c *Config) { c.AtlasRows = 0 }, "atlas grid"},
		{"zero penalty", func(c *Config) { c.NeutralPenalty = 0 }, "neutral penalty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	zeroFade := Default()
	zeroFade.FadeDuration = 0
	if err := zeroFade.Validate(); err != nil {
		t.Errorf("Expected zero fade allowed, got %v", err)
	}
}
