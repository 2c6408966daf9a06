package config

import (
	"strings"
	"time"
)

// Config is the root configuration of the bot. The three flat keys mirror the
// config.json layout operators already have; everything else is optional.
type Config struct {
	DiscordToken   string `json:"discord_token"`
	CraftyAPIToken string `json:"crafty_api_token"`
	CraftyAPIURL   string `json:"crafty_api_url"`

	App     AppConfig     `json:"app"`
	Crafty  CraftyConfig  `json:"crafty"`
	Poll    PollConfig    `json:"poll"`
	Discord DiscordConfig `json:"discord"`

	// Source is the file the config was read from; empty when defaults only.
	Source string `json:"-"`
}

type AppConfig struct {
	Env       string `json:"env"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	LogPath   string `json:"log_path"`
	HTTPAddr  string `json:"http_addr"`
}

// CraftyConfig tunes the control-panel HTTP client.
type CraftyConfig struct {
	InsecureSkipVerify bool `json:"insecure_skip_verify"`
}

// PollConfig drives the start/stop status polling sessions.
type PollConfig struct {
	IntervalSeconds    int    `json:"interval_seconds"`
	StartTicks         int    `json:"start_ticks"`
	StartTicksNoMarker int    `json:"start_ticks_no_marker"`
	StopTicks          int    `json:"stop_ticks"`
	ReadyPattern       string `json:"ready_pattern"`
	ProgressLogLines   int    `json:"progress_log_lines"`
}

// Interval returns the wait between two status checks.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// MarkerEnabled reports whether start sessions wait for the ready marker
// instead of the running flag.
func (p PollConfig) MarkerEnabled() bool {
	return strings.TrimSpace(p.ReadyPattern) != ""
}

// StartBudget returns the tick budget for start sessions.
func (p PollConfig) StartBudget() int {
	if p.MarkerEnabled() {
		return p.StartTicks
	}
	return p.StartTicksNoMarker
}

type DiscordConfig struct {
	GuildID               string  `json:"guild_id"`
	ConfirmTimeoutSeconds int     `json:"confirm_timeout_seconds"`
	HelpTimeoutSeconds    int     `json:"help_timeout_seconds"`
	EditsPerSecond        float64 `json:"edits_per_second"`
}

func (d DiscordConfig) ConfirmTimeout() time.Duration {
	return time.Duration(d.ConfirmTimeoutSeconds) * time.Second
}

func (d DiscordConfig) HelpTimeout() time.Duration {
	return time.Duration(d.HelpTimeoutSeconds) * time.Second
}

// Redacted returns a copy safe to print: secrets are masked.
func (c Config) Redacted() Config {
	out := c
	out.DiscordToken = mask(c.DiscordToken)
	out.CraftyAPIToken = mask(c.CraftyAPIToken)
	return out
}

func mask(secret string) string {
	secret = strings.TrimSpace(secret)
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****"
	}
}

// keySet tracks the field paths explicitly present in the config file.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault describes when and how a single field receives its default.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
