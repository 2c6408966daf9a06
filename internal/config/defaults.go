package config

import "strings"

const (
	defaultAppEnv            = "prod"
	defaultAppLogLevel       = "info"
	defaultAppLogFormat      = "text"
	defaultAppHTTPAddr       = ":9992"
	defaultCraftyAPIURL      = "https://localhost:8443/api/v2"
	defaultPollInterval      = 5
	defaultPollStartTicks    = 12
	defaultPollStartNoMarker = 5
	defaultPollStopTicks     = 8
	defaultPollLogLines      = 10
	defaultReadyPattern      = `Done \([^)]*\)! For help, type "help"`
	defaultConfirmTimeout    = 60
	defaultHelpTimeout       = 180
	defaultEditsPerSecond    = 1
)

// Defaults returns a config populated only with default values.
func Defaults() *Config {
	cfg := &Config{}
	cfg.applyDefaults(nil)
	return cfg
}

func (c *Config) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		stringFieldDefault("crafty_api_url", &c.CraftyAPIURL, defaultCraftyAPIURL),
	)
	c.DiscordToken = strings.TrimSpace(c.DiscordToken)
	c.CraftyAPIToken = strings.TrimSpace(c.CraftyAPIToken)
	c.CraftyAPIURL = strings.TrimSpace(c.CraftyAPIURL)
	c.App.applyDefaults(keys)
	c.Crafty.applyDefaults(keys)
	c.Poll.applyDefaults(keys)
	c.Discord.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_format", &a.LogFormat, defaultAppLogFormat),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (c *CraftyConfig) applyDefaults(keys keySet) {
	if c == nil {
		return
	}
	// Crafty ships with a self-signed certificate.
	applyFieldDefaults(keys,
		boolFieldDefault("crafty.insecure_skip_verify", &c.InsecureSkipVerify, true),
	)
}

func (p *PollConfig) applyDefaults(keys keySet) {
	if p == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "poll.interval_seconds",
			need:  func() bool { return p.IntervalSeconds <= 0 },
			apply: func() { p.IntervalSeconds = defaultPollInterval },
		},
		fieldDefault{
			key:   "poll.start_ticks",
			need:  func() bool { return p.StartTicks <= 0 },
			apply: func() { p.StartTicks = defaultPollStartTicks },
		},
		fieldDefault{
			key:   "poll.start_ticks_no_marker",
			need:  func() bool { return p.StartTicksNoMarker <= 0 },
			apply: func() { p.StartTicksNoMarker = defaultPollStartNoMarker },
		},
		fieldDefault{
			key:   "poll.stop_ticks",
			need:  func() bool { return p.StopTicks <= 0 },
			apply: func() { p.StopTicks = defaultPollStopTicks },
		},
		fieldDefault{
			key:   "poll.progress_log_lines",
			need:  func() bool { return p.ProgressLogLines <= 0 },
			apply: func() { p.ProgressLogLines = defaultPollLogLines },
		},
		// An explicit empty ready_pattern disables marker matching.
		stringFieldDefault("poll.ready_pattern", &p.ReadyPattern, defaultReadyPattern),
	)
}

func (d *DiscordConfig) applyDefaults(keys keySet) {
	if d == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "discord.confirm_timeout_seconds",
			need:  func() bool { return d.ConfirmTimeoutSeconds <= 0 },
			apply: func() { d.ConfirmTimeoutSeconds = defaultConfirmTimeout },
		},
		fieldDefault{
			key:   "discord.help_timeout_seconds",
			need:  func() bool { return d.HelpTimeoutSeconds <= 0 },
			apply: func() { d.HelpTimeoutSeconds = defaultHelpTimeout },
		},
		fieldDefault{
			key:   "discord.edits_per_second",
			need:  func() bool { return d.EditsPerSecond <= 0 },
			apply: func() { d.EditsPerSecond = defaultEditsPerSecond },
		},
	)
	d.GuildID = strings.TrimSpace(d.GuildID)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
