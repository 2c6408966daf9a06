package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// validate checks well-formedness only. Missing secrets are not an error here:
// the Discord gateway refuses to start without a token, and the panel rejects
// calls without an API token.
func validate(c *Config) error {
	if err := validateAPIURL(c.CraftyAPIURL); err != nil {
		return err
	}
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Poll.validate(); err != nil {
		return err
	}
	if err := c.Discord.validate(); err != nil {
		return err
	}
	return nil
}

func validateAPIURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("crafty_api_url is invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("crafty_api_url must use http or https, got %q", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("crafty_api_url is missing a host: %q", raw)
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.LogFormat)) {
	case "text", "json":
	default:
		return fmt.Errorf("app.log_format must be text or json, got %s", a.LogFormat)
	}
	return nil
}

func (p *PollConfig) validate() error {
	if p.IntervalSeconds <= 0 {
		return fmt.Errorf("poll.interval_seconds must be > 0")
	}
	if p.StartTicks <= 0 || p.StartTicksNoMarker <= 0 || p.StopTicks <= 0 {
		return fmt.Errorf("poll tick budgets must be > 0")
	}
	if p.ProgressLogLines <= 0 {
		return fmt.Errorf("poll.progress_log_lines must be > 0")
	}
	if p.MarkerEnabled() {
		if _, err := regexp.Compile(p.ReadyPattern); err != nil {
			return fmt.Errorf("poll.ready_pattern does not compile: %w", err)
		}
	}
	return nil
}

func (d *DiscordConfig) validate() error {
	if d.ConfirmTimeoutSeconds <= 0 {
		return fmt.Errorf("discord.confirm_timeout_seconds must be > 0")
	}
	if d.HelpTimeoutSeconds <= 0 {
		return fmt.Errorf("discord.help_timeout_seconds must be > 0")
	}
	if d.EditsPerSecond <= 0 {
		return fmt.Errorf("discord.edits_per_second must be > 0")
	}
	return nil
}
