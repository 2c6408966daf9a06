package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"craftybot/internal/logger"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const envPrefix = "CRAFTYBOT"

// envKeys can be supplied through CRAFTYBOT_<KEY> so secrets stay out of the file.
var envKeys = []string{"discord_token", "crafty_api_token", "crafty_api_url"}

// Load reads the config file at path. A missing file is not an error: the bot
// starts from defaults and environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	source := ""
	if path != "" {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
			}
			source = path
		case errors.Is(statErr, fs.ErrNotExist):
			logger.Warnf("config file %s not found, using defaults", path)
		default:
			return nil, fmt.Errorf("stat config file failed (%s): %w", path, statErr)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	setKeys := make(keySet)
	collectSettingsKeys(v.AllSettings(), setKeys)
	cfg.applyDefaults(setKeys)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindEnv(v *viper.Viper) error {
	for _, key := range envKeys {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key)); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func collectSettingsKeys(settings map[string]any, dest keySet) {
	if dest == nil || len(settings) == 0 {
		return
	}
	flattenConfigKeys("", settings, dest)
}

func flattenConfigKeys(prefix string, node any, dest keySet) {
	switch val := node.(type) {
	case map[string]any:
		for k, v := range val {
			next := strings.ToLower(strings.TrimSpace(k))
			if next == "" {
				continue
			}
			if prefix != "" {
				next = prefix + "." + next
			}
			flattenConfigKeys(next, v, dest)
		}
	case []any:
		if prefix != "" {
			dest.mark(prefix)
		}
	default:
		if prefix != "" {
			dest.mark(prefix)
		}
	}
}
