package config

import (
	"fmt"
	"strings"

	"craftybot/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ChangeListener receives the freshly validated config after a file change.
type ChangeListener func(*Config)

// Watch re-loads path whenever it changes on disk. Invalid edits are logged and
// ignored so a typo never takes the running bot down.
func Watch(path string, fn ChangeListener) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("config watch requires path")
	}
	if fn == nil {
		return fmt.Errorf("config watch requires a listener")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config for watch failed: %w", err)
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load(path)
		if err != nil {
			logger.Errorf("config reload failed (%s): %v", evt.Name, err)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("config listener panic: %v", r)
			}
		}()
		fn(cfg)
	})
	v.WatchConfig()
	return nil
}
