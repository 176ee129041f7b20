package config

import (
	"fmt"
	"strings"

	"statarb/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch re-applies the log level whenever the config file changes, so the
// verbosity of a running engine can be adjusted without a restart.
func Watch(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config watch requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config for watch failed: %w", err)
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			logger.Errorf("config reload failed (%s): %v", evt.Name, err)
			return
		}
		level := v.GetString("app.log_level")
		if strings.TrimSpace(level) == "" {
			return
		}
		logger.SetLevel(level)
		logger.Infof("config reloaded, log level now %s", level)
	})
	v.WatchConfig()
	return nil
}
