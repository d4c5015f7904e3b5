package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"leadtrack/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "LEADTRACK_LOG_LEVEL")
	viper.BindEnv("tracking.redirectBase", "LEADTRACK_REDIRECT_BASE")
	viper.BindEnv("storage.driver", "LEADTRACK_STORAGE_DRIVER")
	viper.BindEnv("storage.sqlitePath", "LEADTRACK_SQLITE_PATH")
	viper.BindEnv("storage.snapshotPath", "LEADTRACK_SNAPSHOT_PATH")
	viper.BindEnv("storage.saveInterval", "LEADTRACK_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "LEADTRACK_CACHE_ENABLED")
	viper.BindEnv("cache.size", "LEADTRACK_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "LeadTrackDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
