package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"studytime/internal/structures"

	"github.com/spf13/viper"
)

const AppName = "StudyTime"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("auth.tokenTTL", 7*24*3600)

	_ = v.BindEnv("logger.level", "STUDYTIME_LOG_LEVEL")
	_ = v.BindEnv("storage.driver", "STUDYTIME_STORAGE_DRIVER")
	_ = v.BindEnv("storage.dsn", "STUDYTIME_STORAGE_DSN")
	_ = v.BindEnv("auth.secret", "STUDYTIME_AUTH_SECRET")
	_ = v.BindEnv("cache.enabled", "STUDYTIME_CACHE_ENABLED")
	_ = v.BindEnv("metrics.enabled", "STUDYTIME_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}
	if conf.Storage.Driver == "sqlite" && conf.Storage.DSN == "" {
		return nil, fmt.Errorf("storage.dsn is required for the sqlite driver")
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
