package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/y-exe/ymkw-top/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "YMKW_LOG_LEVEL")
	viper.BindEnv("upstream.baseUrl", "YMKW_UPSTREAM_URL")
	viper.BindEnv("upstream.timeout", "YMKW_UPSTREAM_TIMEOUT")
	viper.BindEnv("cache.enabled", "YMKW_CACHE_ENABLED")
	viper.BindEnv("cache.size", "YMKW_CACHE_SIZE")
	viper.BindEnv("rateLimit.enabled", "YMKW_RATELIMIT_ENABLED")

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

	conf.AppName = "YmkwStatsGateway"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
