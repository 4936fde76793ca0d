/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the studio-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort               string `mapstructure:"SERVER_PORT"`
	RedisURL                 string `mapstructure:"REDIS_URL"`
	RedisKeyPrefix           string `mapstructure:"REDIS_KEY_PREFIX"`
	RabbitMQURL              string `mapstructure:"RABBITMQ_URL"`
	EventExchange            string `mapstructure:"EVENT_EXCHANGE"`
	GeminiAPIBaseURL         string `mapstructure:"GEMINI_API_BASE_URL"`
	GeminiAPIKey             string `mapstructure:"GEMINI_API_KEY"`
	TextModel                string `mapstructure:"TEXT_MODEL"`
	ImageModel               string `mapstructure:"IMAGE_MODEL"`
	VideoModel               string `mapstructure:"VIDEO_MODEL"`
	VideoResolution          string `mapstructure:"VIDEO_RESOLUTION"`
	VideoPollIntervalSeconds int    `mapstructure:"VIDEO_POLL_INTERVAL_SECONDS"`
	VideoPollMaxAttempts     int    `mapstructure:"VIDEO_POLL_MAX_ATTEMPTS"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_KEY_PREFIX", "myhandle")
	viper.SetDefault("EVENT_EXCHANGE", "myhandle.events")
	viper.SetDefault("GEMINI_API_BASE_URL", "https://generativelanguage.googleapis.com")
	viper.SetDefault("TEXT_MODEL", "gemini-2.5-pro")
	viper.SetDefault("IMAGE_MODEL", "gemini-2.5-flash-image")
	viper.SetDefault("VIDEO_MODEL", "veo-3.1-generate-preview")
	viper.SetDefault("VIDEO_RESOLUTION", "720p")
	// 10-second cadence, up to 90 polls (~15 minutes). The poll loop must
	// never run unbounded against an unresponsive backend.
	viper.SetDefault("VIDEO_POLL_INTERVAL_SECONDS", 10)
	viper.SetDefault("VIDEO_POLL_MAX_ATTEMPTS", 90)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_KEY_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("EVENT_EXCHANGE")
	_ = viper.BindEnv("GEMINI_API_BASE_URL")
	_ = viper.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY")
	_ = viper.BindEnv("TEXT_MODEL")
	_ = viper.BindEnv("IMAGE_MODEL")
	_ = viper.BindEnv("VIDEO_MODEL")
	_ = viper.BindEnv("VIDEO_RESOLUTION")
	_ = viper.BindEnv("VIDEO_POLL_INTERVAL_SECONDS")
	_ = viper.BindEnv("VIDEO_POLL_MAX_ATTEMPTS")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RabbitMQURL = strings.TrimSpace(config.RabbitMQURL)
	config.GeminiAPIKey = strings.TrimSpace(config.GeminiAPIKey)
	config.RedisKeyPrefix = strings.TrimSpace(config.RedisKeyPrefix)
	if config.RedisKeyPrefix == "" {
		config.RedisKeyPrefix = "myhandle"
	}
	config.EventExchange = strings.TrimSpace(config.EventExchange)
	if config.EventExchange == "" {
		config.EventExchange = "myhandle.events"
	}

	if config.VideoPollIntervalSeconds <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive poll interval configured; using default\" interval_seconds=%d", config.VideoPollIntervalSeconds)
		config.VideoPollIntervalSeconds = 10
	}
	if config.VideoPollMaxAttempts <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive poll attempt limit configured; using default\" max_attempts=%d", config.VideoPollMaxAttempts)
		config.VideoPollMaxAttempts = 90
	}

	return
}
