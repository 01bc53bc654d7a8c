package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Remote service credentials.
	SarvamAPIKey             string `mapstructure:"SARVAM_API_KEY"`
	GeminiAPIKey             string `mapstructure:"GEMINI_API_KEY"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Redis configuration (session archive sink).
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisArchiveDB int    `mapstructure:"REDIS_ARCHIVE_DB"`

	// Engine tunables.
	DefaultLanguage       string `mapstructure:"DEFAULT_LANGUAGE"`
	RecordSeconds         int    `mapstructure:"RECORD_SECONDS"`
	SampleRate            int    `mapstructure:"SAMPLE_RATE"`
	StatusIntervalMinutes int    `mapstructure:"STATUS_INTERVAL_MINUTES"`
	UseGeminiClassifier   bool   `mapstructure:"USE_GEMINI_CLASSIFIER"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_ARCHIVE_DB", 0)
	viper.SetDefault("DEFAULT_LANGUAGE", "en-IN")
	viper.SetDefault("RECORD_SECONDS", 5)
	viper.SetDefault("SAMPLE_RATE", 16000)
	viper.SetDefault("STATUS_INTERVAL_MINUTES", 5)
	viper.SetDefault("USE_GEMINI_CLASSIFIER", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
