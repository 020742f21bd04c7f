package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	Backend BackendConfig
	Voice   VoiceConfig
	Output  OutputConfig
	Log     LogConfig
}

type BackendConfig struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
}

type VoiceConfig struct {
	Voice    string `validate:"oneof=nova alloy echo fable onyx shimmer"`
	AudioDir string `validate:"required"`
}

type OutputConfig struct {
	ResultsDir   string `validate:"required"`
	DownloadsDir string `validate:"required"`
	Colors       bool
	Save         bool
}

type LogConfig struct {
	Level string `validate:"oneof=trace debug info warn error"`
}

func LoadAppConfig() *AppConfig {
	_, noColor := os.LookupEnv("NO_COLOR")

	return &AppConfig{
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_URL", "http://localhost:5001"),
			// PDF-саммаризация на бэкенде может идти несколько минут
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 180*time.Second),
		},
		Voice: VoiceConfig{
			Voice:    getEnv("TTS_VOICE", "nova"),
			AudioDir: getEnv("AUDIO_DIR", "audio"),
		},
		Output: OutputConfig{
			ResultsDir:   getEnv("RESULTS_DIR", "results"),
			DownloadsDir: getEnv("DOWNLOADS_DIR", "downloads"),
			Colors:       !noColor && getEnvAsBool("OUTPUT_COLORS", true),
			Save:         getEnvAsBool("SAVE_RESULTS", false),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate проверяет конфигурацию приложения
func (c *AppConfig) Validate() error {
	return validateStruct(c)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
