// Package config loads gateway configuration from the environment at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all settings the gateway needs to run.
type Config struct {
	Redis RedisConfig
	STT   STTConfig
	LLM   LLMConfig
	TTS   TTSConfig

	// Workers is the capacity of the response worker pool.
	Workers int
	// StatusPort is the loopback port for the status server. 0 disables it.
	StatusPort int
}

// RedisConfig holds the pub/sub broker connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// STTConfig holds the speech recognition settings.
type STTConfig struct {
	// CredentialsFile is the Google application credentials path.
	// The speech client reads it through the environment; we only
	// verify it is set so a misconfigured deploy fails at boot.
	CredentialsFile string
	Language        string
}

// LLMConfig holds the language model service settings.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// TTSConfig holds the speech synthesis settings.
type TTSConfig struct {
	Region  string
	VoiceID string
}

// osGetenv is swappable for tests.
var osGetenv = os.Getenv

// Load reads the configuration from the environment. Missing required
// credentials are an error; the caller is expected to treat that as fatal.
func Load() (*Config, error) {
	cfg := &Config{
		Redis: RedisConfig{
			Addr:     defaultString(osGetenv("VOICE_REDIS_ADDR"), "localhost:6379"),
			Password: osGetenv("VOICE_REDIS_PASSWORD"),
		},
		STT: STTConfig{
			CredentialsFile: osGetenv("GOOGLE_APPLICATION_CREDENTIALS"),
			Language:        defaultString(osGetenv("VOICE_LANGUAGE"), "zh-CN"),
		},
		LLM: LLMConfig{
			BaseURL: osGetenv("VOICE_LLM_BASE_URL"),
			APIKey:  osGetenv("VOICE_LLM_API_KEY"),
			Model:   defaultString(osGetenv("VOICE_LLM_MODEL"), "deepseek-ai/DeepSeek-V2.5"),
		},
		TTS: TTSConfig{
			Region:  defaultString(osGetenv("VOICE_TTS_REGION"), "us-east-1"),
			VoiceID: defaultString(osGetenv("VOICE_TTS_VOICE"), "Zhiyu"),
		},
		Workers:    defaultInt(osGetenv("VOICE_WORKERS"), 10),
		StatusPort: defaultInt(osGetenv("VOICE_STATUS_PORT"), 8330),
	}

	if db := osGetenv("VOICE_REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid VOICE_REDIS_DB %q: %w", db, err)
		}
		cfg.Redis.DB = n
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.STT.CredentialsFile == "" {
		return fmt.Errorf("missing required credential GOOGLE_APPLICATION_CREDENTIALS")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("missing required setting VOICE_LLM_BASE_URL")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("missing required credential VOICE_LLM_API_KEY")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("VOICE_WORKERS must be positive, got %d", c.Workers)
	}
	return nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
