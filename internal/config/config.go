package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
)

// Config はバイナリ共通の設定です。
type Config struct {
	APIKey         string
	Model          string
	MaxRetries     int
	RetryBaseDelay time.Duration
	Addr           string
	LogLevel       string
	Locale         string
}

// apiKeyEnvs は APIキーを探す環境変数の優先順です。
var apiKeyEnvs = []string{"GEMINI_API_KEY", "API_KEY", "GOOGLE_API_KEY"}

// Load は .env / .env.local（存在すれば）と環境変数から設定を読み込みます。
func Load() (Config, error) {
	// ファイルが無くてもエラーにしない
	_ = godotenv.Load(".env", ".env.local")
	return FromEnv()
}

// FromEnv は環境変数だけから設定を組み立てます。
func FromEnv() (Config, error) {
	c := Config{
		APIKey:   firstEnv(apiKeyEnvs...),
		Model:    getenv("MODA_MODEL", generator.DefaultModel),
		Addr:     getenv("MODA_ADDR", ":8080"),
		LogLevel: strings.ToLower(getenv("MODA_LOG_LEVEL", "info")),
		Locale:   getenv("MODA_LOCALE", "id"),
	}

	retries, err := strconv.Atoi(getenv("MODA_MAX_RETRIES", strconv.Itoa(generator.DefaultMaxRetries)))
	if err != nil || retries < 0 || retries > generator.MaxRetriesLimit {
		return Config{}, fmt.Errorf("MODA_MAX_RETRIES が不正です: %q", os.Getenv("MODA_MAX_RETRIES"))
	}
	c.MaxRetries = retries

	delay, err := time.ParseDuration(getenv("MODA_RETRY_BASE_DELAY", generator.DefaultBaseDelay.String()))
	if err != nil || delay <= 0 {
		return Config{}, fmt.Errorf("MODA_RETRY_BASE_DELAY が不正です: %q", os.Getenv("MODA_RETRY_BASE_DELAY"))
	}
	if delay > generator.MaxBackoffDelay {
		return Config{}, fmt.Errorf("MODA_RETRY_BASE_DELAY は %s 以下にしてください: %q", generator.MaxBackoffDelay, os.Getenv("MODA_RETRY_BASE_DELAY"))
	}
	c.RetryBaseDelay = delay

	return c, nil
}

// PipelineConfig は generator 用の設定に変換します。
func (c Config) PipelineConfig() generator.PipelineConfig {
	return generator.PipelineConfig{
		Model:      c.Model,
		MaxRetries: c.MaxRetries,
		BaseDelay:  c.RetryBaseDelay,
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
