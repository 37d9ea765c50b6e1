package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Duration struct {
	time.Duration
}

type Config struct {
	Anthropic  AnthropicConfig
	Logging    LoggingConfig
	Validation ValidationConfig
}

type AnthropicConfig struct {
	BaseURL         string   `env:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com"`
	APIVersion      string   `env:"ANTHROPIC_API_VERSION" default:"2023-06-01"`
	Timeout         Duration `env:"ANTHROPIC_TIMEOUT" default:"60s"`
	KeyPrefix       string   `env:"ANTHROPIC_KEY_PREFIX" default:"sk-ant-"`
	APIKeyMinLength int      `env:"ANTHROPIC_KEY_MIN_LENGTH" default:"10"`
	DefaultModel    string   `env:"ANTHROPIC_DEFAULT_MODEL" default:"claude-3-5-haiku-20241022"`
	MaxTokens       int      `env:"ANTHROPIC_MAX_TOKENS" default:"1024"`
	Temperature     float64  `env:"ANTHROPIC_TEMPERATURE" default:"0.7"`
	SystemMessage   string   `env:"ANTHROPIC_SYSTEM_MESSAGE"`
}

type LoggingConfig struct {
	Level            string `env:"LOG_LEVEL" default:"info"`
	Format           string `env:"LOG_FORMAT" default:"console"`
	IncludeTimestamp bool   `env:"LOG_INCLUDE_TIMESTAMP" default:"true"`
	IncludeSource    bool   `env:"LOG_INCLUDE_SOURCE" default:"false"`
}

type ValidationConfig struct {
	MaxMessageLength int `env:"MAX_MESSAGE_LENGTH" default:"4000"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	loadEnvFiles()

	if err := applyTag(cfg, "default", func(tag string) string { return tag }); err != nil {
		return nil, fmt.Errorf("failed to set defaults: %w", err)
	}

	if err := applyTag(cfg, "env", os.Getenv); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadEnvFiles() {
	env := GetEnvironment()

	envFiles := []string{
		fmt.Sprintf(".env.%s.local", env),
		fmt.Sprintf(".env.%s", env),
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

func GetEnvironment() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	if env == "" {
		env = "production"
	}
	return strings.ToLower(env)
}

// applyTag walks every tagged field and assigns the value produced by
// resolve, skipping fields where resolve yields the empty string. Defaults
// and env overrides share this walk: the tag value itself resolves a default,
// os.Getenv resolves an override.
func applyTag(cfg *Config, tagName string, resolve func(tag string) string) error {
	return walkFields(reflect.ValueOf(cfg).Elem(), reflect.TypeOf(cfg).Elem(), tagName, resolve)
}

func walkFields(v reflect.Value, t reflect.Type, tagName string, resolve func(tag string) string) error {
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && fieldType.Type != reflect.TypeOf(Duration{}) {
			if err := walkFields(field, fieldType.Type, tagName, resolve); err != nil {
				return err
			}
			continue
		}

		tag := fieldType.Tag.Get(tagName)
		if tag == "" {
			continue
		}

		value := resolve(tag)
		if value == "" {
			continue
		}

		if err := setFieldFromString(field, value); err != nil {
			return fmt.Errorf("failed to set field %s from %s tag %q: %w", fieldType.Name, tagName, tag, err)
		}
	}
	return nil
}

func setFieldFromString(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	case reflect.Struct:
		if field.Type() == reflect.TypeOf(Duration{}) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(Duration{duration}))
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

func validate(cfg *Config) error {
	if cfg.Anthropic.BaseURL == "" {
		return fmt.Errorf("anthropic base URL must not be empty")
	}

	if cfg.Anthropic.APIKeyMinLength < 1 {
		return fmt.Errorf("invalid API key minimum length: %d (must be at least 1)", cfg.Anthropic.APIKeyMinLength)
	}

	if cfg.Anthropic.MaxTokens < 1 {
		return fmt.Errorf("invalid max tokens: %d (must be at least 1)", cfg.Anthropic.MaxTokens)
	}

	if cfg.Anthropic.Temperature < 0 || cfg.Anthropic.Temperature > 2 {
		return fmt.Errorf("invalid temperature: %f (must be between 0 and 2)", cfg.Anthropic.Temperature)
	}

	if cfg.Validation.MaxMessageLength < 1 {
		return fmt.Errorf("invalid max message length: %d (must be at least 1)", cfg.Validation.MaxMessageLength)
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, cfg.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", cfg.Logging.Level, strings.Join(validLogLevels, ", "))
	}

	if cfg.Logging.Format != "console" && cfg.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", cfg.Logging.Format)
	}

	return nil
}
