package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "ENERGYRELAY"

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig `mapstructure:"basic_config"`
	Providers   Providers   `mapstructure:"providers"`
}

// Providers holds credentials and endpoints of the two upstream services.
type Providers struct {
	OCR    ProviderConfig `mapstructure:"ocr"`
	Claude ProviderConfig `mapstructure:"claude"`
}

type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type BasicConfig struct {
	ServerAddress string `mapstructure:"server_address"`
	UploadDir     string `mapstructure:"upload_dir"`
	// TempFileTTL and TempCleanInterval are minutes.
	TempFileTTL       int      `mapstructure:"temp_file_ttl"`
	TempCleanInterval int      `mapstructure:"temp_clean_interval"`
	AllowedOrigins    []string `mapstructure:"allowed_origins"`
	LogLevel          string   `mapstructure:"log_level"`
}

// Load reads configuration from the optional file at path, the process
// environment and built-in defaults. Both provider API keys must be present.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("basic_config.server_address", ":3000")
	v.SetDefault("basic_config.upload_dir", "uploads")
	v.SetDefault("basic_config.temp_file_ttl", 60)
	v.SetDefault("basic_config.temp_clean_interval", 10)
	v.SetDefault("basic_config.allowed_origins", []string{})
	v.SetDefault("basic_config.log_level", "info")
	v.SetDefault("providers.ocr.base_url", "")
	v.SetDefault("providers.claude.base_url", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("providers.ocr.api_key", "OCR_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind OCR_API_KEY: %w", err)
	}
	if err := v.BindEnv("providers.claude.api_key", "CLAUDE_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind CLAUDE_API_KEY: %w", err)
	}

	var baseDir string
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		v.SetConfigFile(absPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", absPath, err)
		}
		baseDir = filepath.Dir(absPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if baseDir != "" && !filepath.IsAbs(cfg.BasicConfig.UploadDir) {
		cfg.BasicConfig.UploadDir = filepath.Join(baseDir, cfg.BasicConfig.UploadDir)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.Providers.OCR.APIKey) == "" {
		errs = append(errs, errors.New("OCR_API_KEY must be configured"))
	}
	if strings.TrimSpace(c.Providers.Claude.APIKey) == "" {
		errs = append(errs, errors.New("CLAUDE_API_KEY must be configured"))
	}
	if c.BasicConfig.UploadDir == "" {
		errs = append(errs, errors.New("upload_dir must be configured"))
	}
	return errors.Join(errs...)
}
