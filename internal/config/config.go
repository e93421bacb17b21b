package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DateLayout is the ISO-8601 calendar date layout sent as start/end parameters.
const DateLayout = "2006-01-02"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName         string `mapstructure:"app_name"`
	Env             string `mapstructure:"app_env"`
	LogLevel        string `mapstructure:"log_level"`
	BaseURL         string `mapstructure:"base_url"`
	StartDate       string `mapstructure:"start_date"`
	EndDate         string `mapstructure:"end_date"`
	OutputDir       string `mapstructure:"output_dir"`
	EndpointsFile   string `mapstructure:"endpoints_file"`
	PublishersFile  string `mapstructure:"publishers_file"`
	UserAgent       string `mapstructure:"user_agent"`
	ContinueOnError bool   `mapstructure:"continue_on_error"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`

	Start time.Time `mapstructure:"-"`
	End   time.Time `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "metrics-harvester")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "https://metrics.torproject.org")
	v.SetDefault("start_date", "2020-03-01")
	v.SetDefault("end_date", "2021-02-28")
	v.SetDefault("output_dir", "./data")
	v.SetDefault("endpoints_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("continue_on_error", false)
	v.SetDefault("http_timeout_seconds", 0) // library default
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./state/manifest.db")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, fmt.Errorf("output_dir is required")
	}

	start, err := time.Parse(DateLayout, strings.TrimSpace(cfg.StartDate))
	if err != nil {
		return nil, fmt.Errorf("invalid start_date %q (expected YYYY-MM-DD): %w", cfg.StartDate, err)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(cfg.EndDate))
	if err != nil {
		return nil, fmt.Errorf("invalid end_date %q (expected YYYY-MM-DD): %w", cfg.EndDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end_date %s is before start_date %s", cfg.EndDate, cfg.StartDate)
	}
	cfg.Start, cfg.End = start, end

	if cfg.HTTPTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	// The output directory holds exactly one file per endpoint.
	if strings.EqualFold(strings.TrimSpace(cfg.StorageType), "bbolt") && within(cfg.OutputDir, cfg.BBoltPath) {
		return nil, fmt.Errorf("bbolt_path %q must not be inside output_dir %q", cfg.BBoltPath, cfg.OutputDir)
	}

	return &cfg, nil
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
