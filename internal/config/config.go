package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete ETL application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// DatabaseConfig contains the PostgreSQL connection settings for the
// loader. The pipeline core never reads this; only the storage
// collaborator does.
type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"HOST" default:"localhost"`
	Port     int    `yaml:"port" envconfig:"PORT" default:"5432"`
	Name     string `yaml:"name" envconfig:"NAME" default:"ecommerce_retail"`
	User     string `yaml:"user" envconfig:"USER" default:"postgres"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"SSL_MODE" default:"disable"`
}

// DSN builds the postgres connection string, escaping credentials.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password),
		d.Host, d.Port, d.Name, d.SSLMode)
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/etl.log"`
}

// PathsConfig contains the file system layout for a run.
type PathsConfig struct {
	InputFile    string `yaml:"input_file" envconfig:"INPUT_FILE" default:"data/raw/Online_Retail.xlsx"`
	RawDataDir   string `yaml:"raw_data_dir" envconfig:"RAW_DATA_DIR" default:"data/raw"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" default:"data/processed"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load builds the configuration from environment variables (RETAIL_ETL_*
// prefix), overridden by config.yaml when present next to the working
// directory.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("RETAIL_ETL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			Name:    "ecommerce_retail",
			User:    "postgres",
			SSLMode: "disable",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/etl.log",
		},
		Paths: PathsConfig{
			InputFile:    "data/raw/Online_Retail.xlsx",
			RawDataDir:   "data/raw",
			ProcessedDir: "data/processed",
			LogsDir:      "logs",
		},
	}
}

// EnsureDirectories creates the run's data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.RawDataDir, c.Paths.ProcessedDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetProcessedPath resolves a filename inside the processed data directory.
func (c *Config) GetProcessedPath(name string) string {
	return filepath.Join(c.Paths.ProcessedDir, name)
}

// GetRawPath resolves a filename inside the raw data directory.
func (c *Config) GetRawPath(name string) string {
	return filepath.Join(c.Paths.RawDataDir, name)
}

func (c *Config) validate() error {
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}
	return nil
}

func getConfigFilePath() string {
	if path := os.Getenv("RETAIL_ETL_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
