package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds service-level ingestion and export settings. Values
// come from environment defaults with an optional YAML overlay.
type Config struct {
	MaxBatchSize int    `yaml:"max_batch_size"`
	ExportTitle  string `yaml:"export_title"`
}

// LoadConfig loads config from env, then overlays the YAML file named
// by VITALS_CONFIG when present.
func LoadConfig() (Config, error) {
	cfg := Config{
		MaxBatchSize: getenvIntDefault("VITALS_MAX_BATCH_SIZE", 100),
		ExportTitle:  getenvDefault("VITALS_EXPORT_TITLE", "Health Records Export"),
	}

	if path := os.Getenv("VITALS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 100
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
