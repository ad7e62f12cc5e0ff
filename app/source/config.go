package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	TypeRSS    = "rss"
	TypeReddit = "reddit"
)

type Config struct {
	Name           string `yaml:"-"`
	Type           string `yaml:"type"`
	URL            string `yaml:"url"`
	Subreddit      string `yaml:"subreddit"`
	Limit          int    `yaml:"limit"`
	Timeout        int    `yaml:"timeout"`
	ExtractContent bool   `yaml:"extract_content"`
}

// LoadConfigs reads every *.yml file in sourcesDir. The source name is
// derived from the filename.
func LoadConfigs(sourcesDir string) ([]Config, error) {
	if _, err := os.Stat(sourcesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("sources directory does not exist: %s", sourcesDir)
	}

	files, err := filepath.Glob(filepath.Join(sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source configurations found in %s", sourcesDir)
	}

	configs := make([]Config, 0, len(files))
	for _, file := range files {
		// Derive source name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		sourceName := fileName[:len(fileName)-4]

		config, err := loadConfig(file, sourceName)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", sourceName, "type", config.Type, "timeout", config.Timeout)
		configs = append(configs, config)
	}

	return configs, nil
}

func loadConfig(configFile, sourceName string) (Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.Name = sourceName

	if config.Limit == 0 {
		config.Limit = 50
	}
	if config.Timeout == 0 {
		config.Timeout = 30
	}

	if err := validateConfig(config); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	return config, nil
}

func validateConfig(config Config) error {
	switch config.Type {
	case TypeRSS:
		if config.URL == "" {
			return fmt.Errorf("source URL is required")
		}
	case TypeReddit:
		if config.Subreddit == "" {
			return fmt.Errorf("subreddit is required")
		}
	case "":
		return fmt.Errorf("source type is required")
	default:
		return fmt.Errorf("unsupported source type: %s", config.Type)
	}

	nonNegativeFields := map[string]int{
		"limit":   config.Limit,
		"timeout": config.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}
