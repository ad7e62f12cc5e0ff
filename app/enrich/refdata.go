package enrich

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/taxonomy.yml
var defaultTaxonomyData []byte

//go:embed data/gazetteer.yml
var defaultGazetteerData []byte

type Category struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
}

type Taxonomy struct {
	Categories []Category `yaml:"categories"`
}

type Place struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type Gazetteer struct {
	Locations []Place `yaml:"locations"`
}

// LoadTaxonomy reads taxonomy.yml from dataDir, falling back to the
// embedded defaults when dataDir is empty or has no such file.
func LoadTaxonomy(dataDir string) (*Taxonomy, error) {
	data, origin, err := readDataFile(dataDir, "taxonomy.yml", defaultTaxonomyData)
	if err != nil {
		return nil, err
	}

	var taxonomy Taxonomy
	if err := yaml.Unmarshal(data, &taxonomy); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateTaxonomy(&taxonomy); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}

	slog.Debug("Taxonomy loaded", "origin", origin, "categories", len(taxonomy.Categories))

	return &taxonomy, nil
}

// LoadGazetteer reads gazetteer.yml from dataDir, falling back to the
// embedded defaults when dataDir is empty or has no such file.
func LoadGazetteer(dataDir string) (*Gazetteer, error) {
	data, origin, err := readDataFile(dataDir, "gazetteer.yml", defaultGazetteerData)
	if err != nil {
		return nil, err
	}

	var gazetteer Gazetteer
	if err := yaml.Unmarshal(data, &gazetteer); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateGazetteer(&gazetteer); err != nil {
		return nil, fmt.Errorf("invalid gazetteer: %w", err)
	}

	slog.Debug("Gazetteer loaded", "origin", origin, "locations", len(gazetteer.Locations))

	return &gazetteer, nil
}

func readDataFile(dataDir, fileName string, fallback []byte) ([]byte, string, error) {
	if dataDir == "" {
		return fallback, "embedded", nil
	}

	filePath := filepath.Join(dataDir, fileName)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fallback, "embedded", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	return data, filePath, nil
}

func validateTaxonomy(taxonomy *Taxonomy) error {
	if len(taxonomy.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	seen := make(map[string]bool)
	for i, category := range taxonomy.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return fmt.Errorf("category at index %d has no name", i)
		}
		if seen[category.Name] {
			return fmt.Errorf("duplicate category name: %s", category.Name)
		}
		seen[category.Name] = true

		if len(category.Triggers) == 0 {
			return fmt.Errorf("category '%s' has no triggers", category.Name)
		}
		for _, trigger := range category.Triggers {
			if strings.TrimSpace(trigger) == "" {
				return fmt.Errorf("category '%s' has a blank trigger", category.Name)
			}
		}
	}

	return nil
}

func validateGazetteer(gazetteer *Gazetteer) error {
	if len(gazetteer.Locations) == 0 {
		return fmt.Errorf("at least one location is required")
	}

	seen := make(map[string]bool)
	for i, place := range gazetteer.Locations {
		if strings.TrimSpace(place.Name) == "" {
			return fmt.Errorf("location at index %d has no name", i)
		}
		if seen[place.Name] {
			return fmt.Errorf("duplicate location name: %s", place.Name)
		}
		seen[place.Name] = true

		for _, alias := range place.Aliases {
			if strings.TrimSpace(alias) == "" {
				return fmt.Errorf("location '%s' has a blank alias", place.Name)
			}
		}
	}

	return nil
}
