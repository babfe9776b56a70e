package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-screener/internal/config"
	"github.com/rxtech-lab/argo-screener/internal/version"
	"gopkg.in/yaml.v3"
)

const (
	schemaName = "screener-config.json"
	sampleName = "screener.yaml"
)

func main() {
	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", sampleName)

	if err := generateSchemaFile(schemaPath); err != nil {
		log.Fatal(err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	written, err := generateSampleConfig(sampleConfigPath, schemaName)
	if err != nil {
		log.Fatal(err)
	}

	if written {
		log.Printf("Sample config successfully generated at %s", sampleConfigPath)
	}
}

// generateSchemaFile writes the JSON schema of the configuration file.
func generateSchemaFile(schemaPath string) error {
	schemaJSON, err := config.JSONSchemaString()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes the default configuration, pinned to the
// current version, unless the file already exists.
func generateSampleConfig(samplePath, schemaName string) (bool, error) {
	if _, err := os.Stat(samplePath); err == nil {
		return false, nil
	}

	sample := config.Default()
	sample.Version = version.GetVersion()

	yamlBytes, err := yaml.Marshal(sample)
	if err != nil {
		return false, fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.MkdirAll(filepath.Dir(samplePath), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
		return false, fmt.Errorf("failed to write sample config to file: %w", err)
	}

	return true, nil
}

// getSchemaReference returns the yaml-language-server modeline for schemaName.
func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}
