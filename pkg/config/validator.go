package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every schema or semantic violation found
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "configuration file is not valid:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// Validate validates a configuration file against the JSON schema
func Validate(configFile string) error {
	abs, err := filepath.Abs(configFile)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))

	return validate(schemaLoader, documentLoader)
}

// ValidateBytes validates raw JSON against the JSON schema
func ValidateBytes(data []byte) error {
	return validate(gojsonschema.NewStringLoader(Schema), gojsonschema.NewBytesLoader(data))
}

func validate(schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &ValidationError{Problems: problems}
	}

	return nil
}

// validateSemantics checks rules the schema cannot express
func validateSemantics(cfg *Config) error {
	var problems []string

	seen := make(map[string]bool, len(cfg.Storage.Destinations))
	for _, dest := range cfg.Storage.Destinations {
		if seen[dest.Name] {
			problems = append(problems, fmt.Sprintf("duplicate destination name: %s", dest.Name))
		}
		seen[dest.Name] = true
	}

	if cfg.Retry.MaxDelayMs > 0 && cfg.Retry.InitialDelayMs > cfg.Retry.MaxDelayMs {
		problems = append(problems, "retry.initial_delay_ms must not exceed retry.max_delay_ms")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
