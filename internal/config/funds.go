package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/acastel/ytm-tracker/internal/model"
)

//go:embed funds.json
var defaultFunds []byte

//go:embed funds_schema.json
var fundsSchema []byte

// Funds returns the fund registry. YTM_FUNDS_FILE overrides the embedded
// defaults; either way the document is schema-validated before use so a
// typo in the registry fails at startup rather than mid-run.
func Funds() ([]model.Fund, error) {
	data := defaultFunds
	if path := os.Getenv("YTM_FUNDS_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read funds file: %w", err)
		}
		data = b
	}
	return ParseFunds(data)
}

// ParseFunds validates and decodes a fund registry document.
func ParseFunds(data []byte) ([]model.Fund, error) {
	if err := validateFunds(data); err != nil {
		return nil, err
	}

	var registry struct {
		Funds []model.Fund `json:"funds"`
	}
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to decode funds registry: %w", err)
	}

	seen := make(map[string]bool, len(registry.Funds))
	for _, f := range registry.Funds {
		if seen[f.ID] {
			return nil, fmt.Errorf("duplicate fund id %q in registry", f.ID)
		}
		seen[f.ID] = true
	}
	return registry.Funds, nil
}

func validateFunds(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("funds_schema.json", bytes.NewReader(fundsSchema)); err != nil {
		return fmt.Errorf("failed to add funds schema: %w", err)
	}
	schema, err := compiler.Compile("funds_schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile funds schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to parse funds registry: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("funds registry does not match schema: %w", err)
	}
	return nil
}
