package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/validator"
	"gopkg.in/yaml.v3"
)

//go:embed dimensions.yaml
var defaultDimensions []byte

type dimensionCatalog struct {
	Dimensions []analytics.Dimension `yaml:"dimensions"`
}

// LoadDimensions reads the dimension catalog from path, or the built-in
// catalog when path is empty.
func LoadDimensions(path string) ([]analytics.Dimension, error) {
	data := defaultDimensions
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dimensions file: %w", err)
		}
	}
	return ParseDimensions(data)
}

// ParseDimensions decodes and validates a YAML dimension catalog. Table and
// column names end up in SQL, so only plain lowercase identifiers are accepted.
func ParseDimensions(data []byte) ([]analytics.Dimension, error) {
	var catalog dimensionCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to parse dimensions: %w", err)
	}

	if len(catalog.Dimensions) == 0 {
		return nil, fmt.Errorf("no dimensions configured")
	}

	seen := make(map[string]struct{}, len(catalog.Dimensions))
	for i, dim := range catalog.Dimensions {
		if !validator.IsValidIdentifier(dim.Name) {
			return nil, fmt.Errorf("dimension %d: invalid name %q", i, dim.Name)
		}
		if _, ok := seen[dim.Name]; ok {
			return nil, fmt.Errorf("dimension %q is defined twice", dim.Name)
		}
		seen[dim.Name] = struct{}{}

		if !validator.IsValidIdentifier(dim.Table) {
			return nil, fmt.Errorf("dimension %q: invalid table %q", dim.Name, dim.Table)
		}
		if !validator.IsValidIdentifier(dim.Column) {
			return nil, fmt.Errorf("dimension %q: invalid column %q", dim.Name, dim.Column)
		}
		if dim.Label == "" {
			catalog.Dimensions[i].Label = dim.Name
		}
	}
	return catalog.Dimensions, nil
}
