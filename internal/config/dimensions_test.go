package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDimensions_Default(t *testing.T) {
	dims, err := LoadDimensions("")
	require.NoError(t, err)
	require.Len(t, dims, 4)

	assert.Equal(t, "gender", dims[0].Name)
	assert.Equal(t, "confidential_info", dims[0].Table)
	assert.Equal(t, "gender", dims[0].Column)
	assert.Equal(t, "ethnicity", dims[1].Name)
	assert.Equal(t, "race_ethnicity", dims[1].Column)
	assert.Equal(t, "veteran_info", dims[2].Table)
	assert.Equal(t, "disabled", dims[3].Column)
}

func TestLoadDimensions_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimensions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dimensions:
  - name: shift
    table: shift_info
    column: shift_name
`), 0o600))

	dims, err := LoadDimensions(path)
	require.NoError(t, err)
	require.Len(t, dims, 1)
	assert.Equal(t, "shift", dims[0].Label)
}

func TestLoadDimensions_MissingFile(t *testing.T) {
	_, err := LoadDimensions(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseDimensions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", `dimensions: []`},
		{"unknown field", "dimensions:\n  - name: a\n    table: t\n    column: c\n    where: x\n"},
		{"sql in table", "dimensions:\n  - name: a\n    table: \"t; DROP TABLE x\"\n    column: c\n"},
		{"uppercase column", "dimensions:\n  - name: a\n    table: t\n    column: Gender\n"},
		{"duplicate", "dimensions:\n  - name: a\n    table: t\n    column: c\n  - name: a\n    table: t\n    column: d\n"},
		{"not yaml", "dimensions: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDimensions([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
