// Package importer reads bulk company records from spreadsheet and YAML
// files for registry seeding.
package importer

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Record is one company row from an import file.
type Record struct {
	Name         string   `yaml:"name"`
	Code         string   `yaml:"code"`
	ContactEmail string   `yaml:"contact_email"`
	Aliases      []string `yaml:"aliases"`
}

// Options configures file parsing.
type Options struct {
	SheetName  string // xlsx only; default first sheet
	NameColumn string // xlsx only; default "name"
}

// ReadFile parses an import file by extension. Supported: .xlsx, .yaml, .yml.
func ReadFile(path string, opts Options) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, opts)
	case ".yaml", ".yml":
		return ReadYAML(path)
	default:
		return nil, eris.Errorf("importer: unsupported file type %q", filepath.Ext(path))
	}
}

// splitAliases breaks a semicolon-separated cell into trimmed alias names.
func splitAliases(cell string) []string {
	var aliases []string
	for _, a := range strings.Split(cell, ";") {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}
	return aliases
}
