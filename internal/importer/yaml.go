package importer

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// yamlFile is the import document shape: a top-level companies list.
type yamlFile struct {
	Companies []Record `yaml:"companies"`
}

// ReadYAML reads company records from a YAML file with a top-level
// companies list. Entries with an empty name are skipped.
func ReadYAML(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: read yaml")
	}

	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "importer: parse yaml")
	}

	var records []Record
	for _, rec := range doc.Companies {
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
