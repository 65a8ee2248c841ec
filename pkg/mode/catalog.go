package mode

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Catalog lists the modes a directory of grammars provides.
//
//	modes:
//	  - name: c
//	    grammar: c.yaml
//	    file_name_glob: "*.{c,h}"
type Catalog struct {
	Modes []CatalogEntry `yaml:"modes"`
}

// CatalogEntry is one mode of a catalog.
type CatalogEntry struct {
	Name          string   `yaml:"name"`
	Grammar       string   `yaml:"grammar"`
	FileNameGlob  string   `yaml:"file_name_glob"`
	FirstLineGlob string   `yaml:"first_line_glob"`
	Aliases       []string `yaml:"aliases"`
}

// ParseCatalog decodes a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, entry := range cat.Modes {
		if entry.Name == "" {
			return nil, fmt.Errorf("parse catalog: entry %d has no name", i)
		}
		if entry.Grammar == "" {
			return nil, fmt.Errorf("parse catalog: mode %s has no grammar", entry.Name)
		}
	}
	return cat, nil
}
