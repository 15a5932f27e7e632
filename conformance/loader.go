package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSuite parses one fixture file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// LoadDir loads every *.yaml file directly under dir. A file that fails
// to parse is skipped with its error recorded rather than aborting the
// whole load, so one malformed fixture file doesn't hide the rest.
func LoadDir(dir string) ([]Fixture, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{err}
	}
	var fixtures []Fixture
	var errs []error
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".yaml" {
			continue
		}
		suite, err := LoadSuite(filepath.Join(dir, ent.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fixtures = append(fixtures, suite.Fixtures...)
	}
	return fixtures, errs
}
