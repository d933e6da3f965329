// Package catalog provides the fixed list of venues the matcher ranks.
//
// Venues come from one of three sources, checked in this order: a sqlite
// database written by `catalog seed`, a YAML file, or the built-in list.
//
// Venue names must be unique and may not contain commas: feedback records
// carry the matched names as one comma-separated field.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"mspro-labs/bean-thinking/internal/db"
	"mspro-labs/bean-thinking/internal/models"
)

//go:embed default.yaml
var defaultYAML []byte

type file struct {
	Venues []entry `yaml:"venues"`
}

type entry struct {
	Name           string `yaml:"name"`
	AreaCode       string `yaml:"area_code"`
	RoastLevel     string `yaml:"roast_level"`
	FlavourProfile string `yaml:"flavour_profile"`
}

// Source selects where Load reads venues from. Empty fields are skipped.
type Source struct {
	DBPath   string
	YAMLPath string
}

// Load returns the catalog from the first configured source.
func Load(src Source) ([]models.Venue, error) {
	switch {
	case src.DBPath != "":
		// Connect would create a missing file, so check first.
		if _, err := os.Stat(src.DBPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("no such catalog database %s (run `catalog seed`)", src.DBPath)
			}
			return nil, fmt.Errorf("failed to open catalog database %s: %w", src.DBPath, err)
		}
		database, err := db.Connect(src.DBPath)
		if err != nil {
			return nil, err
		}
		defer database.Close()
		venues, err := db.GetVenues(database)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog from %s: %w", src.DBPath, err)
		}
		if len(venues) == 0 {
			return nil, fmt.Errorf("catalog database %s has no venues (run `catalog seed`)", src.DBPath)
		}
		if err := checkNames(venues); err != nil {
			return nil, fmt.Errorf("catalog database %s: %w", src.DBPath, err)
		}
		return venues, nil
	case src.YAMLPath != "":
		return LoadFile(src.YAMLPath)
	default:
		return Default()
	}
}

// Default returns the built-in catalog.
func Default() ([]models.Venue, error) {
	return Parse(defaultYAML)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) ([]models.Venue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file at '%s': %w", path, err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML. Unknown keys are rejected so a typo in a
// field name does not silently drop a venue's flavours.
func Parse(data []byte) ([]models.Venue, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	venues := make([]models.Venue, 0, len(f.Venues))
	for i, e := range f.Venues {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		roast, err := models.ParseRoastLevel(e.RoastLevel)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.Name, err)
		}
		venues = append(venues, models.Venue{
			Name:       e.Name,
			AreaCode:   e.AreaCode,
			RoastLevel: roast,
			Flavours:   models.ParseFlavours(e.FlavourProfile),
		})
	}
	if err := checkNames(venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func checkNames(venues []models.Venue) error {
	seen := make(map[string]struct{}, len(venues))
	for _, v := range venues {
		if strings.Contains(v.Name, ",") {
			return fmt.Errorf("catalog entry %q: venue names may not contain commas", v.Name)
		}
		if _, dup := seen[v.Name]; dup {
			return fmt.Errorf("catalog entry %q appears more than once", v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	return nil
}
