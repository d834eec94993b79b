// Package regions holds the static catalog of monitored stations. The catalog
// is loaded once at startup from a YAML file and is read-only afterwards, so
// it is safe for unsynchronized concurrent reads.
package regions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Region struct {
	Code      string  `yaml:"code" json:"code"`
	Name      string  `yaml:"name" json:"name"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
}

type Registry struct {
	regions []Region
	byCode  map[string]int
}

type catalogFile struct {
	Regions []Region `yaml:"regions"`
}

// Load reads the catalog file. The list order in the file is the canonical
// registry order (it drives stable chart color assignment).
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse regions catalog %s: %w", path, err)
	}
	return New(file.Regions)
}

func New(list []Region) (*Registry, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("regions catalog is empty")
	}
	byCode := make(map[string]int, len(list))
	for i, r := range list {
		if r.Code == "" {
			return nil, fmt.Errorf("region at index %d has empty code", i)
		}
		if _, dup := byCode[r.Code]; dup {
			return nil, fmt.Errorf("duplicate region code %q", r.Code)
		}
		byCode[r.Code] = i
	}
	regions := make([]Region, len(list))
	copy(regions, list)
	return &Registry{regions: regions, byCode: byCode}, nil
}

// All returns the regions in canonical (configuration) order.
func (r *Registry) All() []Region {
	out := make([]Region, len(r.regions))
	copy(out, r.regions)
	return out
}

func (r *Registry) Get(code string) (Region, bool) {
	i, ok := r.byCode[code]
	if !ok {
		return Region{}, false
	}
	return r.regions[i], true
}

// Index returns the region's position in canonical order.
func (r *Registry) Index(code string) (int, bool) {
	i, ok := r.byCode[code]
	return i, ok
}

func (r *Registry) Len() int {
	return len(r.regions)
}

// Validate splits codes into known and unknown subsets, preserving caller
// order and dropping duplicates.
func (r *Registry) Validate(codes []string) (valid []string, unknown []string) {
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		if _, ok := r.byCode[code]; ok {
			valid = append(valid, code)
		} else {
			unknown = append(unknown, code)
		}
	}
	return valid, unknown
}

// Color returns the region's chart color, derived from its canonical index.
// Unknown codes get the index-zero color.
func (r *Registry) Color(code string) string {
	i, ok := r.byCode[code]
	if !ok {
		i = 0
	}
	return ColorForIndex(i)
}
