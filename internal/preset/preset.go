// Package preset loads named dice rolls from YAML.
//
// A preset file holds a list of presets:
//
//	presets:
//	  - name: fireball
//	    description: 8d6 fire damage
//	    notation: 8d6
//	  - name: sneak-attack
//	    script: |
//	      local hit = dice.roll("d20 adv").total
//	      if hit < 12 then return 0 end
//	      return dice.roll("d6 + 3d6").total
//
// Each preset sets exactly one of notation or script.
package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dicebag/internal/dice"
	"github.com/cory-johannsen/dicebag/internal/notation"
)

// ErrDuplicate is returned when two presets share a name.
var ErrDuplicate = errors.New("duplicate preset name")

// Preset is a named roll: either dice notation or a Lua script.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Notation    string `yaml:"notation"`
	Script      string `yaml:"script"`
}

// IsScript reports whether the preset runs a script rather than notation.
func (p *Preset) IsScript() bool {
	return strings.TrimSpace(p.Script) != ""
}

// Validate checks the preset is well formed.
//
// Notation is checked for syntax only; size limits belong to whoever rolls
// the preset.
//
// Postcondition: Returns nil if Name is set, exactly one of Notation and
// Script is set, and Notation (when set) parses with no configured limits.
func (p *Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("preset name must not be empty")
	}
	hasNotation := strings.TrimSpace(p.Notation) != ""
	hasScript := strings.TrimSpace(p.Script) != ""
	switch {
	case hasNotation && hasScript:
		return fmt.Errorf("preset %q: notation and script are mutually exclusive", p.Name)
	case !hasNotation && !hasScript:
		return fmt.Errorf("preset %q: one of notation or script is required", p.Name)
	}
	if hasNotation {
		if _, err := dice.ParseRollWith(notation.Parser{}, p.Notation); err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return nil
}

type presetFile struct {
	Presets []*Preset `yaml:"presets"`
}

// LoadFromBytes parses and validates every preset in a YAML document.
//
// Postcondition: Returns the presets in file order, or an error naming the
// first invalid one.
func LoadFromBytes(data []byte) ([]*Preset, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing preset YAML: %w", err)
	}
	for i, p := range f.Presets {
		if p == nil {
			return nil, fmt.Errorf("preset %d is empty", i)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Presets, nil
}

// Load reads presets from path, which is either a YAML file or a directory
// whose *.yaml files are loaded in lexicographic order.
//
// Postcondition: Returns a Catalog with unique names, or a non-nil error.
func Load(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets %q: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = yamlFiles(path)
		if err != nil {
			return nil, err
		}
	}

	var all []*Preset
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", file, err)
		}
		presets, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", file, err)
		}
		all = append(all, presets...)
	}
	return NewCatalog(all...)
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading preset dir %q: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Catalog is an immutable set of presets indexed by name.
type Catalog struct {
	byName map[string]*Preset
}

// NewCatalog indexes presets by name.
//
// Postcondition: Returns an error wrapping ErrDuplicate if two presets share a name.
func NewCatalog(presets ...*Preset) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Preset, len(presets))}
	for _, p := range presets {
		if _, ok := c.byName[p.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, p.Name)
		}
		owned := *p
		c.byName[p.Name] = &owned
	}
	return c, nil
}

// Get returns a copy of the named preset.
func (c *Catalog) Get(name string) (Preset, bool) {
	p, ok := c.byName[name]
	if !ok {
		return Preset{}, false
	}
	return *p, true
}

// Names returns every preset name in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.byName)
}
