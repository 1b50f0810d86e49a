// Package presets ships ready-made schemas for common mock datasets.
package presets

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/chinazagideon/mock-generator/internal/format"
	"github.com/chinazagideon/mock-generator/internal/schema"
)

//go:embed schemas/*.yaml
var files embed.FS

// ErrUnknownPreset is returned by Get for names not in the catalogue.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named schema with the defaults it is usually generated with.
type Preset struct {
	Name        string        `yaml:"-" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Count       int           `yaml:"count" json:"count"`
	Seed        *int64        `yaml:"seed" json:"seed,omitempty"`
	Format      format.Format `yaml:"format" json:"format"`
	Schema      schema.Schema `yaml:"schema" json:"-"`
}

var (
	loadOnce sync.Once
	catalog  map[string]Preset
	loadErr  error
)

func load() {
	entries, err := files.ReadDir("schemas")
	if err != nil {
		loadErr = fmt.Errorf("read presets: %w", err)
		return
	}
	catalog = make(map[string]Preset, len(entries))
	for _, e := range entries {
		data, err := files.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			loadErr = fmt.Errorf("read preset %s: %w", e.Name(), err)
			return
		}
		var p Preset
		if err := yaml.Unmarshal(data, &p); err != nil {
			loadErr = fmt.Errorf("parse preset %s: %w", e.Name(), err)
			return
		}
		p.Name = strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		catalog[p.Name] = p
	}
}

// Names returns the preset names in sorted order.
func Names() []string {
	loadOnce.Do(load)
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every preset sorted by name.
func All() ([]Preset, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Preset, 0, len(catalog))
	for _, n := range Names() {
		out = append(out, catalog[n])
	}
	return out, nil
}

// Get returns the preset called name.
func Get(name string) (Preset, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return Preset{}, loadErr
	}
	p, ok := catalog[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPreset, name, strings.Join(Names(), ", "))
	}
	return p, nil
}
