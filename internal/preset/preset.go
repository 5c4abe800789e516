// Package preset loads named operation chains from YAML files. A
// preset is an ordered list of operations in the same textual form the
// CLI accepts, applied in sequence by the edit command.
package preset

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/pixelstorm/internal/transform"
)

// Preset is a named, ordered operation chain.
type Preset struct {
	// Name identifies the preset in logs and errors.
	Name string

	// Ops are the parsed operations, in application order.
	Ops []transform.Op
}

// file is the on-disk shape: a name plus op strings.
type file struct {
	Name string   `yaml:"name"`
	Ops  []string `yaml:"ops"`
}

// Load reads a preset from r. Every op string must parse and the
// chain must not be empty.
func Load(r io.Reader) (*Preset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}

	if f.Name == "" {
		return nil, fmt.Errorf("preset has no name")
	}
	if len(f.Ops) == 0 {
		return nil, fmt.Errorf("preset %q has no ops", f.Name)
	}

	ops := make([]transform.Op, 0, len(f.Ops))
	for i, s := range f.Ops {
		op, err := transform.ParseOp(s)
		if err != nil {
			return nil, fmt.Errorf("preset %q op %d: %w", f.Name, i+1, err)
		}
		ops = append(ops, op)
	}

	return &Preset{Name: f.Name, Ops: ops}, nil
}

// LoadFile reads a preset from a YAML file.
func LoadFile(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening preset %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
