package domain

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
)

//go:embed quantities.yaml
var quantitiesYAML []byte

type quantityFile struct {
	Quantities []quantitySpec `yaml:"quantities"`
}

type quantitySpec struct {
	Name      string         `yaml:"name"`
	Dimension map[string]int `yaml:"dimension"`
	Factors   []factorSpec   `yaml:"factors"`
}

type factorSpec struct {
	Quantity string `yaml:"quantity"`
	Exponent int    `yaml:"exponent"`
}

// QuantityTable is the resolved quantity → dimension lookup. It is immutable
// after load.
type QuantityTable struct {
	dims map[string]Dimension
}

// LoadQuantityTable parses the embedded quantities.yaml and resolves composite
// quantities by summing the exponents of their factor quantities.
func LoadQuantityTable() (*QuantityTable, error) {
	var file quantityFile
	if err := yaml.Unmarshal(quantitiesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse quantities table: %w", err)
	}

	specs := make(map[string]quantitySpec, len(file.Quantities))
	for _, spec := range file.Quantities {
		if spec.Name == "" {
			return nil, fmt.Errorf("quantities table: entry with empty name")
		}
		if _, dup := specs[spec.Name]; dup {
			return nil, fmt.Errorf("quantities table: duplicate quantity %q", spec.Name)
		}
		if spec.Dimension != nil && len(spec.Factors) > 0 {
			return nil, fmt.Errorf("quantities table: %q declares both dimension and factors", spec.Name)
		}
		for key := range spec.Dimension {
			if !DimensionKeys[key] {
				return nil, fmt.Errorf("quantities table: %q has invalid dimension key %q", spec.Name, key)
			}
		}
		specs[spec.Name] = spec
	}

	table := &QuantityTable{dims: make(map[string]Dimension, len(specs))}
	for name := range specs {
		if _, err := table.resolve(specs, name, make(map[string]bool)); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// resolve computes one quantity's dimension, following factor references.
func (t *QuantityTable) resolve(specs map[string]quantitySpec, name string, visiting map[string]bool) (Dimension, error) {
	if dim, ok := t.dims[name]; ok {
		return dim, nil
	}
	if visiting[name] {
		return nil, fmt.Errorf("quantities table: cycle through %q", name)
	}
	spec, ok := specs[name]
	if !ok {
		return nil, fmt.Errorf("quantities table: unknown factor quantity %q", name)
	}

	dim := make(Dimension)
	if spec.Factors == nil {
		for key, exp := range spec.Dimension {
			if exp != 0 {
				dim[key] = exp
			}
		}
	} else {
		visiting[name] = true
		for _, factor := range spec.Factors {
			sub, err := t.resolve(specs, factor.Quantity, visiting)
			if err != nil {
				return nil, err
			}
			for key, exp := range sub {
				dim[key] += exp * factor.Exponent
			}
		}
		delete(visiting, name)
		// Cancelled exponents are dropped, not stored as zero.
		for key, exp := range dim {
			if exp == 0 {
				delete(dim, key)
			}
		}
	}

	t.dims[name] = dim
	return dim, nil
}

// Dimension returns a copy of the exponent vector for a property. The second
// return is false for unknown properties. Dimensionless quantities yield an
// empty non-nil map.
func (t *QuantityTable) Dimension(property string) (Dimension, bool) {
	dim, ok := t.dims[property]
	if !ok {
		return nil, false
	}
	return dim.Clone(), true
}

// Known reports whether the property is in the table.
func (t *QuantityTable) Known(property string) bool {
	_, ok := t.dims[property]
	return ok
}

// Len returns the number of quantities in the table.
func (t *QuantityTable) Len() int {
	return len(t.dims)
}
