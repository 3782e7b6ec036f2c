package modeling

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParameterRecord is the serialized form of one parameter.
type ParameterRecord struct {
	Name   string  `yaml:"name" json:"name"`
	ID     string  `yaml:"id,omitempty" json:"id,omitempty"`
	Value  float64 `yaml:"value" json:"value"`
	Unit   string  `yaml:"unit" json:"unit"`
	Frozen bool    `yaml:"frozen,omitempty" json:"frozen,omitempty"`
}

// ArrayRecord is an inline data array with a unit, used by table-backed
// spectral models.
type ArrayRecord struct {
	Data []float64 `yaml:"data" json:"data"`
	Unit string    `yaml:"unit" json:"unit"`
}

// ModelRecord is the serialized form of a single non-composite model: a type
// tag plus either a parameter list or, for table-backed spectral models, an
// explicit energy/values grid.
type ModelRecord struct {
	Type       string            `yaml:"type" json:"type"`
	Parameters []ParameterRecord `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Energy     *ArrayRecord      `yaml:"energy,omitempty" json:"energy,omitempty"`
	Values     *ArrayRecord      `yaml:"values,omitempty" json:"values,omitempty"`
	Filename   string            `yaml:"filename,omitempty" json:"filename,omitempty"`
}

// ComponentRecord is one entry of the components list. It carries either a
// single "model" sub-record (background models) or a "spatial"+"spectral"
// pair (composite sky models).
type ComponentRecord struct {
	Name     string       `yaml:"name" json:"name"`
	Filename string       `yaml:"filename,omitempty" json:"filename,omitempty"`
	Model    *ModelRecord `yaml:"model,omitempty" json:"model,omitempty"`
	Spatial  *ModelRecord `yaml:"spatial,omitempty" json:"spatial,omitempty"`
	Spectral *ModelRecord `yaml:"spectral,omitempty" json:"spectral,omitempty"`
}

// ParameterLink records one shared parameter and the models referencing it,
// in first-occurrence order. Links make the shared-parameter relation explicit
// in the serialized form; resolution on read goes through the parameter IDs.
type ParameterLink struct {
	ID     string   `yaml:"id" json:"id"`
	Name   string   `yaml:"name" json:"name"`
	Owners []string `yaml:"owners" json:"owners"`
}

// Components is the serialized form of a model list.
type Components struct {
	Components []ComponentRecord `yaml:"components" json:"components"`
	Links      []ParameterLink   `yaml:"links,omitempty" json:"links,omitempty"`
}

// WriteComponents writes a components dict to a YAML file.
func WriteComponents(path string, c *Components) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal components: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write components file: %w", err)
	}
	return nil
}

// ReadComponents reads a components dict from a YAML file.
func ReadComponents(path string) (*Components, error) {
	//nolint:gosec // G304: the path is caller-provided by design
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read components file: %w", err)
	}
	var c Components
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal components: %w", err)
	}
	return &c, nil
}
