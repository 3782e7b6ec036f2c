package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IndexEntry records one dataset in the datasets index: its persistence file
// plus the names joining it to the components dict.
type IndexEntry struct {
	Name        string   `yaml:"name" json:"name"`
	Filename    string   `yaml:"filename" json:"filename"`
	Backgrounds []string `yaml:"backgrounds" json:"backgrounds"`
	Models      []string `yaml:"models" json:"models"`
}

// Index is the serialized datasets index.
type Index struct {
	Datasets []IndexEntry `yaml:"datasets" json:"datasets"`
}

// WriteIndex writes a datasets index to a YAML file.
func WriteIndex(path string, index *Index) error {
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal datasets index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write datasets index: %w", err)
	}
	return nil
}

// ReadIndex reads a datasets index from a YAML file.
func ReadIndex(path string) (*Index, error) {
	//nolint:gosec // G304: the path is caller-provided by design
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read datasets index: %w", err)
	}
	var index Index
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal datasets index: %w", err)
	}
	return &index, nil
}
