// Package manifest reads and writes the provenance manifest (Capable.load)
// and checks packaged files against it.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Record describes one packaged capability
type Record struct {
	Provider string `yaml:"provider"`
	SHA256   string `yaml:"sha256"`
	Target   string `yaml:"target"`
}

// Entry holds the records written for one source
type Entry struct {
	Key     string
	Records []Record
}

// Manifest maps source keys to their records, in the order sources were declared
type Manifest struct {
	Entries []Entry
}

// Digest returns the hex-encoded SHA-256 of data
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Add appends the records for a source key
func (m *Manifest) Add(key string, records []Record) {
	m.Entries = append(m.Entries, Entry{Key: key, Records: records})
}

// Records returns every record in manifest order
func (m *Manifest) Records() []Record {
	var all []Record
	for _, e := range m.Entries {
		all = append(all, e.Records...)
	}
	return all
}

// Targets returns every recorded target in manifest order
func (m *Manifest) Targets() []string {
	var targets []string
	for _, r := range m.Records() {
		targets = append(targets, r.Target)
	}
	return targets
}

// MarshalYAML writes the manifest as a mapping keyed by source key
func (m Manifest) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m.Entries {
		var value yaml.Node
		records := e.Records
		if records == nil {
			records = []Record{}
		}
		if err := value.Encode(records); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&value,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping of source key to records, keeping key order
func (m *Manifest) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: manifest must be a mapping of source keys", node.Line)
	}
	m.Entries = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		var records []Record
		if err := node.Content[i+1].Decode(&records); err != nil {
			return fmt.Errorf("source %s: %w", node.Content[i].Value, err)
		}
		m.Add(node.Content[i].Value, records)
	}
	return nil
}

// Parse decodes manifest data. Empty data is an empty manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads a manifest from path
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Marshal encodes the manifest
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// Save overwrites path with the manifest and returns the bytes written
func (m *Manifest) Save(fs afero.Fs, path string) (int, error) {
	data, err := m.Marshal()
	if err != nil {
		return 0, err
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return 0, err
	}
	return len(data), nil
}
