package listing

import (
	_ "embed"
	"fmt"

	"github.com/samhoang/capable/internal/script"
)

//go:embed schema.cue
var listSchema []byte

// document is the structured (YAML, TOML or CUE) form of a list:
//
//	files:
//	  - file: lib/hello.rb
//	    provides: Hello
//	    depends: [Newbie]
type document struct {
	Files []rawRecord `yaml:"files" toml:"files" json:"files"`
}

// rawRecord accepts a single name or a list for provides and depends
type rawRecord struct {
	File     string `yaml:"file" toml:"file" json:"file"`
	Provides any    `yaml:"provides" toml:"provides" json:"provides"`
	Depends  any    `yaml:"depends" toml:"depends" json:"depends"`
}

// DecodeRecords reads the records of a structured list document
func DecodeRecords(format script.Format, name string, data []byte) ([]Record, error) {
	var doc document
	if err := script.Decode(format, name, data, listSchema, "#List", &doc); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(doc.Files))
	for i, raw := range doc.Files {
		provides, err := script.StringList(raw.Provides)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d provides: %w", name, i+1, err)
		}
		depends, err := script.StringList(raw.Depends)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d depends: %w", name, i+1, err)
		}
		records = append(records, Record{File: raw.File, Provides: provides, Depends: depends})
	}
	return records, nil
}
