package coursesearch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/coursesearch/core"
)

// CorpusEntry is one document in an import file.
type CorpusEntry struct {
	Code        string `yaml:"code" json:"code"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// ParseCorpus decodes a YAML or JSON list of corpus entries.
func ParseCorpus(r io.Reader) ([]*core.Document, error) {
	var entries []CorpusEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}

	docs := make([]*core.Document, len(entries))
	for i, e := range entries {
		docs[i] = &core.Document{Code: e.Code, Name: e.Name, Description: e.Description}
	}
	return docs, nil
}

// LoadCorpus reads a corpus file.
func LoadCorpus(path string) ([]*core.Document, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCorpus(f)
}

// WriteCorpus encodes documents as a YAML corpus file.
func WriteCorpus(w io.Writer, docs []*core.Document) error {
	entries := make([]CorpusEntry, len(docs))
	for i, d := range docs {
		entries[i] = CorpusEntry{Code: d.Code, Name: d.Name, Description: d.Description}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}
