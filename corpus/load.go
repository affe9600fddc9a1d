package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Record is the external shape of one corpus entry, keyed by id in the source mapping.
// Both the original protocol keys (name, content, source_file) and the neutral keys
// (title, body, source) are accepted; the original keys win when both are present.
type Record struct {
	Name       string   `json:"name" yaml:"name"`
	Title      string   `json:"title" yaml:"title"`
	Content    string   `json:"content" yaml:"content"`
	Body       string   `json:"body" yaml:"body"`
	SourceFile string   `json:"source_file" yaml:"source_file"`
	Source     string   `json:"source" yaml:"source"`
	Categories []string `json:"categories" yaml:"categories"`
}

func (r Record) document(id string) Document {
	return NewDocument(id, firstNonEmpty(r.Name, r.Title), firstNonEmpty(r.Content, r.Body), firstNonEmpty(r.SourceFile, r.Source), r.Categories)
}

// LoadFile reads a corpus file, choosing the format from its extension.
func LoadFile(path string) ([]Document, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer file.Close()

	return Load(file, format)
}

// Load decodes an id -> record mapping, keeping the order in which ids appear.
// Duplicate ids are rejected rather than silently overwritten.
func Load(r io.Reader, format Format) ([]Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	switch format {
	case FormatJSON:
		return loadJSON(data)
	case FormatYAML:
		return loadYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func loadJSON(data []byte) ([]Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCorpus, err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected an object of id -> record", ErrMalformedCorpus)
	}

	var documents []Document
	seen := make(map[string]struct{})
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCorpus, err)
		}
		id, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected a string id", ErrMalformedCorpus)
		}

		var record Record
		if err := decoder.Decode(&record); err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", ErrMalformedCorpus, id, err)
		}

		if err := checkID(id, seen); err != nil {
			return nil, err
		}
		documents = append(documents, record.document(id))
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCorpus, err)
	}

	return documents, nil
}

func loadYAML(data []byte) ([]Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCorpus, err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping of id -> record", ErrMalformedCorpus)
	}

	mapping := root.Content[0]
	documents := make([]Document, 0, len(mapping.Content)/2)
	seen := make(map[string]struct{})
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		id := mapping.Content[i].Value

		var record Record
		if err := mapping.Content[i+1].Decode(&record); err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", ErrMalformedCorpus, id, err)
		}

		if err := checkID(id, seen); err != nil {
			return nil, err
		}
		documents = append(documents, record.document(id))
	}

	return documents, nil
}

func checkID(id string, seen map[string]struct{}) error {
	if id == "" {
		return ErrEmptyID
	}
	if _, exists := seen[id]; exists {
		return &DuplicateIDError{ID: id}
	}
	seen[id] = struct{}{}
	return nil
}

func formatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
