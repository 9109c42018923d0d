package document

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Message is the commit intent handed to the document alongside a value.
type Message string

const (
	MessageCreate Message = "CREATE"
	MessageUpdate Message = "UPDATE"
	MessageDelete Message = "DELETE"
)

// Document is the persisted set of named text fields.
type Document struct {
	Revision  string            `toml:"revision"`
	UpdatedAt time.Time         `toml:"updated_at"`
	Fields    map[string]string `toml:"fields"`
}

// Names returns the field names in sorted order.
func (d Document) Names() []string {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy that shares no map with d.
func (d Document) Clone() Document {
	dup := d
	dup.Fields = maps.Clone(d.Fields)
	if dup.Fields == nil {
		dup.Fields = map[string]string{}
	}
	return dup
}

// Load reads the document at path. A missing file yields an empty document.
func Load(path string) (Document, error) {
	doc := Document{Fields: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	if err := toml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}
	if doc.Fields == nil {
		doc.Fields = map[string]string{}
	}
	return doc, nil
}

// Save writes doc to path, creating parent directories. The file is replaced
// atomically so a concurrent Load never sees a partial write.
func Save(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".quill-*.toml")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
