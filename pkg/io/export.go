package io

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// MarshalJSON encodes set as a two-space indented JSON array.
// An empty or nil set encodes as [].
func MarshalJSON(set stakeholder.Set) ([]byte, error) {
	data, err := json.MarshalIndent(toRecords(set), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteJSON writes set to w as JSON followed by a newline.
func WriteJSON(set stakeholder.Set, w io.Writer) error {
	data, err := MarshalJSON(set)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteYAML writes set to w as a YAML sequence.
func WriteYAML(set stakeholder.Set, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(set)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Write encodes set to w in the given format.
func Write(set stakeholder.Set, w io.Writer, format Format) error {
	if format == FormatYAML {
		return WriteYAML(set, w)
	}
	return WriteJSON(set, w)
}

// Export writes set to the file at path. The format follows the file
// extension.
func Export(set stakeholder.Set, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(set, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
