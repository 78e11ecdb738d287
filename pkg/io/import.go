package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// ReadJSON decodes a JSON array of stakeholder records from r.
//
// ReadJSON returns an IMPORT_PARSE error if the JSON is malformed, is not an
// array, or any record lacks a field, carries a wrong type, holds an
// out-of-range score or repeats a name. ReadJSON does not close r.
func ReadJSON(r io.Reader) (stakeholder.Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportParse, err, "read input")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeImportParse, "empty input")
	}
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportParse, err, "decode json")
	}
	if recs == nil {
		return nil, errors.New(errors.ErrCodeImportParse, "expected an array of stakeholders")
	}
	return fromRecords(recs)
}

// ReadYAML decodes a YAML sequence of stakeholder records from r, with the
// same rules as [ReadJSON].
func ReadYAML(r io.Reader) (stakeholder.Set, error) {
	var recs []record
	dec := yaml.NewDecoder(r)
	dec.KnownFields(false)
	if err := dec.Decode(&recs); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeImportParse, "empty input")
		}
		return nil, errors.Wrap(errors.ErrCodeImportParse, err, "decode yaml")
	}
	if recs == nil {
		return nil, errors.New(errors.ErrCodeImportParse, "expected a list of stakeholders")
	}
	return fromRecords(recs)
}

// Read decodes a stakeholder set from r in the given format.
func Read(r io.Reader, format Format) (stakeholder.Set, error) {
	switch format {
	case FormatJSON, "":
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}

// Import reads a stakeholder set from the file at path. The format follows
// the file extension.
func Import(path string) (stakeholder.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
