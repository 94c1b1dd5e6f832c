// Package report persists analysis results as JSON documents and loads them
// back after validating them against the result schema.
package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/panbanda/codestat/pkg/models"
)

const schemaURL = "https://codestat.dev/schema/result.json"

//go:embed result.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the compiled result schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse result schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add result schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Marshal encodes s as an indented result document.
func Marshal(s models.AggregatedStats) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode result: %v", models.ErrSerialization, err)
	}
	return append(data, '\n'), nil
}

// Unmarshal validates data against the result schema and decodes it.
func Unmarshal(data []byte) (models.AggregatedStats, error) {
	var s models.AggregatedStats

	sch, err := Schema()
	if err != nil {
		return s, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return s, fmt.Errorf("%w: malformed result: %v", models.ErrSerialization, err)
	}
	if err := sch.Validate(inst); err != nil {
		return s, fmt.Errorf("%w: invalid result: %v", models.ErrSerialization, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%w: decode result: %v", models.ErrSerialization, err)
	}
	return s, nil
}

// Save writes s to path, replacing any existing file atomically.
func Save(path string, s models.AggregatedStats) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".codestat-*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads and validates one result file.
func Load(path string) (models.AggregatedStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.AggregatedStats{}, fmt.Errorf("read report: %w", err)
	}
	s, err := Unmarshal(data)
	if err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadAll loads every path in order, stopping at the first failure.
func LoadAll(paths []string) ([]models.AggregatedStats, error) {
	out := make([]models.AggregatedStats, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
