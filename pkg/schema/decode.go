package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed tour.schema.json
var tourSchema []byte

const tourSchemaURL = "https://clickpath.dev/schema/tour.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Raw returns the embedded tour JSON Schema.
func Raw() []byte {
	return append([]byte(nil), tourSchema...)
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(tourSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse tour schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(tourSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add tour schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(tourSchemaURL)
	})
	return compiled, compileErr
}

// Validate checks an already parsed JSON value against the tour schema.
func Validate(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return &ValidationError{Key: idOf(doc), Reason: "schema validation failed", Err: err}
	}
	return nil
}

// DecodeTour validates a JSON tour document and unmarshals it.
func DecodeTour(raw []byte) (*domain.TourDefinition, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &ValidationError{Key: "?", Reason: "invalid JSON", Err: err}
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var tour domain.TourDefinition
	if err := json.Unmarshal(raw, &tour); err != nil {
		return nil, &ValidationError{Key: idOf(doc), Reason: "unmarshal failed", Err: err}
	}
	return &tour, nil
}

// DecodeTours decodes every document and keeps the valid ones. Failures are
// returned together as an *AggregateError; the tours slice is still usable.
func DecodeTours(raws []json.RawMessage) ([]domain.TourDefinition, error) {
	tours := make([]domain.TourDefinition, 0, len(raws))
	var errs []error
	for i, raw := range raws {
		tour, err := DecodeTour(raw)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) && verr.Key == "?" {
				verr.Key = fmt.Sprintf("#%d", i)
			}
			errs = append(errs, err)
			continue
		}
		tours = append(tours, *tour)
	}
	if len(errs) > 0 {
		return tours, &AggregateError{Errors: errs}
	}
	return tours, nil
}

// DecodeDocument decodes a file holding one tour or an array of tours.
// The format is picked from the file extension: .yaml/.yml are read as YAML,
// everything else as JSON.
func DecodeDocument(name string, data []byte) ([]domain.TourDefinition, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		data = converted
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return DecodeTours(raws)
	}

	tour, err := DecodeTour(trimmed)
	if err != nil {
		return nil, err
	}
	return []domain.TourDefinition{*tour}, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func idOf(doc any) string {
	if m, ok := doc.(map[string]any); ok {
		if id, ok := m["id"].(string); ok && id != "" {
			return id
		}
	}
	return "?"
}
