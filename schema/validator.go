// Package payloadschema validates raw event payloads exchanged with JSON
// feed sources against the v1 schema.
package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed raw_event.schema.json
var rawEventSchemaJSON string

// RawEventPayload is the decoded v1 feed payload. Dates are RFC3339
// strings at this layer; the pipeline's normalizer owns real date parsing.
type RawEventPayload struct {
	PayloadVersion string        `json:"payload_version"`
	Source         string        `json:"source"`
	SourceEventID  *string       `json:"source_event_id,omitempty"`
	Title          string        `json:"title"`
	Description    *string       `json:"description,omitempty"`
	StartDate      *string       `json:"start_date,omitempty"`
	EndDate        *string       `json:"end_date,omitempty"`
	DateText       *string       `json:"date_text,omitempty"`
	Venue          *VenuePayload `json:"venue,omitempty"`
	LocationText   *string       `json:"location_text,omitempty"`
	City           *string       `json:"city,omitempty"`
	Category       *string       `json:"category,omitempty"`
	URL            *string       `json:"url,omitempty"`
	ImageURL       *string       `json:"image_url,omitempty"`
}

type VenuePayload struct {
	Name      string   `json:"name"`
	Address   *string  `json:"address,omitempty"`
	City      *string  `json:"city,omitempty"`
	Region    *string  `json:"region,omitempty"`
	Country   *string  `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateRawEventPayload checks a payload against the v1 schema and its
// semantic rules, returning the decoded payload on success.
func ValidateRawEventPayload(payload json.RawMessage) (*RawEventPayload, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var item RawEventPayload
	if err := json.Unmarshal(normalized, &item); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&item); err != nil {
		return nil, err
	}

	return &item, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("raw_event.schema.json", strings.NewReader(rawEventSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("raw_event.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(item *RawEventPayload) error {
	if item == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(item.PayloadVersion) != "v1" {
		return fmt.Errorf("payload_version must be v1")
	}
	if strings.TrimSpace(item.Source) == "" {
		return fmt.Errorf("source must not be empty")
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}

	if item.StartDate != nil {
		if _, err := time.Parse(time.RFC3339, strings.TrimSpace(*item.StartDate)); err != nil {
			return fmt.Errorf("start_date must be RFC3339: %w", err)
		}
	}
	if item.EndDate != nil {
		if _, err := time.Parse(time.RFC3339, strings.TrimSpace(*item.EndDate)); err != nil {
			return fmt.Errorf("end_date must be RFC3339: %w", err)
		}
	}
	if item.Venue != nil && strings.TrimSpace(item.Venue.Name) == "" {
		return fmt.Errorf("venue.name must not be empty when venue is present")
	}

	return nil
}
