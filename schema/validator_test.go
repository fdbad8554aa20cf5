package payloadschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateRawEventPayload_Valid(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`{
		"payload_version": "v1",
		"source": "todocanada-vancouver",
		"source_event_id": "tdc-1",
		"title": "Winter Jazz Night",
		"start_date": "2026-11-21T19:30:00Z",
		"end_date": "2026-11-21T23:00:00Z",
		"venue": {"name": "Fortune Sound Club", "city": "Vancouver"},
		"city": "Vancouver",
		"category": "music",
		"url": "https://www.todocanada.ca/event/winter-jazz-night"
	}`)

	item, err := ValidateRawEventPayload(payload)
	if err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if item.Title != "Winter Jazz Night" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Venue == nil || item.Venue.Name != "Fortune Sound Club" {
		t.Fatalf("unexpected venue %+v", item.Venue)
	}
}

func TestValidateRawEventPayload_MinimalValid(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`{"payload_version":"v1","source":"manual","title":"Pop-up Show"}`)
	if _, err := ValidateRawEventPayload(payload); err != nil {
		t.Fatalf("expected minimal payload to validate, got %v", err)
	}
}

func TestValidateRawEventPayload_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"empty", ``, "payload is empty"},
		{"trailing content", `{"payload_version":"v1","source":"s","title":"t"} {}`, "trailing content"},
		{"wrong version", `{"payload_version":"v2","source":"s","title":"t"}`, "payload_version must be v1"},
		{"missing title", `{"payload_version":"v1","source":"s"}`, "schema validation failed"},
		{"blank source", `{"payload_version":"v1","source":"  ","title":"t"}`, "source must not be empty"},
		{"bad start date", `{"payload_version":"v1","source":"s","title":"t","start_date":"tomorrow"}`, "start_date must be RFC3339"},
		{"blank venue name", `{"payload_version":"v1","source":"s","title":"t","venue":{"name":"  "}}`, "venue.name must not be empty"},
	}

	for _, tc := range cases {
		_, err := ValidateRawEventPayload(json.RawMessage(tc.payload))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.wantErr)
		}
	}
}
