package extractor

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/discovr/internal/event"
)

type stubExtractor struct {
	src Source
}

func (s *stubExtractor) Source() Source { return s.src }

func (s *stubExtractor) Extract(context.Context, string) ([]event.RawRecord, error) {
	return nil, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	stub := &stubExtractor{src: Source{ID: "the-roxy", City: "Vancouver", Rank: event.RankOfficial}}

	if err := registry.Register(stub); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := registry.Register(stub); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(&stubExtractor{src: Source{ID: "  "}}); err == nil {
		t.Fatalf("expected empty source ID to fail")
	}

	if _, ok := registry.Get("the-roxy"); !ok {
		t.Fatalf("expected registered extractor to be found")
	}
	if _, ok := registry.Get("missing"); ok {
		t.Fatalf("did not expect unknown extractor to be found")
	}
}

func TestRegistry_ForCityOrdered(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, src := range []Source{
		{ID: "zulu-records", City: "Vancouver"},
		{ID: "the-cultch", City: "Vancouver"},
		{ID: "living-arts-centre", City: "Toronto"},
	} {
		if err := registry.Register(&stubExtractor{src: src}); err != nil {
			t.Fatalf("register %s: %v", src.ID, err)
		}
	}

	vancouver := registry.ForCity("vancouver")
	if len(vancouver) != 2 {
		t.Fatalf("expected 2 Vancouver extractors, got %d", len(vancouver))
	}
	if vancouver[0].Source().ID != "the-cultch" || vancouver[1].Source().ID != "zulu-records" {
		t.Fatalf("expected ID-ordered results, got %q then %q",
			vancouver[0].Source().ID, vancouver[1].Source().ID)
	}

	if got := registry.ForCity("Halifax"); len(got) != 0 {
		t.Fatalf("expected no extractors for unsupported city, got %d", len(got))
	}
}

func TestDefaultRegistry_CoversEveryCity(t *testing.T) {
	t.Parallel()

	registry, err := DefaultRegistry(zerolog.Nop())
	if err != nil {
		t.Fatalf("building default registry failed: %v", err)
	}

	for _, city := range []string{"Vancouver", "Toronto", "Calgary", "Montreal", "New York"} {
		if len(registry.ForCity(city)) == 0 {
			t.Fatalf("no extractors registered for %s", city)
		}
	}
}
