package pipeline

import (
	"testing"

	"horse.fit/discovr/internal/event"
)

func TestCityTable_Canonical(t *testing.T) {
	t.Parallel()

	table := DefaultCityTable()

	if name, ok := table.Canonical("toronto"); !ok || name != "Toronto" {
		t.Fatalf("expected case-insensitive canonical Toronto, got %q ok=%t", name, ok)
	}
	if name, ok := table.Canonical("Brooklyn"); !ok || name != "New York" {
		t.Fatalf("expected alias Brooklyn to resolve to New York, got %q ok=%t", name, ok)
	}
	if name, ok := table.Canonical("burnaby"); !ok || name != "Vancouver" {
		t.Fatalf("expected alias Burnaby to resolve to Vancouver, got %q ok=%t", name, ok)
	}
	if _, ok := table.Canonical("Winnipeg"); ok {
		t.Fatalf("expected unsupported city to not resolve")
	}
	if _, ok := table.Canonical("  "); ok {
		t.Fatalf("expected blank input to not resolve")
	}
}

func TestClassify_ExplicitForeignTagRejects(t *testing.T) {
	t.Parallel()

	table := DefaultCityTable()

	// Explicitly tagged Toronto while the run targets Vancouver: reject
	// even though the address also mentions Vancouver.
	_, rej := table.Classify(CitySignals{
		City:    "Toronto",
		Address: "800 Robson St, Vancouver, BC",
	}, "Vancouver")
	if rej == nil || rej.Reason != event.ReasonCityMismatch {
		t.Fatalf("expected city mismatch, got %+v", rej)
	}
}

func TestClassify_AddressMatchesTarget(t *testing.T) {
	t.Parallel()

	table := DefaultCityTable()

	city, rej := table.Classify(CitySignals{
		Address: "1891 Venables St, Vancouver, BC V5L 2H6",
	}, "Vancouver")
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if city != "Vancouver" {
		t.Fatalf("got %q want Vancouver", city)
	}
}

func TestClassify_AliasInAddressFoldsToTarget(t *testing.T) {
	t.Parallel()

	table := DefaultCityTable()

	city, rej := table.Classify(CitySignals{
		Address: "6450 Deer Lake Ave, Burnaby, BC",
	}, "Vancouver")
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if city != "Vancouver" {
		t.Fatalf("neighbouring Burnaby must fold into Vancouver, got %q", city)
	}
}

func TestClassify_ForeignAddressRejects(t *testing.T) {
	t.Parallel()

	table := DefaultCityTable()

	_, rej := table.Classify(CitySignals{
		Address: "189 Yonge St, Toronto, ON",
	}, "Vancouver")
	if rej == nil || rej.Reason != event.ReasonCityMismatch {
		t.Fatalf("expected foreign address to reject, got %+v", rej)
	}
}

func TestClassify_EmptySignalsDefaultToTarget(t *testing.T) {
	t.Parallel()

	table := DefaultCityTable()

	city, rej := table.Classify(CitySignals{}, "Calgary")
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if city != "Calgary" {
		t.Fatalf("empty signals must default to the run target, got %q", city)
	}
}

func TestClassify_UnmatchedSignalsDefaultToTarget(t *testing.T) {
	t.Parallel()

	table := DefaultCityTable()

	// A venue-only signal that matches no supported city anywhere keeps
	// the record in the run's target city.
	city, rej := table.Classify(CitySignals{
		VenueName: "The Palomino Smokehouse",
		Address:   "109 7 Ave SW",
	}, "Calgary")
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if city != "Calgary" {
		t.Fatalf("got %q want Calgary", city)
	}
}

func TestClassify_UnsupportedTarget(t *testing.T) {
	t.Parallel()

	table := DefaultCityTable()

	_, rej := table.Classify(CitySignals{}, "Halifax")
	if rej == nil || rej.Reason != event.ReasonCityMismatch {
		t.Fatalf("expected unsupported target to reject, got %+v", rej)
	}
}
