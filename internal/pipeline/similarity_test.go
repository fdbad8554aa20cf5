package pipeline

import "testing"

func TestTitlesSimilar_Rewordings(t *testing.T) {
	t.Parallel()

	if !titlesSimilar("Jazz Night at The Roxy", "Jazz Night @ The Roxy") {
		t.Fatalf("expected @/at rewording to match")
	}
	if !titlesSimilar("JAZZ NIGHT AT THE ROXY", "jazz night at the roxy!") {
		t.Fatalf("expected case and punctuation differences to match")
	}
	if titlesSimilar("Jazz Night", "Rock Night") {
		t.Fatalf("different headliners must stay distinct")
	}
	if titlesSimilar("Morning Yoga", "Pottery Workshop") {
		t.Fatalf("unrelated titles must not match")
	}
}

func TestTitlesSimilar_Empty(t *testing.T) {
	t.Parallel()

	if titlesSimilar("", "Jazz Night") {
		t.Fatalf("empty title must never match")
	}
	if titlesSimilar("!!!", "???") {
		t.Fatalf("punctuation-only titles must never match")
	}
}

func TestTokenJaccard(t *testing.T) {
	t.Parallel()

	score := tokenJaccard("winter jazz night", "winter jazz night downtown")
	if score <= 0.6 || score >= 1 {
		t.Fatalf("expected strong partial overlap, got %f", score)
	}

	if score := tokenJaccard("a b", "c d"); score != 0 {
		t.Fatalf("expected zero overlap, got %f", score)
	}
}

func TestTrigramJaccard_SmallEdits(t *testing.T) {
	t.Parallel()

	score := trigramJaccard("vancouver symphony orchestra", "vancouver symphony orchestr")
	if score < 0.75 {
		t.Fatalf("expected near-identical strings to clear the trigram threshold, got %f", score)
	}
}

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	if got := normalizeTitle("  The   ROXY: Jazz-Night! "); got != "the roxy jazz night" {
		t.Fatalf("got %q", got)
	}
	if got := normalizeTitle(""); got != "" {
		t.Fatalf("expected empty normalization, got %q", got)
	}
}
