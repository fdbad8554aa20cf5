package pipeline

import (
	"strings"
	"unicode"
)

const (
	tokenJaccardThreshold   = 0.60
	trigramJaccardThreshold = 0.75
)

// normalizeTitle case-folds, collapses whitespace, and drops punctuation so
// "Jazz Night @ The Roxy" and "Jazz Night at The Roxy" compare on their
// words rather than their typography.
func normalizeTitle(input string) string {
	return strings.Join(tokenize(input), " ")
}

func tokenize(text string) []string {
	trimmed := strings.TrimSpace(strings.ToLower(text))
	if trimmed == "" {
		return nil
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

// titlesSimilar reports whether two raw titles plausibly describe the same
// event. Token overlap catches reworded joiners; trigram overlap catches
// near-identical strings with small edits.
func titlesSimilar(left, right string) bool {
	nl := normalizeTitle(left)
	nr := normalizeTitle(right)
	if nl == "" || nr == "" {
		return false
	}
	if nl == nr {
		return true
	}
	if tokenJaccard(nl, nr) >= tokenJaccardThreshold {
		return true
	}
	return trigramJaccard(nl, nr) >= trigramJaccardThreshold
}

func tokenJaccard(left, right string) float64 {
	return jaccard(tokenSet(left), tokenSet(right))
}

func trigramJaccard(left, right string) float64 {
	return jaccard(trigramSet(left), trigramSet(right))
}

func jaccard(left, right map[string]struct{}) float64 {
	if len(left) == 0 || len(right) == 0 {
		return 0
	}

	intersection := 0
	for token := range left {
		if _, ok := right[token]; ok {
			intersection++
		}
	}
	if intersection == 0 {
		return 0
	}

	union := len(left) + len(right) - intersection
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

func trigramSet(text string) map[string]struct{} {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) < 3 {
		return map[string]struct{}{string(runes): {}}
	}

	set := make(map[string]struct{}, len(runes)-2)
	for i := 0; i <= len(runes)-3; i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}
