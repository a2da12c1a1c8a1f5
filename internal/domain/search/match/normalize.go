package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize turns raw text into canonical tokens: lower-cased, diacritics
// folded, characters outside [a-z0-9] removed except hyphens inside a token.
// Stop words are kept. Empty input yields no tokens.
func Normalize(raw string) []string {
	folded := fold(strings.ToLower(raw))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '\'' || r == '’':
			// o'brien -> obrien
		default:
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if tok := trimHyphens(f); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// NormalizeText is Normalize joined by single spaces.
func NormalizeText(raw string) string {
	return strings.Join(Normalize(raw), " ")
}

func fold(s string) string {
	// Transformers keep state, so a chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// trimHyphens drops leading/trailing hyphens and collapses inner runs.
func trimHyphens(s string) string {
	s = strings.Trim(s, "-")
	if !strings.Contains(s, "--") {
		return s
	}
	var b strings.Builder
	prev := rune(0)
	for _, r := range s {
		if r == '-' && prev == '-' {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// storageRuns splits raw into lower-cased runs of characters that survive
// normalization unchanged. Apostrophes are dropped inside a run; the record store
// drops them from stored text too. Hyphens only at a run's edges are trimmed.
func storageRuns(raw string) []string {
	var (
		runs []string
		b    strings.Builder
	)
	flush := func() {
		if s := strings.Trim(b.String(), "-"); s != "" {
			runs = append(runs, s)
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '\'' || r == '’':
		default:
			flush()
		}
	}
	flush()
	return runs
}
