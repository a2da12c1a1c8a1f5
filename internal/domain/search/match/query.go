package match

import "unicode/utf8"

// prefixLen is how many leading characters of each query word the recall
// prefilter keeps. Typos past that point still reach the fuzzy scorer.
const prefixLen = 3

// Query is a normalized query plus its matching mode.
type Query struct {
	Tokens []string
	Fuzzy  bool

	// runs are the query's lower-cased ASCII runs, comparable with stored text in SQL.
	runs []string
}

// NewQuery normalizes raw text.
func NewQuery(raw string, fuzzy bool) Query {
	return Query{Tokens: Normalize(raw), Fuzzy: fuzzy, runs: storageRuns(raw)}
}

// IsEmpty reports whether the query has no tokens.
func (q Query) IsEmpty() bool { return len(q.Tokens) == 0 }

// Longest returns the longest run of the raw query that stored text must contain
// verbatim (ignoring case and apostrophes) for a substring match. Empty when the
// query has no such run, e.g. when every letter carries a diacritic.
func (q Query) Longest() string {
	best := ""
	for _, r := range q.runs {
		if utf8.RuneCountInString(r) > utf8.RuneCountInString(best) {
			best = r
		}
	}
	return best
}

// Prefixes returns the leading characters of each query word, deduplicated.
// Stored text that shares none of them is too far from the query to match.
// Single-character words are skipped unless nothing else is left.
func (q Query) Prefixes() []string {
	var out []string
	seen := make(map[string]struct{}, len(q.runs))
	for _, r := range q.runs {
		if len(r) < 2 {
			continue
		}
		p := r[:min(len(r), prefixLen)]
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 && q.Longest() != "" {
		out = []string{q.Longest()}
	}
	return out
}

// Match scores q against c using the mode q asks for.
func (m Matcher) Match(q Query, c Candidate) Match {
	if q.Fuzzy {
		return m.Fuzzy(q.Tokens, c)
	}
	return m.Substring(q.Tokens, c)
}
