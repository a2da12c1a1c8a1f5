package match

import (
	"strings"
	"unicode/utf8"
)

// Matching defaults.
const (
	DefaultFloor       = 0.55
	DefaultPrefixBonus = 0.5
)

// Match is the outcome of scoring query tokens against one candidate.
// Word is the original word index of the strongest hit, or -1.
type Match struct {
	Score float64
	Word  int
}

// Hit reports whether anything matched.
func (m Match) Hit() bool { return m.Score > 0 }

var noMatch = Match{Word: -1}

// Matcher scores query tokens against candidate text.
type Matcher struct {
	floor       float64
	prefixBonus float64
}

// NewMatcher creates a matcher. Non-positive values fall back to defaults.
func NewMatcher(floor, prefixBonus float64) Matcher {
	if floor <= 0 || floor > 1 {
		floor = DefaultFloor
	}
	if prefixBonus <= 0 {
		prefixBonus = DefaultPrefixBonus
	}
	return Matcher{floor: floor, prefixBonus: prefixBonus}
}

// Floor returns the per-token threshold below which a token contributes nothing.
func (m Matcher) Floor() float64 { return m.floor }

// Score returns a similarity in [0,1] between tokens and text.
func (m Matcher) Score(tokens []string, text string) float64 {
	return m.Fuzzy(tokens, Prepare(text)).Score
}

// Fuzzy scores each token by its best word similarity. Tokens under the floor
// count as zero and the rest are averaged weighted by token length.
func (m Matcher) Fuzzy(tokens []string, c Candidate) Match {
	if len(tokens) == 0 || c.IsEmpty() {
		return noMatch
	}

	var sum, total, bestContribution float64
	bestWord := -1
	for _, tok := range tokens {
		weight := float64(utf8.RuneCountInString(tok))
		total += weight

		sim, word := m.bestWord(tok, c.words)
		if sim < m.floor {
			continue
		}
		contribution := sim * weight
		sum += contribution
		if contribution > bestContribution {
			bestContribution = contribution
			bestWord = word
		}
	}
	if total == 0 || sum == 0 {
		return noMatch
	}
	return Match{Score: sum / total, Word: c.rawIndex(bestWord)}
}

// Substring is the exact mode: 1 when the joined tokens occur in the
// normalized text, 0 otherwise.
func (m Matcher) Substring(tokens []string, c Candidate) Match {
	if len(tokens) == 0 || c.IsEmpty() {
		return noMatch
	}
	idx := strings.Index(c.joined, strings.Join(tokens, " "))
	if idx < 0 {
		return noMatch
	}
	word := strings.Count(c.joined[:idx], " ")
	return Match{Score: 1, Word: c.rawIndex(word)}
}

func (m Matcher) bestWord(tok string, words []string) (float64, int) {
	best, at := 0.0, -1
	for i, w := range words {
		s := m.similarity(tok, w)
		if s > best {
			best, at = s, i
			if best == 1 {
				break
			}
		}
	}
	return best, at
}

// similarity is 1 - distance/longer length, plus a flat bonus when word starts with tok.
func (m Matcher) similarity(tok, word string) float64 {
	if tok == word {
		return 1
	}
	a, b := []rune(tok), []rune(word)
	longer := max(len(a), len(b))
	prefix := strings.HasPrefix(word, tok)

	// Length difference is a lower bound on the distance.
	if !prefix && 1-float64(abs(len(a)-len(b)))/float64(longer) < m.floor {
		return 0
	}

	s := 1 - float64(osaDistance(a, b))/float64(longer)
	if prefix {
		s += m.prefixBonus
	}
	return min(max(s, 0), 1)
}

// osaDistance is the optimal string alignment variant of Damerau-Levenshtein:
// insertions, deletions, substitutions and adjacent transpositions.
func osaDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Three rolling rows: i-2, i-1, i.
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(b)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
