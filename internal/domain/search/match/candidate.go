package match

import "strings"

// maxCandidateWords caps how much of a long field is scored.
const maxCandidateWords = 1000

// Candidate is field text prepared for scoring. It keeps the original words
// so a snippet can be cut from what the user actually wrote.
type Candidate struct {
	raw    []string
	words  []string
	owner  []int
	joined string
}

// Prepare splits and normalizes text once so it can be scored against many queries.
func Prepare(text string) Candidate {
	raw := strings.Fields(text)
	c := Candidate{raw: raw}
	for i, w := range raw {
		for _, tok := range Normalize(w) {
			if len(c.words) == maxCandidateWords {
				break
			}
			c.words = append(c.words, tok)
			c.owner = append(c.owner, i)
		}
	}
	c.joined = strings.Join(c.words, " ")
	return c
}

// IsEmpty reports whether the text had no matchable words.
func (c Candidate) IsEmpty() bool { return len(c.words) == 0 }

// Words returns the normalized words.
func (c Candidate) Words() []string { return c.words }

// rawIndex maps a normalized word index to its original word.
func (c Candidate) rawIndex(word int) int {
	if word < 0 || word >= len(c.owner) {
		return -1
	}
	return c.owner[word]
}
