package match

import (
	"strings"
	"unicode/utf8"
)

// DefaultSnippetWidth is the target snippet length in runes.
const DefaultSnippetWidth = 80

const ellipsis = "…"

// Snippet cuts a window of original words around word, at most width runes
// plus ellipses. A negative word means the start of the text.
func (c Candidate) Snippet(word, width int) string {
	if len(c.raw) == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultSnippetWidth
	}
	if word < 0 || word >= len(c.raw) {
		word = 0
	}

	if utf8.RuneCountInString(c.raw[word]) >= width {
		return wrap(truncateRunes(c.raw[word], width), word > 0, word < len(c.raw)-1)
	}

	start, end := word, word+1
	size := utf8.RuneCountInString(c.raw[word])
	for {
		// Trailing context grows twice as fast as leading context.
		right := false
		if end < len(c.raw) {
			if n := utf8.RuneCountInString(c.raw[end]) + 1; size+n <= width {
				size += n
				end++
				right = true
			}
		}
		left := false
		if start > 0 && (!right || end-word > 2*(word-start)) {
			if n := utf8.RuneCountInString(c.raw[start-1]) + 1; size+n <= width {
				size += n
				start--
				left = true
			}
		}
		if !right && !left {
			break
		}
	}

	return wrap(strings.Join(c.raw[start:end], " "), start > 0, end < len(c.raw))
}

func wrap(s string, head, tail bool) string {
	if head {
		s = ellipsis + s
	}
	if tail {
		s += ellipsis
	}
	return s
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
