package calculator

import (
	"strings"
	"unicode/utf8"
)

// topLevel calls f with the byte offset of each rune of s that is outside
// every bracket. Brackets themselves are never at top level. A close bracket
// with no open bracket is ignored; the parser reports it.
func topLevel(s string, f func(i int, r rune)) (depth int) {
	for i, r := range s {
		switch {
		case strings.ContainsRune(OpenBrackets, r):
			depth++
		case strings.ContainsRune(CloseBrackets, r):
			if depth > 0 {
				depth--
			}
		case depth == 0:
			f(i, r)
		}
	}
	return depth
}

// OpenDepth returns the number of brackets in s left open at its end. An
// interactive reader can use it to decide whether to ask for more input.
func OpenDepth(s string) int {
	return topLevel(s, func(int, rune) {})
}

// splitTopLevel splits s at each top-level occurrence of sep.
func splitTopLevel(s string, sep rune) []string {
	var r []string
	k := 0
	topLevel(s, func(i int, c rune) {
		if c == sep {
			r = append(r, s[k:i])
			k = i + utf8.RuneLen(c)
		}
	})
	return append(r, s[k:])
}

// hasTopLevel reports whether sep occurs at top level in s.
func hasTopLevel(s string, sep rune) bool {
	found := false
	topLevel(s, func(_ int, c rune) {
		found = found || c == sep
	})
	return found
}

// topLevelEquals returns the byte offsets of each top-level = in s that is
// not part of ==, !=, <=, or >=.
func topLevelEquals(s string) []int {
	var r []int
	topLevel(s, func(i int, c rune) {
		if c != '=' {
			return
		}
		if i > 0 && strings.IndexByte("=!<>", s[i-1]) >= 0 {
			return
		}
		if i+1 < len(s) && s[i+1] == '=' {
			return
		}
		r = append(r, i)
	})
	return r
}
