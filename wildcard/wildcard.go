// Package wildcard implements segment-wise pattern matching for
// dot-separated names such as event subjects and comparison paths.
//
// Within a segment, the multi token '*' matches any run of characters
// (including an empty one) and the single token '?' matches exactly one
// character. A pattern consisting of nothing but the multi token
// matches any candidate at all; this is decided before the candidate is
// even looked at, so callers can use it to accept absent values. A
// candidate with more segments than the pattern matches only when the
// pattern's final segment is the bare multi token. A candidate with
// fewer segments than the pattern never matches.
package wildcard

import "strings"

const (
	// Multi matches any run of characters within a segment.
	Multi = '*'
	// Single matches exactly one character within a segment.
	Single = '?'
	// DefaultSeparator splits patterns and candidates into segments.
	DefaultSeparator = '.'
)

// Match reports whether candidate satisfies pattern, splitting both on
// the default separator.
func Match(pattern, candidate string) bool {
	return MatchSep(pattern, candidate, DefaultSeparator)
}

// MatchSep reports whether candidate satisfies pattern, splitting both
// on sep.
func MatchSep(pattern, candidate string, sep rune) bool {
	if pattern == string(Multi) {
		return true
	}
	pat := strings.Split(pattern, string(sep))
	cand := strings.Split(candidate, string(sep))
	if len(cand) < len(pat) {
		return false
	}
	if len(cand) > len(pat) && pat[len(pat)-1] != string(Multi) {
		return false
	}
	for i, p := range pat {
		if !matchSegment(p, cand[i]) {
			return false
		}
	}
	return true
}

// matchSegment applies the single-segment rule. The multi token is
// resolved by backtracking: on a dead end the scan returns to the
// character after the last multi token and widens its run by one.
func matchSegment(pattern, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == Single || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == Multi:
			star = pi
			mark = si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == Multi {
		pi++
	}
	return pi == len(pattern)
}
