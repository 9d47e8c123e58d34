// ABOUTME: Digest modes and simplification levels for the content-digest pipeline
// ABOUTME: Maps each mode to a target length and each level to a rewrite strength

package domain

import "strings"

// DigestMode selects the target output length of a digest.
// Each mode owns an independent cache namespace.
type DigestMode string

const (
	// ModeLarge keeps roughly half of the original text
	ModeLarge DigestMode = "large"

	// ModeSmall keeps roughly a fifth of the original text
	ModeSmall DigestMode = "small"
)

// Modes returns all known digest modes in display order
func Modes() []DigestMode {
	return []DigestMode{ModeLarge, ModeSmall}
}

// Valid reports whether m is a known mode
func (m DigestMode) Valid() bool {
	return m == ModeLarge || m == ModeSmall
}

// TargetFraction returns the approximate share of the input the digest should keep
func (m DigestMode) TargetFraction() float64 {
	if m == ModeSmall {
		return 0.2
	}
	return 0.5
}

// ParseMode converts user input into a DigestMode
func ParseMode(s string) (DigestMode, bool) {
	m := DigestMode(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// SimplificationLevel controls how liberally the backend may reword the text.
// It is independent of the mode.
type SimplificationLevel string

const (
	LevelConservative SimplificationLevel = "conservative"
	LevelBalanced     SimplificationLevel = "balanced"
	LevelLiberal      SimplificationLevel = "liberal"
)

// DefaultLevel is used when no level has been stored
const DefaultLevel = LevelBalanced

// Valid reports whether l is a known level
func (l SimplificationLevel) Valid() bool {
	switch l {
	case LevelConservative, LevelBalanced, LevelLiberal:
		return true
	}
	return false
}

// Strength returns the sampling temperature sent to the backend.
// Higher values allow freer rewriting.
func (l SimplificationLevel) Strength() float64 {
	switch l {
	case LevelConservative:
		return 0.2
	case LevelLiberal:
		return 0.8
	default:
		return 0.5
	}
}

// ParseLevel converts user input into a SimplificationLevel
func ParseLevel(s string) (SimplificationLevel, bool) {
	l := SimplificationLevel(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}
