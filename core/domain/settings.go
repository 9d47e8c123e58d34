// ABOUTME: Immutable user settings snapshot handed to each pipeline component
// ABOUTME: A settings change produces a new snapshot instead of mutating this one

package domain

import "strings"

// Settings is a read-only snapshot of everything the user can configure.
// Components receive it at construction; use Clone before modifying a copy.
type Settings struct {
	Policy           DomainPolicy
	Debug            bool
	Level            SimplificationLevel
	AutoRun          bool
	Prompts          map[DigestMode]string // user overrides; missing modes use the defaults
	Credential       string
	Pricing          []PricingEntry
	OverlayGeometry  string // opaque to the core, owned by the UI surface
	OverlayCollapsed bool
	InstalledAt      int64
}

// DefaultSettings returns the snapshot used when nothing has been stored
func DefaultSettings() Settings {
	return Settings{
		Policy:  DefaultPolicy(),
		Level:   DefaultLevel,
		Prompts: map[DigestMode]string{},
		Pricing: DefaultPricing(),
	}
}

// Clone returns a deep copy
func (s Settings) Clone() Settings {
	c := s
	c.Policy = s.Policy.Clone()
	c.Prompts = make(map[DigestMode]string, len(s.Prompts))
	for k, v := range s.Prompts {
		c.Prompts[k] = v
	}
	c.Pricing = append([]PricingEntry(nil), s.Pricing...)
	return c
}

// Prompt returns the instructions for mode, preferring a non-blank user override
func (s Settings) Prompt(mode DigestMode) string {
	if p := strings.TrimSpace(s.Prompts[mode]); p != "" {
		return p
	}
	return DefaultPrompt(mode)
}

// HasCredential reports whether a backend credential is configured
func (s Settings) HasCredential() bool {
	return strings.TrimSpace(s.Credential) != ""
}

// DefaultPrompt returns the built-in instructions for mode
func DefaultPrompt(mode DigestMode) string {
	if mode == ModeSmall {
		return "Summarize the following article to about 20% of its original length. " +
			"Keep only the central points, key facts, names and numbers. " +
			"Write short, plain paragraphs. Return plain text only: no markdown, no JSON, no preamble."
	}
	return "Rewrite the following article to about 50% of its original length. " +
		"Keep the structure, the key facts, names and numbers, and drop repetition and filler. " +
		"Use clear, simple wording. Return plain text paragraphs only: no markdown, no JSON, no preamble."
}
