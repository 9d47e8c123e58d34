// ABOUTME: Domain policy matcher decides whether the pipeline activates for a host
// ABOUTME: Patterns are plain-domain suffixes, gobwas globs, or /regex/ literals

package policy

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"page-digest/core/domain"
)

// Matcher reports whether a hostname matches one compiled pattern
type Matcher interface {
	Match(host string) bool
}

type never struct{}

func (never) Match(string) bool { return false }

type regexMatcher struct{ re *regexp.Regexp }

func (m regexMatcher) Match(host string) bool { return m.re.MatchString(host) }

type globMatcher struct {
	full glob.Glob
	// parent matches the bare domain of a leading "*." pattern
	parent string
}

func (m globMatcher) Match(host string) bool {
	host = strings.ToLower(host)
	if m.parent != "" && host == m.parent {
		return true
	}
	return m.full.Match(host)
}

type suffixMatcher struct{ domain string }

func (m suffixMatcher) Match(host string) bool {
	host = strings.ToLower(host)
	return host == m.domain || strings.HasSuffix(host, "."+m.domain)
}

// Compile turns one pattern into a Matcher.
// It returns nil for an empty pattern or an empty regex body. Patterns that fail to compile yield a
// Matcher that never matches.
func Compile(pattern string) Matcher {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return nil
	}

	if len(p) >= 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") {
		body := p[1 : len(p)-1]
		if strings.TrimSpace(body) == "" {
			return nil
		}
		re, err := regexp.Compile("(?i)" + body)
		if err != nil {
			return never{}
		}
		return regexMatcher{re: re}
	}

	p = strings.ToLower(p)
	if strings.ContainsAny(p, "*?") {
		g, err := glob.Compile(escapeGlob(p))
		if err != nil {
			return never{}
		}
		m := globMatcher{full: g}
		if rest, ok := strings.CutPrefix(p, "*."); ok && !strings.ContainsAny(rest, "*?") {
			m.parent = rest
		}
		return m
	}

	return suffixMatcher{domain: p}
}

// escapeGlob escapes every gobwas metacharacter except '*' and '?'
func escapeGlob(p string) string {
	var b strings.Builder
	for _, r := range p {
		switch r {
		case '[', ']', '{', '}', '!', '\\', '-', ',':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Matches reports whether host matches any pattern in list
func Matches(host string, list []string) bool {
	if host == "" {
		return false
	}
	for _, pattern := range list {
		if m := Compile(pattern); m != nil && m.Match(host) {
			return true
		}
	}
	return false
}

// IsDisabled applies the policy mode to host.
// In allow mode the host must match the allow list; in deny mode it is disabled
// only if it matches the deny list.
func IsDisabled(p domain.DomainPolicy, host string) bool {
	if p.Mode == domain.PolicyAllow {
		return !Matches(host, p.AllowList)
	}
	return Matches(host, p.DenyList)
}
