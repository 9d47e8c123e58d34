package policy

import (
	"testing"

	"page-digest/core/domain"
)

func TestCompile_Empty(t *testing.T) {
	for _, p := range []string{"", "   ", "//", "/  /"} {
		if m := Compile(p); m != nil {
			t.Errorf("Compile(%q) = %v, want nil", p, m)
		}
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		host    string
		want    bool
	}{
		{"suffix exact", "example.com", "example.com", true},
		{"suffix subdomain", "example.com", "news.example.com", true},
		{"suffix lookalike", "example.com", "badexample.com", false},
		{"suffix case", "Example.COM", "NEWS.example.com", true},
		{"wildcard subdomain", "*.example.com", "a.example.com", true},
		{"wildcard bare parent", "*.example.com", "example.com", true},
		{"wildcard other domain", "*.example.com", "example.org", false},
		{"wildcard deep", "*.example.com", "a.b.example.com", true},
		{"question mark", "ex?mple.com", "exAmple.com", true},
		{"question mark needs one char", "ex?mple.com", "exmple.com", false},
		{"glob anchored", "news.*", "mynews.site", false},
		{"glob brace literal", "{a,b}*.com", "a.com", false},
		{"regex", "/^(www\\.)?github\\.com$/", "GitHub.com", true},
		{"regex miss", "/^github\\.com$/", "gist.github.com", false},
		{"invalid regex", "/([/", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compile(tt.pattern)
			if m == nil {
				t.Fatalf("Compile(%q) returned nil", tt.pattern)
			}
			if got := m.Match(tt.host); got != tt.want {
				t.Errorf("Compile(%q).Match(%q) = %v, want %v", tt.pattern, tt.host, got, tt.want)
			}
		})
	}
}

func TestIsDisabled_EmptyRegexInDenyListMatchesNothing(t *testing.T) {
	p := domain.DomainPolicy{Mode: domain.PolicyDeny, DenyList: []string{"//"}}
	for _, host := range []string{"example.com", "news.example.org", "localhost"} {
		if IsDisabled(p, host) {
			t.Errorf("IsDisabled(%q) = true, want false", host)
		}
	}
}

func TestMatches_AnyPattern(t *testing.T) {
	list := []string{"", "/([/", "example.org", "*.example.com"}
	if !Matches("blog.example.com", list) {
		t.Error("expected a match through the glob pattern")
	}
	if Matches("example.net", list) {
		t.Error("unexpected match")
	}
	if Matches("", list) {
		t.Error("empty host should never match")
	}
}

func TestIsDisabled_DenyMode(t *testing.T) {
	p := domain.DomainPolicy{Mode: domain.PolicyDeny, DenyList: []string{"example.com"}}

	for _, host := range []string{"example.com", "a.example.com", "x.y.example.com"} {
		if !IsDisabled(p, host) {
			t.Errorf("IsDisabled(%q) = false, want true", host)
		}
	}
	if IsDisabled(p, "example.org") {
		t.Error("IsDisabled(example.org) = true, want false")
	}
}

func TestIsDisabled_AllowModeEmptyListFailsClosed(t *testing.T) {
	p := domain.DomainPolicy{Mode: domain.PolicyAllow}
	for _, host := range []string{"example.com", "localhost", "a.b.c"} {
		if !IsDisabled(p, host) {
			t.Errorf("IsDisabled(%q) with empty allow list = false, want true", host)
		}
	}
}

func TestIsDisabled_AllowMode(t *testing.T) {
	p := domain.DomainPolicy{
		Mode:      domain.PolicyAllow,
		AllowList: []string{"*.example.com"},
		DenyList:  []string{"example.com"},
	}
	if IsDisabled(p, "example.com") {
		t.Error("allow mode must ignore the deny list")
	}
	if IsDisabled(p, "a.example.com") {
		t.Error("a.example.com should be enabled")
	}
	if !IsDisabled(p, "example.org") {
		t.Error("example.org should be disabled")
	}
}
