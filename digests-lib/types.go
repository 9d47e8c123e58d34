// ABOUTME: Public types for the Digests library API
// ABOUTME: Re-exports the core types callers need without importing core packages

package digests

import (
	"page-digest/core/domain"
	"page-digest/core/session"
	"page-digest/core/summarize"
)

// Mode selects the digest length
type Mode = domain.DigestMode

const (
	ModeLarge = domain.ModeLarge
	ModeSmall = domain.ModeSmall
)

// UsageReport is the digest token usage with its cost
type UsageReport = summarize.UsageReport

// Result is the outcome of one digest request
type Result = domain.DigestResult

// Session handles digest and restore requests for one opened page.
// AutoRun is true when the user asked for pages to be digested on open.
type Session struct {
	*session.Controller
	AutoRun bool
}
