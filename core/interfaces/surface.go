// ABOUTME: UI surface contract the pipeline renders into
// ABOUTME: The core only ever hands it plain data: status views, result text, error kinds

package interfaces

import (
	"page-digest/core/domain"
	"page-digest/core/errors"
)

// Surface is whatever presents the pipeline to the user: a terminal, an HTTP
// client, or a browser overlay. Calls must not block for long.
type Surface interface {
	// RenderStatus redraws affordances (button enablement, status label).
	RenderStatus(view domain.StatusView)

	// RenderResult shows digested text. hasContainer is false for selections.
	RenderResult(text string, mode domain.DigestMode, hasContainer bool)

	// RenderError shows the message for kind.
	RenderError(kind errors.Kind)

	// ClearResult removes any rendered result.
	ClearResult()

	CredentialPrompter
}

// CredentialPrompter opens the credential-entry surface.
type CredentialPrompter interface {
	RequestCredential()
}
