// ABOUTME: Terminal surface printing status, results and errors for the run command
// ABOUTME: Results go to stdout and everything else to stderr so output can be piped

package main

import (
	"fmt"
	"io"

	"page-digest/core/domain"
	"page-digest/core/errors"
)

type terminalSurface struct {
	out    io.Writer // nil suppresses the rendered result
	status io.Writer
}

func (s terminalSurface) RenderStatus(v domain.StatusView) {
	if v.Status == domain.StatusProcessing {
		fmt.Fprintf(s.status, "%s (%s)...\n", v.Label, v.Mode)
		return
	}
	fmt.Fprintln(s.status, v.Label)
}

func (s terminalSurface) RenderResult(text string, mode domain.DigestMode, hasContainer bool) {
	if s.out == nil {
		return
	}
	if !hasContainer {
		fmt.Fprintf(s.status, "No article container found; showing the %s digest on its own.\n", mode)
	}
	fmt.Fprintln(s.out, text)
}

func (s terminalSurface) RenderError(kind errors.Kind) {
	prefix := "error"
	if errors.IsInformational(kind) {
		prefix = "note"
	}
	fmt.Fprintf(s.status, "%s: %s\n", prefix, errors.UserMessage(kind))
}

func (s terminalSurface) ClearResult() {}

func (s terminalSurface) RequestCredential() {
	fmt.Fprintln(s.status, "Set a key with `digest settings set-key <key>` or the DIGEST_API_KEY variable.")
}
