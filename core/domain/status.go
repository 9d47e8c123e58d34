// ABOUTME: Overlay status values and the view rendered to the UI surface
// ABOUTME: Derived state only, never persisted

package domain

// OverlayStatus is the visible state of the digest pipeline
type OverlayStatus string

const (
	StatusReady      OverlayStatus = "ready"
	StatusProcessing OverlayStatus = "processing"
	StatusDigested   OverlayStatus = "digested"
)

// StatusView is everything a UI surface needs to draw its affordances
type StatusView struct {
	Status         OverlayStatus `json:"status"`
	Mode           DigestMode    `json:"mode,omitempty"`
	FromCache      bool          `json:"fromCache"`
	Label          string        `json:"label"`
	DigestEnabled  bool          `json:"digestEnabled"`
	RestoreEnabled bool          `json:"restoreEnabled"`
	ActiveMode     DigestMode    `json:"activeMode,omitempty"`
}
