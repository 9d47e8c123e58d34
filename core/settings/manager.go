// ABOUTME: Settings manager applies explicit user changes and persists them
// ABOUTME: Each change yields a new snapshot and says whether cached digests are now stale

package settings

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"page-digest/core/domain"
	"page-digest/core/errors"
	"page-digest/core/interfaces"
)

// Update mutates a settings copy
type Update func(*domain.Settings)

// SetPolicy replaces the domain policy
func SetPolicy(p domain.DomainPolicy) Update {
	return func(s *domain.Settings) { s.Policy = p.Clone() }
}

// SetLevel sets the simplification level
func SetLevel(level domain.SimplificationLevel) Update {
	return func(s *domain.Settings) { s.Level = level }
}

// SetPrompt overrides the prompt for mode. A blank prompt removes the override.
func SetPrompt(mode domain.DigestMode, prompt string) Update {
	return func(s *domain.Settings) {
		if strings.TrimSpace(prompt) == "" {
			delete(s.Prompts, mode)
			return
		}
		s.Prompts[mode] = prompt
	}
}

// ResetPrompts drops every prompt override
func ResetPrompts() Update {
	return func(s *domain.Settings) { s.Prompts = map[domain.DigestMode]string{} }
}

// SetDebug toggles debug logging
func SetDebug(on bool) Update {
	return func(s *domain.Settings) { s.Debug = on }
}

// SetAutoRun toggles digesting on page open
func SetAutoRun(on bool) Update {
	return func(s *domain.Settings) { s.AutoRun = on }
}

// SetCredential sets the backend credential. An empty value removes it.
func SetCredential(key string) Update {
	return func(s *domain.Settings) { s.Credential = strings.TrimSpace(key) }
}

// SetPricing replaces the pricing table
func SetPricing(table []domain.PricingEntry) Update {
	return func(s *domain.Settings) { s.Pricing = append([]domain.PricingEntry(nil), table...) }
}

// SetOverlay stores the surface's geometry and collapsed flag
func SetOverlay(geometry string, collapsed bool) Update {
	return func(s *domain.Settings) {
		s.OverlayGeometry = geometry
		s.OverlayCollapsed = collapsed
	}
}

// Manager persists settings changes
type Manager struct {
	storage interfaces.Storage
	logger  interfaces.Logger
	now     func() time.Time
}

// NewManager creates a Manager
func NewManager(storage interfaces.Storage, logger interfaces.Logger) *Manager {
	return &Manager{storage: storage, logger: logger, now: time.Now}
}

// Apply applies updates to a copy of current, persists the keys that changed
// and returns the new snapshot. clearCache is true when the prompts or the
// simplification level changed.
func (m *Manager) Apply(ctx context.Context, current domain.Settings, updates ...Update) (next domain.Settings, clearCache bool, err error) {
	next = current.Clone()
	for _, update := range updates {
		update(&next)
	}

	if err := validate(next); err != nil {
		return current, false, err
	}

	writes := diff(current, next)
	for i, w := range writes {
		if err := m.persist(ctx, w); err != nil {
			m.rollback(ctx, current, next, writes[:i])
			return current, false, errors.WrapError(err, "failed to persist setting "+w.key)
		}
	}

	if len(writes) > 0 && m.logger != nil {
		keys := make([]string, 0, len(writes))
		for _, w := range writes {
			keys = append(keys, w.key)
		}
		m.logger.Info("Settings updated", map[string]interface{}{"keys": keys})
	}

	clearCache = current.Level != next.Level || !maps.Equal(current.Prompts, next.Prompts)
	return next, clearCache, nil
}

func (m *Manager) persist(ctx context.Context, w write) error {
	if w.remove {
		return m.storage.Delete(ctx, w.key)
	}
	return m.storage.Set(ctx, w.key, w.value)
}

// rollback restores the keys in applied to their values in current.
// Failures are logged; the caller already reports the original error.
func (m *Manager) rollback(ctx context.Context, current, next domain.Settings, applied []write) {
	if len(applied) == 0 {
		return
	}
	undo := make(map[string]write)
	for _, w := range diff(next, current) {
		undo[w.key] = w
	}
	for _, w := range applied {
		if err := m.persist(ctx, undo[w.key]); err != nil && m.logger != nil {
			m.logger.Error("Failed to roll back setting", map[string]interface{}{
				"key":   w.key,
				"error": err.Error(),
			})
		}
	}
}

// EnsureInstalled writes the first-install marker once
func (m *Manager) EnsureInstalled(ctx context.Context, current domain.Settings) (domain.Settings, bool, error) {
	if current.InstalledAt != 0 {
		return current, false, nil
	}
	next := current.Clone()
	next.InstalledAt = m.now().UnixMilli()
	if err := m.storage.Set(ctx, KeyFirstInstall, []byte(strconv.FormatInt(next.InstalledAt, 10))); err != nil {
		return current, false, errors.WrapError(err, "failed to write install marker")
	}
	return next, true, nil
}

func validate(s domain.Settings) error {
	if s.Policy.Mode != domain.PolicyAllow && s.Policy.Mode != domain.PolicyDeny {
		return &errors.ValidationError{Field: "policy.mode", Message: "must be allow or deny"}
	}
	if !s.Level.Valid() {
		return &errors.ValidationError{Field: "level", Message: "must be conservative, balanced or liberal"}
	}
	for mode := range s.Prompts {
		if !mode.Valid() {
			return &errors.ValidationError{Field: "prompts", Message: "unknown digest mode " + string(mode)}
		}
	}
	for _, p := range s.Pricing {
		if p.Model == "" || p.InputPerMillion < 0 || p.OutputPerMillion < 0 {
			return &errors.ValidationError{Field: "pricing", Message: "entries need a model and non-negative prices"}
		}
	}
	return nil
}

type write struct {
	key    string
	value  []byte
	remove bool
}

func diff(old, next domain.Settings) []write {
	var writes []write
	set := func(key string, value []byte) {
		writes = append(writes, write{key: key, value: value})
	}
	setJSON := func(key string, v interface{}) {
		data, _ := json.Marshal(v)
		set(key, data)
	}

	if old.Policy.Mode != next.Policy.Mode {
		set(KeyPolicyMode, []byte(next.Policy.Mode))
	}
	if !slices.Equal(old.Policy.AllowList, next.Policy.AllowList) {
		setJSON(KeyAllowList, nonNil(next.Policy.AllowList))
	}
	if !slices.Equal(old.Policy.DenyList, next.Policy.DenyList) {
		setJSON(KeyDenyList, nonNil(next.Policy.DenyList))
	}
	if old.Level != next.Level {
		set(KeySimplificationLevel, []byte(next.Level))
	}
	if !maps.Equal(old.Prompts, next.Prompts) {
		setJSON(KeyCustomPrompts, next.Prompts)
	}
	if old.Debug != next.Debug {
		set(KeyDebug, []byte(strconv.FormatBool(next.Debug)))
	}
	if old.AutoRun != next.AutoRun {
		set(KeyAutoRun, []byte(strconv.FormatBool(next.AutoRun)))
	}
	if !slices.Equal(old.Pricing, next.Pricing) {
		setJSON(KeyPricingTable, next.Pricing)
	}
	if old.OverlayGeometry != next.OverlayGeometry {
		set(KeyOverlayGeometry, []byte(next.OverlayGeometry))
	}
	if old.OverlayCollapsed != next.OverlayCollapsed {
		set(KeyOverlayCollapsed, []byte(strconv.FormatBool(next.OverlayCollapsed)))
	}
	if old.Credential != next.Credential {
		if next.Credential == "" {
			writes = append(writes, write{key: KeyAPIKey, remove: true})
		} else {
			set(KeyAPIKey, []byte(next.Credential))
		}
	}
	return writes
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
