// ABOUTME: Loads the user settings snapshot from key/value storage
// ABOUTME: Missing keys use defaults and malformed values are logged and ignored

package settings

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"page-digest/core/domain"
	"page-digest/core/errors"
	"page-digest/core/interfaces"
)

type loader struct {
	ctx     context.Context
	storage interfaces.Storage
	logger  interfaces.Logger
}

// Load reads every settings key. It never fails: anything unreadable falls
// back to its default.
func Load(ctx context.Context, storage interfaces.Storage, logger interfaces.Logger) domain.Settings {
	l := loader{ctx: ctx, storage: storage, logger: logger}
	s := domain.DefaultSettings()

	if v, ok := l.str(KeyPolicyMode); ok {
		switch mode := domain.PolicyMode(strings.TrimSpace(v)); mode {
		case domain.PolicyAllow, domain.PolicyDeny:
			s.Policy.Mode = mode
		default:
			l.malformed(KeyPolicyMode, "unknown policy mode")
		}
	}
	l.json(KeyAllowList, &s.Policy.AllowList)
	l.json(KeyDenyList, &s.Policy.DenyList)

	if v, ok := l.str(KeySimplificationLevel); ok {
		if level, valid := domain.ParseLevel(v); valid {
			s.Level = level
		} else {
			l.malformed(KeySimplificationLevel, "unknown level")
		}
	}

	s.Debug = l.bool(KeyDebug)
	s.AutoRun = l.bool(KeyAutoRun)
	s.OverlayCollapsed = l.bool(KeyOverlayCollapsed)

	var prompts map[domain.DigestMode]string
	if l.json(KeyCustomPrompts, &prompts) {
		for mode, p := range prompts {
			if mode.Valid() && strings.TrimSpace(p) != "" {
				s.Prompts[mode] = p
			}
		}
	}

	var pricing []domain.PricingEntry
	if l.json(KeyPricingTable, &pricing) && len(pricing) > 0 {
		s.Pricing = pricing
	}

	if v, ok := l.str(KeyOverlayGeometry); ok {
		s.OverlayGeometry = v
	}
	if v, ok := l.str(KeyAPIKey); ok {
		s.Credential = strings.TrimSpace(v)
	}
	if v, ok := l.str(KeyFirstInstall); ok {
		if ts, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			s.InstalledAt = ts
		} else {
			l.malformed(KeyFirstInstall, err.Error())
		}
	}

	return s
}

func (l loader) str(key string) (string, bool) {
	data, err := l.storage.Get(l.ctx, key)
	if err != nil {
		if !errors.IsNotFound(err) && l.logger != nil {
			l.logger.Warn("Failed to read setting", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return "", false
	}
	return string(data), true
}

func (l loader) bool(key string) bool {
	v, ok := l.str(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		l.malformed(key, err.Error())
		return false
	}
	return b
}

func (l loader) json(key string, dst interface{}) bool {
	v, ok := l.str(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		l.malformed(key, err.Error())
		return false
	}
	return true
}

func (l loader) malformed(key, reason string) {
	if l.logger != nil {
		l.logger.Warn("Ignoring malformed setting", map[string]interface{}{
			"key":    key,
			"reason": reason,
		})
	}
}
