// ABOUTME: In-memory registry of open page sessions keyed by UUID
// ABOUTME: Idle pages expire so abandoned sessions do not accumulate

package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"page-digest/core/domain"
)

// DefaultPageTTL is how long an untouched page stays open
const DefaultPageTTL = 30 * time.Minute

// Session is one opened page
type Session interface {
	RequestDigest(ctx context.Context, mode domain.DigestMode) (domain.DigestResult, error)
	Restore() bool
	Status() domain.StatusView
}

type page struct {
	id      string
	host    string
	url     string
	session Session
	surface *recordingSurface
}

func (p *page) view() PageView {
	v := PageView{ID: p.id, Host: p.host, URL: p.url}
	p.surface.fill(&v)
	return v
}

// Registry holds open pages
type Registry struct {
	pages *cache.Cache
}

// NewRegistry creates a registry whose pages expire after ttl without access
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &Registry{pages: cache.New(ttl, ttl/2)}
}

func (r *Registry) add(p *page) {
	p.id = uuid.NewString()
	r.pages.SetDefault(p.id, p)
}

// get returns the page and refreshes its expiry
func (r *Registry) get(id string) (*page, bool) {
	v, ok := r.pages.Get(id)
	if !ok {
		return nil, false
	}
	r.pages.SetDefault(id, v)
	return v.(*page), true
}

func (r *Registry) remove(id string) bool {
	if _, ok := r.pages.Get(id); !ok {
		return false
	}
	r.pages.Delete(id)
	return true
}

// Len returns the number of open pages
func (r *Registry) Len() int {
	return r.pages.ItemCount()
}
