// ABOUTME: Page handlers for the Huma API
// ABOUTME: Opens pages, requests digests, restores originals and reports page status

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"page-digest/core/domain"
	"page-digest/core/interfaces"
	digests "page-digest/digests-lib"
	"page-digest/infrastructure/dom"
	"page-digest/pkg/featureflags"
)

// PageOpener opens a digest session for a parsed page.
// autoRun reports whether the page should be digested immediately.
type PageOpener interface {
	OpenPage(ctx context.Context, host string, doc interfaces.Document, surface interfaces.Surface) (s Session, autoRun bool, err error)
}

// PageLoader fetches and parses a page. A nil loader requires callers to send html.
type PageLoader interface {
	Load(ctx context.Context, targetURL string) (*dom.Document, error)
}

// NewClientOpener adapts a library client to PageOpener
func NewClientOpener(client *digests.Client) PageOpener {
	return clientOpener{client: client}
}

type clientOpener struct {
	client *digests.Client
}

func (o clientOpener) OpenPage(ctx context.Context, host string, doc interfaces.Document, surface interfaces.Surface) (Session, bool, error) {
	s, err := o.client.OpenWith(ctx, host, doc, surface)
	if err != nil {
		return nil, false, err
	}
	return s, s.AutoRun, nil
}

// PageHandler handles page session requests
type PageHandler struct {
	opener   PageOpener
	loader   PageLoader
	registry *Registry
}

// NewPageHandler creates a new page handler
func NewPageHandler(opener PageOpener, loader PageLoader, registry *Registry) *PageHandler {
	return &PageHandler{
		opener:   opener,
		loader:   loader,
		registry: registry,
	}
}

// RegisterRoutes registers all page-related routes
func (h *PageHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "openPage",
		Method:        http.MethodPost,
		Path:          "/v1/pages",
		Summary:       "Open a page",
		Description:   "Loads a page by URL, or parses supplied HTML, and opens a digest session for it",
		Tags:          []string{"Pages"},
		DefaultStatus: http.StatusCreated,
	}, h.OpenPage)

	huma.Register(api, huma.Operation{
		OperationID: "getPage",
		Method:      http.MethodGet,
		Path:        "/v1/pages/{id}",
		Summary:     "Get page status",
		Tags:        []string{"Pages"},
	}, h.GetPage)

	huma.Register(api, huma.Operation{
		OperationID: "digestPage",
		Method:      http.MethodPost,
		Path:        "/v1/pages/{id}/digest",
		Summary:     "Digest a page",
		Description: "Digests the page's selection or article content, answering from the cache when possible",
		Tags:        []string{"Pages"},
	}, h.DigestPage)

	huma.Register(api, huma.Operation{
		OperationID: "restorePage",
		Method:      http.MethodPost,
		Path:        "/v1/pages/{id}/restore",
		Summary:     "Restore the original content",
		Tags:        []string{"Pages"},
	}, h.RestorePage)

	huma.Register(api, huma.Operation{
		OperationID:   "closePage",
		Method:        http.MethodDelete,
		Path:          "/v1/pages/{id}",
		Summary:       "Close a page",
		Tags:          []string{"Pages"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClosePage)
}

// PageView is the current state of an open page
type PageView struct {
	ID                  string            `json:"id" format:"uuid"`
	Host                string            `json:"host"`
	URL                 string            `json:"url"`
	Status              domain.StatusView `json:"status"`
	Result              *ResultView       `json:"result,omitempty"`
	Error               *ErrorView        `json:"error,omitempty"`
	CredentialRequested bool              `json:"credentialRequested" doc:"True once the pipeline asked for a backend key"`
}

// OpenPageRequest is the body of the OpenPage operation
type OpenPageRequest struct {
	URL       string `json:"url" format:"uri" doc:"Page URL; fetched unless html is supplied"`
	HTML      string `json:"html,omitempty" doc:"Page markup to use instead of fetching the URL"`
	Selection string `json:"selection,omitempty" doc:"Text the user selected on the page"`
}

// OpenPageInput defines the input for the OpenPage operation
type OpenPageInput struct {
	Body OpenPageRequest
}

// PageOutput wraps a page view
type PageOutput struct {
	Body PageView
}

// PageIDInput identifies a page
type PageIDInput struct {
	ID string `path:"id" format:"uuid"`
}

// DigestPageInput defines the input for the DigestPage operation
type DigestPageInput struct {
	ID   string `path:"id" format:"uuid"`
	Body struct {
		Mode domain.DigestMode `json:"mode" enum:"large,small" doc:"large keeps about half the text, small about a fifth"`
	}
}

// RestorePageOutput defines the output for the RestorePage operation
type RestorePageOutput struct {
	Body struct {
		Restored bool     `json:"restored"`
		Page     PageView `json:"page"`
	}
}

// OpenPage handles POST /v1/pages
func (h *PageHandler) OpenPage(ctx context.Context, input *OpenPageInput) (*PageOutput, error) {
	pageURL, err := url.Parse(input.Body.URL)
	if err != nil || pageURL.Hostname() == "" {
		return nil, huma.Error400BadRequest("url must be an absolute URL")
	}

	var doc *dom.Document
	if input.Body.HTML != "" {
		doc, err = dom.Parse(strings.NewReader(input.Body.HTML), pageURL)
		if err != nil {
			return nil, huma.Error400BadRequest("Failed to parse html", err)
		}
	} else if h.loader == nil || !featureflags.IsEnabled(ctx, featureflags.URLLoading) {
		return nil, huma.Error400BadRequest("html is required when URL loading is disabled")
	} else {
		doc, err = h.loader.Load(ctx, pageURL.String())
		if err != nil {
			return nil, huma.Error502BadGateway("Failed to load page", err)
		}
	}
	if input.Body.Selection != "" {
		doc = doc.WithSelection(input.Body.Selection)
	}

	surface := &recordingSurface{}
	s, autoRun, err := h.opener.OpenPage(ctx, pageURL.Hostname(), doc, surface)
	if err != nil {
		return nil, toHumaError(err)
	}

	p := &page{host: pageURL.Hostname(), url: pageURL.String(), session: s, surface: surface}
	h.registry.add(p)

	if autoRun {
		// Failures are recorded on the surface and reported through the page view
		_, _ = s.RequestDigest(ctx, domain.ModeLarge)
	}

	return &PageOutput{Body: p.view()}, nil
}

// GetPage handles GET /v1/pages/{id}
func (h *PageHandler) GetPage(ctx context.Context, input *PageIDInput) (*PageOutput, error) {
	p, ok := h.registry.get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("page not found")
	}
	return &PageOutput{Body: p.view()}, nil
}

// DigestPage handles POST /v1/pages/{id}/digest
func (h *PageHandler) DigestPage(ctx context.Context, input *DigestPageInput) (*PageOutput, error) {
	p, ok := h.registry.get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("page not found")
	}

	if _, err := p.session.RequestDigest(ctx, input.Body.Mode); err != nil {
		return nil, toHumaError(err)
	}
	return &PageOutput{Body: p.view()}, nil
}

// RestorePage handles POST /v1/pages/{id}/restore
func (h *PageHandler) RestorePage(ctx context.Context, input *PageIDInput) (*RestorePageOutput, error) {
	p, ok := h.registry.get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("page not found")
	}

	out := &RestorePageOutput{}
	out.Body.Restored = p.session.Restore()
	out.Body.Page = p.view()
	return out, nil
}

// ClosePage handles DELETE /v1/pages/{id}
func (h *PageHandler) ClosePage(ctx context.Context, input *PageIDInput) (*struct{}, error) {
	if !h.registry.remove(input.ID) {
		return nil, huma.Error404NotFound("page not found")
	}
	return nil, nil
}
