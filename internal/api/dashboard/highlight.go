package dashboard

import (
	"context"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/humastar"
	"github.com/vanachitra/fra-atlas/internal/service"
	"github.com/vanachitra/fra-atlas/internal/templates"
)

// HighlightHandler owns the single highlighted feature. The highlighter
// state machine lives server-side across requests; each request temporarily
// points its substrate at that request's SSE stream, so selecting a new
// feature re-emits the previous feature's computed normal style onto the
// stream that is patching the map right now.
type HighlightHandler struct {
	humastar.Handler

	mu          sync.Mutex
	swap        *swapSubstrate
	highlighter *service.Highlighter
}

func NewHighlightHandler(store *service.Store, styles *service.StyleResolver, renderer *templates.Renderer) *HighlightHandler {
	swap := &swapSubstrate{}
	return &HighlightHandler{
		Handler:     humastar.Handler{Renderer: renderer},
		swap:        swap,
		highlighter: service.NewHighlighter(styles, store.Lookup, swap),
	}
}

func (h *HighlightHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/dashboard/highlight", h.Select, huma.OperationTags("dashboard"))
	huma.Post(api, "/dashboard/highlight/clear", h.Clear, huma.OperationTags("dashboard"))
}

// Select highlights the feature named by the featureId signal. An empty ID
// clears instead, mirroring a click on empty map space.
func (h *HighlightHandler) Select(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	id := signals.String("featureId")

	return h.Stream(func(sse humastar.SSE) {
		h.withStream(sse, func() {
			if id == "" {
				h.highlighter.Clear()
				return
			}
			h.highlighter.SelectID(id)
		})
	}), nil
}

// Clear returns the map to its idle, nothing-highlighted state.
func (h *HighlightHandler) Clear(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		h.withStream(sse, h.highlighter.Clear)
		sse.Patch("", "#popup")
	}), nil
}

// withStream binds the highlighter's substrate to this request's stream for
// the duration of fn.
func (h *HighlightHandler) withStream(sse humastar.SSE, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.swap.cur = &sseSubstrate{sse: sse, renderer: h.Renderer}
	defer func() { h.swap.cur = nil }()
	fn()
}
