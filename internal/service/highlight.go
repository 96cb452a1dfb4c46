package service

import "sync"

// Substrate is the narrow capability contract the core holds on the external
// map renderer. The core never sees pixels or projections; it hands over
// styled geometry groups and feature-level style/popup updates and receives
// interaction callbacks.
type Substrate interface {
	AddLayerGroup(plan RenderPlan)
	RemoveAllLayerGroups()
	SetFeatureStyle(featureID string, style StyleRule)
	BindPopup(featureID string, html string)
	FitBoundsTo(bounds *Bounds)
	OnFeatureClick(fn func(featureID string))
	OnFeatureHover(fn func(featureID string))
}

// Highlighter tracks at most one highlighted feature. Two states: idle and
// highlighted(id). Selecting while another feature is highlighted first
// restores that feature's normal style, so two features are never
// highlighted at once. Map-substrate calls are its only side effect.
type Highlighter struct {
	mu      sync.Mutex
	styles  *StyleResolver
	lookup  func(id string) (Feature, bool)
	sub     Substrate
	current *Feature
}

// NewHighlighter creates a highlighter. lookup resolves a feature ID against
// the current normalized dataset; sub receives the style and popup updates.
func NewHighlighter(styles *StyleResolver, lookup func(id string) (Feature, bool), sub Substrate) *Highlighter {
	return &Highlighter{styles: styles, lookup: lookup, sub: sub}
}

// Bind registers the highlighter on the substrate's interaction events:
// clicking a feature selects it, clicking empty space (empty ID) clears.
func (h *Highlighter) Bind() {
	h.sub.OnFeatureClick(func(id string) {
		if id == "" {
			h.Clear()
			return
		}
		h.SelectID(id)
	})
}

// SelectID looks up and selects a feature by ID. Unknown IDs are ignored
// rather than clearing the current selection.
func (h *Highlighter) SelectID(id string) {
	f, ok := h.lookup(id)
	if !ok {
		return
	}
	h.Select(f)
}

// Select highlights a feature: the previously highlighted feature (if any)
// gets its computed normal style re-emitted, the new one gets the fixed
// highlight style and a popup built from its normalized properties.
func (h *Highlighter) Select(f Feature) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil {
		if h.current.ID == f.ID {
			return
		}
		h.restore(*h.current)
	}
	cur := f
	h.current = &cur
	h.sub.SetFeatureStyle(f.ID, h.styles.HighlightStyle())
	h.sub.BindPopup(f.ID, PopupHTML(f))
}

// Clear returns to idle, restoring the highlighted feature's normal style.
func (h *Highlighter) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		return
	}
	h.restore(*h.current)
	h.current = nil
}

// Current returns the highlighted feature ID and whether one is selected.
func (h *Highlighter) Current() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		return "", false
	}
	return h.current.ID, true
}

func (h *Highlighter) restore(f Feature) {
	h.sub.SetFeatureStyle(f.ID, h.styles.StyleFor(f.Category, f.Status))
}
