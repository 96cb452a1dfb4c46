package dashboard

import (
	"github.com/vanachitra/fra-atlas/internal/humastar"
	"github.com/vanachitra/fra-atlas/internal/service"
	"github.com/vanachitra/fra-atlas/internal/templates"
)

// sseSubstrate drives the browser map over a Datastar SSE stream. Style and
// layer updates go out as custom events the map script listens for; popups
// are patched as HTML fragments. Interaction callbacks are inert here —
// clicks arrive as separate POSTs, not in-process calls.
type sseSubstrate struct {
	sse      humastar.SSE
	renderer *templates.Renderer
}

var _ service.Substrate = (*sseSubstrate)(nil)

func (s *sseSubstrate) AddLayerGroup(plan service.RenderPlan) {
	s.sse.DispatchCustomEvent("atlas-render-plan", plan)
}

func (s *sseSubstrate) RemoveAllLayerGroups() {
	s.sse.DispatchCustomEvent("atlas-clear-layers", nil)
}

func (s *sseSubstrate) SetFeatureStyle(featureID string, style service.StyleRule) {
	s.sse.DispatchCustomEvent("atlas-feature-style", map[string]any{
		"id": featureID, "style": style,
	})
}

func (s *sseSubstrate) BindPopup(featureID string, html string) {
	s.sse.Patch(s.renderer.MustRender("popup", html), "#popup")
	s.sse.DispatchCustomEvent("atlas-popup", map[string]any{"id": featureID})
}

func (s *sseSubstrate) FitBoundsTo(bounds *service.Bounds) {
	if bounds == nil {
		return
	}
	s.sse.DispatchCustomEvent("atlas-fit-bounds", bounds)
}

func (s *sseSubstrate) OnFeatureClick(fn func(featureID string)) {}
func (s *sseSubstrate) OnFeatureHover(fn func(featureID string)) {}

// swapSubstrate lets one long-lived Highlighter emit onto whichever SSE
// stream is handling the current request. Callers serialize access.
type swapSubstrate struct {
	cur service.Substrate
}

var _ service.Substrate = (*swapSubstrate)(nil)

func (s *swapSubstrate) AddLayerGroup(plan service.RenderPlan) {
	if s.cur != nil {
		s.cur.AddLayerGroup(plan)
	}
}

func (s *swapSubstrate) RemoveAllLayerGroups() {
	if s.cur != nil {
		s.cur.RemoveAllLayerGroups()
	}
}

func (s *swapSubstrate) SetFeatureStyle(id string, style service.StyleRule) {
	if s.cur != nil {
		s.cur.SetFeatureStyle(id, style)
	}
}

func (s *swapSubstrate) BindPopup(id, html string) {
	if s.cur != nil {
		s.cur.BindPopup(id, html)
	}
}

func (s *swapSubstrate) FitBoundsTo(b *service.Bounds) {
	if s.cur != nil {
		s.cur.FitBoundsTo(b)
	}
}

func (s *swapSubstrate) OnFeatureClick(fn func(string)) {}
func (s *swapSubstrate) OnFeatureHover(fn func(string)) {}
