package dashboard

import (
	"bytes"
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/humastar"
	"github.com/vanachitra/fra-atlas/internal/service"
	"github.com/vanachitra/fra-atlas/internal/templates"
)

// EventsHandler streams dataset reload and fetch-failure events to the
// dashboard. Each failure surfaces as an error signal exactly once; reloads
// refresh the datasets panel.
type EventsHandler struct {
	humastar.Handler
	store *service.Store
	bus   *service.EventBus
}

func NewEventsHandler(store *service.Store, bus *service.EventBus, renderer *templates.Renderer) *EventsHandler {
	return &EventsHandler{
		Handler: humastar.Handler{Renderer: renderer},
		store:   store,
		bus:     bus,
	}
}

func (h *EventsHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/dashboard/events", h.Events, huma.OperationTags("dashboard"))
	huma.Get(api, "/dashboard/datasets", h.Datasets, huma.OperationTags("dashboard"))
}

// Datasets patches the datasets panel with the current per-source state.
func (h *EventsHandler) Datasets(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.renderDatasets(), "#datasets-panel")
	}), nil
}

// Events subscribes to the dataset bus for the lifetime of the connection.
func (h *EventsHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		ch := h.bus.Subscribe()
		defer h.bus.Unsubscribe(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				sse.Patch(h.renderDatasets(), "#datasets-panel")
				switch ev.Action {
				case service.ActionFetchFailed:
					sse.Error("dataset " + ev.Source + ": " + ev.Error)
				case service.ActionReloaded:
					sse.Signals(map[string]any{"error": ""})
					sse.DispatchCustomEvent("atlas-dataset-reloaded", map[string]any{
						"source": ev.Source, "count": ev.Count,
					})
				}
			}
		}
	}), nil
}

func (h *EventsHandler) renderDatasets() string {
	datasets := h.store.Datasets()
	var buf bytes.Buffer
	if len(datasets) == 0 {
		h.Renderer.RenderToBuffer(&buf, "empty-state", map[string]string{
			"Title": "No datasets loaded", "Message": "Configure a source or drop a GeoJSON file in the data directory",
		})
	} else {
		for _, d := range datasets {
			h.Renderer.RenderToBuffer(&buf, "dataset-card", d)
		}
	}
	return buf.String()
}
