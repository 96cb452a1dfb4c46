package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/service"
)

// RegisterRenderPlan registers the render plan route.
func (h *APIHandler) RegisterRenderPlan(api huma.API) {
	huma.Get(api, "/api/v1/render-plan", h.GetRenderPlan, huma.OperationTags("render"))
}

type RenderPlanInput struct {
	FilterParams
}

type RenderPlanOutput struct {
	Body service.RenderPlan
}

// GetRenderPlan returns the ordered drawing instructions for the filtered
// view: category groups in draw order, per-feature styles, and the bounding
// box. Geometry travels separately on the geojson endpoint; the map joins
// the two by feature ID.
func (h *APIHandler) GetRenderPlan(ctx context.Context, input *RenderPlanInput) (*RenderPlanOutput, error) {
	plan := service.BuildPlan(h.svc.Store.All(), h.filters(input.FilterParams), h.svc.Styles)
	return &RenderPlanOutput{Body: plan}, nil
}
