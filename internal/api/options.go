package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/service"
)

// RegisterOptions registers the cascaded filter-option routes.
func (h *APIHandler) RegisterOptions(api huma.API) {
	huma.Get(api, "/api/v1/filter-options", h.GetFilterOptions, huma.OperationTags("filters"))
	huma.Get(api, "/api/v1/districts/{state}", h.GetDistricts, huma.OperationTags("filters"))
}

type FilterOptionsInput struct {
	State    string `query:"state" doc:"Narrow district and village lists to this state"`
	District string `query:"district" doc:"Narrow the village list to this district"`
}

type FilterOptionsOutput struct {
	Body service.FilterOptions
}

// GetFilterOptions returns the cascaded dropdown option lists. Always derived
// from the full dataset so clearing an upstream selection restores full lists.
func (h *APIHandler) GetFilterOptions(ctx context.Context, input *FilterOptionsInput) (*FilterOptionsOutput, error) {
	opts := service.OptionsFor(h.svc.Store.All(), input.State, input.District)
	return &FilterOptionsOutput{Body: opts}, nil
}

type StateInput struct {
	State string `path:"state" doc:"State name" example:"Odisha"`
}

type DistrictsBody struct {
	State     string   `json:"state" doc:"State name"`
	Districts []string `json:"districts" doc:"District names in the state"`
}

// GetDistricts returns the district names present for one state.
func (h *APIHandler) GetDistricts(ctx context.Context, input *StateInput) (*struct{ Body DistrictsBody }, error) {
	return &struct{ Body DistrictsBody }{Body: DistrictsBody{
		State:     input.State,
		Districts: service.DistrictsFor(h.svc.Store.All(), input.State),
	}}, nil
}
