package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/service"
)

// RegisterDatasets registers the dataset status and refresh routes.
func (h *APIHandler) RegisterDatasets(api huma.API) {
	huma.Get(api, "/api/v1/datasets", h.ListDatasets, huma.OperationTags("datasets"))
	huma.Post(api, "/api/v1/datasets/refresh", h.RefreshDatasets, huma.OperationTags("datasets"))
}

type DatasetsBody struct {
	Datasets      []service.DatasetInfo `json:"datasets" doc:"Loaded sources with counts and last fetch result"`
	TotalFeatures int                   `json:"total_features" doc:"Feature count across all sources"`
}

// ListDatasets returns each source's load state.
func (h *APIHandler) ListDatasets(ctx context.Context, input *struct{}) (*struct{ Body DatasetsBody }, error) {
	return &struct{ Body DatasetsBody }{Body: DatasetsBody{
		Datasets:      h.svc.Store.Datasets(),
		TotalFeatures: h.svc.Store.Count(),
	}}, nil
}

type RefreshBody struct {
	Message  string `json:"message" doc:"Result message"`
	Failures int    `json:"failures" doc:"Sources that failed to refresh"`
}

// RefreshDatasets refetches every configured source. Failed sources keep
// their last good data.
func (h *APIHandler) RefreshDatasets(ctx context.Context, input *struct{}) (*struct{ Body RefreshBody }, error) {
	if h.svc.Loader == nil {
		return nil, huma.Error503ServiceUnavailable("no dataset loader configured")
	}

	failures := 0
	for _, src := range h.svc.Loader.Sources() {
		if err := h.svc.Loader.Load(ctx, src); err != nil {
			failures++
		}
	}

	msg := "refresh complete"
	if failures > 0 {
		msg = "refresh finished with failures"
	}
	return &struct{ Body RefreshBody }{Body: RefreshBody{Message: msg, Failures: failures}}, nil
}
