package api

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/service"
)

// RegisterExport registers the export route.
func (h *APIHandler) RegisterExport(api huma.API) {
	huma.Get(api, "/api/v1/export", h.GetExport, huma.OperationTags("claims"))
}

type ExportInput struct {
	FilterParams
}

// GetExport returns the filtered features as a GeoJSON FeatureCollection with
// an export_info envelope (timestamp, applied filters, claim count).
func (h *APIHandler) GetExport(ctx context.Context, input *ExportInput) (*GeoJSONOutput, error) {
	filters := h.filters(input.FilterParams)
	fc := service.Export(h.svc.Store.All(), filters, time.Now().UTC())
	raw, err := fc.MarshalJSON()
	if err != nil {
		return nil, huma.Error500InternalServerError("encoding export", err)
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: raw}, nil
}
