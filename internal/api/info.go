package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type InfoHandler struct {
	svc *Services
}

func NewInfoHandler(svc *Services) *InfoHandler {
	return &InfoHandler{svc: svc}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	Datasets int      `json:"datasets" doc:"Loaded dataset sources"`
	Features int      `json:"features" doc:"Total normalized features"`
	DB       bool     `json:"db" doc:"Whether the SQL mirror is available"`
	Facets   []string `json:"facets" doc:"Available capabilities"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "fra-atlas",
		Version:  Version,
		Datasets: len(h.svc.Store.Datasets()),
		Features: h.svc.Store.Count(),
		DB:       h.svc.Mirror != nil,
		Facets:   []string{"claims", "filters", "statistics", "analytics", "render-plan", "export", "dss", "duckdb"},
	}}, nil
}
