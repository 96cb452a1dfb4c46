// Package api defines the Huma API routes and handlers.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/db"
	"github.com/vanachitra/fra-atlas/internal/fetch"
	"github.com/vanachitra/fra-atlas/internal/service"
)

// Version is reported by the health and info endpoints.
const Version = "0.1.0"

// Services holds the shared dependencies for API handlers.
type Services struct {
	Store  *service.Store
	Styles *service.StyleResolver
	Bus    *service.EventBus
	Loader *fetch.Loader
	Mirror *db.Mirror

	DataDir string
	// Boundaries maps a lowercase state name to a boundary GeoJSON file
	// under the data directory.
	Boundaries map[string]string
}

// FilterParams are the query parameters shared by every filtered endpoint.
// Empty fields impose no constraint.
type FilterParams struct {
	State           string  `query:"state" doc:"State name filter" example:"Odisha"`
	District        string  `query:"district" doc:"District name filter" example:"Mayurbhanj"`
	Village         string  `query:"village" doc:"Village name filter"`
	Category        string  `query:"category" doc:"Canonical category filter" example:"individual_rights"`
	Status          string  `query:"status" doc:"Canonical status filter" example:"approved"`
	TribalCommunity string  `query:"tribal_community" doc:"Tribal community filter"`
	MinArea         float64 `query:"min_area" minimum:"0" doc:"Minimum area in hectares"`
	MaxArea         float64 `query:"max_area" minimum:"0" doc:"Maximum area in hectares (0 = no cap)"`
}

// FilterState converts query params into the core filter model.
func (p FilterParams) FilterState() service.FilterState {
	return service.FilterState{
		State:           p.State,
		District:        p.District,
		Village:         p.Village,
		Category:        service.Category(p.Category),
		Status:          service.Status(p.Status),
		TribalCommunity: p.TribalCommunity,
		MinArea:         p.MinArea,
		MaxArea:         p.MaxArea,
	}
}

// Shared types

type IDInput struct {
	ID string `path:"id" doc:"Claim ID" example:"od-1"`
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"0.1.0"`
}

// APIHandler holds the core REST API handlers.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// filters converts query params into the core model and cascades away
// geography selections that do not exist under the chosen upstream level,
// matching the dashboard's reset-on-state-change behavior.
func (h *APIHandler) filters(p FilterParams) service.FilterState {
	return service.CascadeFilters(h.svc.Store.All(), p.FilterState())
}

// RegisterAll registers every REST route group on the API.
func RegisterAll(api huma.API, svc *Services) {
	h := NewAPIHandler(svc)
	h.RegisterHealth(api)
	h.RegisterClaims(api)
	h.RegisterOptions(api)
	h.RegisterStatistics(api)
	h.RegisterRenderPlan(api)
	h.RegisterExport(api)
	h.RegisterBoundaries(api)
	h.RegisterDatasets(api)

	NewInfoHandler(svc).RegisterRoutes(api)
	if svc.Mirror != nil {
		NewDBHandler(svc.Mirror).RegisterRoutes(api)
	}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}
