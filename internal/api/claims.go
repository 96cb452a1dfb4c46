package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/humastar"
	"github.com/vanachitra/fra-atlas/internal/service"
)

// RegisterClaims registers the claim record routes.
func (h *APIHandler) RegisterClaims(api huma.API) {
	huma.Get(api, "/api/v1/claims", h.ListClaims, huma.OperationTags("claims"))
	huma.Get(api, "/api/v1/claims/geojson", h.ClaimsGeoJSON, huma.OperationTags("claims"))
	huma.Get(api, "/api/v1/claims/{id}", h.GetClaim, huma.OperationTags("claims"))
	huma.Get(api, "/api/v1/claims/{id}/recommendations", h.GetRecommendations, huma.OperationTags("claims", "dss"))
}

type ListClaimsInput struct {
	FilterParams
	Offset int `query:"offset" minimum:"0" doc:"Pagination offset"`
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Page size"`
}

// ClaimsPage is the paginated claim listing. It advertises the export
// action so clients can discover the GeoJSON download for the same filters.
type ClaimsPage struct {
	humastar.PageBody[service.Feature]
}

func (p ClaimsPage) Actions() []humastar.Action {
	return []humastar.Action{{
		Rel:    "export",
		Href:   "/api/v1/export",
		Method: "GET",
		Title:  "Export filtered claims as GeoJSON",
	}}
}

type ClaimsOutput struct {
	Body ClaimsPage
}

// ListClaims returns paginated claim records (attributes only, no geometry).
func (h *APIHandler) ListClaims(ctx context.Context, input *ListClaimsInput) (*ClaimsOutput, error) {
	filtered := service.Apply(h.svc.Store.All(), h.filters(input.FilterParams))

	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := input.Offset
	if offset > len(filtered) {
		offset = len(filtered)
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return &ClaimsOutput{Body: ClaimsPage{PageBody: humastar.PageBody[service.Feature]{
		Total:  len(filtered),
		Offset: offset,
		Limit:  limit,
		Data:   filtered[offset:end],
	}}}, nil
}

// GeoJSONOutput carries a raw GeoJSON document. Bypasses schema generation:
// orb geometries marshal themselves.
type GeoJSONOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type GeoJSONInput struct {
	FilterParams
}

// ClaimsGeoJSON returns the filtered features as a GeoJSON FeatureCollection
// with canonical properties.
func (h *APIHandler) ClaimsGeoJSON(ctx context.Context, input *GeoJSONInput) (*GeoJSONOutput, error) {
	filtered := service.Apply(h.svc.Store.All(), h.filters(input.FilterParams))
	raw, err := service.ToFeatureCollection(filtered).MarshalJSON()
	if err != nil {
		return nil, huma.Error500InternalServerError("encoding feature collection", err)
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: raw}, nil
}

type ClaimOutput struct {
	Body service.Feature
}

// GetClaim returns one claim's canonical record plus source extras.
func (h *APIHandler) GetClaim(ctx context.Context, input *IDInput) (*ClaimOutput, error) {
	f, ok := h.svc.Store.Lookup(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("claim not found: " + input.ID)
	}
	return &ClaimOutput{Body: f}, nil
}

type RecommendationsBody struct {
	ID              string                   `json:"id" doc:"Claim ID"`
	Recommendations []service.Recommendation `json:"recommendations" doc:"Scheme recommendations"`
}

// GetRecommendations returns the DSS scheme recommendations for one claim.
func (h *APIHandler) GetRecommendations(ctx context.Context, input *IDInput) (*struct{ Body RecommendationsBody }, error) {
	f, ok := h.svc.Store.Lookup(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("claim not found: " + input.ID)
	}
	return &struct{ Body RecommendationsBody }{Body: RecommendationsBody{
		ID:              f.ID,
		Recommendations: service.Recommend(f),
	}}, nil
}
