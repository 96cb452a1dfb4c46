package api

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanachitra/fra-atlas/internal/humastar"
	"github.com/vanachitra/fra-atlas/internal/service"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *Services) {
	t.Helper()

	store := service.NewStore()
	store.Replace("claims", []service.Feature{
		{ID: "od-1", Category: service.CategoryIndividualRights, Status: service.StatusApproved,
			State: "Odisha", District: "Mayurbhanj", Village: "Similipal", AreaHectares: 2.5,
			Extra: map[string]any{"tribal_community": "Santhal", "submission_date": "2023-03-15"}},
		{ID: "od-2", Category: service.CategoryCommunityForestResource, Status: service.StatusPending,
			State: "Odisha", District: "Koraput", AreaHectares: 15.8},
		{ID: "tg-1", Category: service.CategoryWaterBody, Status: service.StatusUnknown,
			State: "Telangana", District: "Adilabad"},
		{ID: "tg-2", Category: service.CategoryIndividualRights, Status: service.StatusRejected,
			State: "Telangana", District: "Adilabad", AreaHectares: 4.2},
	})

	svc := &Services{
		Store:      store,
		Styles:     service.NewStyleResolver(nil),
		Bus:        service.NewEventBus(),
		Boundaries: map[string]string{},
	}

	cfg := huma.DefaultConfig("fra-atlas test", Version)
	cfg.Transformers = append(cfg.Transformers, humastar.LinkTransformer())
	_, api := humatest.New(t, cfg)
	RegisterAll(api, svc)
	humastar.AutoLinks(api)
	return api, svc
}

func TestGetHealth(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/health")
	require.Equal(t, 200, resp.Code)

	var body HealthBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestListClaims_FiltersAndPaginates(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/claims?state=Odisha")
	require.Equal(t, 200, resp.Code)
	var page struct {
		Total int               `json:"total"`
		Data  []service.Feature `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	for _, f := range page.Data {
		assert.Equal(t, "Odisha", f.State)
	}

	resp = api.Get("/api/v1/claims?limit=2&offset=2")
	require.Equal(t, 200, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Data, 2)
}

func TestListClaims_StaleDistrictResetsToState(t *testing.T) {
	api, _ := newTestAPI(t)

	// Mayurbhanj belongs to Odisha; querying it under Telangana widens the
	// view to the whole state rather than silently returning nothing.
	resp := api.Get("/api/v1/claims?state=Telangana&district=Mayurbhanj")
	require.Equal(t, 200, resp.Code)
	var page struct {
		Total int               `json:"total"`
		Data  []service.Feature `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	for _, f := range page.Data {
		assert.Equal(t, "Telangana", f.State)
	}

	// The same pair under the right state narrows as usual.
	resp = api.Get("/api/v1/claims?state=Odisha&district=Mayurbhanj")
	require.Equal(t, 200, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
}

func TestListClaims_PaginationLinkHeaders(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/claims?limit=2")
	require.Equal(t, 200, resp.Code)
	links := resp.Header().Values("Link")
	assert.NotEmpty(t, links)

	var hasNext, hasExport bool
	for _, l := range links {
		if strings.Contains(l, `rel="next"`) {
			hasNext = true
		}
		if strings.Contains(l, `rel="export"`) {
			hasExport = true
		}
	}
	assert.True(t, hasNext, "expected a next link on the first page, got %v", links)
	assert.True(t, hasExport, "expected the export action link, got %v", links)
}

func TestGetClaim(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/claims/od-1")
	require.Equal(t, 200, resp.Code)
	var f service.Feature
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &f))
	assert.Equal(t, service.CategoryIndividualRights, f.Category)
	assert.Equal(t, "Santhal", f.Extra["tribal_community"])

	resp = api.Get("/api/v1/claims/nope")
	assert.Equal(t, 404, resp.Code)
}

func TestGetRecommendations(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/claims/od-1/recommendations")
	require.Equal(t, 200, resp.Code)
	var body RecommendationsBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "od-1", body.ID)
	assert.NotEmpty(t, body.Recommendations, "every claim gets at least the baseline scheme")
}

func TestGetFilterOptions_Cascades(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/filter-options")
	require.Equal(t, 200, resp.Code)
	var opts service.FilterOptions
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Odisha", "Telangana"}, opts.States)
	assert.Len(t, opts.Districts, 3)

	resp = api.Get("/api/v1/filter-options?state=Telangana")
	require.Equal(t, 200, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Adilabad"}, opts.Districts)
	assert.Equal(t, []string{"Odisha", "Telangana"}, opts.States,
		"state options always derive from the full dataset")
}

func TestGetStatistics_CountInvariant(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/statistics?state=Odisha")
	require.Equal(t, 200, resp.Code)
	var stats service.Statistics
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stats))

	sum := 0
	for _, n := range stats.CountByCategory {
		sum += n
	}
	assert.Equal(t, stats.TotalFeatures, sum)
	assert.Equal(t, 2, stats.TotalFeatures)
}

func TestGetRenderPlan_GroupsInDrawOrder(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/render-plan")
	require.Equal(t, 200, resp.Code)
	var plan service.RenderPlan
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &plan))

	require.Len(t, plan.Groups, 3)
	assert.Equal(t, service.CategoryWaterBody, plan.Groups[0].Category)
	assert.Equal(t, service.CategoryCommunityForestResource, plan.Groups[1].Category)
	assert.Equal(t, service.CategoryIndividualRights, plan.Groups[2].Category)
}

func TestGetExport_CarriesEnvelope(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/export?state=Odisha")
	require.Equal(t, 200, resp.Code)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))
	require.Contains(t, doc, "export_info")

	var info service.ExportInfo
	require.NoError(t, json.Unmarshal(doc["export_info"], &info))
	assert.Equal(t, 2, info.TotalClaims)
}

func TestGetDistricts(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/districts/Odisha")
	require.Equal(t, 200, resp.Code)
	var body DistrictsBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, []string{"Koraput", "Mayurbhanj"}, body.Districts)
}

func TestGetBoundaries_UnknownState(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/api/v1/boundaries/Kerala")
	assert.Equal(t, 404, resp.Code)
}

func TestListDatasets(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/datasets")
	require.Equal(t, 200, resp.Code)
	var body DatasetsBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Datasets, 1)
	assert.Equal(t, "claims", body.Datasets[0].Source)
	assert.Equal(t, 4, body.TotalFeatures)
}

func TestRefreshDatasets_NoLoader(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Post("/api/v1/datasets/refresh")
	assert.Equal(t, 503, resp.Code)
}

func TestGetInfo(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/info")
	require.Equal(t, 200, resp.Code)
	var body InfoBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "fra-atlas", body.Name)
	assert.Equal(t, 4, body.Features)
	assert.False(t, body.DB, "no mirror wired in the test harness")
}
