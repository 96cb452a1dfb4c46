//go:build integration

// Integration test for the atlas client. Requires a running server:
//
//	go run ./cmd/atlas
//	go test -tags integration ./pkg/atlasclient/
//
// Set ATLAS_BASE_URL to point at a non-default server.
package atlasclient_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/vanachitra/fra-atlas/pkg/atlasclient"
)

func baseURL() string {
	if url := os.Getenv("ATLAS_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8090"
}

func client() *atlasclient.Client {
	return atlasclient.New(baseURL())
}

func TestHealth(t *testing.T) {
	health, err := client().Health(context.Background())
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("expected status ok, got %q", health.Status)
	}
}

func TestInfo(t *testing.T) {
	info, err := client().Info(context.Background())
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if info.Name != "fra-atlas" {
		t.Errorf("expected name fra-atlas, got %q", info.Name)
	}
	if len(info.Facets) == 0 {
		t.Error("expected at least one facet")
	}
}

func TestListClaims(t *testing.T) {
	page, err := client().ListClaims(context.Background(), atlasclient.Filters{}, 0, 10)
	if err != nil {
		t.Fatalf("list claims failed: %v", err)
	}
	if page.Limit != 10 {
		t.Errorf("expected limit 10, got %d", page.Limit)
	}
	if len(page.Data) > 10 {
		t.Errorf("page exceeds requested limit: %d", len(page.Data))
	}
}

func TestListClaimsFiltered(t *testing.T) {
	page, err := client().ListClaims(context.Background(), atlasclient.Filters{
		Category: "individual_rights",
	}, 0, 50)
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	for _, claim := range page.Data {
		if claim.Category != "individual_rights" {
			t.Errorf("claim %s has category %q, expected individual_rights", claim.ID, claim.Category)
		}
	}
}

func TestGetClaimAndRecommendations(t *testing.T) {
	ctx := context.Background()
	page, err := client().ListClaims(ctx, atlasclient.Filters{}, 0, 1)
	if err != nil {
		t.Fatalf("list claims failed: %v", err)
	}
	if len(page.Data) == 0 {
		t.Skip("no claims loaded")
	}
	id := page.Data[0].ID

	claim, err := client().GetClaim(ctx, id)
	if err != nil {
		t.Fatalf("get claim %s failed: %v", id, err)
	}
	if claim.ID != id {
		t.Errorf("expected claim %s, got %s", id, claim.ID)
	}

	recs, err := client().GetRecommendations(ctx, id)
	if err != nil {
		t.Fatalf("recommendations for %s failed: %v", id, err)
	}
	if recs.ID != id {
		t.Errorf("expected recommendations for %s, got %s", id, recs.ID)
	}
}

func TestGetClaimNotFound(t *testing.T) {
	_, err := client().GetClaim(context.Background(), "no-such-claim")
	apiErr, ok := err.(*atlasclient.APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 404 {
		t.Errorf("expected 404, got %d", apiErr.Status)
	}
}

func TestFilterOptions(t *testing.T) {
	opts, err := client().FilterOptions(context.Background(), "", "")
	if err != nil {
		t.Fatalf("filter options failed: %v", err)
	}
	if len(opts.Categories) == 0 {
		t.Error("expected category options")
	}
	if len(opts.Statuses) == 0 {
		t.Error("expected status options")
	}
}

func TestStatistics(t *testing.T) {
	stats, err := client().Statistics(context.Background(), atlasclient.Filters{})
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	sum := 0
	for _, n := range stats.CountByCategory {
		sum += n
	}
	if sum != stats.TotalFeatures {
		t.Errorf("category counts sum to %d, total is %d", sum, stats.TotalFeatures)
	}
}

func TestRenderPlan(t *testing.T) {
	plan, err := client().RenderPlan(context.Background(), atlasclient.Filters{})
	if err != nil {
		t.Fatalf("render plan failed: %v", err)
	}
	for _, group := range plan.Groups {
		if group.Category == "" {
			t.Error("render group missing category")
		}
		for _, sf := range group.Features {
			if sf.Style.Fill == "" {
				t.Errorf("feature %s has no fill color", sf.Feature.ID)
			}
		}
	}
}

func TestPerformance(t *testing.T) {
	perf, err := client().Performance(context.Background())
	if err != nil {
		t.Fatalf("performance failed: %v", err)
	}
	if perf.ApprovalRate < 0 || perf.ApprovalRate > 100 {
		t.Errorf("approval rate out of range: %f", perf.ApprovalRate)
	}
}

func TestClaimsGeoJSON(t *testing.T) {
	raw, err := client().ClaimsGeoJSON(context.Background(), atlasclient.Filters{})
	if err != nil {
		t.Fatalf("geojson failed: %v", err)
	}
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("invalid geojson: %v", err)
	}
	if doc.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection, got %q", doc.Type)
	}
}

func TestExport(t *testing.T) {
	raw, err := client().Export(context.Background(), atlasclient.Filters{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var doc struct {
		ExportInfo map[string]any `json:"export_info"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("invalid export document: %v", err)
	}
	if doc.ExportInfo == nil {
		t.Error("expected export_info envelope")
	}
}

func TestListDatasets(t *testing.T) {
	datasets, err := client().ListDatasets(context.Background())
	if err != nil {
		t.Fatalf("list datasets failed: %v", err)
	}
	total := 0
	for _, d := range datasets.Datasets {
		total += d.FeatureCount
	}
	if total != datasets.TotalFeatures {
		t.Errorf("dataset counts sum to %d, total is %d", total, datasets.TotalFeatures)
	}
}

func TestQuery(t *testing.T) {
	result, err := client().Query(context.Background(), "SELECT count(*) AS n FROM claims")
	if err != nil {
		if apiErr, ok := err.(*atlasclient.APIError); ok && apiErr.Status == 503 {
			t.Skip("SQL mirror not available on this server")
		}
		t.Fatalf("query failed: %v", err)
	}
	if result.Count != 1 {
		t.Errorf("expected one row, got %d", result.Count)
	}
}

func TestQueryRejectsWrites(t *testing.T) {
	_, err := client().Query(context.Background(), "DROP TABLE claims")
	apiErr, ok := err.(*atlasclient.APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 400 && apiErr.Status != 503 {
		t.Errorf("expected 400 (or 503 without mirror), got %d", apiErr.Status)
	}
}
