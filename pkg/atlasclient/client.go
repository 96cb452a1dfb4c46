// Package atlasclient is a typed Go client for the fra-atlas REST API.
package atlasclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to one fra-atlas server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the given base URL, e.g. "http://localhost:8090".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Filters mirror the server's filter query parameters. Zero values impose no
// constraint.
type Filters struct {
	State           string
	District        string
	Village         string
	Category        string
	Status          string
	TribalCommunity string
	MinArea         float64
	MaxArea         float64
}

func (f Filters) query() url.Values {
	q := url.Values{}
	set := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	set("state", f.State)
	set("district", f.District)
	set("village", f.Village)
	set("category", f.Category)
	set("status", f.Status)
	set("tribal_community", f.TribalCommunity)
	if f.MinArea > 0 {
		q.Set("min_area", strconv.FormatFloat(f.MinArea, 'f', -1, 64))
	}
	if f.MaxArea > 0 {
		q.Set("max_area", strconv.FormatFloat(f.MaxArea, 'f', -1, 64))
	}
	return q
}

// Claim is one normalized claim record.
type Claim struct {
	ID           string         `json:"id"`
	Category     string         `json:"category"`
	Status       string         `json:"status"`
	State        string         `json:"state"`
	District     string         `json:"district"`
	Village      string         `json:"village"`
	AreaHectares float64        `json:"area_hectares"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// ClaimPage is one page of claim records.
type ClaimPage struct {
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
	Data   []Claim `json:"data"`
}

// Health is the health check response.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Info is the service info response.
type Info struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Datasets int      `json:"datasets"`
	Features int      `json:"features"`
	DB       bool     `json:"db"`
	Facets   []string `json:"facets"`
}

// FilterOptions are the cascaded dropdown option lists.
type FilterOptions struct {
	States            []string `json:"states"`
	Districts         []string `json:"districts"`
	Villages          []string `json:"villages"`
	Categories        []string `json:"categories"`
	Statuses          []string `json:"statuses"`
	TribalCommunities []string `json:"tribal_communities"`
}

// Statistics is the aggregate view of a filtered set.
type Statistics struct {
	CountByCategory   map[string]int `json:"count_by_category"`
	CountByStatus     map[string]int `json:"count_by_status"`
	TotalFeatures     int            `json:"total_features"`
	TotalAreaHectares float64        `json:"total_area_hectares"`
}

// Recommendation is one DSS scheme suggestion.
type Recommendation struct {
	Scheme string `json:"scheme"`
	Reason string `json:"reason"`
}

// Recommendations is the DSS response for one claim.
type Recommendations struct {
	ID              string           `json:"id"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Dataset is one source's load state.
type Dataset struct {
	Source       string    `json:"source"`
	FeatureCount int       `json:"feature_count"`
	LoadedAt     time.Time `json:"loaded_at"`
	LastError    string    `json:"last_error,omitempty"`
}

// Datasets is the dataset listing response.
type Datasets struct {
	Datasets      []Dataset `json:"datasets"`
	TotalFeatures int       `json:"total_features"`
}

// QueryResult is the SQL query response.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Count   int              `json:"count"`
}

// StyleRule is the resolved Leaflet-compatible style for one feature.
type StyleRule struct {
	Stroke      string  `json:"stroke"`
	Fill        string  `json:"fill"`
	FillOpacity float64 `json:"fillOpacity"`
	Weight      float64 `json:"weight"`
	DashArray   string  `json:"dashArray,omitempty"`
}

// StyledFeature pairs a claim with its resolved style.
type StyledFeature struct {
	Feature Claim     `json:"feature"`
	Style   StyleRule `json:"style"`
}

// RenderGroup is one category layer in draw order.
type RenderGroup struct {
	Category string          `json:"category"`
	Label    string          `json:"label"`
	Features []StyledFeature `json:"features"`
}

// Bounds is a lon/lat bounding box.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// RenderPlan is the styled, ordered layer plan for the filtered set.
type RenderPlan struct {
	Groups []RenderGroup `json:"groups"`
	Bounds *Bounds       `json:"bounds,omitempty"`
}

// StateSummary aggregates claims for one state.
type StateSummary struct {
	State        string         `json:"state"`
	TotalClaims  int            `json:"total_claims"`
	Approved     int            `json:"approved_claims"`
	Pending      int            `json:"pending_claims"`
	AreaHectares float64        `json:"total_area_ha"`
	ByCategory   map[string]int `json:"by_category"`
}

// TribalSummary aggregates claims for one tribal community.
type TribalSummary struct {
	Community    string  `json:"tribal_community"`
	TotalClaims  int     `json:"total_claims"`
	Approved     int     `json:"approved_claims"`
	AreaHectares float64 `json:"total_area_ha"`
}

// TimelineBucket is one month of submissions.
type TimelineBucket struct {
	Month        string  `json:"month"`
	Submitted    int     `json:"claims_submitted"`
	Approved     int     `json:"claims_approved"`
	AreaHectares float64 `json:"total_area_ha"`
}

// Performance is the pipeline-wide processing summary.
type Performance struct {
	TotalClaims       int     `json:"total_claims"`
	ApprovedClaims    int     `json:"approved_claims"`
	PendingClaims     int     `json:"pending_claims"`
	RejectedClaims    int     `json:"rejected_claims"`
	ApprovalRate      float64 `json:"approval_rate"`
	PendingRate       float64 `json:"pending_rate"`
	TotalAreaHectares float64 `json:"total_area_ha"`
	AverageClaimSize  float64 `json:"average_claim_size_ha"`
}

// Health checks the server.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.get(ctx, "/health", nil, &out)
	return out, err
}

// Info returns service metadata.
func (c *Client) Info(ctx context.Context) (Info, error) {
	var out Info
	err := c.get(ctx, "/api/v1/info", nil, &out)
	return out, err
}

// ListClaims returns one page of filtered claim records.
func (c *Client) ListClaims(ctx context.Context, filters Filters, offset, limit int) (ClaimPage, error) {
	q := filters.query()
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out ClaimPage
	err := c.get(ctx, "/api/v1/claims", q, &out)
	return out, err
}

// GetClaim returns one claim by ID.
func (c *Client) GetClaim(ctx context.Context, id string) (Claim, error) {
	var out Claim
	err := c.get(ctx, "/api/v1/claims/"+url.PathEscape(id), nil, &out)
	return out, err
}

// GetRecommendations returns the DSS scheme recommendations for one claim.
func (c *Client) GetRecommendations(ctx context.Context, id string) (Recommendations, error) {
	var out Recommendations
	err := c.get(ctx, "/api/v1/claims/"+url.PathEscape(id)+"/recommendations", nil, &out)
	return out, err
}

// ClaimsGeoJSON returns the filtered features as a raw GeoJSON document.
func (c *Client) ClaimsGeoJSON(ctx context.Context, filters Filters) ([]byte, error) {
	return c.raw(ctx, "/api/v1/claims/geojson", filters.query())
}

// Export returns the filtered features with the export_info envelope.
func (c *Client) Export(ctx context.Context, filters Filters) ([]byte, error) {
	return c.raw(ctx, "/api/v1/export", filters.query())
}

// FilterOptions returns the cascaded option lists for the given upstream
// geography selections.
func (c *Client) FilterOptions(ctx context.Context, state, district string) (FilterOptions, error) {
	q := url.Values{}
	if state != "" {
		q.Set("state", state)
	}
	if district != "" {
		q.Set("district", district)
	}
	var out FilterOptions
	err := c.get(ctx, "/api/v1/filter-options", q, &out)
	return out, err
}

// Statistics returns the aggregate view of the filtered set.
func (c *Client) Statistics(ctx context.Context, filters Filters) (Statistics, error) {
	var out Statistics
	err := c.get(ctx, "/api/v1/statistics", filters.query(), &out)
	return out, err
}

// RenderPlan returns the styled layer plan for the filtered set. Geometry is
// not included; join with ClaimsGeoJSON by feature ID.
func (c *Client) RenderPlan(ctx context.Context, filters Filters) (RenderPlan, error) {
	var out RenderPlan
	err := c.get(ctx, "/api/v1/render-plan", filters.query(), &out)
	return out, err
}

// StateAnalytics returns per-state claim summaries.
func (c *Client) StateAnalytics(ctx context.Context) ([]StateSummary, error) {
	var out struct {
		States []StateSummary `json:"states"`
	}
	err := c.get(ctx, "/api/v1/analytics/states", nil, &out)
	return out.States, err
}

// TribalAnalytics returns per-community claim summaries.
func (c *Client) TribalAnalytics(ctx context.Context) ([]TribalSummary, error) {
	var out struct {
		Communities []TribalSummary `json:"communities"`
	}
	err := c.get(ctx, "/api/v1/analytics/tribal", nil, &out)
	return out.Communities, err
}

// Timeline returns monthly submission buckets in chronological order.
func (c *Client) Timeline(ctx context.Context) ([]TimelineBucket, error) {
	var out struct {
		Timeline []TimelineBucket `json:"timeline"`
	}
	err := c.get(ctx, "/api/v1/analytics/timeline", nil, &out)
	return out.Timeline, err
}

// Performance returns the pipeline-wide processing summary.
func (c *Client) Performance(ctx context.Context) (Performance, error) {
	var out Performance
	err := c.get(ctx, "/api/v1/analytics/performance", nil, &out)
	return out, err
}

// Boundary returns a state's boundary GeoJSON, when the server has one.
func (c *Client) Boundary(ctx context.Context, state string) ([]byte, error) {
	return c.raw(ctx, "/api/v1/boundaries/"+url.PathEscape(state), nil)
}

// ListDatasets returns each source's load state.
func (c *Client) ListDatasets(ctx context.Context) (Datasets, error) {
	var out Datasets
	err := c.get(ctx, "/api/v1/datasets", nil, &out)
	return out, err
}

// RefreshDatasets triggers a refetch of every source.
func (c *Client) RefreshDatasets(ctx context.Context) error {
	return c.post(ctx, "/api/v1/datasets/refresh", nil, nil)
}

// ListTables returns the tables on the SQL mirror.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	var out struct {
		Tables []string `json:"tables"`
	}
	err := c.get(ctx, "/api/v1/tables", nil, &out)
	return out.Tables, err
}

// Query runs a read-only SQL query against the claims mirror.
func (c *Client) Query(ctx context.Context, query string) (QueryResult, error) {
	var out QueryResult
	err := c.post(ctx, "/api/v1/query", map[string]string{"query": query}, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	var payload io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) raw(ctx context.Context, path string, q url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, q, nil)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload io.Reader) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("atlas: HTTP %d: %s", e.Status, e.Body)
}
