// Package service contains the claim atlas core: schema normalization,
// filtering, styling, draw ordering, statistics, and render planning.
package service

import "github.com/paulmach/orb"

// Category is the canonical claim/asset category every source schema
// normalizes onto. The set is closed; anything unrecognized becomes
// CategoryUnknown rather than being dropped.
type Category string

const (
	CategoryIndividualRights        Category = "individual_rights"
	CategoryCommunityForestResource Category = "community_forest_resource"
	CategoryCommunityRights         Category = "community_rights"
	CategoryAgriculture             Category = "agriculture"
	CategoryWaterBody               Category = "water_body"
	CategoryStateBoundary           Category = "state_boundary"
	CategoryDistrictBoundary        Category = "district_boundary"
	CategoryVillageBoundary         Category = "village_boundary"
	CategoryUnknown                 Category = "unknown"
)

// Categories lists every canonical category in draw order (first drawn first).
var Categories = []Category{
	CategoryStateBoundary,
	CategoryDistrictBoundary,
	CategoryVillageBoundary,
	CategoryUnknown,
	CategoryWaterBody,
	CategoryCommunityForestResource,
	CategoryCommunityRights,
	CategoryAgriculture,
	CategoryIndividualRights,
}

// Label returns the display name for a category.
func (c Category) Label() string {
	switch c {
	case CategoryIndividualRights:
		return "Individual Forest Rights"
	case CategoryCommunityForestResource:
		return "Community Forest Resource Rights"
	case CategoryCommunityRights:
		return "Community Rights"
	case CategoryAgriculture:
		return "Agriculture"
	case CategoryWaterBody:
		return "Water Body"
	case CategoryStateBoundary:
		return "State Boundary"
	case CategoryDistrictBoundary:
		return "District Boundary"
	case CategoryVillageBoundary:
		return "Village Boundary"
	default:
		return "Unclassified"
	}
}

// IsBoundary reports whether the category is an administrative boundary level.
func (c Category) IsBoundary() bool {
	switch c {
	case CategoryStateBoundary, CategoryDistrictBoundary, CategoryVillageBoundary:
		return true
	}
	return false
}

// IsClaim reports whether the category represents a rights claim (as opposed
// to a boundary or an unclassified blob). Used by claim-size analytics.
func (c Category) IsClaim() bool {
	switch c {
	case CategoryIndividualRights, CategoryCommunityForestResource,
		CategoryCommunityRights, CategoryAgriculture, CategoryWaterBody:
		return true
	}
	return false
}

// Status is the canonical processing status of a claim.
type Status string

const (
	StatusApproved          Status = "approved"
	StatusPending           Status = "pending"
	StatusUnderReview       Status = "under_review"
	StatusRejected          Status = "rejected"
	StatusDisputed          Status = "disputed"
	StatusAppealed          Status = "appealed"
	StatusSubmitted         Status = "submitted"
	StatusFieldVerification Status = "field_verification"
	StatusUnknown           Status = "unknown"
)

// Statuses lists every canonical status.
var Statuses = []Status{
	StatusApproved, StatusPending, StatusUnderReview, StatusRejected,
	StatusDisputed, StatusAppealed, StatusSubmitted, StatusFieldVerification,
}

// NotFinalized reports whether the status means the claim is still in the
// pipeline. Not-finalized claims render with a dash overlay; disputed and
// appealed claims are decided-but-contested and render solid.
func (s Status) NotFinalized() bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusUnderReview, StatusFieldVerification:
		return true
	}
	return false
}

// Label returns the display name for a status.
func (s Status) Label() string {
	switch s {
	case StatusApproved:
		return "Approved"
	case StatusPending:
		return "Pending"
	case StatusUnderReview:
		return "Under Review"
	case StatusRejected:
		return "Rejected"
	case StatusDisputed:
		return "Disputed"
	case StatusAppealed:
		return "Appealed"
	case StatusSubmitted:
		return "Submitted"
	case StatusFieldVerification:
		return "Field Verification"
	default:
		return "Unknown"
	}
}

// Feature is a single normalized claim, asset, or boundary record.
// Immutable once produced by Normalize; the whole slice is replaced on
// reload, never mutated in place.
type Feature struct {
	ID           string         `json:"id" doc:"Stable feature identifier"`
	Geometry     orb.Geometry   `json:"-"`
	Category     Category       `json:"category" doc:"Canonical category"`
	Status       Status         `json:"status" doc:"Canonical processing status"`
	State        string         `json:"state" doc:"State name"`
	District     string         `json:"district" doc:"District name"`
	Village      string         `json:"village" doc:"Village name"`
	AreaHectares float64        `json:"area_hectares" doc:"Claimed area in hectares"`
	Extra        map[string]any `json:"extra,omitempty" doc:"Optional source attributes"`
}

// ExtraString returns an optional attribute as a string, or "" when absent.
func (f Feature) ExtraString(key string) string {
	if v, ok := f.Extra[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ExtraFloat returns an optional numeric attribute and whether it was present.
func (f Feature) ExtraFloat(key string) (float64, bool) {
	v, ok := f.Extra[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// FilterState holds the current filter selections. Empty fields impose no
// constraint. It is the only mutable entity in the core and is owned by the
// dashboard controller; everything downstream reads it during a recompute.
type FilterState struct {
	State           string   `json:"state,omitempty" doc:"State name filter"`
	District        string   `json:"district,omitempty" doc:"District name filter"`
	Village         string   `json:"village,omitempty" doc:"Village name filter"`
	Category        Category `json:"category,omitempty" doc:"Canonical category filter"`
	Status          Status   `json:"status,omitempty" doc:"Canonical status filter"`
	TribalCommunity string   `json:"tribal_community,omitempty" doc:"Tribal community filter"`
	MinArea         float64  `json:"min_area,omitempty" minimum:"0" doc:"Minimum area in hectares"`
	MaxArea         float64  `json:"max_area,omitempty" minimum:"0" doc:"Maximum area in hectares (0 = no cap)"`
}

// IsZero reports whether no filter field is active.
func (f FilterState) IsZero() bool {
	return f == FilterState{}
}

// StyleRule is the resolved visual style for one feature. The category
// supplies colors, opacity, and weight; a not-finalized status may only add
// a dash pattern on top.
type StyleRule struct {
	Stroke      string  `json:"stroke" doc:"Stroke color (CSS)"`
	Fill        string  `json:"fill" doc:"Fill color (CSS)"`
	FillOpacity float64 `json:"fillOpacity" doc:"Fill opacity (0-1)"`
	Weight      float64 `json:"weight" doc:"Stroke width in pixels"`
	DashArray   string  `json:"dashArray,omitempty" doc:"SVG dash pattern, empty for solid"`
}

// Statistics is the aggregate view of one feature subset. Always recomputed
// from the filtered set, never adjusted incrementally.
type Statistics struct {
	CountByCategory   map[Category]int `json:"count_by_category" doc:"Feature count per canonical category"`
	CountByStatus     map[Status]int   `json:"count_by_status" doc:"Feature count per canonical status"`
	TotalFeatures     int              `json:"total_features" doc:"Number of features in the set"`
	TotalAreaHectares float64          `json:"total_area_hectares" doc:"Summed area in hectares"`
}

// StyledFeature pairs a feature with its resolved style inside a render group.
type StyledFeature struct {
	Feature Feature   `json:"feature"`
	Style   StyleRule `json:"style"`
}

// RenderGroup is one category's worth of styled features, ready for the map
// substrate to draw as a unit.
type RenderGroup struct {
	Category Category        `json:"category"`
	Label    string          `json:"label"`
	Features []StyledFeature `json:"features"`
}

// RenderPlan is the full ordered drawing instruction set for one recompute:
// groups appear in draw order (first group drawn first, so the last group
// wins clicks on overlap).
type RenderPlan struct {
	Groups []RenderGroup `json:"groups"`
	Bounds *Bounds       `json:"bounds,omitempty" doc:"Bounding box of all plan features"`
}

// Bounds is a geographic bounding box in lon/lat, for FitBoundsTo.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}
