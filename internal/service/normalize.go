package service

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

// Normalize converts a raw FeatureCollection into canonical features. It is
// total: missing numerics become 0, missing strings "", unrecognized
// categories and statuses become the unknown variants. One malformed record
// never blocks the rest.
func Normalize(fc *geojson.FeatureCollection) []Feature {
	if fc == nil {
		return []Feature{}
	}
	out := make([]Feature, 0, len(fc.Features))
	for _, raw := range fc.Features {
		if raw == nil {
			continue
		}
		out = append(out, normalizeFeature(raw))
	}
	return out
}

func normalizeFeature(raw *geojson.Feature) Feature {
	props := raw.Properties
	if props == nil {
		props = geojson.Properties{}
	}

	f := Feature{
		ID:           resolveID(raw, props),
		Geometry:     raw.Geometry,
		Category:     resolveCategory(props),
		Status:       resolveStatus(props),
		State:        firstString(props, "state", "State", "STATE", "state_name"),
		District:     firstString(props, "district", "District", "DISTRICT_N", "district_name"),
		Village:      firstString(props, "village", "Village", "VILLAGE_N", "village_name"),
		AreaHectares: resolveArea(props),
	}

	// Optional attributes survive normalization so popups and the DSS rules
	// engine never need the raw schema.
	for _, key := range extraKeys {
		if v, ok := props[key]; ok && v != nil {
			if f.Extra == nil {
				f.Extra = map[string]any{}
			}
			f.Extra[key] = v
		}
	}
	return f
}

// extraKeys are the optional source attributes kept on the canonical feature.
var extraKeys = []string{
	"tribal_community", "total_households", "beneficiary_households",
	"survey_number", "submission_date", "gram_sabha", "community",
	"water_level", "groundwater_index", "soil_quality", "crop_yield",
	"forest_cover_percentage", "poverty_index", "infra_index",
}

// resolveID picks a stable identifier, generating one only as a last resort
// so re-normalizing an export keeps the original IDs.
func resolveID(raw *geojson.Feature, props geojson.Properties) string {
	if raw.ID != nil {
		switch id := raw.ID.(type) {
		case string:
			if id != "" {
				return id
			}
		case float64:
			return strconv.FormatFloat(id, 'f', -1, 64)
		}
	}
	if id := firstString(props, "id", "claim_id", "feature_id", "fra_id"); id != "" {
		return id
	}
	return uuid.NewString()
}

// resolveCategory maps the heterogeneous source schemas onto one canonical
// category. Precedence: our own canonical key first (so exports round-trip),
// then the legacy claim_type code, then the descriptive fields. The code
// field wins over descriptive fields when they disagree; older datasets only
// populate the code and it is the more reliable of the two.
func resolveCategory(props geojson.Properties) Category {
	if c := categoryFromValue(firstString(props, "category")); c != CategoryUnknown {
		return c
	}
	if c := categoryFromValue(firstString(props, "claim_type")); c != CategoryUnknown {
		return c
	}
	for _, key := range []string{"fra_type", "fra_type_name", "feature_type"} {
		if c := categoryFromValue(firstString(props, key)); c != CategoryUnknown {
			return c
		}
	}
	if c := categoryFromClass(firstString(props, "class")); c != CategoryUnknown {
		return c
	}
	return categoryFromBoundaryHints(props)
}

// categoryFromValue recognizes canonical values, legacy IFR/CFR/CR codes,
// and the descriptive display names.
func categoryFromValue(v string) Category {
	switch normalizeToken(v) {
	case "individual_rights", "ifr", "individual_forest_rights":
		return CategoryIndividualRights
	case "community_forest_resource", "cfr", "community_forest_resource_rights":
		return CategoryCommunityForestResource
	case "community_rights", "cr":
		return CategoryCommunityRights
	case "agriculture", "agricultural_land":
		return CategoryAgriculture
	case "water_body", "waterbody":
		return CategoryWaterBody
	case "state_boundary":
		return CategoryStateBoundary
	case "district_boundary":
		return CategoryDistrictBoundary
	case "village_boundary":
		return CategoryVillageBoundary
	}
	return CategoryUnknown
}

// categoryFromClass maps land-asset classification labels. Forest assets
// render under the community forest resource bucket; homestead has no slot
// in the closed set and stays unknown.
func categoryFromClass(v string) Category {
	switch normalizeToken(v) {
	case "water":
		return CategoryWaterBody
	case "agricultural", "agriculture":
		return CategoryAgriculture
	case "forest":
		return CategoryCommunityForestResource
	}
	return CategoryUnknown
}

// categoryFromBoundaryHints recognizes administrative boundary files, which
// carry no claim fields at all: an explicit boundary_type/level value, or the
// characteristic DISTRICT_N / VILLAGE_N keys of census boundary exports.
func categoryFromBoundaryHints(props geojson.Properties) Category {
	switch normalizeToken(firstString(props, "boundary_type", "level")) {
	case "state":
		return CategoryStateBoundary
	case "district":
		return CategoryDistrictBoundary
	case "village", "block":
		return CategoryVillageBoundary
	}
	if _, ok := props["VILLAGE_N"]; ok {
		return CategoryVillageBoundary
	}
	if _, ok := props["DISTRICT_N"]; ok {
		return CategoryDistrictBoundary
	}
	return CategoryUnknown
}

// resolveStatus maps status codes, display names, and the asset
// verification_status field onto the canonical set.
func resolveStatus(props geojson.Properties) Status {
	if s := statusFromValue(firstString(props, "status")); s != StatusUnknown {
		return s
	}
	switch normalizeToken(firstString(props, "verification_status")) {
	case "verified":
		return StatusApproved
	case "unverified":
		return StatusPending
	}
	return StatusUnknown
}

func statusFromValue(v string) Status {
	switch normalizeToken(v) {
	case "approved", "granted":
		return StatusApproved
	case "pending":
		return StatusPending
	case "under_review":
		return StatusUnderReview
	case "rejected":
		return StatusRejected
	case "disputed":
		return StatusDisputed
	case "appealed":
		return StatusAppealed
	case "submitted":
		return StatusSubmitted
	case "field_verification":
		return StatusFieldVerification
	}
	return StatusUnknown
}

// resolveArea returns the claimed area in hectares. Precedence: canonical
// area_hectares, the legacy claim_area_ha, area_claimed with its unit, then
// area_km2. Negative values clamp to 0.
func resolveArea(props geojson.Properties) float64 {
	if v, ok := numericProp(props, "area_hectares"); ok {
		return clampArea(v)
	}
	if v, ok := numericProp(props, "claim_area_ha"); ok {
		return clampArea(v)
	}
	if v, ok := numericProp(props, "area_claimed"); ok {
		return clampArea(toHectares(v, firstString(props, "area_unit")))
	}
	if v, ok := numericProp(props, "area_km2"); ok {
		return clampArea(v * 100)
	}
	return 0
}

func toHectares(v float64, unit string) float64 {
	switch normalizeToken(unit) {
	case "acres", "acre":
		return v * 0.404686
	case "km2", "sq_km", "square_kilometers":
		return v * 100
	case "sq_m", "square_meters":
		return v / 10000
	}
	return v // hectares by default
}

func clampArea(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// numericProp reads a numeric property, coercing numeric strings since
// several legacy datasets quote their numbers.
func numericProp(props geojson.Properties, key string) (float64, bool) {
	v, ok := props[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// firstString returns the first non-empty string value among the given keys.
func firstString(props geojson.Properties, keys ...string) string {
	for _, key := range keys {
		if v, ok := props[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// normalizeToken lowercases and snake_cases a free-text value for matching.
func normalizeToken(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.ReplaceAll(v, "-", " ")
	return strings.ReplaceAll(v, " ", "_")
}
