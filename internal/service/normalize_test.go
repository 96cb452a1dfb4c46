package service

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawFeature(props map[string]interface{}) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{{{78.1, 17.9}, {78.2, 17.9}, {78.2, 18.0}, {78.1, 17.9}}})
	f.Properties = props
	return f
}

func collectionOf(features ...*geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f)
	}
	return fc
}

func TestNormalize_CategoryResolution(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]interface{}
		want  Category
	}{
		{"legacy IFR code", map[string]interface{}{"claim_type": "IFR"}, CategoryIndividualRights},
		{"legacy CFR code", map[string]interface{}{"claim_type": "CFR"}, CategoryCommunityForestResource},
		{"legacy CR code", map[string]interface{}{"claim_type": "CR"}, CategoryCommunityRights},
		{"descriptive fra_type", map[string]interface{}{"fra_type": "Community Forest Resource Rights"}, CategoryCommunityForestResource},
		{"descriptive water body", map[string]interface{}{"fra_type": "Water Body"}, CategoryWaterBody},
		{"feature_type fallback", map[string]interface{}{"feature_type": "Agriculture"}, CategoryAgriculture},
		{"asset class water", map[string]interface{}{"class": "water"}, CategoryWaterBody},
		{"asset class agricultural", map[string]interface{}{"class": "agricultural"}, CategoryAgriculture},
		{"asset class forest", map[string]interface{}{"class": "forest"}, CategoryCommunityForestResource},
		{"asset class homestead stays unknown", map[string]interface{}{"class": "homestead"}, CategoryUnknown},
		{"boundary level district", map[string]interface{}{"boundary_type": "district"}, CategoryDistrictBoundary},
		{"census district key", map[string]interface{}{"DISTRICT_N": "Adilabad"}, CategoryDistrictBoundary},
		{"canonical export key", map[string]interface{}{"category": "individual_rights"}, CategoryIndividualRights},
		{"empty properties", map[string]interface{}{}, CategoryUnknown},
		{"garbage value", map[string]interface{}{"fra_type": "???"}, CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(collectionOf(rawFeature(tt.props)))
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Category)
		})
	}
}

// The legacy code field wins over descriptive fields when both are present
// and disagree; older datasets only populate the code.
func TestNormalize_ClaimTypePrecedence(t *testing.T) {
	got := Normalize(collectionOf(rawFeature(map[string]interface{}{
		"claim_type": "CFR",
		"fra_type":   "Individual Forest Rights",
	})))
	require.Len(t, got, 1)
	assert.Equal(t, CategoryCommunityForestResource, got[0].Category)
}

// A feature carrying only the legacy code and one carrying only the
// descriptive name normalize to the same category.
func TestNormalize_SchemaEquivalence(t *testing.T) {
	got := Normalize(collectionOf(
		rawFeature(map[string]interface{}{"claim_type": "CFR"}),
		rawFeature(map[string]interface{}{"fra_type": "Community Forest Resource Rights"}),
	))
	require.Len(t, got, 2)
	assert.Equal(t, got[0].Category, got[1].Category)
}

func TestNormalize_Status(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]interface{}
		want  Status
	}{
		{"snake code", map[string]interface{}{"status": "under_review"}, StatusUnderReview},
		{"display name", map[string]interface{}{"status": "Under Review"}, StatusUnderReview},
		{"approved", map[string]interface{}{"status": "approved"}, StatusApproved},
		{"verified asset", map[string]interface{}{"verification_status": "verified"}, StatusApproved},
		{"unverified asset", map[string]interface{}{"verification_status": "unverified"}, StatusPending},
		{"missing", map[string]interface{}{}, StatusUnknown},
		{"garbage never throws", map[string]interface{}{"status": 42}, StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(collectionOf(rawFeature(tt.props)))
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Status)
		})
	}
}

func TestNormalize_Area(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]interface{}
		want  float64
	}{
		{"canonical key", map[string]interface{}{"area_hectares": 2.5}, 2.5},
		{"legacy claim_area_ha", map[string]interface{}{"claim_area_ha": 15.8}, 15.8},
		{"acres converted", map[string]interface{}{"area_claimed": 10.0, "area_unit": "acres"}, 4.04686},
		{"km2 converted", map[string]interface{}{"area_claimed": 0.5, "area_unit": "sq_km"}, 50},
		{"area_km2 fallback", map[string]interface{}{"area_km2": 0.1}, 10},
		{"numeric string coerces", map[string]interface{}{"area_hectares": "3.25"}, 3.25},
		{"missing defaults to zero", map[string]interface{}{}, 0},
		{"negative clamps to zero", map[string]interface{}{"area_hectares": -4.0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(collectionOf(rawFeature(tt.props)))
			require.Len(t, got, 1)
			assert.InDelta(t, tt.want, got[0].AreaHectares, 1e-9)
		})
	}
}

func TestNormalize_IDFallbacks(t *testing.T) {
	got := Normalize(collectionOf(
		rawFeature(map[string]interface{}{"claim_id": "FRA-OD-001"}),
		rawFeature(map[string]interface{}{"feature_id": "feat-7"}),
		rawFeature(map[string]interface{}{}),
	))
	require.Len(t, got, 3)
	assert.Equal(t, "FRA-OD-001", got[0].ID)
	assert.Equal(t, "feat-7", got[1].ID)
	assert.NotEmpty(t, got[2].ID, "missing id gets generated")
}

func TestNormalize_GeographyAndExtras(t *testing.T) {
	got := Normalize(collectionOf(rawFeature(map[string]interface{}{
		"state_name":       "Odisha",
		"District":         "Mayurbhanj",
		"village":          "Similipal",
		"tribal_community": "Santhal",
		"total_households": 42.0,
		"unrelated_noise":  "dropped",
	})))
	require.Len(t, got, 1)
	f := got[0]
	assert.Equal(t, "Odisha", f.State)
	assert.Equal(t, "Mayurbhanj", f.District)
	assert.Equal(t, "Similipal", f.Village)
	assert.Equal(t, "Santhal", f.ExtraString("tribal_community"))
	_, kept := f.Extra["unrelated_noise"]
	assert.False(t, kept, "unlisted attributes are not carried")
}

func TestNormalize_TotalOnBadInput(t *testing.T) {
	assert.Empty(t, Normalize(nil))

	fc := geojson.NewFeatureCollection()
	fc.Features = append(fc.Features, nil, rawFeature(map[string]interface{}{"claim_type": "IFR"}))
	got := Normalize(fc)
	require.Len(t, got, 1, "one bad record never blocks the rest")
	assert.Equal(t, CategoryIndividualRights, got[0].Category)
}
