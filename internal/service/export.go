package service

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

// ToFeatureCollection serializes normalized features back to GeoJSON using
// the canonical property keys, so re-normalizing an export reproduces the
// same category, status, area, geography, and ID for every feature.
func ToFeatureCollection(features []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		gf := geojson.NewFeature(f.Geometry)
		gf.ID = f.ID
		gf.Properties = geojson.Properties{
			"id":            f.ID,
			"category":      string(f.Category),
			"status":        string(f.Status),
			"state":         f.State,
			"district":      f.District,
			"village":       f.Village,
			"area_hectares": f.AreaHectares,
		}
		for k, v := range f.Extra {
			gf.Properties[k] = v
		}
		fc.Append(gf)
	}
	return fc
}

// ExportInfo describes one export: when it was produced, which filters were
// active, and how many claims made the cut.
type ExportInfo struct {
	ExportedAt     string      `json:"exported_at"`
	FiltersApplied FilterState `json:"filters_applied"`
	TotalClaims    int         `json:"total_claims"`
}

// Export filters the dataset and wraps it as a downloadable
// FeatureCollection with an export_info envelope member.
func Export(features []Feature, filters FilterState, now time.Time) *geojson.FeatureCollection {
	visible := Apply(features, filters)
	fc := ToFeatureCollection(visible)
	fc.ExtraMembers = map[string]interface{}{
		"export_info": ExportInfo{
			ExportedAt:     now.UTC().Format(time.RFC3339),
			FiltersApplied: filters,
			TotalClaims:    len(visible),
		},
	}
	return fc
}
