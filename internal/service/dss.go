package service

// Scheme recommendation rules, ported from the decision-support rules the
// atlas exposes per claim. Rules only ever add recommendations on top of the
// baseline; thresholds are attribute-driven with state-specific enrichment.

// Recommendation is one suggested government scheme.
type Recommendation struct {
	Scheme string `json:"scheme" doc:"Scheme name"`
	Reason string `json:"reason" doc:"Why the scheme applies"`
}

// Recommend returns the scheme recommendations for one claim. Deterministic:
// same feature, same list. Every claim gets the baseline FRA entitlement
// schemes; attribute and state rules append in a fixed order.
func Recommend(f Feature) []Recommendation {
	recs := []Recommendation{
		{Scheme: "DAJGUA Convergence", Reason: "Baseline entitlement for recognized FRA claims"},
	}
	add := func(scheme, reason string) {
		for _, r := range recs {
			if r.Scheme == scheme {
				return
			}
		}
		recs = append(recs, Recommendation{Scheme: scheme, Reason: reason})
	}

	forestCover, hasForest := f.ExtraFloat("forest_cover_percentage")
	waterLevel, hasWater := f.ExtraFloat("water_level")
	groundwater, hasGroundwater := f.ExtraFloat("groundwater_index")
	povertyIndex, hasPoverty := f.ExtraFloat("poverty_index")
	cropYield, hasYield := f.ExtraFloat("crop_yield")

	if hasForest && forestCover > 40 {
		add("CAMPA", "Forest cover above 40%")
		add("Green India Mission", "Forest cover above 40%")
	}
	waterStressed := (hasWater && waterLevel < 80) || (hasGroundwater && groundwater < 0.5)
	if waterStressed {
		add("PMKSY", "Low water level or groundwater index")
		add("Jal Jeevan Mission", "Low water level or groundwater index")
	}
	if f.ExtraString("soil_quality") == "Poor" {
		add("Soil Health Card Scheme", "Poor soil quality")
		add("Organic Farming Mission", "Poor soil quality")
	}
	if hasPoverty && povertyIndex > 0.6 {
		add("MGNREGA", "High poverty index")
	}
	if hasYield && cropYield < 10 {
		add("PM-KISAN", "Low crop yield")
		add("Bhavantar Bhugtan", "Low crop yield")
	}

	// State-specific enrichment.
	switch f.State {
	case "Odisha":
		if hasForest && forestCover > 40 {
			add("Ama Jungle Yojana", "Odisha forest-cover scheme")
		}
		if hasPoverty && povertyIndex > 0.6 {
			add("KALIA", "Odisha livelihood support")
		}
	case "Telangana":
		if waterStressed {
			add("Mission Kakatiya", "Telangana tank restoration")
		}
		if hasPoverty && povertyIndex > 0.6 {
			add("Rythu Bandhu", "Telangana farmer support")
		}
	}

	// Community claims get the community-based schemes.
	if f.Category == CategoryCommunityForestResource || f.Category == CategoryCommunityRights {
		add("Van Dhan Vikas Yojana", "Community claim category")
	}

	return recs
}
