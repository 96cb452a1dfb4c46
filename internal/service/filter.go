package service

import (
	"slices"
	"sort"
)

// Apply returns the subset of features matching every active filter field.
// Geography, category, status, and tribal community match by exact equality;
// MinArea is a >= threshold and MaxArea a <= cap. Empty fields impose no
// constraint. The result is always a fresh slice; the input is never mutated.
func Apply(features []Feature, filters FilterState) []Feature {
	out := make([]Feature, 0, len(features))
	for _, f := range features {
		if Matches(f, filters) {
			out = append(out, f)
		}
	}
	return out
}

// Matches reports whether a single feature passes every active filter field.
func Matches(f Feature, filters FilterState) bool {
	if filters.State != "" && f.State != filters.State {
		return false
	}
	if filters.District != "" && f.District != filters.District {
		return false
	}
	if filters.Village != "" && f.Village != filters.Village {
		return false
	}
	if filters.Category != "" && f.Category != filters.Category {
		return false
	}
	if filters.Status != "" && f.Status != filters.Status {
		return false
	}
	if filters.TribalCommunity != "" && f.ExtraString("tribal_community") != filters.TribalCommunity {
		return false
	}
	if filters.MinArea > 0 && f.AreaHectares < filters.MinArea {
		return false
	}
	if filters.MaxArea > 0 && f.AreaHectares > filters.MaxArea {
		return false
	}
	return true
}

// CascadeFilters drops geography selections inconsistent with their upstream
// level: a district that does not exist under the selected state resets to
// "all" (taking the village with it), and likewise a village not under the
// selected district. Switching states therefore widens the view instead of
// applying a stale district and collapsing it to empty.
func CascadeFilters(features []Feature, filters FilterState) FilterState {
	if filters.District != "" && !slices.Contains(DistrictsFor(features, filters.State), filters.District) {
		filters.District = ""
		filters.Village = ""
	}
	if filters.Village != "" && !slices.Contains(VillagesFor(features, filters.State, filters.District), filters.Village) {
		filters.Village = ""
	}
	return filters
}

// FilterOptions holds the cascaded dropdown option lists. District and
// village lists narrow to the chosen upstream geography; everything derives
// from the full dataset so clearing an upstream filter restores full lists.
type FilterOptions struct {
	States            []string   `json:"states" doc:"All states present in the dataset"`
	Districts         []string   `json:"districts" doc:"Districts, narrowed by state when one is chosen"`
	Villages          []string   `json:"villages" doc:"Villages, narrowed by state/district when chosen"`
	Categories        []Category `json:"categories" doc:"Canonical categories present"`
	Statuses          []Status   `json:"statuses" doc:"Canonical statuses present"`
	TribalCommunities []string   `json:"tribal_communities" doc:"Tribal communities present"`
}

// OptionsFor derives the cascaded option lists from the FULL dataset for the
// given upstream selections. Passing the filtered view instead would truncate
// the lists and strand the user after clearing a downstream filter.
func OptionsFor(features []Feature, state, district string) FilterOptions {
	opts := FilterOptions{
		States:            StatesFor(features),
		Districts:         DistrictsFor(features, state),
		Villages:          VillagesFor(features, state, district),
		TribalCommunities: TribalCommunitiesFor(features),
	}

	catSeen := map[Category]bool{}
	statusSeen := map[Status]bool{}
	for _, f := range features {
		catSeen[f.Category] = true
		statusSeen[f.Status] = true
	}
	// Closed-enum options keep the canonical order rather than sorting.
	for _, c := range Categories {
		if catSeen[c] && c != CategoryUnknown {
			opts.Categories = append(opts.Categories, c)
		}
	}
	for _, s := range Statuses {
		if statusSeen[s] {
			opts.Statuses = append(opts.Statuses, s)
		}
	}
	return opts
}

// StatesFor returns the sorted distinct states in the dataset.
func StatesFor(features []Feature) []string {
	return distinct(features, func(f Feature) string { return f.State })
}

// DistrictsFor returns the sorted distinct districts among features matching
// the given state. An empty state means all districts.
func DistrictsFor(features []Feature, state string) []string {
	return distinct(features, func(f Feature) string {
		if state != "" && f.State != state {
			return ""
		}
		return f.District
	})
}

// VillagesFor returns the sorted distinct villages consistent with the given
// state and district; empty upstream values impose no constraint.
func VillagesFor(features []Feature, state, district string) []string {
	return distinct(features, func(f Feature) string {
		if state != "" && f.State != state {
			return ""
		}
		if district != "" && f.District != district {
			return ""
		}
		return f.Village
	})
}

// TribalCommunitiesFor returns the sorted distinct tribal communities.
func TribalCommunitiesFor(features []Feature) []string {
	return distinct(features, func(f Feature) string {
		return f.ExtraString("tribal_community")
	})
}

func distinct(features []Feature, key func(Feature) string) []string {
	seen := map[string]bool{}
	var values []string
	for _, f := range features {
		if v := key(f); v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}
