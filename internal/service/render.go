package service

import "github.com/paulmach/orb"

// BuildPlan computes the ordered drawing instructions for one recompute:
// filter, split per category, order the groups by the fixed hierarchy, and
// resolve a style per feature. Idempotent: identical inputs produce an
// identical plan, so re-rendering on every filter change cannot flicker or
// drift z-order.
func BuildPlan(features []Feature, filters FilterState, styles *StyleResolver) RenderPlan {
	visible := Apply(features, filters)

	groups := map[Category][]StyledFeature{}
	for _, f := range visible {
		groups[f.Category] = append(groups[f.Category], StyledFeature{
			Feature: f,
			Style:   styles.StyleFor(f.Category, f.Status),
		})
	}

	plan := RenderPlan{Groups: []RenderGroup{}}
	for _, cat := range DrawOrder(PresentCategories(visible)) {
		plan.Groups = append(plan.Groups, RenderGroup{
			Category: cat,
			Label:    cat.Label(),
			Features: groups[cat],
		})
	}
	plan.Bounds = BoundsOf(visible)
	return plan
}

// BoundsOf returns the bounding box over all feature geometries, or nil when
// the set is empty or carries no geometry (zoom-to-data is a no-op then).
func BoundsOf(features []Feature) *Bounds {
	var bound orb.Bound
	found := false
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !found {
			bound = b
			found = true
		} else {
			bound = bound.Union(b)
		}
	}
	if !found {
		return nil
	}
	return &Bounds{
		MinLon: bound.Min.Lon(), MinLat: bound.Min.Lat(),
		MaxLon: bound.Max.Lon(), MaxLat: bound.Max.Lat(),
	}
}
