package service

// Base category styles. Boundaries are hollow with per-level stroke weight;
// everything else is a filled polygon whose colors identify the category.
var baseStyles = map[Category]StyleRule{
	CategoryIndividualRights:        {Stroke: "#B30000", Fill: "#FA0000", FillOpacity: 0.55, Weight: 2},
	CategoryCommunityForestResource: {Stroke: "#004B00", Fill: "#006400", FillOpacity: 0.45, Weight: 2},
	CategoryCommunityRights:         {Stroke: "#007700", Fill: "#00AA00", FillOpacity: 0.45, Weight: 2},
	CategoryAgriculture:             {Stroke: "#B37700", Fill: "#FFAA00", FillOpacity: 0.5, Weight: 2},
	CategoryWaterBody:               {Stroke: "#004C99", Fill: "#0066CC", FillOpacity: 0.5, Weight: 2},
	CategoryStateBoundary:           {Stroke: "#B4B4B4", Fill: "", FillOpacity: 0, Weight: 3, DashArray: "4 4"},
	CategoryDistrictBoundary:        {Stroke: "#B4B4B4", Fill: "", FillOpacity: 0, Weight: 2, DashArray: "4 4"},
	CategoryVillageBoundary:         {Stroke: "#B4B4B4", Fill: "", FillOpacity: 0, Weight: 1.5, DashArray: "4 4"},
}

// neutralStyle is the documented fallback for unrecognized categories so
// rendering never aborts on unexpected data.
var neutralStyle = StyleRule{Stroke: "#2266CC", Fill: "#3388FF", FillOpacity: 0.35, Weight: 1.5}

// notFinalizedDash is the dash overlay for claims still in the pipeline.
const notFinalizedDash = "6 4"

// highlightStyle marks the single selected feature.
var highlightStyle = StyleRule{Stroke: "#FFCC00", Fill: "#FFE680", FillOpacity: 0.7, Weight: 4}

// StyleOverride adjusts a category's base colors from configuration.
// Zero-valued fields keep the built-in value.
type StyleOverride struct {
	Stroke      string  `yaml:"stroke" json:"stroke,omitempty"`
	Fill        string  `yaml:"fill" json:"fill,omitempty"`
	FillOpacity float64 `yaml:"fillOpacity" json:"fillOpacity,omitempty"`
	Weight      float64 `yaml:"weight" json:"weight,omitempty"`
}

// StyleResolver resolves the deterministic style for a category/status pair.
// Immutable after construction; safe for concurrent use.
type StyleResolver struct {
	rules map[Category]StyleRule
}

// NewStyleResolver builds a resolver from the built-in style table plus
// optional per-category overrides (keyed by canonical category value).
func NewStyleResolver(overrides map[string]StyleOverride) *StyleResolver {
	rules := make(map[Category]StyleRule, len(baseStyles))
	for cat, rule := range baseStyles {
		if o, ok := overrides[string(cat)]; ok {
			if o.Stroke != "" {
				rule.Stroke = o.Stroke
			}
			if o.Fill != "" {
				rule.Fill = o.Fill
			}
			if o.FillOpacity > 0 {
				rule.FillOpacity = o.FillOpacity
			}
			if o.Weight > 0 {
				rule.Weight = o.Weight
			}
		}
		rules[cat] = rule
	}
	return &StyleResolver{rules: rules}
}

// StyleFor returns the style for a category/status pair. Pure: the category
// supplies the base rule (neutral fallback for unknown categories), and a
// not-finalized status adds only a dash pattern, never a color change.
func (r *StyleResolver) StyleFor(category Category, status Status) StyleRule {
	rule, ok := r.rules[category]
	if !ok {
		rule = neutralStyle
	}
	if status.NotFinalized() && rule.DashArray == "" {
		rule.DashArray = notFinalizedDash
	}
	return rule
}

// BaseStyle returns the category style without any status overlay,
// for legend swatches.
func (r *StyleResolver) BaseStyle(category Category) StyleRule {
	if rule, ok := r.rules[category]; ok {
		return rule
	}
	return neutralStyle
}

// HighlightStyle returns the fixed style applied to the selected feature.
func (r *StyleResolver) HighlightStyle() StyleRule {
	return highlightStyle
}
