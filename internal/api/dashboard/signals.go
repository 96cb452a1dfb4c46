// Package dashboard holds the Datastar SSE handlers behind the atlas
// dashboard page: cascading filters, live statistics and legend, feature
// highlighting, and dataset events.
package dashboard

import (
	"reflect"

	"github.com/vanachitra/fra-atlas/internal/humastar"
	"github.com/vanachitra/fra-atlas/internal/service"
)

// signalPrefix namespaces every dashboard filter signal.
const signalPrefix = "filters"

// FilterSignals is the filter form model. The form HTML is rendered at
// runtime from this type's OpenAPI schema: geography selects load their
// options over SSE, category and status render as enum selects, and the
// area bounds as number inputs.
type FilterSignals struct {
	State           string  `json:"state" doc:"State" input:"sse" sse:"/dashboard/filters/options,filter-state-select"`
	District        string  `json:"district" doc:"District" input:"sse" sse:"/dashboard/filters/options,filter-district-select"`
	Village         string  `json:"village" doc:"Village" input:"sse" sse:"/dashboard/filters/options,filter-village-select"`
	Category        string  `json:"category" doc:"Category" enum:",individual_rights,community_forest_resource,community_rights,agriculture,water_body"`
	Status          string  `json:"status" doc:"Status" enum:",approved,pending,under_review,rejected,disputed,appealed,submitted,field_verification"`
	TribalCommunity string  `json:"tribal_community" doc:"Tribal community" input:"sse" sse:"/dashboard/filters/options,filter-tribal-select"`
	MinArea         float64 `json:"min_area" doc:"Min area (ha)" minimum:"0"`
	MaxArea         float64 `json:"max_area" doc:"Max area (ha)" minimum:"0"`
}

// SchemaConfig is the Datastar schema registration for the filter form.
var SchemaConfig = humastar.DatastarSchemaConfig{
	Type:     reflect.TypeOf(FilterSignals{}),
	Prefix:   signalPrefix,
	FormTmpl: "filter-form",
	BasePath: "/dashboard/filters",
}

// parseFilterSignals reads the dashboard filter signals into the core model.
func parseFilterSignals(signals humastar.Signals) service.FilterState {
	return service.FilterState{
		State:           signals.String(signalPrefix + "state"),
		District:        signals.String(signalPrefix + "district"),
		Village:         signals.String(signalPrefix + "village"),
		Category:        service.Category(signals.String(signalPrefix + "category")),
		Status:          service.Status(signals.String(signalPrefix + "status")),
		TribalCommunity: signals.String(signalPrefix + "tribal_community"),
		MinArea:         signals.Float(signalPrefix + "min_area"),
		MaxArea:         signals.Float(signalPrefix + "max_area"),
	}
}

// cascadeResetSignals patches the browser signals for the geography fields
// the cascade dropped, so the selects snap back to "all" in the UI.
func cascadeResetSignals(requested, applied service.FilterState) map[string]any {
	patch := map[string]any{}
	if requested.District != applied.District {
		patch[signalPrefix+"district"] = ""
	}
	if requested.Village != applied.Village {
		patch[signalPrefix+"village"] = ""
	}
	return patch
}

// resetFilterSignals returns every filter signal at its zero value.
func resetFilterSignals() map[string]any {
	return map[string]any{
		signalPrefix + "state":            "",
		signalPrefix + "district":         "",
		signalPrefix + "village":          "",
		signalPrefix + "category":         "",
		signalPrefix + "status":           "",
		signalPrefix + "tribal_community": "",
		signalPrefix + "min_area":         0,
		signalPrefix + "max_area":         0,
	}
}
