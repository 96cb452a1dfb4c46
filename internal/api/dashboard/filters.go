package dashboard

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/vanachitra/fra-atlas/internal/humastar"
	"github.com/vanachitra/fra-atlas/internal/metrics"
	"github.com/vanachitra/fra-atlas/internal/service"
	"github.com/vanachitra/fra-atlas/internal/templates"
)

// FiltersHandler drives the cascading filter panel: every apply recomputes
// the filtered view, statistics, legend, and render plan from scratch.
type FiltersHandler struct {
	humastar.Handler
	store   *service.Store
	styles  *service.StyleResolver
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewFiltersHandler(store *service.Store, styles *service.StyleResolver, renderer *templates.Renderer, m *metrics.Metrics, log *zap.Logger) *FiltersHandler {
	return &FiltersHandler{
		Handler: humastar.Handler{Renderer: renderer},
		store:   store,
		styles:  styles,
		metrics: m,
		log:     log,
	}
}

func (h *FiltersHandler) RegisterRoutes(api huma.API) {
	// Register the form model schema so the runtime form renderer finds it.
	api.OpenAPI().Components.Schemas.Schema(SchemaConfig.Type, true, SchemaConfig.Type.Name())

	huma.Get(api, "/dashboard/filters/options", h.Options, huma.OperationTags("dashboard"))
	huma.Post(api, "/dashboard/filters/apply", h.Apply, huma.OperationTags("dashboard"))
	huma.Post(api, "/dashboard/filters/clear", h.Clear, huma.OperationTags("dashboard"))
}

// Options patches every filter select with full-dataset option lists.
func (h *FiltersHandler) Options(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		h.patchSelects(sse, service.FilterState{}, true)
	}), nil
}

// Apply reads the filter signals, recomputes the view, and cascades the
// downstream geography options. Geography selections the browser carried
// over from a previous upstream choice reset to "all" rather than being
// applied against the new state.
func (h *FiltersHandler) Apply(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	requested := parseFilterSignals(signals)
	filters := service.CascadeFilters(h.store.All(), requested)

	return h.Stream(func(sse humastar.SSE) {
		if patch := cascadeResetSignals(requested, filters); len(patch) > 0 {
			sse.Signals(patch)
		}
		h.recompute(sse, filters)
		h.patchSelects(sse, filters, false)
	}), nil
}

// Clear resets every filter signal and restores the unfiltered view.
func (h *FiltersHandler) Clear(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		sse.Signals(resetFilterSignals())
		h.recompute(sse, service.FilterState{})
		h.patchSelects(sse, service.FilterState{}, true)
	}), nil
}

// recompute rebuilds statistics, legend, and the render plan for the given
// filters and pushes them to the page.
func (h *FiltersHandler) recompute(sse humastar.SSE, filters service.FilterState) {
	start := time.Now()
	all := h.store.All()
	filtered := service.Apply(all, filters)
	stats := service.Summarize(filtered)
	plan := service.BuildPlan(all, filters, h.styles)
	if h.metrics != nil {
		h.metrics.RecomputeTime.Observe(time.Since(start).Seconds())
	}
	h.log.Debug("dashboard recompute",
		zap.Int("features", stats.TotalFeatures),
		zap.Duration("elapsed", time.Since(start)))

	sub := &sseSubstrate{sse: sse, renderer: h.Renderer}
	sub.RemoveAllLayerGroups()
	sub.AddLayerGroup(plan)
	sub.FitBoundsTo(plan.Bounds)

	sse.Patch(h.renderStats(stats), "#stats-panel")
	sse.Patch(h.renderLegend(plan), "#legend")
	sse.Signals(map[string]any{"claimCount": stats.TotalFeatures, "error": ""})
}

// patchSelects refreshes the option lists. District and village narrow to
// the upstream selection; everything derives from the full dataset so
// clearing upstream restores full lists. includeState also refreshes the
// state, category, status, and tribal selects (initial load and clear).
func (h *FiltersHandler) patchSelects(sse humastar.SSE, filters service.FilterState, includeState bool) {
	all := h.store.All()
	opts := service.OptionsFor(all, filters.State, filters.District)

	sse.Patch(h.RenderSelect("All Districts", stringOptions(opts.Districts)), "#filter-district-select")
	sse.Patch(h.RenderSelect("All Villages", stringOptions(opts.Villages)), "#filter-village-select")

	if includeState {
		sse.Patch(h.RenderSelect("All States", stringOptions(opts.States)), "#filter-state-select")
		sse.Patch(h.RenderSelect("All Communities", stringOptions(opts.TribalCommunities)), "#filter-tribal-select")
		sse.Patch(h.RenderSelect("All Categories", categoryOptions(opts.Categories)), "#filter-category-select")
		sse.Patch(h.RenderSelect("All Statuses", statusOptions(opts.Statuses)), "#filter-status-select")
	}
}

type statRow struct {
	Label string
	Count int
}

type statsData struct {
	Total      int
	TotalArea  float64
	Categories []statRow
	Statuses   []statRow
}

func (h *FiltersHandler) renderStats(stats service.Statistics) string {
	data := statsData{Total: stats.TotalFeatures, TotalArea: stats.TotalAreaHectares}
	for _, c := range service.Categories {
		if n := stats.CountByCategory[c]; n > 0 {
			data.Categories = append(data.Categories, statRow{Label: c.Label(), Count: n})
		}
	}
	for _, s := range service.Statuses {
		if n := stats.CountByStatus[s]; n > 0 {
			data.Statuses = append(data.Statuses, statRow{Label: s.Label(), Count: n})
		}
	}
	if n := stats.CountByStatus[service.StatusUnknown]; n > 0 {
		data.Statuses = append(data.Statuses, statRow{Label: service.StatusUnknown.Label(), Count: n})
	}
	return h.Renderer.MustRender("stats-panel", data)
}

type legendEntry struct {
	Label  string
	Fill   string
	Stroke string
}

// renderLegend lists the plan's categories in draw order with their base
// colors.
func (h *FiltersHandler) renderLegend(plan service.RenderPlan) string {
	entries := make([]legendEntry, 0, len(plan.Groups))
	for _, g := range plan.Groups {
		base := h.styles.BaseStyle(g.Category)
		entries = append(entries, legendEntry{Label: g.Label, Fill: base.Fill, Stroke: base.Stroke})
	}
	return h.Renderer.MustRender("legend", entries)
}

func stringOptions(values []string) []humastar.SelectOptionData {
	opts := make([]humastar.SelectOptionData, 0, len(values))
	for _, v := range values {
		opts = append(opts, humastar.SelectOptionData{Value: v, Label: v})
	}
	return opts
}

func categoryOptions(categories []service.Category) []humastar.SelectOptionData {
	opts := make([]humastar.SelectOptionData, 0, len(categories))
	for _, c := range categories {
		opts = append(opts, humastar.SelectOptionData{Value: string(c), Label: c.Label()})
	}
	return opts
}

func statusOptions(statuses []service.Status) []humastar.SelectOptionData {
	opts := make([]humastar.SelectOptionData, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, humastar.SelectOptionData{Value: string(s), Label: s.Label()})
	}
	return opts
}
