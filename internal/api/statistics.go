package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vanachitra/fra-atlas/internal/service"
)

// RegisterStatistics registers the statistics and analytics routes.
func (h *APIHandler) RegisterStatistics(api huma.API) {
	huma.Get(api, "/api/v1/statistics", h.GetStatistics, huma.OperationTags("statistics"))
	huma.Get(api, "/api/v1/analytics/states", h.GetStateAnalytics, huma.OperationTags("statistics"))
	huma.Get(api, "/api/v1/analytics/tribal", h.GetTribalAnalytics, huma.OperationTags("statistics"))
	huma.Get(api, "/api/v1/analytics/timeline", h.GetTimeline, huma.OperationTags("statistics"))
	huma.Get(api, "/api/v1/analytics/performance", h.GetPerformance, huma.OperationTags("statistics"))
}

type StatisticsInput struct {
	FilterParams
}

type StatisticsOutput struct {
	Body service.Statistics
}

// GetStatistics returns the aggregate view of the filtered feature set.
func (h *APIHandler) GetStatistics(ctx context.Context, input *StatisticsInput) (*StatisticsOutput, error) {
	filtered := service.Apply(h.svc.Store.All(), h.filters(input.FilterParams))
	return &StatisticsOutput{Body: service.Summarize(filtered)}, nil
}

type StateAnalyticsBody struct {
	States []service.StateSummary `json:"states" doc:"Per-state claim summaries"`
}

func (h *APIHandler) GetStateAnalytics(ctx context.Context, input *struct{}) (*struct{ Body StateAnalyticsBody }, error) {
	return &struct{ Body StateAnalyticsBody }{Body: StateAnalyticsBody{
		States: service.StateSummaries(h.svc.Store.All()),
	}}, nil
}

type TribalAnalyticsBody struct {
	Communities []service.TribalSummary `json:"communities" doc:"Per-community claim summaries"`
}

func (h *APIHandler) GetTribalAnalytics(ctx context.Context, input *struct{}) (*struct{ Body TribalAnalyticsBody }, error) {
	return &struct{ Body TribalAnalyticsBody }{Body: TribalAnalyticsBody{
		Communities: service.TribalSummaries(h.svc.Store.All()),
	}}, nil
}

type TimelineBody struct {
	Timeline []service.TimelineBucket `json:"timeline" doc:"Monthly submission buckets, chronological"`
}

func (h *APIHandler) GetTimeline(ctx context.Context, input *struct{}) (*struct{ Body TimelineBody }, error) {
	return &struct{ Body TimelineBody }{Body: TimelineBody{
		Timeline: service.Timeline(h.svc.Store.All()),
	}}, nil
}

type PerformanceOutput struct {
	Body service.Performance
}

func (h *APIHandler) GetPerformance(ctx context.Context, input *struct{}) (*PerformanceOutput, error) {
	return &PerformanceOutput{Body: service.PerformanceMetrics(h.svc.Store.All())}, nil
}
