package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyticsFixture() []Feature {
	return []Feature{
		{ID: "1", Category: CategoryIndividualRights, Status: StatusApproved, State: "Odisha", AreaHectares: 2,
			Extra: map[string]any{"tribal_community": "Santhal", "submission_date": "2024-03-10"}},
		{ID: "2", Category: CategoryCommunityForestResource, Status: StatusSubmitted, State: "Odisha", AreaHectares: 10,
			Extra: map[string]any{"tribal_community": "Santhal", "submission_date": "2024-03-22"}},
		{ID: "3", Category: CategoryIndividualRights, Status: StatusRejected, State: "Telangana", AreaHectares: 4,
			Extra: map[string]any{"tribal_community": "Gond", "submission_date": "2024-05-01"}},
		{ID: "4", Category: CategoryUnknown, Status: StatusUnderReview, State: "Telangana", AreaHectares: 8},
	}
}

func TestStateSummaries(t *testing.T) {
	got := StateSummaries(analyticsFixture())
	require.Len(t, got, 2)

	odisha := got[0]
	assert.Equal(t, "Odisha", odisha.State)
	assert.Equal(t, 2, odisha.TotalClaims)
	assert.Equal(t, 1, odisha.Approved)
	assert.Equal(t, 1, odisha.Pending)
	assert.InDelta(t, 12, odisha.AreaHectares, 1e-9)

	telangana := got[1]
	assert.Equal(t, "Telangana", telangana.State)
	assert.Equal(t, 2, telangana.TotalClaims)
	assert.Equal(t, 0, telangana.Approved)
	assert.Equal(t, 1, telangana.Pending, "under review counts as pending")
}

func TestTribalSummaries(t *testing.T) {
	got := TribalSummaries(analyticsFixture())
	require.Len(t, got, 2)
	assert.Equal(t, "Gond", got[0].Community)
	assert.Equal(t, 1, got[0].TotalClaims)
	assert.Equal(t, "Santhal", got[1].Community)
	assert.Equal(t, 2, got[1].TotalClaims)
	assert.Equal(t, 1, got[1].Approved)
}

func TestTimeline(t *testing.T) {
	got := Timeline(analyticsFixture())
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03", got[0].Month)
	assert.Equal(t, 2, got[0].Submitted)
	assert.Equal(t, 1, got[0].Approved)
	assert.Equal(t, "2024-05", got[1].Month)
	assert.Equal(t, 1, got[1].Submitted)
}

func TestPerformanceMetrics(t *testing.T) {
	p := PerformanceMetrics(analyticsFixture())
	assert.Equal(t, 4, p.TotalClaims)
	assert.Equal(t, 1, p.ApprovedClaims)
	assert.Equal(t, 2, p.PendingClaims, "submitted + under review")
	assert.Equal(t, 1, p.RejectedClaims)
	assert.InDelta(t, 25, p.ApprovalRate, 1e-9)
	assert.InDelta(t, 50, p.PendingRate, 1e-9)
	assert.InDelta(t, 24, p.TotalAreaHectares, 1e-9)
	// Average over claim categories only: (2+10+4)/3.
	assert.InDelta(t, 5.33, p.AverageClaimSize, 0.01)
}

func TestPerformanceMetrics_EmptyHasNoNaN(t *testing.T) {
	p := PerformanceMetrics(nil)
	assert.Zero(t, p.ApprovalRate)
	assert.Zero(t, p.PendingRate)
	assert.Zero(t, p.AverageClaimSize)
}
