package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil)
	assert.Zero(t, stats.TotalFeatures)
	assert.Zero(t, stats.TotalAreaHectares)
	assert.Empty(t, stats.CountByCategory)
	assert.Empty(t, stats.CountByStatus)
}

// Category and status counts are independent breakdowns of the same set:
// each must sum to the total.
func TestSummarize_CountInvariant(t *testing.T) {
	for _, features := range [][]Feature{
		fixtureFeatures(),
		fixtureFeatures()[:1],
		Apply(fixtureFeatures(), FilterState{State: "Odisha"}),
	} {
		stats := Summarize(features)
		assert.Equal(t, len(features), stats.TotalFeatures)

		catSum := 0
		for _, n := range stats.CountByCategory {
			catSum += n
		}
		statusSum := 0
		for _, n := range stats.CountByStatus {
			statusSum += n
		}
		assert.Equal(t, stats.TotalFeatures, catSum)
		assert.Equal(t, stats.TotalFeatures, statusSum)
	}
}

// The three-record scenario: an IFR claim, a CFR claim, and a water body.
func TestSummarize_ScenarioDataset(t *testing.T) {
	features := Normalize(collectionOf(
		rawFeature(map[string]interface{}{"claim_type": "IFR", "status": "approved", "area_hectares": 2.5}),
		rawFeature(map[string]interface{}{"claim_type": "CFR", "status": "pending", "area_hectares": 15.8}),
		rawFeature(map[string]interface{}{"fra_type": "Water Body"}),
	))
	require.Len(t, features, 3)

	filtered := Apply(features, FilterState{Category: CategoryIndividualRights})
	require.Len(t, filtered, 1)
	assert.Equal(t, CategoryIndividualRights, filtered[0].Category)

	stats := Summarize(features)
	assert.Equal(t, 3, stats.TotalFeatures)
	assert.InDelta(t, 18.3, stats.TotalAreaHectares, 1e-9)
	assert.Equal(t, 1, stats.CountByCategory[CategoryIndividualRights])
	assert.Equal(t, 1, stats.CountByCategory[CategoryCommunityForestResource])
	assert.Equal(t, 1, stats.CountByCategory[CategoryWaterBody])
	assert.Equal(t, 1, stats.CountByStatus[StatusApproved])
	assert.Equal(t, 1, stats.CountByStatus[StatusPending])
	assert.Equal(t, 1, stats.CountByStatus[StatusUnknown])
}
