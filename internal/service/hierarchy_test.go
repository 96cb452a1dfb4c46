package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawOrder_FixedTotalOrder(t *testing.T) {
	got := DrawOrder([]Category{
		CategoryIndividualRights,
		CategoryStateBoundary,
		CategoryWaterBody,
		CategoryCommunityForestResource,
	})
	assert.Equal(t, []Category{
		CategoryStateBoundary,
		CategoryWaterBody,
		CategoryCommunityForestResource,
		CategoryIndividualRights,
	}, got)
}

// The order is a function of the present set only: permutations and
// duplicates of the input produce identical output.
func TestDrawOrder_IndependentOfInputOrder(t *testing.T) {
	inputs := [][]Category{
		{CategoryIndividualRights, CategoryWaterBody, CategoryDistrictBoundary},
		{CategoryDistrictBoundary, CategoryIndividualRights, CategoryWaterBody},
		{CategoryWaterBody, CategoryWaterBody, CategoryDistrictBoundary, CategoryIndividualRights},
	}
	want := DrawOrder(inputs[0])
	for _, in := range inputs[1:] {
		assert.Equal(t, want, DrawOrder(in))
	}
}

func TestDrawOrder_UnknownCategoryDrawsUnderClaims(t *testing.T) {
	got := DrawOrder([]Category{CategoryIndividualRights, Category("mystery"), CategoryVillageBoundary})
	assert.Equal(t, []Category{CategoryVillageBoundary, CategoryUnknown, CategoryIndividualRights}, got)
}

func TestDrawOrder_Empty(t *testing.T) {
	assert.Empty(t, DrawOrder(nil))
}

func TestPresentCategories(t *testing.T) {
	present := PresentCategories(fixtureFeatures())
	assert.ElementsMatch(t, []Category{
		CategoryIndividualRights, CategoryCommunityForestResource, CategoryWaterBody,
	}, present)
}
