package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReplaceWholesale(t *testing.T) {
	s := NewStore()
	s.Replace("claims", []Feature{{ID: "a"}, {ID: "b"}})
	assert.Equal(t, 2, s.Count())

	s.Replace("claims", []Feature{{ID: "c"}})
	assert.Equal(t, 1, s.Count())
	_, ok := s.Lookup("a")
	assert.False(t, ok, "old features are gone after a wholesale replace")
	_, ok = s.Lookup("c")
	assert.True(t, ok)
}

func TestStore_SnapshotStableAcrossReloadOrder(t *testing.T) {
	first := NewStore()
	first.Replace("assets", []Feature{{ID: "x"}})
	first.Replace("claims", []Feature{{ID: "y"}})

	second := NewStore()
	second.Replace("claims", []Feature{{ID: "y"}})
	second.Replace("assets", []Feature{{ID: "x"}})

	assert.Equal(t, first.All(), second.All())
}

func TestStore_FailureKeepsLastGoodData(t *testing.T) {
	s := NewStore()
	s.Replace("claims", []Feature{{ID: "a"}})
	s.RecordFailure("claims", errors.New("origin down"))

	assert.Equal(t, 1, s.Count(), "failed refresh never tears down a working view")

	datasets := s.Datasets()
	require.Len(t, datasets, 1)
	assert.Equal(t, "origin down", datasets[0].LastError)
	assert.Equal(t, 1, datasets[0].FeatureCount)

	s.Replace("claims", []Feature{{ID: "a"}, {ID: "b"}})
	assert.Empty(t, s.Datasets()[0].LastError, "a successful reload clears the error")
}

func TestStore_DatasetsSorted(t *testing.T) {
	s := NewStore()
	s.Replace("claims", nil)
	s.Replace("assets", nil)
	s.RecordFailure("boundaries", errors.New("404"))

	datasets := s.Datasets()
	require.Len(t, datasets, 3)
	assert.Equal(t, "assets", datasets[0].Source)
	assert.Equal(t, "boundaries", datasets[1].Source)
	assert.Equal(t, "claims", datasets[2].Source)
}
