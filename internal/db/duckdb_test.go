package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanachitra/fra-atlas/internal/service"
)

func newTestMirror(t *testing.T) *Mirror {
	t.Helper()
	conn, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	m, err := NewMirror(conn)
	require.NoError(t, err)
	return m
}

func sampleFeatures() []service.Feature {
	return []service.Feature{
		{ID: "od-1", Category: service.CategoryIndividualRights, Status: service.StatusApproved,
			State: "Odisha", District: "Mayurbhanj", AreaHectares: 2.5,
			Extra: map[string]any{"tribal_community": "Santhal"}},
		{ID: "od-2", Category: service.CategoryCommunityForestResource, Status: service.StatusPending,
			State: "Odisha", District: "Koraput", AreaHectares: 15.8},
		{ID: "tg-1", Category: service.CategoryWaterBody, Status: service.StatusUnknown,
			State: "Telangana", District: "Adilabad"},
	}
}

func TestMirror_ReloadMatchesFeatureCount(t *testing.T) {
	m := newTestMirror(t)

	require.NoError(t, m.Reload(sampleFeatures()))
	n, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// A second reload replaces, never appends.
	require.NoError(t, m.Reload(sampleFeatures()[:1]))
	n, err = m.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMirror_QueryableColumns(t *testing.T) {
	m := newTestMirror(t)
	require.NoError(t, m.Reload(sampleFeatures()))

	var area float64
	err := m.DB().QueryRow(
		"SELECT SUM(area_hectares) FROM claims WHERE state = ?", "Odisha").Scan(&area)
	require.NoError(t, err)
	assert.InDelta(t, 18.3, area, 0.001)

	var community string
	err = m.DB().QueryRow(
		"SELECT tribal_community FROM claims WHERE id = ?", "od-1").Scan(&community)
	require.NoError(t, err)
	assert.Equal(t, "Santhal", community)
}

func TestMirror_Tables(t *testing.T) {
	m := newTestMirror(t)
	tables, err := m.Tables()
	require.NoError(t, err)
	assert.Contains(t, tables, "claims")
}

func TestReadOnly(t *testing.T) {
	cases := []struct {
		query string
		ok    bool
	}{
		{"SELECT * FROM claims", true},
		{"  select count(*) from claims", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"SHOW TABLES", true},
		{"DESCRIBE claims", true},
		{"DROP TABLE claims", false},
		{"INSERT INTO claims VALUES (1)", false},
		{"UPDATE claims SET state = 'X'", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, ReadOnly(tc.query), "query: %q", tc.query)
	}
}
