package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vanachitra/fra-atlas/internal/config"
)

const sampleClaims = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [85.1, 21.9]},
			"properties": {
				"id": "od-1", "claim_type": "IFR", "status": "approved",
				"state": "Odisha", "district": "Mayurbhanj", "area_hectares": 2.5
			}
		}
	]
}`

const indexTemplate = `<!doctype html>
<html>
<body data-signals='{{.Page.Signals}}'>
{{.FilterForm}}
</body>
</html>`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "claims.geojson"), []byte(sampleClaims), 0o644))

	webDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte(indexTemplate), 0o644))

	s, err := New(Config{
		Host:    "localhost",
		Port:    "8080",
		DataDir: dataDir,
		WebDir:  webDir,
		Atlas:   config.Default(),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.LoadData(context.Background()))
	return s
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Values("Link"), "entry point carries hypermedia links")
}

func TestServer_ClaimsLoadedFromLocalDiscovery(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/claims")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"od-1"`)
	assert.Contains(t, string(body), `"individual_rights"`)
}

func TestServer_IndexRendersFormAndSignals(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "filtersstate", "signals JSON includes the filter signals")
	assert.Contains(t, string(body), "data-bind:filterscategory", "runtime form renders the enum select")
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "atlas_fetch_total")
}
