package api

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterBoundaries registers the administrative boundary route.
func (h *APIHandler) RegisterBoundaries(api huma.API) {
	huma.Get(api, "/api/v1/boundaries/{state}", h.GetBoundaries, huma.OperationTags("boundaries"))
}

// GetBoundaries serves a state's boundary FeatureCollection from the data
// directory. The state → file mapping comes from config.
func (h *APIHandler) GetBoundaries(ctx context.Context, input *StateInput) (*GeoJSONOutput, error) {
	file, ok := h.svc.Boundaries[strings.ToLower(input.State)]
	if !ok {
		return nil, huma.Error404NotFound("no boundary file for state: " + input.State)
	}

	raw, err := os.ReadFile(filepath.Join(h.svc.DataDir, filepath.Base(file)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, huma.Error404NotFound("boundary file missing: " + file)
		}
		return nil, huma.Error500InternalServerError("reading boundary file", err)
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: raw}, nil
}
