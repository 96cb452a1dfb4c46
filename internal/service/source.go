package service

import (
	"os"
	"path/filepath"
	"strings"
)

// LocalSource is a GeoJSON file discovered under the data directory, used as
// a dataset source when no remote sources are configured.
type LocalSource struct {
	Name string `json:"name" doc:"Source name (file name without extension)"`
	Path string `json:"path" doc:"File path under the data directory"`
}

// DiscoverLocalSources lists the *.geojson files directly under dir. A
// missing directory is an empty result, not an error: a fresh checkout
// simply starts with no data.
func DiscoverLocalSources(dir string) []LocalSource {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var sources []LocalSource
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".geojson" && ext != ".json" {
			continue
		}
		sources = append(sources, LocalSource{
			Name: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	return sources
}
