// Package fetch loads GeoJSON dataset sources into the feature store: remote
// URLs and local files, with single-flight dedupe, an optional Redis body
// cache, and keep-last-good semantics on failure.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vanachitra/fra-atlas/internal/config"
	"github.com/vanachitra/fra-atlas/internal/db"
	"github.com/vanachitra/fra-atlas/internal/metrics"
	"github.com/vanachitra/fra-atlas/internal/service"
)

// maxBodySize caps a single dataset download at 256 MiB.
const maxBodySize = 256 << 20

// Loader fetches configured sources into the store and keeps the DuckDB
// mirror current. Concurrent loads of one source collapse into a single
// origin request.
type Loader struct {
	sources []config.Source
	dataDir string

	store   *service.Store
	bus     *service.EventBus
	mirror  *db.Mirror
	metrics *metrics.Metrics
	log     *zap.Logger

	client *http.Client
	cache  *redis.Client
	ttl    time.Duration

	group singleflight.Group
}

// Options configures a Loader. Mirror, Cache, and Metrics are optional.
type Options struct {
	Sources []config.Source
	DataDir string
	Store   *service.Store
	Bus     *service.EventBus
	Mirror  *db.Mirror
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Client  *http.Client
	Cache   *redis.Client
	TTL     time.Duration
}

// NewLoader builds a Loader. When no sources are configured it discovers
// *.geojson files under the data directory instead.
func NewLoader(opts Options) *Loader {
	sources := opts.Sources
	if len(sources) == 0 {
		for _, local := range service.DiscoverLocalSources(opts.DataDir) {
			sources = append(sources, config.Source{
				Name: local.Name,
				File: filepath.Base(local.Path),
			})
		}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Loader{
		sources: sources,
		dataDir: opts.DataDir,
		store:   opts.Store,
		bus:     opts.Bus,
		mirror:  opts.Mirror,
		metrics: opts.Metrics,
		log:     log,
		client:  client,
		cache:   opts.Cache,
		ttl:     opts.TTL,
	}
}

// Sources returns the resolved source list.
func (l *Loader) Sources() []config.Source {
	return l.sources
}

// LoadAll loads every source, continuing past individual failures. The
// returned error joins per-source failures, if any.
func (l *Loader) LoadAll(ctx context.Context) error {
	var errs []error
	for _, src := range l.sources {
		if err := l.Load(ctx, src); err != nil {
			errs = append(errs, fmt.Errorf("source %s: %w", src.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Load fetches one source, normalizes it, and replaces its collection in the
// store. Concurrent calls for the same source share a single fetch. On
// failure the store keeps its last good data and a single failure event goes
// out on the bus.
func (l *Loader) Load(ctx context.Context, src config.Source) error {
	_, err, _ := l.group.Do(src.Name, func() (any, error) {
		return nil, l.load(ctx, src)
	})
	return err
}

func (l *Loader) load(ctx context.Context, src config.Source) error {
	start := time.Now()
	count, err := l.loadSource(ctx, src)
	elapsed := time.Since(start)

	if l.metrics != nil {
		l.metrics.FetchDuration.WithLabelValues(src.Name).Observe(elapsed.Seconds())
	}

	if err != nil {
		l.log.Warn("dataset fetch failed, keeping last good data",
			zap.String("source", src.Name), zap.Error(err))
		l.store.RecordFailure(src.Name, err)
		if l.metrics != nil {
			l.metrics.FetchTotal.WithLabelValues(src.Name, "failure").Inc()
		}
		if l.bus != nil {
			l.bus.Publish(service.Event{
				Source: src.Name,
				Action: service.ActionFetchFailed,
				Error:  err.Error(),
			})
		}
		return err
	}

	l.log.Info("dataset loaded",
		zap.String("source", src.Name),
		zap.Int("features", count),
		zap.Duration("elapsed", elapsed))
	if l.metrics != nil {
		l.metrics.FetchTotal.WithLabelValues(src.Name, "success").Inc()
		l.metrics.FeaturesLoaded.WithLabelValues(src.Name).Set(float64(count))
	}
	if l.bus != nil {
		l.bus.Publish(service.Event{
			Source: src.Name,
			Action: service.ActionReloaded,
			Count:  count,
		})
	}
	return nil
}

func (l *Loader) loadSource(ctx context.Context, src config.Source) (int, error) {
	body, err := l.fetchBody(ctx, src)
	if err != nil {
		return 0, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return 0, fmt.Errorf("parsing geojson: %w", err)
	}

	features := service.Normalize(fc)
	l.store.Replace(src.Name, features)

	if l.mirror != nil {
		if err := l.mirror.Reload(l.store.All()); err != nil {
			// The store is already current; a stale mirror only degrades
			// the SQL endpoint, so log and carry on.
			l.log.Warn("duckdb mirror reload failed", zap.Error(err))
		}
	}
	return len(features), nil
}

// fetchBody resolves a source to its raw bytes: local files read directly,
// remote URLs through the Redis cache when configured.
func (l *Loader) fetchBody(ctx context.Context, src config.Source) ([]byte, error) {
	if src.File != "" {
		body, err := os.ReadFile(filepath.Join(l.dataDir, src.File))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", src.File, err)
		}
		return body, nil
	}
	if src.URL == "" {
		return nil, fmt.Errorf("source %s has neither url nor file", src.Name)
	}

	cacheKey := "atlas:fetch:" + src.Name
	if l.cache != nil {
		if body, err := l.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			l.log.Debug("fetch cache hit", zap.String("source", src.Name))
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", src.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, cacheKey, body, l.ttl).Err(); err != nil {
			l.log.Debug("fetch cache set failed", zap.Error(err))
		}
	}
	return body, nil
}

// Run reloads all sources on the given interval until the context ends. A
// zero or negative interval disables refresh.
func (l *Loader) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.LoadAll(ctx); err != nil {
				l.log.Warn("scheduled refresh had failures", zap.Error(err))
			}
		}
	}
}
