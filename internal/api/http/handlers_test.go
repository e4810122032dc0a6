package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appcurator/internal/domain/catalog"
	"github.com/GriffinCanCode/appcurator/internal/domain/filter"
	"github.com/GriffinCanCode/appcurator/internal/domain/host"
	"github.com/GriffinCanCode/appcurator/internal/domain/preferences"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

func records() []types.Record {
	recent := time.Now().AddDate(0, 0, -2)
	old := time.Now().AddDate(0, 0, -60)
	v := "2.1"
	return []types.Record{
		{ID: "chess", Name: "Chess", Category: "Games", Added: &recent, InstalledVersion: &v, HasUpdates: true},
		{ID: "writer", Name: "Writer", Category: "Office", Added: &old},
		{ID: "tracker", Name: "Tracker", Category: "Games", Added: &recent, AntiFeatures: []string{"Tracking"}},
	}
}

type fixture struct {
	router *gin.Engine
	host   *host.Host
}

func setup(t *testing.T, seeder host.Seeder, store *catalog.Store) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if store == nil {
		store = catalog.NewStore()
		require.NoError(t, store.Replace(records()))
	}
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	h := host.New(host.Options{
		Store:       store,
		Seeder:      seeder,
		Preferences: preferences.NewStore(preferences.Preferences{UpdateHistoryDays: "14", Locale: "en"}),
		Device:      filter.Device{SDKLevel: 34, ABIs: []string{"arm64-v8a"}},
		Metrics:     metrics,
		Logger:      zap.NewNop(),
	})
	_, err := h.Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(h.Stop)

	router := gin.New()
	NewHandlers(h, metrics, zap.NewNop()).Register(router)
	return &fixture{router: router, host: h}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestRootAndHealth(t *testing.T) {
	f := setup(t, nil, nil)

	w, body := f.do(t, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", body["status"])

	w, body = f.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "last_pass")
	assert.Contains(t, body, "metrics")
}

func TestGetViews(t *testing.T) {
	f := setup(t, nil, nil)

	w, body := f.do(t, "GET", "/views", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "What's New", body["category"])
	assert.Len(t, body["available"], 1)
	assert.Equal(t, float64(1), body["upgrade_count"])

	w, body = f.do(t, "GET", "/views/installed?summary=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, _ = f.do(t, "GET", "/views/everything", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetViewsBeforeFirstPass(t *testing.T) {
	f := setup(t, nil, catalog.NewStore())

	w, _ := f.do(t, "GET", "/views", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = f.do(t, "GET", "/views/available", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCategories(t *testing.T) {
	f := setup(t, nil, nil)

	w, body := f.do(t, "GET", "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"All", "What's New", "Recently Updated", "Games", "Office"}, body["categories"])
	assert.Equal(t, "What's New", body["active"])

	w, body = f.do(t, "PUT", "/category", CategoryRequest{Category: "Office"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Office", body["category"])
	assert.Equal(t, map[string]any{"available": float64(1), "installed": float64(1), "upgradable": float64(1)}, body["counts"])

	w, _ = f.do(t, "PUT", "/category", CategoryRequest{Category: "Unknown"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, "PUT", "/category", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreferences(t *testing.T) {
	f := setup(t, nil, nil)

	w, body := f.do(t, "GET", "/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(14), body["history_days"])

	w, body = f.do(t, "PUT", "/preferences", map[string]any{"ignore_anti_features": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["changed"])
	assert.Len(t, f.host.Curator().Views().Available, 2)

	w, _ = f.do(t, "PUT", "/preferences", map[string]any{"locale": "klingon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, "PUT", "/preferences", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, "DELETE", "/preferences", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, f.host.Curator().Views().Available, 1)
}

func TestPreferencesHiddenIDs(t *testing.T) {
	f := setup(t, nil, nil)
	require.Len(t, f.host.Curator().Views().Available, 1)

	w, body := f.do(t, "PUT", "/preferences", map[string]any{"hidden_ids": []string{"chess"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["changed"])
	views := f.host.Curator().Views()
	assert.Empty(t, views.Available)
	assert.Len(t, views.Installed, 1)

	w, _ = f.do(t, "PUT", "/preferences", map[string]any{"hidden_ids": []string{"bad id!"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = f.do(t, "PUT", "/preferences", map[string]any{"hidden_ids": []string{}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["changed"])
	assert.Len(t, f.host.Curator().Views().Available, 1)
}

func TestCatalogReload(t *testing.T) {
	w, _ := setup(t, nil, nil).do(t, "POST", "/catalog/reload", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.json"),
		[]byte(`[{"id": "fresh", "category": "Tools"}]`), 0o644))

	store := catalog.NewStore()
	seeder, err := catalog.NewSeeder(store, root, "", zap.NewNop())
	require.NoError(t, err)
	f := setup(t, seeder, store)

	w, body := f.do(t, "POST", "/catalog/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])
	assert.Contains(t, body, "pass_id")
	assert.Contains(t, f.host.Categories(), "Tools")
}

func TestCatalogReloadBreaker(t *testing.T) {
	store := catalog.NewStore()
	seeder, err := catalog.NewSeeder(store, t.TempDir(), "", zap.NewNop())
	require.NoError(t, err)
	f := setup(t, seeder, store)

	w, body := f.do(t, "GET", "/catalog/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "closed", body["state"])
	assert.Equal(t, "catalog-reload", body["name"])
}

func TestCatalogStatsAndExport(t *testing.T) {
	f := setup(t, nil, nil)

	w, body := f.do(t, "GET", "/catalog/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["total_records"])
	assert.Equal(t, float64(1), body["upgradable"])

	w, _ = f.do(t, "GET", "/catalog/export?format=yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	exported, err := catalog.Decode(w.Body.Bytes(), catalog.FormatYAML)
	require.NoError(t, err)
	assert.Len(t, exported, 3)

	w, _ = f.do(t, "GET", "/catalog/export?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportETag(t *testing.T) {
	f := setup(t, nil, nil)

	w, _ := f.do(t, "GET", "/catalog/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest("GET", "/catalog/export", nil)
	req.Header.Set("If-None-Match", etag)
	cached := httptest.NewRecorder()
	f.router.ServeHTTP(cached, req)
	assert.Equal(t, http.StatusNotModified, cached.Code)
	assert.Empty(t, cached.Body.Bytes())

	f.host.Store().Remove("writer")
	w, _ = f.do(t, "GET", "/catalog/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, etag, w.Header().Get("ETag"))
}
