package host

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/appcurator/internal/domain/catalog"
	"github.com/GriffinCanCode/appcurator/internal/domain/curator"
	"github.com/GriffinCanCode/appcurator/internal/domain/filter"
	"github.com/GriffinCanCode/appcurator/internal/domain/preferences"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// Seeder reloads the catalog from its source
type Seeder interface {
	Seed(ctx context.Context) (catalog.Report, error)
}

// Options configures a Host
type Options struct {
	Store          *catalog.Store
	Seeder         Seeder              // optional
	Breaker        *resilience.Breaker // guards Seeder; nil uses DefaultSettings
	Preferences    *preferences.Store
	Curator        *curator.Curator
	Device         filter.Device
	RefreshOnEmpty bool
	Metrics        *monitoring.Metrics
	Logger         *zap.Logger
}

// Host owns the catalog, the preferences and the curator, and decides when
// a pass runs: on catalog change, preference change and category change.
type Host struct {
	store   *catalog.Store
	seeder  Seeder
	breaker *resilience.Breaker
	prefs   *preferences.Store
	curator *curator.Curator
	device  filter.Device
	metrics *monitoring.Metrics
	logger  *zap.Logger

	refreshOnEmpty bool

	mu        sync.Mutex
	ctx       context.Context
	labels    types.Labels
	reloading bool // an empty-catalog reload is in flight or was tried
	stopped   bool
	reloads   sync.WaitGroup
	detach    []func()
}

// New creates a host. Call Start to begin reacting to changes.
func New(opts Options) *Host {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cur := opts.Curator
	if cur == nil {
		cur = curator.New(logger.Named("curator"))
	}
	store := opts.Store
	if store == nil {
		store = catalog.NewStore()
	}
	prefs := opts.Preferences
	if prefs == nil {
		prefs = preferences.NewStore(preferences.Preferences{})
	}

	breaker := opts.Breaker
	if breaker == nil {
		breaker = resilience.New("catalog-reload", resilience.DefaultSettings())
	}

	return &Host{
		store:          store,
		seeder:         opts.Seeder,
		breaker:        breaker,
		prefs:          prefs,
		curator:        cur,
		device:         opts.Device,
		metrics:        opts.Metrics,
		logger:         logger,
		refreshOnEmpty: opts.RefreshOnEmpty,
		ctx:            context.Background(),
		labels:         types.LabelsFor(prefs.Get().Locale),
	}
}

// Start hooks the host to catalog and preference changes and runs the
// first pass. Starting a started host re-attaches once.
func (h *Host) Start(ctx context.Context) (*curator.Result, error) {
	h.mu.Lock()
	previous := h.detach
	h.ctx = ctx
	h.stopped = false
	h.detach = []func(){
		h.store.OnChange(h.onCatalogChange),
		h.prefs.OnChange(h.onPreferencesChange),
	}
	h.mu.Unlock()

	for _, fn := range previous {
		fn()
	}
	return h.Refresh(ctx)
}

// Stop detaches from catalog and preference changes and waits for pending
// reloads. No reload starts after Stop.
func (h *Host) Stop() {
	h.mu.Lock()
	h.stopped = true
	detach := h.detach
	h.detach = nil
	h.mu.Unlock()

	for _, fn := range detach {
		fn()
	}
	h.reloads.Wait()
}

func (h *Host) running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.stopped
}

// Curator returns the curator driven by this host
func (h *Host) Curator() *curator.Curator {
	return h.curator
}

// Store returns the catalog store
func (h *Host) Store() *catalog.Store {
	return h.store
}

// Preferences returns the preference store
func (h *Host) Preferences() *preferences.Store {
	return h.prefs
}

// Labels returns the synthetic labels of the current locale
func (h *Host) Labels() types.Labels {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.labels
}

// PassConfig resolves the current preferences into a pass configuration
func (h *Host) PassConfig() curator.PassConfig {
	prefs := h.prefs.Get()
	compat := filter.New(h.device, filter.Options{
		ShowIncompatible:   prefs.ShowIncompatible,
		IgnoreAntiFeatures: prefs.IgnoreAntiFeatures,
		Query:              prefs.Query,
	})

	return curator.PassConfig{
		Labels:      h.Labels(),
		HistoryDays: prefs.HistoryDays(),
		Filter:      filter.All(compat, filter.IDs(prefs.HiddenIDs...)),
		Host:        h,
	}
}

// Refresh runs a pass over the current catalog
func (h *Host) Refresh(ctx context.Context) (*curator.Result, error) {
	records := h.store.Snapshot()
	if h.metrics != nil {
		h.metrics.SetCatalogRecords(len(records))
	}

	result, err := h.curator.Curate(ctx, records, h.PassConfig())
	if err != nil {
		h.logger.Error("Refresh failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// Categories returns the category list for the current catalog and locale
func (h *Host) Categories() []string {
	return curator.ResolveCategories(h.store.Snapshot(), h.Labels())
}

// SetCategory selects a category and re-curates. Unknown categories are
// rejected.
func (h *Host) SetCategory(ctx context.Context, category string) (*curator.Result, error) {
	if !slices.Contains(h.Categories(), category) {
		return nil, fmt.Errorf("%w: %q", curator.ErrUnknownCategory, category)
	}
	h.curator.SetCategory(category)
	return h.Refresh(ctx)
}

// Reload re-seeds the catalog from its source. The resulting catalog change
// triggers a pass. Repeated failures open the reload breaker and further
// reloads fail with resilience.ErrCircuitOpen until its cooldown passes.
func (h *Host) Reload(ctx context.Context) (catalog.Report, error) {
	if h.seeder == nil {
		return catalog.Report{}, catalog.ErrNoRoot
	}
	return resilience.Do(ctx, h.breaker, h.seeder.Seed)
}

// ReloadStatus reports the state of the reload breaker
func (h *Host) ReloadStatus() resilience.Snapshot {
	return h.breaker.Snapshot()
}

// CatalogEmpty implements curator.EmptyCatalogHandler. It runs while a pass
// is in progress, so the reload happens on its own goroutine and its pass
// queues behind the current one. Only one reload is attempted until the
// catalog is populated again.
func (h *Host) CatalogEmpty() bool {
	if !h.refreshOnEmpty || h.seeder == nil {
		return false
	}

	h.mu.Lock()
	if h.reloading || h.stopped {
		h.mu.Unlock()
		return false
	}
	h.reloading = true
	ctx := h.ctx
	h.reloads.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.reloads.Done()
		report, err := h.Reload(ctx)
		if err != nil {
			h.logger.Warn("Catalog reload failed", zap.Error(err))
			return
		}
		h.logger.Info("Catalog reloaded after empty pass", zap.Int("records", report.Records))
	}()
	return true
}

func (h *Host) onCatalogChange(change catalog.Change) {
	if !h.running() {
		return
	}
	h.mu.Lock()
	if change.Total > 0 {
		h.reloading = false
	}
	ctx := h.ctx
	h.mu.Unlock()

	h.logger.Debug("Catalog changed", zap.String("kind", string(change.Kind)), zap.Int("total", change.Total))
	_, _ = h.Refresh(ctx)
}

func (h *Host) onPreferencesChange(prefs preferences.Preferences) {
	if !h.running() {
		return
	}
	h.mu.Lock()
	old := h.labels
	h.labels = types.LabelsFor(prefs.Locale)
	next := h.labels
	ctx := h.ctx
	h.mu.Unlock()

	// keep a synthetic selection synthetic across a locale switch
	if old != next {
		switch curator.NewSynthetic(old).Kind(h.curator.Category()) {
		case curator.KindAll:
			h.curator.SetCategory(next.All)
		case curator.KindWhatsNew:
			h.curator.SetCategory(next.WhatsNew)
		case curator.KindRecentlyUpdated:
			h.curator.SetCategory(next.RecentlyUpdated)
		}
	}

	_, _ = h.Refresh(ctx)
}
