package curator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/appcurator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appcurator/internal/shared/id"
	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// EmptyCatalogHandler is the host hook consulted when a pass finds no
// records. It returns whether the host chose to refresh the catalog; the
// curator only records the answer.
type EmptyCatalogHandler interface {
	CatalogEmpty() bool
}

// PassConfig carries everything a pass needs, resolved by the host
// before the pass starts.
type PassConfig struct {
	Labels      types.Labels
	HistoryDays int
	Filter      Filter
	Host        EmptyCatalogHandler
	Now         time.Time // optional, for tests
}

// ViewSet is the immutable output of one successful pass
type ViewSet struct {
	PassID       id.PassID      `json:"pass_id"`
	Category     string         `json:"category"`
	Categories   []string       `json:"categories"`
	Available    []types.Record `json:"available"`
	Installed    []types.Record `json:"installed"`
	Upgradable   []types.Record `json:"upgradable"`
	UpgradeCount int            `json:"upgrade_count"`
	Cutoff       time.Time      `json:"cutoff"`
	CuratedAt    time.Time      `json:"curated_at"`
}

// Result describes how a pass ended
type Result struct {
	PassID        id.PassID
	Empty         bool // catalog was empty, no views were built
	HostRefreshed bool // host's answer to the empty-catalog signal
	Views         *ViewSet
	Duration      time.Duration
}

// Curator turns a catalog into the available/installed/upgradable views.
// Passes are serialized; the published ViewSet is swapped atomically.
type Curator struct {
	mu       sync.Mutex // serializes passes and guards category
	category string

	views atomic.Pointer[ViewSet]

	notifyMu    sync.Mutex // keeps event delivery in pass order
	subMu       sync.RWMutex
	subscribers map[uint64]func(Event)
	nextSub     uint64

	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// New creates a curator with no active category. The first pass selects
// What's New.
func New(logger *zap.Logger) *Curator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Curator{
		subscribers: make(map[uint64]func(Event)),
		logger:      logger,
	}
}

// WithMetrics adds metrics tracking to the curator
func (c *Curator) WithMetrics(metrics *monitoring.Metrics) *Curator {
	c.metrics = metrics
	return c
}

// SetCategory changes the active category. It takes effect on the next pass.
func (c *Curator) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = category
}

// Category returns the active category, empty before the first pass
func (c *Curator) Category() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// Views returns the last published view set, or nil before the first
// successful pass
func (c *Curator) Views() *ViewSet {
	return c.views.Load()
}

// Curate runs one full pass: resolve categories, classify, build views.
// Concurrent callers are queued; a failed pass publishes nothing.
func (c *Curator) Curate(ctx context.Context, catalog []types.Record, pass PassConfig) (*Result, error) {
	c.mu.Lock()
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	start := time.Now()
	now := pass.Now
	if now.IsZero() {
		now = start
	}
	passID := id.NewPassID()
	synthetic := NewSynthetic(pass.Labels)

	categories := ResolveCategories(catalog, pass.Labels)
	if c.category == "" {
		c.category = pass.Labels.WhatsNew
	}
	category := c.category

	if len(catalog) == 0 {
		refreshed := false
		if pass.Host != nil {
			refreshed = pass.Host.CatalogEmpty()
		}
		result := &Result{PassID: passID, Empty: true, HostRefreshed: refreshed, Duration: time.Since(start)}

		c.logger.Info("Catalog is empty, deferring to host",
			zap.String("pass_id", passID.String()),
			zap.Bool("host_refreshed", refreshed),
		)
		if c.metrics != nil {
			c.metrics.RecordEmptyCatalog(refreshed)
		}

		c.publish(Event{Type: EventCatalogEmpty, PassID: passID, HostRefreshed: refreshed})
		return result, nil
	}

	historyDays := pass.HistoryDays
	if historyDays < 0 {
		historyDays = DefaultHistoryDays
	}
	cutoff := Cutoff(now, historyDays)

	cls := Classify(catalog, category, synthetic, cutoff, pass.Filter)
	return c.finish(passState{
		id:         passID,
		start:      start,
		now:        now,
		category:   category,
		categories: categories,
		cutoff:     cutoff,
		synthetic:  synthetic,
		total:      len(catalog),
	}, cls)
}

// passState carries what a pass resolved before classification
type passState struct {
	id         id.PassID
	start, now time.Time
	category   string
	categories []string
	cutoff     time.Time
	synthetic  Synthetic
	total      int
}

// finish orders the candidates and publishes the outcome. It must be called
// with c.mu held and releases it.
func (c *Curator) finish(p passState, cls Classification) (*Result, error) {
	ordering := OrderingFor(p.category, p.synthetic)

	available, err := BuildAvailable(cls.Candidates, ordering)
	if err != nil {
		c.logger.Error("Curation pass failed",
			zap.String("pass_id", p.id.String()),
			zap.String("category", p.category),
			zap.Stringer("ordering", ordering),
			zap.Error(err),
		)
		if c.metrics != nil {
			c.metrics.RecordCurationError("invariant")
		}

		err = fmt.Errorf("curation pass %s: %w", p.id, err)
		c.publish(Event{Type: EventCurationFailed, PassID: p.id, Err: err})
		return nil, err
	}

	views := &ViewSet{
		PassID:       p.id,
		Category:     p.category,
		Categories:   p.categories,
		Available:    available,
		Installed:    cls.Installed,
		Upgradable:   cls.Upgradable,
		UpgradeCount: len(cls.Upgradable),
		Cutoff:       p.cutoff,
		CuratedAt:    p.now,
	}
	c.views.Store(views)

	duration := time.Since(p.start)
	c.logger.Debug("Updated lists",
		zap.String("pass_id", p.id.String()),
		zap.String("category", p.category),
		zap.Int("total", p.total),
		zap.Int("available", len(available)),
		zap.Int("installed", len(cls.Installed)),
		zap.Int("upgradable", len(cls.Upgradable)),
		zap.Duration("duration", duration),
	)
	if c.metrics != nil {
		c.metrics.RecordCurationPass(p.synthetic.Kind(p.category).String(), duration, len(available), len(cls.Installed), len(cls.Upgradable))
	}

	c.publish(Event{Type: EventViewsUpdated, PassID: p.id, Views: views})
	return &Result{PassID: p.id, Views: views, Duration: duration}, nil
}
