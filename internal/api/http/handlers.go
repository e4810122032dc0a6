package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appcurator/internal/domain/catalog"
	"github.com/GriffinCanCode/appcurator/internal/domain/curator"
	"github.com/GriffinCanCode/appcurator/internal/domain/host"
	"github.com/GriffinCanCode/appcurator/internal/domain/preferences"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/appcurator/internal/shared/types"
	"github.com/GriffinCanCode/appcurator/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	host    *host.Host
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(h *host.Host, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{host: h, metrics: metrics, logger: logger}
}

// CategoryRequest selects the active category
type CategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "App Curator",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":   "healthy",
		"catalog":  h.host.Store().Stats(),
		"category": h.host.Curator().Category(),
	}
	if views := h.host.Curator().Views(); views != nil {
		resp["last_pass"] = gin.H{
			"pass_id":    views.PassID,
			"curated_at": views.CuratedAt,
		}
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// GetViews returns the last published view set
func (h *Handlers) GetViews(c *gin.Context) {
	views := h.host.Curator().Views()
	if views == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "views not ready"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetView returns one view: available, installed or upgradable.
// ?summary=true returns the compact record form.
func (h *Handlers) GetView(c *gin.Context) {
	views := h.host.Curator().Views()
	if views == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "views not ready"})
		return
	}

	var records []types.Record
	switch name := c.Param("view"); name {
	case "available":
		records = views.Available
	case "installed":
		records = views.Installed
	case "upgradable":
		records = views.Upgradable
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown view: " + name})
		return
	}

	resp := gin.H{
		"pass_id":  views.PassID,
		"category": views.Category,
		"count":    len(records),
	}
	if c.Query("summary") == "true" {
		summaries := make([]types.RecordSummary, len(records))
		for i := range records {
			summaries[i] = records[i].ToSummary()
		}
		resp["records"] = summaries
	} else {
		resp["records"] = records
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategories lists the categories and the active selection
func (h *Handlers) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.host.Categories(),
		"active":     h.host.Curator().Category(),
		"labels":     h.host.Labels(),
	})
}

// SetCategory selects the active category and re-curates
func (h *Handlers) SetCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.host.SetCategory(c.Request.Context(), req.Category)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, passResponse(result))
}

// GetPreferences returns the current preferences
func (h *Handlers) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"preferences":  h.host.Preferences().Get(),
		"defaults":     h.host.Preferences().Defaults(),
		"history_days": h.host.Preferences().Get().HistoryDays(),
		"locales":      types.Locales(),
	})
}

// UpdatePreferences applies a partial update. Effective changes re-curate.
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	var patch preferences.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no preference given"})
		return
	}

	prefs, changed, err := h.host.Preferences().Update(patch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"preferences": prefs, "changed": changed}
	if views := h.host.Curator().Views(); views != nil {
		resp["pass_id"] = views.PassID
	}
	c.JSON(http.StatusOK, resp)
}

// ResetPreferences restores the configured defaults
func (h *Handlers) ResetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"preferences": h.host.Preferences().Reset()})
}

// ReloadCatalog re-seeds the catalog from disk
func (h *Handlers) ReloadCatalog(c *gin.Context) {
	report, err := h.host.Reload(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"report": report, "total": h.host.Store().Len()}
	if views := h.host.Curator().Views(); views != nil {
		resp["pass_id"] = views.PassID
	}
	c.JSON(http.StatusOK, resp)
}

// ReloadStatus reports whether catalog reloads are currently accepted
func (h *Handlers) ReloadStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.host.ReloadStatus())
}

// CatalogStats returns catalog statistics
func (h *Handlers) CatalogStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.host.Store().Stats())
}

// ExportCatalog writes the catalog as an index document (?format=json|yaml|toml)
func (h *Handlers) ExportCatalog(c *gin.Context) {
	format := catalog.Format(c.DefaultQuery("format", string(catalog.FormatJSON)))

	data, err := catalog.Encode(h.host.Store().Snapshot(), format)
	if err != nil {
		h.respondError(c, err)
		return
	}

	etag := utils.ETag(data)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	contentType := map[catalog.Format]string{
		catalog.FormatJSON: "application/json",
		catalog.FormatYAML: "application/yaml",
		catalog.FormatTOML: "application/toml",
	}[format]
	c.Data(http.StatusOK, contentType, data)
}

// respondError maps domain errors to status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, curator.ErrUnknownCategory),
		errors.Is(err, preferences.ErrInvalidPreference),
		errors.Is(err, catalog.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrNoRoot):
		status = http.StatusConflict
	case errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, resilience.ErrTooManyRequests):
		status = http.StatusServiceUnavailable
	case errors.Is(err, curator.ErrInvariantViolation):
		h.logger.Error("Curation invariant violated", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func passResponse(result *curator.Result) gin.H {
	resp := gin.H{
		"pass_id":  result.PassID,
		"empty":    result.Empty,
		"duration": result.Duration.String(),
	}
	if result.Views != nil {
		resp["category"] = result.Views.Category
		resp["upgrade_count"] = result.Views.UpgradeCount
		resp["counts"] = gin.H{
			"available":  len(result.Views.Available),
			"installed":  len(result.Views.Installed),
			"upgradable": len(result.Views.Upgradable),
		}
	}
	return resp
}
