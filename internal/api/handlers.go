package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dubaiprice/server/internal/database"
	"dubaiprice/server/internal/engine"
	"dubaiprice/server/internal/geo"
	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/reference"
)

// Handler exposes the prediction engine and its reference data over HTTP.
type Handler struct {
	engine  *engine.Engine
	store   *reference.Store
	db      *database.Database
	locator *geo.Locator
	logger  *logrus.Logger
}

// NewHandler creates the API handler. db may be nil when history
// persistence is disabled.
func NewHandler(eng *engine.Engine, store *reference.Store, db *database.Database, logger *logrus.Logger) *Handler {
	return &Handler{
		engine:  eng,
		store:   store,
		db:      db,
		locator: geo.NewLocator(logger),
		logger:  logger,
	}
}

// PredictionResponse decorates the engine result with formatted price
// strings. All rounding happens here, at the presentation edge.
type PredictionResponse struct {
	models.PredictionResult
	PredictedPriceFormatted string `json:"predicted_price_formatted"`
	PriceRangeFormatted     string `json:"price_range_formatted"`
}

type batchRequest struct {
	Properties []*models.PropertyRequest `json:"properties" binding:"required"`
}

type batchResponse struct {
	Predictions []batchItemResponse `json:"predictions"`
	Summary     models.BatchSummary `json:"summary"`
}

type batchItemResponse struct {
	Result *PredictionResponse `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func newPredictionResponse(result *models.PredictionResult) *PredictionResponse {
	return &PredictionResponse{
		PredictionResult:        *result,
		PredictedPriceFormatted: fmt.Sprintf("%s AED", formatPriceMillions(result.AdjustedPrice)),
		PriceRangeFormatted: fmt.Sprintf("%s - %s AED",
			formatPriceMillions(result.PriceRange.LowerBound),
			formatPriceMillions(result.PriceRange.UpperBound)),
	}
}

// formatPriceMillions renders a price as a compact string like "2.09M"
// or "750K".
func formatPriceMillions(price float64) string {
	switch {
	case price >= 1_000_000:
		millions := price / 1_000_000
		if millions >= 10 {
			return fmt.Sprintf("%.1fM", millions)
		}
		return fmt.Sprintf("%.2fM", millions)
	case price >= 1_000:
		return fmt.Sprintf("%.0fK", price/1_000)
	default:
		return fmt.Sprintf("%.0f", price)
	}
}

// Predict handles a single prediction request.
func (h *Handler) Predict(c *gin.Context) {
	var req models.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse prediction request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.engine.PredictOne(c.Request.Context(), &req)
	if err != nil {
		if models.IsStructural(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		return
	}

	c.JSON(http.StatusOK, newPredictionResponse(result))
}

// PredictBatch handles a batch of prediction requests. Items fail
// independently; the response carries per-item results or errors plus
// an aggregate summary over the successes.
func (h *Handler) PredictBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse batch request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	items, summary := h.engine.PredictBatch(c.Request.Context(), req.Properties)

	out := batchResponse{
		Predictions: make([]batchItemResponse, len(items)),
		Summary:     summary,
	}
	for i, item := range items {
		if item.Result != nil {
			out.Predictions[i] = batchItemResponse{Result: newPredictionResponse(item.Result)}
			continue
		}
		out.Predictions[i] = batchItemResponse{Error: item.Error}
	}

	c.JSON(http.StatusOK, out)
}

// GetAreas lists all known location areas.
func (h *Handler) GetAreas(c *gin.Context) {
	names := h.store.Current().AreaTiers.Names()
	c.JSON(http.StatusOK, gin.H{
		"total_areas": len(names),
		"areas":       names,
	})
}

// GetNearestArea resolves coordinates to the closest known area.
func (h *Handler) GetNearestArea(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	match, ok := h.locator.Nearest(h.store.Current().AreaTiers, lat, lon)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No area centroids configured"})
		return
	}
	c.JSON(http.StatusOK, match)
}

// GetPropertyTypes lists the known property subtypes.
func (h *Handler) GetPropertyTypes(c *gin.Context) {
	meta := h.store.Current().Metadata
	c.JSON(http.StatusOK, gin.H{
		"total_types":        len(meta.PropertySubtypes),
		"property_sub_types": meta.PropertySubtypes,
	})
}

// GetRegistrationTypes lists the known registration types.
func (h *Handler) GetRegistrationTypes(c *gin.Context) {
	meta := h.store.Current().Metadata
	c.JSON(http.StatusOK, gin.H{
		"total_types":        len(meta.RegistrationTypes),
		"registration_types": meta.RegistrationTypes,
	})
}

// GetValidationRules exposes the typical size ranges and subtype
// profiles used by the validator.
func (h *Handler) GetValidationRules(c *gin.Context) {
	tab := h.store.Current()
	c.JSON(http.StatusOK, gin.H{
		"size_ranges_by_bedroom": tab.SizeRanges.Ranges(),
		"description":            "Validation rules based on analysis of historical Dubai property transactions",
	})
}

// GetModelInfo returns the external model's metadata.
func (h *Handler) GetModelInfo(c *gin.Context) {
	meta := h.store.Current().Metadata
	c.JSON(http.StatusOK, gin.H{
		"model_type":                   meta.ModelType,
		"training_samples":             meta.TrainingSamples,
		"r2_score":                     meta.R2Score,
		"mae":                          meta.MAE,
		"available_areas":              meta.Areas,
		"available_property_subtypes":  meta.PropertySubtypes,
		"available_registration_types": meta.RegistrationTypes,
		"price_range": gin.H{
			"lower_bound": meta.PriceLowerBound,
			"upper_bound": meta.PriceUpperBound,
		},
	})
}

// GetHistory returns recent prediction records.
func (h *Handler) GetHistory(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "History persistence is disabled"})
		return
	}

	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	}

	records, err := h.db.GetRecentPredictions(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get prediction history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get prediction history"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetHistoryStats returns aggregate statistics over the history table.
func (h *Handler) GetHistoryStats(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "History persistence is disabled"})
		return
	}

	stats, err := h.db.GetHistoryStats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get history stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get history stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HealthCheck reports whether the service and its reference data are up.
func (h *Handler) HealthCheck(c *gin.Context) {
	tab := h.store.Current()
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"areas_loaded":    len(tab.AreaTiers.Names()),
		"size_buckets":    tab.SizeRanges.Buckets(),
		"history_enabled": h.db != nil,
		"model_type":      tab.Metadata.ModelType,
	})
}
