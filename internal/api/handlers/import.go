package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"esyncify/internal/api/middleware"
	"esyncify/internal/catalog"
	"esyncify/internal/events"
	"esyncify/internal/models"
	"esyncify/internal/store"
	"esyncify/internal/upsert"
	"esyncify/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ImportHandler struct {
	store     *store.Store
	engines   worker.EngineFactory
	publisher events.Emitter
	logger    zerolog.Logger
}

func NewImportHandler(st *store.Store, engines worker.EngineFactory, publisher events.Emitter, logger zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		store:     st,
		engines:   engines,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *ImportHandler) publish(c *gin.Context, event events.Event) {
	if h.publisher == nil {
		return
	}
	h.publisher.Publish(c.Request.Context(), event)
}

type createJobRequest struct {
	Count   int              `json:"count"`
	Options json.RawMessage  `json:"options"`
	Items   []map[string]any `json:"items"`
}

// Create accepts raw CSV/JSON rows, groups them into canonical products and
// queues a job with one PENDING import per product. The worker picks the
// job up on its next poll.
func (h *ImportHandler) Create(c *gin.Context) {
	shop := middleware.ShopFromContext(c)

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items provided for import."})
		return
	}

	opts, err := upsert.ParseOptions(string(req.Options))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid options: " + err.Error()})
		return
	}

	products := catalog.Normalize(req.Items, catalog.NormalizeOptions{Status: opts.Status})
	if len(products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No importable rows found (missing handles?)."})
		return
	}

	job, err := h.store.CreateJob(shop.Domain, len(products), string(req.Options))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	imports := make([]*models.Import, 0, len(products))
	for _, product := range products {
		data, err := json.Marshal(product)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serialize product"})
			return
		}
		imports = append(imports, &models.Import{
			ShopDomain:  shop.Domain,
			JobID:       &job.ID,
			Status:      models.ImportPending,
			ProductData: string(data),
			Title:       product.Title,
			SKU:         product.FirstSKU(),
		})
	}
	if err := h.store.CreateImports(imports); err != nil {
		h.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to create imports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create imports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job":     job,
		"imports": imports,
		"count":   len(products),
	})
}

type singleImportRequest struct {
	Item    *catalog.Product `json:"item"`
	Options upsert.Options   `json:"options"`
}

// Single synchronously reconciles one product ("process immediately" UX).
// It reuses the engine and applies the same job-counter contract as the
// worker, including the completion check.
func (h *ImportHandler) Single(c *gin.Context) {
	shop := middleware.ShopFromContext(c)

	if shop.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Offline access token not found. Cannot perform background tasks."})
		return
	}

	var req singleImportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Item == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing item or options"})
		return
	}

	engine := h.engines(shop.Domain, shop.AccessToken)
	result := engine.Upsert(c.Request.Context(), req.Item, req.Options)

	if req.Options.JobID != "" {
		if err := h.store.IncrementJobCounters(req.Options.JobID, result.Success); err != nil {
			h.logger.Error().Err(err).Str("job_id", req.Options.JobID).Msg("failed to update job counters")
		} else if done, err := h.store.CompleteJobIfDone(req.Options.JobID); err != nil {
			h.logger.Error().Err(err).Str("job_id", req.Options.JobID).Msg("failed to check job completion")
		} else if done {
			h.publish(c, events.Event{
				Type:       events.TypeJobCompleted,
				ShopDomain: shop.Domain,
				JobID:      req.Options.JobID,
			})
		}
	}

	var jobID *string
	if req.Options.JobID != "" {
		jobID = &req.Options.JobID
	}

	if result.Success {
		if err := h.store.IncrementSyncedCount(shop.Domain); err != nil {
			h.logger.Error().Err(err).Msg("failed to increment synced count")
		}

		productID := strconv.FormatInt(result.Data.ID, 10)
		record := &models.Import{
			ShopDomain:       shop.Domain,
			JobID:            jobID,
			Status:           models.ImportSuccess,
			ShopifyProductID: &productID,
			Title:            result.Data.Title,
			SKU:              firstRemoteSKU(result),
			Action:           result.Action,
		}
		if err := h.store.CreateImport(record); err != nil {
			h.logger.Error().Err(err).Msg("failed to record import")
		}

		h.publish(c, events.Event{
			Type:       events.TypeImportCompleted,
			ShopDomain: shop.Domain,
			JobID:      req.Options.JobID,
			ImportID:   record.ID,
			Data:       map[string]any{"success": true, "action": result.Action, "sku": result.SKU},
		})

		c.JSON(http.StatusOK, gin.H{"success": true, "import": record, "action": result.Action})
		return
	}

	record := &models.Import{
		ShopDomain: shop.Domain,
		JobID:      jobID,
		Status:     models.ImportFailed,
		Title:      req.Item.Title,
		SKU:        fallbackSKU(req.Item),
		Action:     models.ActionFailed,
		Error:      &result.Error,
	}
	if err := h.store.CreateImport(record); err != nil {
		h.logger.Error().Err(err).Msg("failed to record import failure")
	}

	h.publish(c, events.Event{
		Type:       events.TypeImportCompleted,
		ShopDomain: shop.Domain,
		JobID:      req.Options.JobID,
		ImportID:   record.ID,
		Data:       map[string]any{"success": false, "error": result.Error},
	})

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   result.Error,
		"import":  record,
	})
}

func firstRemoteSKU(result upsert.Result) string {
	if result.Data != nil && len(result.Data.Variants) > 0 && result.Data.Variants[0].Sku != "" {
		return result.Data.Variants[0].Sku
	}
	return "N/A"
}

func fallbackSKU(product *catalog.Product) string {
	if product.LegacyItemID != "" {
		return product.LegacyItemID
	}
	if product.EPID != "" {
		return product.EPID
	}
	if sku := product.FirstSKU(); sku != "" {
		return sku
	}
	return "N/A"
}
