package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"esyncify/internal/api/middleware"
	"esyncify/internal/models"
	"esyncify/internal/services/ebay"
	"esyncify/internal/store"
	"esyncify/internal/upsert"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type EbayHandler struct {
	store         *store.Store
	ebay          *ebay.Client
	transformer   *ebay.Transformer
	fetchQuota    int
	fetchPageSize int
	logger        zerolog.Logger
}

func NewEbayHandler(st *store.Store, client *ebay.Client, fetchQuota, fetchPageSize int, logger zerolog.Logger) *EbayHandler {
	return &EbayHandler{
		store:         st,
		ebay:          client,
		transformer:   ebay.NewTransformer(),
		fetchQuota:    fetchQuota,
		fetchPageSize: fetchPageSize,
		logger:        logger,
	}
}

type enqueueRequest struct {
	Options upsert.Options `json:"options"`
}

// Enqueue pulls the shop's configured seller listings from eBay, converts
// them to canonical products and queues a job for the worker. The job's
// options are made authoritative here: defaults are filled in before they
// are serialized onto the record.
func (h *EbayHandler) Enqueue(c *gin.Context) {
	shop := middleware.ShopFromContext(c)

	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if shop.EbaySellerUsername == "" || shop.Categories == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shop is not configured for import."})
		return
	}

	opts := req.Options
	if opts.SyncStrategy == "" {
		opts.SyncStrategy = "ALL"
	}
	if opts.SortOrder == "" {
		opts.SortOrder = "-creationDate"
	}

	quota := shop.NumEbayProducts
	if quota <= 0 {
		quota = h.fetchQuota
	}

	items, err := h.ebay.SearchSellerItems(ebay.SearchParams{
		SellerUsername: shop.EbaySellerUsername,
		CategoryIDs:    splitCategories(shop.Categories),
		SortOrder:      opts.SortOrder,
		Quota:          quota,
		PageSize:       h.fetchPageSize,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch seller items")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch items from eBay."})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No items found on eBay for the selected categories and seller."})
		return
	}

	optionsJSON, err := json.Marshal(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serialize options"})
		return
	}

	job, err := h.store.CreateJob(shop.Domain, len(items), string(optionsJSON))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	imports := make([]*models.Import, 0, len(items))
	for i := range items {
		product := h.transformer.ToCanonical(&items[i])
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
			SKU:         product.LegacyItemID,
		})
	}
	if err := h.store.CreateImports(imports); err != nil {
		h.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to create imports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create imports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "job": job, "count": len(imports)})
}

// Preview fetches one sample listing for the shop's configured seller so
// the merchant can sanity-check settings before a full import.
func (h *EbayHandler) Preview(c *gin.Context) {
	shop := middleware.ShopFromContext(c)

	if shop.EbaySellerUsername == "" || shop.Categories == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing eBay seller username or selected categories. Please configure them in settings.",
		})
		return
	}

	items, err := h.ebay.SearchSellerItems(ebay.SearchParams{
		SellerUsername: shop.EbaySellerUsername,
		CategoryIDs:    splitCategories(shop.Categories),
		Quota:          1,
		PageSize:       1,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("ebay preview failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch items from eBay."})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No items found on eBay for the selected categories and seller. Please check your settings or eBay listings.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sampleItem": items[0]})
}

type validateSellerRequest struct {
	EbaySellerUsername string `json:"ebaySellerUsername"`
}

// ValidateSeller probes the primary category taxonomy for the given seller
// and reports where their listings live and how many there are.
func (h *EbayHandler) ValidateSeller(c *gin.Context) {
	var req validateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := strings.TrimSpace(req.EbaySellerUsername)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ebaySellerUsername"})
		return
	}

	totals, err := h.ebay.GetTotalsForUsername(username)
	if err != nil {
		h.logger.Error().Err(err).Str("seller", username).Msg("seller validation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to validate seller on eBay."})
		return
	}

	c.JSON(http.StatusOK, totals)
}

func splitCategories(categories string) []string {
	parts := strings.Split(categories, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
