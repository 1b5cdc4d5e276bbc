package handlers

import (
	"net/http"
	"strings"

	"esyncify/internal/api/middleware"
	"esyncify/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type SettingsHandler struct {
	store  *store.Store
	logger zerolog.Logger
}

func NewSettingsHandler(st *store.Store, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{store: st, logger: logger}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	shop := middleware.ShopFromContext(c)
	c.JSON(http.StatusOK, gin.H{"settings": shop})
}

type updateSettingsRequest struct {
	EbaySellerUsername *string  `json:"ebaySellerUsername"`
	Categories         []string `json:"categories"`
	NumEbayProducts    *int     `json:"numEbayProducts"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	shop := middleware.ShopFromContext(c)

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.EbaySellerUsername != nil {
		shop.EbaySellerUsername = strings.TrimSpace(*req.EbaySellerUsername)
	}
	if req.Categories != nil {
		shop.Categories = strings.Join(req.Categories, ",")
	}
	if req.NumEbayProducts != nil {
		shop.NumEbayProducts = *req.NumEbayProducts
	}

	if err := h.store.SaveShop(shop); err != nil {
		h.logger.Error().Err(err).Msg("failed to save settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "settings": shop})
}
