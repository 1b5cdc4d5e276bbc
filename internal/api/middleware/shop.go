package middleware

import (
	"net/http"

	"esyncify/internal/models"
	"esyncify/internal/store"

	"github.com/gin-gonic/gin"
)

const shopContextKey = "shop"

// ShopAuth resolves the current shop from the X-Shop-Domain header. The
// session/token exchange producing that header lives outside this service;
// here an unknown or missing domain is simply unauthorized.
func ShopAuth(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := c.GetHeader("X-Shop-Domain")
		if domain == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed."})
			return
		}

		shop, err := st.GetShop(domain)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shop"})
			return
		}
		if shop == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed."})
			return
		}

		c.Set(shopContextKey, shop)
		c.Next()
	}
}

// ShopFromContext returns the shop resolved by ShopAuth.
func ShopFromContext(c *gin.Context) *models.Shop {
	if v, ok := c.Get(shopContextKey); ok {
		if shop, ok := v.(*models.Shop); ok {
			return shop
		}
	}
	return nil
}
