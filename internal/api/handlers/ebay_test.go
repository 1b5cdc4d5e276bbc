package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"esyncify/internal/api/middleware"
	"esyncify/internal/database"
	"esyncify/internal/models"
	"esyncify/internal/services/ebay"
	"esyncify/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newEbayRouter(t *testing.T, search http.HandlerFunc, fetchQuota, fetchPageSize int) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "app-token"})
	})
	mux.HandleFunc("GET /item_summary/search", search)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := ebay.NewClient("id", "secret", zerolog.Nop())
	client.BaseURL = server.URL
	client.AuthURL = server.URL + "/token"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.CreateTables(db))
	st := store.New(db)

	handler := NewEbayHandler(st, client, fetchQuota, fetchPageSize, zerolog.Nop())
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.ShopAuth(st))
	api.POST("/imports/enqueue", handler.Enqueue)
	return router, st
}

func seedEbayShop(t *testing.T, st *store.Store) {
	t.Helper()
	require.NoError(t, st.SaveShop(&models.Shop{
		Domain:             "shop.myshopify.com",
		AccessToken:        "shpat_test",
		EbaySellerUsername: "camera-shop",
		Categories:         "625",
	}))
}

func TestEnqueueQueuesListings(t *testing.T) {
	var seenLimit string
	router, st := newEbayRouter(t, func(w http.ResponseWriter, r *http.Request) {
		seenLimit = r.URL.Query().Get("limit")
		json.NewEncoder(w).Encode(ebay.SearchResponse{
			Total: 2,
			ItemSummaries: []ebay.ItemSummary{
				{LegacyItemID: "111", Title: "Camera A"},
				{LegacyItemID: "222", Title: "Camera B"},
			},
		})
	}, 250, 50)
	seedEbayShop(t, st)

	w := doRequest(router, http.MethodPost, "/api/v1/imports/enqueue", "shop.myshopify.com", gin.H{
		"options": gin.H{},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The configured fetch page size reaches the Browse API query.
	assert.Equal(t, "50", seenLimit)

	var resp struct {
		Success bool       `json:"success"`
		Job     models.Job `json:"job"`
		Count   int        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, models.JobQueued, resp.Job.Status)

	imports, err := st.ImportsForJob(resp.Job.ID)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	skus := []string{imports[0].SKU, imports[1].SKU}
	assert.ElementsMatch(t, []string{"111", "222"}, skus)
	assert.Equal(t, models.ImportPending, imports[0].Status)
}

func TestEnqueueRejectsUnconfiguredShop(t *testing.T) {
	router, st := newEbayRouter(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ebay.SearchResponse{})
	}, 250, 200)
	require.NoError(t, st.SaveShop(&models.Shop{
		Domain:      "shop.myshopify.com",
		AccessToken: "shpat_test",
	}))

	w := doRequest(router, http.MethodPost, "/api/v1/imports/enqueue", "shop.myshopify.com", gin.H{
		"options": gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Shop is not configured for import.")
}
