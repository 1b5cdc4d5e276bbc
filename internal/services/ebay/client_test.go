package ebay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeEbay(t *testing.T, search http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), "Basic ")
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "app-token", ExpiresIn: 7200})
	})
	mux.HandleFunc("GET /item_summary/search", search)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("client-id", "client-secret", zerolog.Nop())
	client.BaseURL = server.URL
	client.AuthURL = server.URL + "/token"
	return client
}

func TestGetTokenRequiresCredentials(t *testing.T) {
	client := NewClient("", "", zerolog.Nop())
	_, err := client.GetToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials are not configured")
}

func TestSearchSellerItemsSingleCategory(t *testing.T) {
	client := newFakeEbay(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
		assert.Equal(t, "625", r.URL.Query().Get("category_ids"))
		assert.Equal(t, "sellers:{camera-shop}", r.URL.Query().Get("filter"))
		json.NewEncoder(w).Encode(SearchResponse{
			Total: 2,
			ItemSummaries: []ItemSummary{
				{ItemID: "v1|111|0", LegacyItemID: "111", Title: "Camera A"},
				{ItemID: "v1|222|0", LegacyItemID: "222", Title: "Camera B"},
			},
		})
	})

	items, err := client.SearchSellerItems(SearchParams{
		SellerUsername: "camera-shop",
		CategoryIDs:    []string{"625"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "111", items[0].LegacyItemID)
}

func TestSearchSellerItemsHonorsQuota(t *testing.T) {
	client := newFakeEbay(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SearchResponse{
			Total: 500,
			ItemSummaries: []ItemSummary{
				{LegacyItemID: "1"}, {LegacyItemID: "2"}, {LegacyItemID: "3"},
			},
		})
	})

	items, err := client.SearchSellerItems(SearchParams{
		SellerUsername: "camera-shop",
		CategoryIDs:    []string{"625", "293"},
		Quota:          2,
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSearchSellerItemsSkipsFailingCategory(t *testing.T) {
	client := newFakeEbay(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category_ids") == "broken" {
			http.Error(w, `{"errors":[{"message":"bad category"}]}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(SearchResponse{
			Total:         1,
			ItemSummaries: []ItemSummary{{LegacyItemID: "1"}},
		})
	})

	items, err := client.SearchSellerItems(SearchParams{
		SellerUsername: "camera-shop",
		CategoryIDs:    []string{"broken", "625"},
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGetItemRequiresID(t *testing.T) {
	client := NewClient("id", "secret", zerolog.Nop())
	_, err := client.GetItem("")
	require.Error(t, err)
}

func TestGetItemUsesLegacyIDFormat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "app-token"})
	})
	mux.HandleFunc("GET /item/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/item/v1|12345|0", r.URL.Path)
		json.NewEncoder(w).Encode(ItemSummary{LegacyItemID: "12345", Title: "Camera"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient("id", "secret", zerolog.Nop())
	client.BaseURL = server.URL
	client.AuthURL = server.URL + "/token"

	item, err := client.GetItem("12345")
	require.NoError(t, err)
	assert.Equal(t, "Camera", item.Title)
}

func TestToCanonical(t *testing.T) {
	item := &ItemSummary{
		Title:            "Vintage Camera",
		ShortDescription: "Works great.",
		LegacyItemID:     "111",
		EPID:             "epid-1",
		Condition:        "Used",
		Price:            Money{Value: "149.99", Currency: "USD"},
		Seller:           SellerRef{Username: "camera-shop"},
		Categories: []CategoryRef{
			{CategoryID: "625", CategoryName: "Cameras & Photo"},
		},
		Image: ImageRef{ImageURL: "https://img.example.com/main.jpg"},
		AdditionalImages: []ImageRef{
			{ImageURL: "https://img.example.com/main.jpg"},
			{ImageURL: "https://img.example.com/side.jpg"},
			{ImageURL: ""},
		},
	}

	product := NewTransformer().ToCanonical(item)
	assert.Equal(t, "Vintage Camera", product.Title)
	assert.Equal(t, "Works great.", product.BodyHTML)
	assert.Equal(t, "111", product.LegacyItemID)
	assert.Equal(t, "epid-1", product.EPID)
	assert.Equal(t, "Used", product.Condition)
	assert.Equal(t, "camera-shop", product.Seller)
	assert.Equal(t, "149.99", product.Price)
	require.Len(t, product.Categories, 1)
	assert.Equal(t, "Cameras & Photo", product.Categories[0].CategoryName)
	// Duplicates and empty sources are dropped.
	require.Len(t, product.Images, 2)
	assert.Equal(t, "https://img.example.com/main.jpg", product.Images[0].Src)
	assert.Equal(t, "https://img.example.com/side.jpg", product.Images[1].Src)
}
