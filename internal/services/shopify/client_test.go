package shopify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookupServer(t *testing.T, gid string, errMessage string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql.json", r.URL.Path)
		assert.Equal(t, "secret-token", r.Header.Get("X-Shopify-Access-Token"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sku:CAM-111", req.Variables["query"])

		if errMessage != "" {
			json.NewEncoder(w).Encode(map[string]any{
				"errors": []map[string]any{{"message": errMessage}},
			})
			return
		}

		edges := []map[string]any{}
		if gid != "" {
			edges = append(edges, map[string]any{
				"node": map[string]any{"product": map[string]any{"id": gid}},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"productVariants": map[string]any{"edges": edges},
			},
		})
	}))
	t.Cleanup(server.Close)

	client := NewClient("test.myshopify.com", "secret-token", zerolog.Nop())
	client.BaseURL = server.URL
	return client
}

func TestFindProductIDBySKU(t *testing.T) {
	client := newLookupServer(t, "gid://shopify/Product/632910392", "")
	id, err := client.FindProductIDBySKU("CAM-111")
	require.NoError(t, err)
	assert.EqualValues(t, 632910392, id)
}

func TestFindProductIDBySKUNotFound(t *testing.T) {
	client := newLookupServer(t, "", "")
	id, err := client.FindProductIDBySKU("CAM-111")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestFindProductIDBySKUGraphQLError(t *testing.T) {
	client := newLookupServer(t, "", "Throttled")
	_, err := client.FindProductIDBySKU("CAM-111")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestFindProductIDBySKUBadGID(t *testing.T) {
	client := newLookupServer(t, "gid://shopify/Product/not-a-number", "")
	_, err := client.FindProductIDBySKU("CAM-111")
	require.Error(t, err)
}
