package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const apiVersion = "2025-01"

// Client is a per-shop Admin API client. It performs no retries; callers
// decide their own retry policy.
type Client struct {
	// BaseURL is derived from the shop domain and may be overridden in tests.
	BaseURL     string
	accessToken string
	httpClient  *http.Client
	logger      zerolog.Logger
}

func NewClient(shopDomain, accessToken string, logger zerolog.Logger) *Client {
	return &Client{
		BaseURL:     fmt.Sprintf("https://%s/admin/api/%s", shopDomain, apiVersion),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) newRequest(method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// FindProductIDBySKU queries the Admin GraphQL API for a product owning a
// variant with exactly this SKU. Returns 0 when no product matches. SKUs
// are unique by merchant convention, not enforced by Shopify, so ties are
// broken by first result.
func (c *Client) FindProductIDBySKU(sku string) (int64, error) {
	query := graphQLRequest{
		Query: `
			query productVariants($query: String!) {
				productVariants(first: 1, query: $query) {
					edges {
						node {
							product {
								id
							}
						}
					}
				}
			}
		`,
		Variables: map[string]any{
			"query": fmt.Sprintf("sku:%s", sku),
		},
	}

	req, err := c.newRequest("POST", "/graphql.json", query)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var result variantsBySKUResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Errors) > 0 {
		return 0, fmt.Errorf("graphql error: %s", result.Errors[0].Message)
	}

	edges := result.Data.ProductVariants.Edges
	if len(edges) == 0 {
		return 0, nil
	}

	gid := edges[0].Node.Product.ID
	if gid == "" {
		return 0, nil
	}

	// gid://shopify/Product/123 -> 123
	parts := strings.Split(gid, "/")
	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected product gid %q: %w", gid, err)
	}
	return id, nil
}

// CreateProduct creates a product in Shopify
func (c *Client) CreateProduct(product *Product) (*Product, error) {
	payload := struct {
		Product *Product `json:"product"`
	}{Product: product}

	req, err := c.newRequest("POST", "/products.json", payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var productResp struct {
		Product Product `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &productResp.Product, nil
}

// UpdateProduct updates an existing product in Shopify
func (c *Client) UpdateProduct(productID int64, product *Product) (*Product, error) {
	payload := struct {
		Product *Product `json:"product"`
	}{Product: product}

	req, err := c.newRequest("PUT", fmt.Sprintf("/products/%d.json", productID), payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var productResp struct {
		Product Product `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &productResp.Product, nil
}

// AddImage attaches an image to a product by source URL.
func (c *Client) AddImage(productID int64, image *Image) (*Image, error) {
	payload := struct {
		Image *Image `json:"image"`
	}{Image: image}

	req, err := c.newRequest("POST", fmt.Sprintf("/products/%d/images.json", productID), payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var imageResp struct {
		Image Image `json:"image"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&imageResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &imageResp.Image, nil
}

// ListLocations fetches the shop's inventory locations.
func (c *Client) ListLocations() ([]Location, error) {
	req, err := c.newRequest("GET", "/locations.json", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var locationsResp struct {
		Locations []Location `json:"locations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&locationsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return locationsResp.Locations, nil
}

// SetInventoryLevel sets the available quantity for an inventory item at a
// location. There is no combined endpoint at product creation time, so the
// caller looks up the location first.
func (c *Client) SetInventoryLevel(locationID, inventoryItemID int64, available int) (*InventoryLevel, error) {
	payload := map[string]any{
		"location_id":       locationID,
		"inventory_item_id": inventoryItemID,
		"available":         available,
	}

	req, err := c.newRequest("POST", "/inventory_levels/set.json", payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var levelResp struct {
		InventoryLevel InventoryLevel `json:"inventory_level"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&levelResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &levelResp.InventoryLevel, nil
}
