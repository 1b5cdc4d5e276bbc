package ebay

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultQuota    = 250
	defaultPageSize = 200
	// Courtesy delay between successive Browse API calls.
	pageDelay = 250 * time.Millisecond
)

// Client talks to the eBay Browse API with client-credentials auth.
type Client struct {
	// BaseURL and AuthURL may be overridden in tests.
	BaseURL      string
	AuthURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       zerolog.Logger
}

func NewClient(clientID, clientSecret string, logger zerolog.Logger) *Client {
	return &Client{
		BaseURL:      "https://api.ebay.com/buy/browse/v1",
		AuthURL:      "https://api.ebay.com/identity/v1/oauth2/token",
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// GetToken mints an application access token via the client-credentials
// grant.
func (c *Client) GetToken() (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("ebay API credentials are not configured")
	}

	body := strings.NewReader("grant_type=client_credentials&scope=https://api.ebay.com/oauth/api_scope")
	req, err := http.NewRequest("POST", c.AuthURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(errBody))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return token.AccessToken, nil
}

// SearchParams controls a paginated seller item fetch.
type SearchParams struct {
	SellerUsername string
	CategoryIDs    []string
	SortOrder      string
	// Quota caps the overall number of items returned across categories.
	Quota int
	// PageSize is the per-request limit, capped by the API at 200.
	PageSize int
}

// SearchSellerItems pages through item_summary/search for each category
// until the quota is reached or the category is exhausted. A failing
// category is skipped, not fatal.
func (c *Client) SearchSellerItems(params SearchParams) ([]ItemSummary, error) {
	token, err := c.GetToken()
	if err != nil {
		return nil, err
	}

	quota := params.Quota
	if quota <= 0 {
		quota = defaultQuota
	}
	pageSize := params.PageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	sortOrder := params.SortOrder
	if sortOrder == "" {
		sortOrder = "-creationDate"
	}

	var allItems []ItemSummary

	for _, categoryID := range params.CategoryIDs {
		if len(allItems) >= quota {
			break
		}

		offset := 0
		totalForCategory := 0

		for {
			query := url.Values{}
			query.Set("category_ids", categoryID)
			query.Set("fieldgroups", "EXTENDED")
			query.Set("filter", fmt.Sprintf("sellers:{%s}", params.SellerUsername))
			query.Set("sort", sortOrder)
			query.Set("limit", strconv.Itoa(pageSize))
			query.Set("offset", strconv.Itoa(offset))

			data, err := c.search(token, query)
			if err != nil {
				c.logger.Error().Err(err).Str("category_id", categoryID).Msg("ebay search failed, skipping category")
				break
			}

			for i := range data.ItemSummaries {
				if len(allItems) >= quota {
					break
				}
				allItems = append(allItems, data.ItemSummaries[i])
			}

			totalForCategory = data.Total
			offset += pageSize

			if len(allItems) >= quota || offset >= totalForCategory {
				break
			}

			time.Sleep(pageDelay)
		}
	}

	return allItems, nil
}

// GetTotalsForUsername probes every primary category for the seller and
// aggregates listing totals. Used to validate a seller before any import is
// configured.
func (c *Client) GetTotalsForUsername(sellerUsername string) (*SellerTotals, error) {
	token, err := c.GetToken()
	if err != nil {
		return nil, err
	}

	totals := &SellerTotals{CategoryIDs: []string{}}

	for _, category := range PrimaryCategories {
		query := url.Values{}
		query.Set("q", "a")
		query.Set("category_ids", category.ID)
		query.Set("filter", fmt.Sprintf("sellers:{%s}", sellerUsername))
		query.Set("limit", "1")

		data, err := c.search(token, query)
		if err != nil {
			c.logger.Error().Err(err).Str("category_id", category.ID).Msg("ebay totals probe failed, skipping category")
			continue
		}

		if totals.SampleItem == nil && len(data.ItemSummaries) > 0 {
			totals.SampleItem = &data.ItemSummaries[0]
		}

		if data.Total > 0 {
			totals.TotalFound += data.Total
			totals.CategoryIDs = append(totals.CategoryIDs, category.ID)
		}

		time.Sleep(pageDelay)
	}

	return totals, nil
}

// GetItem fetches a single listing by its legacy item id.
func (c *Client) GetItem(legacyItemID string) (*ItemSummary, error) {
	if legacyItemID == "" {
		return nil, fmt.Errorf("item id is required")
	}

	token, err := c.GetToken()
	if err != nil {
		return nil, err
	}

	// Legacy ids take this form for the Browse API getItem method.
	itemID := fmt.Sprintf("v1|%s|0", legacyItemID)

	req, err := http.NewRequest("GET", c.BaseURL+"/item/"+url.PathEscape(itemID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(errBody))
	}

	var item ItemSummary
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &item, nil
}

func (c *Client) search(token string, query url.Values) (*SearchResponse, error) {
	req, err := http.NewRequest("GET", c.BaseURL+"/item_summary/search?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(errBody))
	}

	var data SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(data.Warnings) > 0 {
		c.logger.Warn().Interface("warnings", data.Warnings).Msg("ebay API returned warnings")
	}

	return &data, nil
}
