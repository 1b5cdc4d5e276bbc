package ebay

// ItemSummary is the slice of the Browse API item representation this
// service consumes.
type ItemSummary struct {
	ItemID           string        `json:"itemId"`
	LegacyItemID     string        `json:"legacyItemId"`
	EPID             string        `json:"epid"`
	Title            string        `json:"title"`
	ShortDescription string        `json:"shortDescription"`
	Price            Money         `json:"price"`
	Image            ImageRef      `json:"image"`
	AdditionalImages []ImageRef    `json:"additionalImages"`
	Condition        string        `json:"condition"`
	Categories       []CategoryRef `json:"categories"`
	Seller           SellerRef     `json:"seller"`
}

type Money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type ImageRef struct {
	ImageURL string `json:"imageUrl"`
}

type CategoryRef struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

type SellerRef struct {
	Username string `json:"username"`
}

// SearchResponse is the Browse API item_summary/search envelope.
type SearchResponse struct {
	Total         int           `json:"total"`
	ItemSummaries []ItemSummary `json:"itemSummaries"`
	Warnings      []Warning     `json:"warnings"`
}

type Warning struct {
	ErrorID int64  `json:"errorId"`
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// SellerTotals aggregates listing counts for one seller across the primary
// category taxonomy.
type SellerTotals struct {
	CategoryIDs []string     `json:"categoryIds"`
	TotalFound  int          `json:"totalFound"`
	SampleItem  *ItemSummary `json:"sampleItem,omitempty"`
}
