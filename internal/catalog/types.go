package catalog

// Product is the canonical, handle-grouped representation of one catalog
// item. It is built either by the row normalizer (CSV/JSON uploads) or by
// the eBay transformer, stored verbatim on an Import record, and consumed
// by the reconciliation engine. Field tags follow the Shopify REST wire
// names so stored product data stays self-describing.
type Product struct {
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	Status      string    `json:"status,omitempty"`
	GiftCard    bool      `json:"gift_card,omitempty"`
	Variants    []Variant `json:"variants"`
	Options     []Option  `json:"options,omitempty"`
	Images      []Image   `json:"images,omitempty"`

	// Marketplace source identifiers, present when the product came from an
	// eBay listing rather than an uploaded row set.
	LegacyItemID string     `json:"legacyItemId,omitempty"`
	EPID         string     `json:"epid,omitempty"`
	Condition    string     `json:"condition,omitempty"`
	Categories   []Category `json:"categories,omitempty"`
	Seller       string     `json:"seller,omitempty"`
	Price        string     `json:"price,omitempty"`
}

// Variant uniqueness within a product is the (Option1, Option2, Option3)
// triple; the normalizer drops later duplicates.
type Variant struct {
	Price               string `json:"price,omitempty"`
	CompareAtPrice      string `json:"compare_at_price,omitempty"`
	SKU                 string `json:"sku,omitempty"`
	Grams               int    `json:"grams,omitempty"`
	InventoryManagement string `json:"inventory_management,omitempty"`
	InventoryQty        int    `json:"inventory_qty,omitempty"`
	InventoryPolicy     string `json:"inventory_policy,omitempty"`
	FulfillmentService  string `json:"fulfillment_service,omitempty"`
	RequiresShipping    bool   `json:"requires_shipping"`
	Taxable             bool   `json:"taxable"`
	Barcode             string `json:"barcode,omitempty"`
	Option1             string `json:"option1,omitempty"`
	Option2             string `json:"option2,omitempty"`
	Option3             string `json:"option3,omitempty"`
	Image               string `json:"image,omitempty"`
}

type Option struct {
	Name string `json:"name"`
}

// Image is unique by Src within a product. Position is unset when the
// source row omitted it or it failed to parse.
type Image struct {
	Src      string `json:"src"`
	Alt      string `json:"alt,omitempty"`
	Position *int   `json:"position,omitempty"`
}

type Category struct {
	CategoryID   string `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// FirstSKU returns the first variant SKU, used as the fallback sync key for
// products that carry no marketplace identifier.
func (p *Product) FirstSKU() string {
	for _, v := range p.Variants {
		if v.SKU != "" {
			return v.SKU
		}
	}
	return ""
}
