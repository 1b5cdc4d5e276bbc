package shopify

// Product is the Shopify Admin REST representation of a product. The same
// struct serves as the create/update payload and the response body, so
// request-only and response-only fields are all omitempty.
type Product struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title,omitempty"`
	BodyHTML    string    `json:"body_html,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Handle      string    `json:"handle,omitempty"`
	Status      string    `json:"status,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	Images      []Image   `json:"images,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// Variant represents a product variant
type Variant struct {
	ID                  int64  `json:"id,omitempty"`
	ProductID           int64  `json:"product_id,omitempty"`
	Title               string `json:"title,omitempty"`
	Price               string `json:"price,omitempty"`
	CompareAtPrice      string `json:"compare_at_price,omitempty"`
	Sku                 string `json:"sku,omitempty"`
	Position            int    `json:"position,omitempty"`
	InventoryPolicy     string `json:"inventory_policy,omitempty"`
	FulfillmentService  string `json:"fulfillment_service,omitempty"`
	InventoryManagement string `json:"inventory_management,omitempty"`
	Option1             string `json:"option1,omitempty"`
	Option2             string `json:"option2,omitempty"`
	Option3             string `json:"option3,omitempty"`
	Taxable             *bool  `json:"taxable,omitempty"`
	Barcode             string `json:"barcode,omitempty"`
	Grams               int    `json:"grams,omitempty"`
	InventoryItemID     int64  `json:"inventory_item_id,omitempty"`
	InventoryQuantity   int    `json:"inventory_quantity,omitempty"`
	RequiresShipping    *bool  `json:"requires_shipping,omitempty"`
}

// Image represents a product image
type Image struct {
	ID        int64  `json:"id,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
	Position  int    `json:"position,omitempty"`
	Alt       string `json:"alt,omitempty"`
	Src       string `json:"src,omitempty"`
}

// Option represents a product option
type Option struct {
	ID        int64    `json:"id,omitempty"`
	ProductID int64    `json:"product_id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Position  int      `json:"position,omitempty"`
	Values    []string `json:"values,omitempty"`
}

// Location is an inventory location on the shop.
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Primary bool   `json:"primary"`
	Active  bool   `json:"active"`
}

// InventoryLevel is the available quantity of an inventory item at one
// location.
type InventoryLevel struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       int   `json:"available"`
}

// graphQLRequest is the envelope for Admin GraphQL calls.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// variantsBySKUResponse holds the slice of the GraphQL schema the SKU
// lookup needs.
type variantsBySKUResponse struct {
	Data struct {
		ProductVariants struct {
			Edges []struct {
				Node struct {
					Product struct {
						ID string `json:"id"`
					} `json:"product"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"productVariants"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
