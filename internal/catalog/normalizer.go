package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeOptions configures row normalization.
type NormalizeOptions struct {
	// Status assigned to every grouped product. Defaults to "active".
	Status string
}

// Normalize groups flat, loosely-keyed rows (CSV exports or JSON arrays)
// into canonical products. Rows sharing a handle merge into one product in
// first-seen handle order. Rows with no resolvable handle are skipped.
// Pure transformation: no I/O.
func Normalize(rows []map[string]any, opts NormalizeOptions) []*Product {
	status := opts.Status
	if status == "" {
		status = "active"
	}

	groups := make(map[string]*Product)
	var order []string

	for _, row := range rows {
		clean := cleanRow(row)

		handle := clean["handle"]
		if handle == "" {
			continue
		}

		product, ok := groups[handle]
		if !ok {
			// First row for this handle seeds the scalar fields.
			product = &Product{
				Title:       clean["title"],
				BodyHTML:    clean["bodyhtml"],
				Vendor:      clean["vendor"],
				ProductType: clean["type"],
				Tags:        clean["tags"],
				Status:      status,
				GiftCard:    parseBool(clean["giftcard"], false),
				Variants:    []Variant{},
			}
			groups[handle] = product
			order = append(order, handle)
		}

		// A row contributes a variant when it carries an option value or a
		// price; rows without either still fold metadata (e.g. images) in.
		opt1 := clean["option1value"]
		if opt1 != "" || clean["variantprice"] != "" {
			variant := Variant{
				Price:               clean["variantprice"],
				CompareAtPrice:      clean["variantcompareatprice"],
				SKU:                 clean["variantsku"],
				Grams:               parseInt(clean["variantgrams"]),
				InventoryManagement: defaultStr(clean["variantinventorytracker"], "shopify"),
				InventoryQty:        parseInt(clean["variantinventoryqty"]),
				InventoryPolicy:     defaultStr(clean["variantinventorypolicy"], "deny"),
				FulfillmentService:  defaultStr(clean["variantfulfillmentservice"], "manual"),
				RequiresShipping:    parseBool(clean["variantrequiresshipping"], true),
				Taxable:             parseBool(clean["varianttaxable"], true),
				Barcode:             clean["variantbarcode"],
				Option1:             opt1,
				Option2:             clean["option2value"],
				Option3:             clean["option3value"],
				Image:               clean["variantimage"],
			}

			// Simple dedupe: first row for an option triple wins, later rows
			// with the same triple are dropped without merging fields.
			exists := false
			for _, v := range product.Variants {
				if v.Option1 == variant.Option1 && v.Option2 == variant.Option2 && v.Option3 == variant.Option3 {
					exists = true
					break
				}
			}
			if !exists {
				product.Variants = append(product.Variants, variant)
			}

			// Option names are captured once, from whichever variant row first
			// supplies them. "Title" is Shopify's placeholder for single-variant
			// products and is suppressed.
			if len(product.Options) == 0 {
				if name := clean["option1name"]; name != "" && name != "Title" {
					product.Options = append(product.Options, Option{Name: name})
				}
				if name := clean["option2name"]; name != "" {
					product.Options = append(product.Options, Option{Name: name})
				}
				if name := clean["option3name"]; name != "" {
					product.Options = append(product.Options, Option{Name: name})
				}
			}
		}

		if src := clean["imagesrc"]; src != "" {
			exists := false
			for _, img := range product.Images {
				if img.Src == src {
					exists = true
					break
				}
			}
			if !exists {
				product.Images = append(product.Images, Image{
					Src:      src,
					Alt:      clean["imagealttext"],
					Position: parsePosition(clean["imageposition"]),
				})
			}
		}
	}

	products := make([]*Product, 0, len(order))
	for _, handle := range order {
		products = append(products, groups[handle])
	}
	return products
}

// cleanRow lowercases every key and strips non-alphanumerics so
// heterogeneous header spellings collapse: "Body (HTML)" -> "bodyhtml",
// "Variant SKU" -> "variantsku". Unknown keys are carried but ignored.
func cleanRow(row map[string]any) map[string]string {
	clean := make(map[string]string, len(row))
	for key, value := range row {
		normalized := normalizeKey(key)
		if normalized == "" {
			continue
		}
		// Keep the first non-empty value when two headers collapse to the
		// same normalized key.
		if clean[normalized] == "" {
			clean[normalized] = stringify(value)
		}
	}
	return clean
}

func normalizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; render integers without a fraction.
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parsePosition(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return nil
	}
	return &n
}
