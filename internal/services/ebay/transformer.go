package ebay

import (
	"esyncify/internal/catalog"
)

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// ToCanonical converts a Browse API item summary to the canonical product
// the reconciliation engine consumes. The variant is synthesized later from
// the listing price and resolved SKU; here only identity and display
// fields are carried.
func (t *Transformer) ToCanonical(item *ItemSummary) *catalog.Product {
	product := &catalog.Product{
		Title:        item.Title,
		BodyHTML:     item.ShortDescription,
		LegacyItemID: item.LegacyItemID,
		EPID:         item.EPID,
		Condition:    item.Condition,
		Seller:       item.Seller.Username,
		Price:        item.Price.Value,
	}

	for _, c := range item.Categories {
		product.Categories = append(product.Categories, catalog.Category{
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
		})
	}

	seen := map[string]bool{}
	appendImage := func(src string) {
		if src == "" || seen[src] {
			return
		}
		seen[src] = true
		product.Images = append(product.Images, catalog.Image{Src: src})
	}
	appendImage(item.Image.ImageURL)
	for _, img := range item.AdditionalImages {
		appendImage(img.ImageURL)
	}

	return product
}
