package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGroupsRowsByHandle(t *testing.T) {
	rows := []map[string]any{
		{
			"Handle":        "running-shoe",
			"Title":         "Running Shoe",
			"Body (HTML)":   "<p>Fast.</p>",
			"Vendor":        "Acme",
			"Type":          "Footwear",
			"Tags":          "shoes, running",
			"Option1 Name":  "Size",
			"Option1 Value": "9",
			"Variant SKU":   "SHOE-9",
			"Variant Price": "59.99",
			"Image Src":     "https://cdn.example.com/shoe.jpg",
		},
		{
			"Handle":        "running-shoe",
			"Option1 Value": "10",
			"Variant SKU":   "SHOE-10",
			"Variant Price": "59.99",
			"Image Src":     "https://cdn.example.com/shoe.jpg",
		},
		{
			"Handle":        "plain-sock",
			"Title":         "Plain Sock",
			"Option1 Name":  "Title",
			"Option1 Value": "Default Title",
			"Variant Price": "4.50",
		},
	}

	products := Normalize(rows, NormalizeOptions{})
	require.Len(t, products, 2)

	shoe := products[0]
	assert.Equal(t, "Running Shoe", shoe.Title)
	assert.Equal(t, "<p>Fast.</p>", shoe.BodyHTML)
	assert.Equal(t, "Acme", shoe.Vendor)
	assert.Equal(t, "Footwear", shoe.ProductType)
	assert.Equal(t, "shoes, running", shoe.Tags)
	assert.Equal(t, "active", shoe.Status)
	require.Len(t, shoe.Variants, 2)
	assert.Equal(t, "SHOE-9", shoe.Variants[0].SKU)
	assert.Equal(t, "SHOE-10", shoe.Variants[1].SKU)
	require.Len(t, shoe.Options, 1)
	assert.Equal(t, "Size", shoe.Options[0].Name)
	assert.Len(t, shoe.Images, 1)

	sock := products[1]
	assert.Equal(t, "Plain Sock", sock.Title)
	require.Len(t, sock.Variants, 1)
	// "Title" is Shopify's single-variant placeholder, not a real option.
	assert.Empty(t, sock.Options)
}

func TestNormalizeDeduplicatesVariantsByOptionTriple(t *testing.T) {
	rows := []map[string]any{
		{"Handle": "h", "Title": "T", "Option1 Value": "Red", "Variant Price": "10.00", "Variant SKU": "A"},
		{"Handle": "h", "Option1 Value": "Red", "Variant Price": "99.00", "Variant SKU": "B"},
		{"Handle": "h", "Option1 Value": "Blue", "Variant Price": "10.00", "Variant SKU": "C"},
	}

	products := Normalize(rows, NormalizeOptions{})
	require.Len(t, products, 1)
	require.Len(t, products[0].Variants, 2)
	// First row for a triple wins; the later "Red" row is dropped whole.
	assert.Equal(t, "A", products[0].Variants[0].SKU)
	assert.Equal(t, "10.00", products[0].Variants[0].Price)
	assert.Equal(t, "C", products[0].Variants[1].SKU)
}

func TestNormalizeVariantDefaults(t *testing.T) {
	rows := []map[string]any{
		{"Handle": "h", "Title": "T", "Variant Price": "5.00"},
	}

	products := Normalize(rows, NormalizeOptions{})
	require.Len(t, products, 1)
	require.Len(t, products[0].Variants, 1)

	v := products[0].Variants[0]
	assert.Equal(t, "shopify", v.InventoryManagement)
	assert.Equal(t, "deny", v.InventoryPolicy)
	assert.Equal(t, "manual", v.FulfillmentService)
	assert.True(t, v.RequiresShipping)
	assert.True(t, v.Taxable)
}

func TestNormalizeRowWithoutVariantContributesImagesOnly(t *testing.T) {
	rows := []map[string]any{
		{"Handle": "h", "Title": "T", "Option1 Value": "One", "Variant Price": "5.00", "Image Src": "a.jpg"},
		{"Handle": "h", "Image Src": "b.jpg", "Image Position": "2"},
		{"Handle": "h", "Image Src": "b.jpg"},
	}

	products := Normalize(rows, NormalizeOptions{})
	require.Len(t, products, 1)
	assert.Len(t, products[0].Variants, 1)
	require.Len(t, products[0].Images, 2)
	require.NotNil(t, products[0].Images[1].Position)
	assert.Equal(t, 2, *products[0].Images[1].Position)
}

func TestNormalizeSkipsRowsWithoutHandle(t *testing.T) {
	rows := []map[string]any{
		{"Title": "No Handle", "Variant Price": "1.00"},
		{"Handle": "", "Title": "Empty Handle"},
	}
	assert.Empty(t, Normalize(rows, NormalizeOptions{}))
}

func TestNormalizeStatusOption(t *testing.T) {
	rows := []map[string]any{
		{"Handle": "h", "Title": "T", "Variant Price": "1.00"},
	}
	products := Normalize(rows, NormalizeOptions{Status: "draft"})
	require.Len(t, products, 1)
	assert.Equal(t, "draft", products[0].Status)
}

func TestCleanRowNormalizesHeterogeneousKeys(t *testing.T) {
	row := map[string]any{
		"Body (HTML)":   "<p>hi</p>",
		"variant_price": 12.5,
		"Variant Grams": float64(200),
		"Gift Card":     true,
	}
	clean := cleanRow(row)
	assert.Equal(t, "<p>hi</p>", clean["bodyhtml"])
	assert.Equal(t, "12.5", clean["variantprice"])
	assert.Equal(t, "200", clean["variantgrams"])
	assert.Equal(t, "true", clean["giftcard"])
}

func TestParsePosition(t *testing.T) {
	assert.Nil(t, parsePosition(""))
	assert.Nil(t, parsePosition("0"))
	assert.Nil(t, parsePosition("abc"))
	p := parsePosition("3")
	require.NotNil(t, p)
	assert.Equal(t, 3, *p)
}
