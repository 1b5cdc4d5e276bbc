package upsert

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"esyncify/internal/catalog"
	"esyncify/internal/services/shopify"

	"github.com/rs/zerolog"
)

var errNoLocation = errors.New("no inventory location found")

// Result is the structured outcome of one upsert. Remote-call failures are
// captured here as plain strings suitable for the import ledger; the engine
// never returns a Go error across its boundary.
type Result struct {
	Success bool             `json:"success"`
	Data    *shopify.Product `json:"data,omitempty"`
	Action  string           `json:"action,omitempty"` // "created" or "updated"
	Error   string           `json:"error,omitempty"`
	SKU     string           `json:"sku,omitempty"`
}

// Locker serializes the check-then-write window per SKU. Optional: without
// it the existence check remains a documented best-effort race.
type Locker interface {
	Lock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string)
}

// Engine reconciles one canonical product against the remote catalog:
// create-if-absent, update-if-present, keyed by SKU, then attaches images
// and sets inventory idempotently.
type Engine struct {
	client *shopify.Client
	locker Locker
	logger zerolog.Logger
}

func New(client *shopify.Client, logger zerolog.Logger) *Engine {
	return &Engine{client: client, logger: logger}
}

// WithLocker returns the engine with a SKU locker attached.
func (e *Engine) WithLocker(locker Locker) *Engine {
	e.locker = locker
	return e
}

// Upsert synchronizes one product. It does not retry; callers own that
// policy.
func (e *Engine) Upsert(ctx context.Context, product *catalog.Product, opts Options) Result {
	sku := resolveSKU(product, opts)
	if sku == "" {
		errorMessage := "SKU could not be determined for upsert."
		e.logger.Error().
			Str("legacy_item_id", product.LegacyItemID).
			Str("epid", product.EPID).
			Msg(errorMessage)
		return Result{Success: false, Error: errorMessage}
	}

	title := e.rewriteTitle(product.Title, opts)

	if e.locker != nil {
		locked, err := e.locker.Lock(ctx, "sku:"+sku)
		if err != nil || !locked {
			e.logger.Warn().Err(err).Str("sku", sku).Msg("SKU lock unavailable, proceeding unlocked")
		} else {
			defer e.locker.Unlock(ctx, "sku:"+sku)
		}
	}

	e.logger.Info().Str("sku", sku).Msg("starting upsert")

	existingID, err := e.client.FindProductIDBySKU(sku)
	if err != nil {
		e.logger.Error().Err(err).Str("sku", sku).Msg("failed to look up product by SKU")
		return Result{Success: false, Error: err.Error(), SKU: sku}
	}

	payload := buildPayload(product, title, sku, opts)

	var remote *shopify.Product
	action := "created"
	if existingID != 0 {
		action = "updated"
		remote, err = e.client.UpdateProduct(existingID, payload)
	} else {
		remote, err = e.client.CreateProduct(payload)
	}
	if err != nil {
		e.logger.Error().Err(err).Str("sku", sku).Str("action", action).Msg("failed to upsert product")
		return Result{Success: false, Error: err.Error(), SKU: sku}
	}

	if err := e.attachImages(remote, product.Images); err != nil {
		return Result{Success: false, Error: err.Error(), SKU: sku}
	}

	if opts.DefaultQuantity > 0 {
		if err := e.setInventory(remote, sku, opts.DefaultQuantity); err != nil {
			return Result{Success: false, Error: err.Error(), SKU: sku}
		}
	}

	e.logger.Info().Str("sku", sku).Str("action", action).Msg("upsert succeeded")
	return Result{Success: true, Data: remote, Action: action, SKU: sku}
}

// resolveSKU derives the sync key from policy and the product's
// identifiers. Marketplace ids win; CSV-sourced products use their first
// variant SKU.
func resolveSKU(product *catalog.Product, opts Options) string {
	if opts.SKUSource == "epin" && product.EPID != "" {
		return product.EPID
	}
	if product.LegacyItemID != "" {
		return product.LegacyItemID
	}
	return product.FirstSKU()
}

// rewriteTitle applies the configured find/replace. A malformed pattern
// keeps the original title rather than failing the upsert.
func (e *Engine) rewriteTitle(title string, opts Options) string {
	if !opts.RewriteTitles || opts.RewriteFind == "" {
		return title
	}
	if opts.RewriteIsRegex {
		re, err := regexp.Compile(opts.RewriteFind)
		if err != nil {
			e.logger.Warn().Str("pattern", opts.RewriteFind).Msg("invalid title rewrite pattern, using original title")
			return title
		}
		return re.ReplaceAllString(title, opts.RewriteReplace)
	}
	return strings.ReplaceAll(title, opts.RewriteFind, opts.RewriteReplace)
}

// buildPayload is the single transformation both branches funnel through,
// so the wire format is identical for create and update.
func buildPayload(product *catalog.Product, title, sku string, opts Options) *shopify.Product {
	productType := product.ProductType
	if opts.ProductTypeSource == "manual" {
		productType = opts.ManualProductType
	} else if len(product.Categories) > 0 && product.Categories[0].CategoryName != "" {
		productType = product.Categories[0].CategoryName
	}

	vendor := product.Seller
	if vendor == "" {
		vendor = product.Vendor
	}
	if vendor == "" {
		vendor = opts.DefaultVendor
	}
	if vendor == "" {
		vendor = "Default Vendor"
	}

	status := opts.Status
	if status == "" {
		status = product.Status
	}
	if status == "" {
		status = "active"
	}

	inventoryPolicy := opts.InventoryPolicy
	if inventoryPolicy == "" {
		inventoryPolicy = "deny"
	}

	payload := &shopify.Product{
		Title:       title,
		BodyHTML:    product.BodyHTML,
		ProductType: productType,
		Vendor:      vendor,
		Status:      status,
		Tags:        assembleTags(product, opts),
	}

	for _, o := range product.Options {
		payload.Options = append(payload.Options, shopify.Option{Name: o.Name})
	}

	if len(product.Variants) > 0 {
		for i, v := range product.Variants {
			variantSKU := v.SKU
			if variantSKU == "" && i == 0 {
				// The first variant carries the sync key so the next run's
				// existence check finds this product.
				variantSKU = sku
			}
			management := v.InventoryManagement
			if v.InventoryQty != 0 && management == "" {
				management = "shopify"
			}
			taxable := v.Taxable
			requiresShipping := v.RequiresShipping
			payload.Variants = append(payload.Variants, shopify.Variant{
				Price:               v.Price,
				CompareAtPrice:      v.CompareAtPrice,
				Sku:                 variantSKU,
				Grams:               v.Grams,
				InventoryManagement: management,
				InventoryQuantity:   v.InventoryQty,
				InventoryPolicy:     defaultPolicy(v.InventoryPolicy, inventoryPolicy),
				FulfillmentService:  v.FulfillmentService,
				Option1:             v.Option1,
				Option2:             v.Option2,
				Option3:             v.Option3,
				Barcode:             v.Barcode,
				Taxable:             &taxable,
				RequiresShipping:    &requiresShipping,
			})
		}
	} else {
		price := product.Price
		if price == "" {
			price = "0.00"
		}
		payload.Variants = []shopify.Variant{{
			Sku:                 sku,
			Price:               price,
			InventoryManagement: "shopify",
			InventoryPolicy:     inventoryPolicy,
		}}
	}

	return payload
}

// assembleTags flattens condition, source category names, the product's
// own tags, and policy-configured extras into one delimited string.
func assembleTags(product *catalog.Product, opts Options) string {
	var tags []string
	if product.Condition != "" {
		tags = append(tags, product.Condition)
	}
	for _, c := range product.Categories {
		if c.CategoryName != "" {
			tags = append(tags, c.CategoryName)
		}
	}
	if product.Tags != "" {
		for _, tag := range strings.Split(product.Tags, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	}
	tags = append(tags, opts.AppendTags...)
	return strings.Join(tags, ", ")
}

func defaultPolicy(policy, fallback string) string {
	if policy == "" {
		return fallback
	}
	return policy
}

// attachImages adds each canonical image unless the remote product already
// carries one with the same source URL, keeping retries idempotent.
func (e *Engine) attachImages(remote *shopify.Product, images []catalog.Image) error {
	for _, img := range images {
		if img.Src == "" {
			continue
		}
		exists := false
		for _, existing := range remote.Images {
			if existing.Src == img.Src {
				exists = true
				break
			}
		}
		if exists {
			e.logger.Info().Str("src", img.Src).Int64("product_id", remote.ID).Msg("image already attached, skipping")
			continue
		}
		position := 0
		if img.Position != nil {
			position = *img.Position
		}
		attached, err := e.client.AddImage(remote.ID, &shopify.Image{
			Src:      img.Src,
			Alt:      defaultAlt(img.Alt),
			Position: position,
		})
		if err != nil {
			e.logger.Error().Err(err).Int64("product_id", remote.ID).Msg("failed to attach image")
			return err
		}
		remote.Images = append(remote.Images, *attached)
	}
	return nil
}

func defaultAlt(alt string) string {
	if alt == "" {
		return "Product Image"
	}
	return alt
}

// setInventory sets the available quantity at the shop's primary location
// (first location flagged primary, else the first returned). Look-up and
// set are two calls; the API has no combined endpoint at creation time.
func (e *Engine) setInventory(remote *shopify.Product, sku string, quantity int) error {
	if len(remote.Variants) == 0 {
		return nil
	}

	variant := remote.Variants[0]
	for _, v := range remote.Variants {
		if v.Sku == sku {
			variant = v
			break
		}
	}
	if variant.InventoryItemID == 0 {
		return nil
	}

	locations, err := e.client.ListLocations()
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to list inventory locations")
		return err
	}
	if len(locations) == 0 {
		return errNoLocation
	}

	location := locations[0]
	for _, loc := range locations {
		if loc.Primary {
			location = loc
			break
		}
	}

	if _, err := e.client.SetInventoryLevel(location.ID, variant.InventoryItemID, quantity); err != nil {
		e.logger.Error().Err(err).Int64("inventory_item_id", variant.InventoryItemID).Msg("failed to set inventory level")
		return err
	}

	e.logger.Info().Int("quantity", quantity).Int64("inventory_item_id", variant.InventoryItemID).Msg("inventory level set")
	return nil
}
