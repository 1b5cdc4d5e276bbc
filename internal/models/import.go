package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImportStatus string

const (
	ImportPending ImportStatus = "PENDING"
	ImportSuccess ImportStatus = "SUCCESS"
	ImportFailed  ImportStatus = "FAILED"
)

// Actions recorded on a finished import.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionFailed  = "failed"
)

// Import is one per-product unit of work within a Job. It transitions out of
// PENDING exactly once; a cancelled job leaves its remaining imports PENDING.
type Import struct {
	ID               string       `json:"id" gorm:"type:uuid;primary_key"`
	ShopDomain       string       `json:"shop_domain" gorm:"not null"`
	JobID            *string      `json:"job_id" gorm:"type:uuid;index"`
	Status           ImportStatus `json:"status" gorm:"default:PENDING;index"`
	ProductData      string       `json:"product_data" gorm:"type:text"`
	ShopifyProductID *string      `json:"shopify_product_id"`
	Title            string       `json:"title"`
	SKU              string       `json:"sku"`
	Action           string       `json:"action"`
	Error            *string      `json:"error"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (i *Import) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
