package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop holds the target-store credential and the marketplace settings used
// to source listings. Token exchange itself happens outside this service.
type Shop struct {
	ID                      string    `json:"id" gorm:"type:uuid;primary_key"`
	Domain                  string    `json:"domain" gorm:"unique;not null"`
	AccessToken             string    `json:"-"`
	EbaySellerUsername      string    `json:"ebay_seller_username"`
	Categories              string    `json:"categories"` // comma-separated eBay category ids
	NumEbayProducts         int       `json:"num_ebay_products"`
	ProductsSyncedThisMonth int       `json:"products_synced_this_month"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
