package store

import (
	"errors"

	"esyncify/internal/models"

	"gorm.io/gorm"
)

func (s *Store) GetShop(domain string) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.First(&shop, "domain = ?", domain).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

func (s *Store) SaveShop(shop *models.Shop) error {
	return s.db.Save(shop).Error
}

// IncrementSyncedCount bumps the shop's monthly sync usage. Atomic for the
// same reason the job counters are.
func (s *Store) IncrementSyncedCount(domain string) error {
	return s.db.Model(&models.Shop{}).
		Where("domain = ?", domain).
		Update("products_synced_this_month", gorm.Expr("products_synced_this_month + 1")).Error
}
