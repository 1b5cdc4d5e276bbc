package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := CreateTables(db); err != nil {
		return nil, err
	}

	return &Database{DB: db}, nil
}

// CreateTables bootstraps the schema with raw SQL so the layout is explicit.
func CreateTables(db *gorm.DB) error {
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS shops (
		id UUID PRIMARY KEY,
		domain TEXT UNIQUE NOT NULL,
		access_token TEXT,
		ebay_seller_username TEXT,
		categories TEXT,
		num_ebay_products INTEGER DEFAULT 0,
		products_synced_this_month INTEGER DEFAULT 0,
		created_at TIMESTAMP,
		updated_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		shop_domain TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'QUEUED',
		total INTEGER DEFAULT 0,
		processed INTEGER DEFAULT 0,
		succeeded INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		options TEXT,
		error TEXT,
		created_at TIMESTAMP,
		updated_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS imports (
		id UUID PRIMARY KEY,
		shop_domain TEXT NOT NULL,
		job_id UUID,
		status TEXT NOT NULL DEFAULT 'PENDING',
		product_data TEXT,
		shopify_product_id TEXT,
		title TEXT,
		sku TEXT,
		action TEXT,
		error TEXT,
		created_at TIMESTAMP,
		updated_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_shop_domain ON jobs(shop_domain);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_imports_job_id ON imports(job_id);
	CREATE INDEX IF NOT EXISTS idx_imports_status ON imports(status);
	`

	if err := db.Exec(createTablesSQL).Error; err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
