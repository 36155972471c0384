// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bankhub/credit-backend/internal/config"
	"github.com/bankhub/credit-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.CreditProduct{},
		&models.CreditApplication{},
		&models.CreditScore{},
		&models.BlacklistEntry{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_tax_number ON users(tax_number)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",

		// Application indexes
		"CREATE INDEX IF NOT EXISTS idx_applications_user_status ON credit_applications(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_applications_product ON credit_applications(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_applications_date ON credit_applications(application_date DESC)",

		// Blacklist: at most one active entry per tax number, and fast
		// active-identity lookups for the gate.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_blacklist_active_tax_number ON blacklist_entries(tax_number) WHERE is_active",
		"CREATE INDEX IF NOT EXISTS idx_blacklist_active_email ON blacklist_entries(email) WHERE is_active",
		"CREATE INDEX IF NOT EXISTS idx_blacklist_active_phone ON blacklist_entries(phone) WHERE is_active",

		// Scoring: unique current score per user backs the upsert.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_credit_scores_user ON credit_scores(user_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Email:            "admin@bankhub.ua",
			FullName:         "System Administrator",
			Role:             models.UserRoleAdmin,
			RegistrationDate: time.Now(),
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Create default credit products
	defaultProducts := []models.CreditProduct{
		{
			Name:          "Consumer loan",
			Description:   "Unsecured loan for everyday needs",
			InterestRate:  18.5,
			MinAmount:     5000,
			MaxAmount:     300000,
			MinTermMonths: 3,
			MaxTermMonths: 36,
			Requirements:  "Passport, tax number",
			IconClass:     "fa-money-bill-wave",
		},
		{
			Name:          "Car loan",
			Description:   "Financing for new and used vehicles",
			InterestRate:  12.9,
			MinAmount:     50000,
			MaxAmount:     1500000,
			MinTermMonths: 12,
			MaxTermMonths: 84,
			Requirements:  "Passport, tax number, income statement",
			IconClass:     "fa-car",
		},
		{
			Name:          "Mortgage",
			Description:   "Long-term loan secured by real estate",
			InterestRate:  9.5,
			MinAmount:     200000,
			MaxAmount:     5000000,
			MinTermMonths: 60,
			MaxTermMonths: 240,
			Requirements:  "Passport, tax number, income statement, property appraisal",
			IconClass:     "fa-home",
		},
	}

	for _, product := range defaultProducts {
		var count int64
		db.Model(&models.CreditProduct{}).Where("name = ?", product.Name).Count(&count)

		if count == 0 {
			if err := db.Create(&product).Error; err != nil {
				log.Printf("Warning: Failed to seed credit product %s: %v", product.Name, err)
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
