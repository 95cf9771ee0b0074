// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/notification"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/sale"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database schema management
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration handler
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models. Order matters:
// referenced tables must exist before the tables pointing at them.
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		&user.User{},
		&user.AuditEntry{},
		&customer.Customer{},
		&product.Category{},
		&product.Product{},
		&inventory.StockMovement{},
		&cart.Cart{},
		&cart.CartLine{},
		&sale.Sale{},
		&sale.SaleLine{},
		&payment.Payment{},
		&notification.Notice{},
		&notification.Device{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates indexes that AutoMigrate cannot express
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// One active cart per customer
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_one_active_per_customer
			ON carts (customer_id) WHERE status = 'active'`,

		// Sale listings filter by channel and date together
		`CREATE INDEX IF NOT EXISTS idx_sales_channel_date
			ON sales (entry_channel, sale_date)`,

		// Movement history is always read per product, newest first
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_id_desc
			ON stock_movements (product_id, id DESC)`,

		// Audit trail lookups by action over time
		`CREATE INDEX IF NOT EXISTS idx_audit_entries_action_created
			ON audit_entries (action, created_at)`,

		// Catalog search
		`CREATE INDEX IF NOT EXISTS idx_products_name_lower
			ON products (LOWER(name))`,
	}

	successCount := 0
	failCount := 0
	for _, idx := range indexes {
		if err := m.db.Exec(idx).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
			continue
		}
		successCount++
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData seeds data needed for development
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return err
	}
	if err := m.seedAdminUser(); err != nil {
		return err
	}
	if err := m.seedProducts(); err != nil {
		return err
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedCategories() error {
	categories := []product.Category{
		{Name: "Electronics", IsActive: true},
		{Name: "Home Appliances", IsActive: true},
		{Name: "Accessories", IsActive: true},
	}

	for _, c := range categories {
		var existing product.Category
		err := m.db.Where("name = ?", c.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := m.db.Create(&c).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
			}
			log.Printf("✅ Created category: %s", c.Name)
		}
	}
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	err := m.db.Where("email = ?", "admin@example.com").First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:     "admin@example.com",
		Password:  string(hashed),
		FirstName: "Admin",
		LastName:  "User",
		Role:      user.RoleAdmin,
		IsActive:  true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Created admin user: admin@example.com (password: Admin123)")
	return nil
}

func (m *Migration) seedProducts() error {
	var electronics product.Category
	if err := m.db.Where("name = ?", "Electronics").First(&electronics).Error; err != nil {
		return nil
	}

	products := []product.Product{
		{
			Code:          "SKU-0001",
			Name:          "Wireless Mouse",
			SalePrice:     decimal.NewFromFloat(89.90),
			PurchasePrice: decimal.NewFromFloat(55.00),
			UnitOfMeasure: "unit",
			Stock:         40,
			IsActive:      true,
			CategoryID:    electronics.ID,
		},
		{
			Code:          "SKU-0002",
			Name:          "Mechanical Keyboard",
			SalePrice:     decimal.NewFromFloat(349.50),
			PurchasePrice: decimal.NewFromFloat(220.00),
			UnitOfMeasure: "unit",
			Stock:         15,
			IsActive:      true,
			CategoryID:    electronics.ID,
		},
	}

	for _, p := range products {
		var existing product.Product
		err := m.db.Where("code = ?", p.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := m.db.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Code, err)
			}
			log.Printf("✅ Created product: %s", p.Name)
		}
	}
	return nil
}

// GetTableInfo logs row counts for the main tables, used in development
func (m *Migration) GetTableInfo() {
	tables := []string{"users", "customers", "categories", "products", "carts", "sales", "payments"}
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err == nil {
			log.Printf("📊 %s: %d rows", table, count)
		}
	}
}
