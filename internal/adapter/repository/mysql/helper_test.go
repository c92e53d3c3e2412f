package mysql

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
// A single connection keeps every session on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedYield(t *testing.T, db *gorm.DB, status string) *BarangayYield {
	t.Helper()
	y := &BarangayYield{Barangay: "San Isidro", Crop: "rice", AreaHarvestedHa: 12.5, YieldTons: 48.2, Status: status}
	if err := db.Create(y).Error; err != nil {
		t.Fatalf("seed yield: %v", err)
	}
	return y
}

func seedPrice(t *testing.T, db *gorm.DB, status string) *CropPrice {
	t.Helper()
	p := &CropPrice{Barangay: "Poblacion", Crop: "corn", PricePerKg: 18.75, Status: status}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed price: %v", err)
	}
	return p
}

func strPtr(s string) *string { return &s }
