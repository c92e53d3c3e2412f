package mysql

import (
	"time"

	"agridata-backend/internal/domain/approval"

	"gorm.io/gorm"
)

// BarangayYield and CropPrice are the reference shapes of the two business
// tables. The engine itself only relies on the id column and status.
type BarangayYield struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Barangay        string    `gorm:"column:barangay;size:128;not null;index"`
	Crop            string    `gorm:"column:crop;size:64;not null"`
	AreaHarvestedHa float64   `gorm:"column:area_harvested_ha"`
	YieldTons       float64   `gorm:"column:yield_tons"`
	Status          string    `gorm:"column:status;size:16;not null;default:''"`
	CreatedBy       *string   `gorm:"column:created_by;size:64"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BarangayYield) TableName() string { return "barangay_yields" }

type CropPrice struct {
	PriceID    uint64    `gorm:"column:price_id;primaryKey;autoIncrement"`
	Barangay   string    `gorm:"column:barangay;size:128;not null;index"`
	Crop       string    `gorm:"column:crop;size:64;not null"`
	PricePerKg float64   `gorm:"column:price_per_kg"`
	ObservedOn time.Time `gorm:"column:observed_on"`
	Status     string    `gorm:"column:status;size:16;not null;default:''"`
	CreatedBy  *string   `gorm:"column:created_by;size:64"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CropPrice) TableName() string { return "crop_prices" }

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&approval.Approval{}, &BarangayYield{}, &CropPrice{})
}
