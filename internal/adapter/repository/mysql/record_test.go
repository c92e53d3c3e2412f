package mysql

import (
	"context"
	"errors"
	"testing"

	"agridata-backend/internal/domain/approval"
	recordDomain "agridata-backend/internal/domain/record"
	"agridata-backend/internal/domain/recordtype"
)

func TestRecord_GetForUpdate(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecordRepository(db)
	ctx := context.Background()

	y := seedYield(t, db, "")
	cfg, _ := recordtype.Resolve("barangay_yields")

	got, err := repo.GetForUpdate(ctx, cfg, int64(y.ID))
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if got.Type != "barangay_yields" || got.Status != approval.StatusNone {
		t.Fatalf("unexpected record: %+v", got)
	}
	if asString(got.Fields["barangay"]) != "San Isidro" {
		t.Fatalf("business columns not carried through: %+v", got.Fields)
	}
}

func TestRecord_GetForUpdate_CustomIDColumn(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecordRepository(db)
	ctx := context.Background()

	p := seedPrice(t, db, "approved")
	cfg, _ := recordtype.Resolve("prices")

	got, err := repo.GetForUpdate(ctx, cfg, int64(p.PriceID))
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if got.Status != approval.StatusApproved || got.Type != "crop_prices" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRecord_GetForUpdate_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecordRepository(db)
	cfg, _ := recordtype.Resolve("barangay_yields")

	_, err := repo.GetForUpdate(context.Background(), cfg, int64(999999))
	if !errors.Is(err, recordDomain.ErrNotFound) {
		t.Fatalf("expected record.ErrNotFound, got %v", err)
	}
}

func TestRecord_UpdateStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecordRepository(db)
	ctx := context.Background()

	y := seedYield(t, db, "")
	other := seedYield(t, db, "")
	cfg, _ := recordtype.Resolve("barangay_yields")

	if err := repo.UpdateStatus(ctx, cfg, int64(y.ID), approval.StatusPending); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	var got BarangayYield
	if err := db.First(&got, y.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.Status != "pending" {
		t.Fatalf("status = %q, want pending", got.Status)
	}
	if got.YieldTons != y.YieldTons || got.Barangay != y.Barangay {
		t.Fatalf("business columns must stay untouched: %+v", got)
	}

	var untouched BarangayYield
	if err := db.First(&untouched, other.ID).Error; err != nil {
		t.Fatal(err)
	}
	if untouched.Status != "" {
		t.Fatalf("other record status changed: %q", untouched.Status)
	}
}
