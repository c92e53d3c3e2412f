package mysql

import (
	"context"
	"errors"
	"fmt"

	"agridata-backend/internal/domain/approval"
	recordDomain "agridata-backend/internal/domain/record"
	"agridata-backend/internal/domain/recordtype"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordRepository reads and writes the status column of whichever business
// table the registry config points at.
type RecordRepository struct{ db *gorm.DB }

func NewRecordRepository(db *gorm.DB) *RecordRepository { return &RecordRepository{db: db} }

func idEq(cfg recordtype.Config, id any) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: cfg.IDColumn}, Value: id}
}

func (r *RecordRepository) GetForUpdate(ctx context.Context, cfg recordtype.Config, id any) (*recordDomain.Record, error) {
	row := map[string]any{}
	res := r.db.WithContext(ctx).
		Table(cfg.Table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(idEq(cfg, id)).
		Take(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, recordDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &recordDomain.Record{
		Type:   cfg.CanonicalType,
		ID:     fmt.Sprint(id),
		Status: approval.Status(asString(row["status"])),
		Fields: row,
	}, nil
}

// UpdateStatus does not treat zero affected rows as missing: MySQL reports 0
// when the value is unchanged, and callers hold the row lock already.
func (r *RecordRepository) UpdateStatus(ctx context.Context, cfg recordtype.Config, id any, s approval.Status) error {
	return r.db.WithContext(ctx).
		Table(cfg.Table).
		Where(idEq(cfg, id)).
		Update("status", string(s)).Error
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
