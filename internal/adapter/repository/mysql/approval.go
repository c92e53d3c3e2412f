package mysql

import (
	"context"
	"errors"
	"strings"

	approvalDomain "agridata-backend/internal/domain/approval"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultListLimit = 200

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApprovalRepository) Save(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApprovalRepository) GetPendingForUpdate(ctx context.Context, recordType, recordID string) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("record_type = ? AND record_id = ? AND status = ?",
			recordType, recordID, string(approvalDomain.StatusPending)).
		Order("performed_at DESC, id DESC").
		Take(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *ApprovalRepository) GetLatest(ctx context.Context, recordType, recordID string) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Where("record_type = ? AND record_id = ?", recordType, recordID).
		Order("performed_at DESC, id DESC").
		Take(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *ApprovalRepository) List(ctx context.Context, f approvalDomain.ListFilter) ([]approvalDomain.Approval, error) {
	q := r.db.WithContext(ctx).Model(&approvalDomain.Approval{})
	if len(f.RecordTypes) > 0 {
		q = q.Where("record_type IN ?", f.RecordTypes)
	}
	if f.Status != approvalDomain.StatusNone {
		q = q.Where("status = ?", string(f.Status))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("(record_id LIKE ? OR reason LIKE ? OR submitted_by LIKE ? OR performed_by LIKE ?)",
			like, like, like, like)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	out := []approvalDomain.Approval{}
	if err := q.Order("performed_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
