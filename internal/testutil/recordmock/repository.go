package recordmock

import (
	"agridata-backend/internal/domain/approval"
	domain "agridata-backend/internal/domain/record"
	"agridata-backend/internal/domain/recordtype"
	"context"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetForUpdateFn func(ctx context.Context, cfg recordtype.Config, id any) (*domain.Record, error)
	UpdateStatusFn func(ctx context.Context, cfg recordtype.Config, id any, s approval.Status) error
}

func (m *Repo) GetForUpdate(ctx context.Context, cfg recordtype.Config, id any) (*domain.Record, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, cfg, id)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, cfg recordtype.Config, id any, s approval.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, cfg, id, s)
	}
	return nil
}
