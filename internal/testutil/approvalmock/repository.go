package approvalmock

import (
	domain "agridata-backend/internal/domain/approval"
	"context"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset read methods return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn              func(ctx context.Context, a *domain.Approval) error
	SaveFn                func(ctx context.Context, a *domain.Approval) error
	GetPendingForUpdateFn func(ctx context.Context, recordType, recordID string) (*domain.Approval, error)
	GetLatestFn           func(ctx context.Context, recordType, recordID string) (*domain.Approval, error)
	ListFn                func(ctx context.Context, f domain.ListFilter) ([]domain.Approval, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Approval) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Approval) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetPendingForUpdate(ctx context.Context, recordType, recordID string) (*domain.Approval, error) {
	if m.GetPendingForUpdateFn != nil {
		return m.GetPendingForUpdateFn(ctx, recordType, recordID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetLatest(ctx context.Context, recordType, recordID string) (*domain.Approval, error) {
	if m.GetLatestFn != nil {
		return m.GetLatestFn(ctx, recordType, recordID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Approval, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}
