package uow

import (
	"context"

	"agridata-backend/internal/domain/approval"
	"agridata-backend/internal/domain/record"
)

// Repos are bound to the same transaction.
type Repos struct {
	Records   record.Repository
	Approvals approval.Repository
}

type UnitOfWork interface {
	// fn's error rolls the whole tx back
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
