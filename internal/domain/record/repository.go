package record

import (
	"context"

	"agridata-backend/internal/domain/approval"
	"agridata-backend/internal/domain/recordtype"
)

type Repository interface {
	// Lock the row until the surrounding tx ends.
	GetForUpdate(ctx context.Context, cfg recordtype.Config, id any) (*Record, error)

	// Only the status column is written.
	UpdateStatus(ctx context.Context, cfg recordtype.Config, id any, s approval.Status) error
}
