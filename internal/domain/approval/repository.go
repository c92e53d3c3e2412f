package approval

import "context"

type Repository interface {
	Create(ctx context.Context, a *Approval) error
	Save(ctx context.Context, a *Approval) error

	// Most recent pending row for the key, row-locked until the tx ends.
	GetPendingForUpdate(ctx context.Context, recordType, recordID string) (*Approval, error)

	// Most recent row for the key regardless of status. No locking.
	GetLatest(ctx context.Context, recordType, recordID string) (*Approval, error)

	List(ctx context.Context, f ListFilter) ([]Approval, error)
}
