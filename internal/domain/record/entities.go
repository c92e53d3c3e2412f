package record

import (
	"errors"

	"agridata-backend/internal/domain/approval"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Record is one row of a business table. The engine only reads and writes
// Status; everything else is carried through untouched in Fields.
type Record struct {
	Type   string
	ID     string
	Status approval.Status
	Fields map[string]any
}
