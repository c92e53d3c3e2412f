package approval

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("approval not found")
)

type Status string

const (
	StatusNone     Status = ""
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decided reports whether s is a terminal decision.
func (s Status) Decided() bool { return s == StatusApproved || s == StatusRejected }

func ParseStatus(raw string) (Status, bool) {
	switch s := Status(raw); s {
	case StatusPending, StatusApproved, StatusRejected:
		return s, true
	}
	return StatusNone, false
}

const (
	ReasonAwaitingReview = "Awaiting review"
	ReasonNotApplicable  = "N/A"
)

// Table: approvals, shared by every record kind. Rows are keyed by
// (record_type, record_id) without a foreign key.
type Approval struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	RecordType  string    `gorm:"column:record_type;size:64;not null;index:idx_approvals_record,priority:1"`
	RecordID    string    `gorm:"column:record_id;size:64;not null;index:idx_approvals_record,priority:2"`
	Status      Status    `gorm:"column:status;size:16;not null;index:idx_approvals_record,priority:3"`
	SubmittedBy *string   `gorm:"column:submitted_by;size:64"`
	PerformedBy *string   `gorm:"column:performed_by;size:64"`
	Reason      string    `gorm:"column:reason;type:text"`
	PerformedAt time.Time `gorm:"column:performed_at;not null;index"`
}

func (Approval) TableName() string { return "approvals" }

// ListFilter narrows List. Empty fields do not filter.
type ListFilter struct {
	RecordTypes []string
	Status      Status
	Search      string
	Limit       int
}
