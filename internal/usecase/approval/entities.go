package approval

import (
	"time"

	domainApproval "agridata-backend/internal/domain/approval"
	domainRecord "agridata-backend/internal/domain/record"
)

type SubmitInput struct {
	RecordType  string
	RecordID    string
	SubmittedBy string // empty means unknown actor
}

type DecideInput struct {
	RecordType  string
	RecordID    string
	PerformedBy string
	Reason      string // required for reject, ignored for approve
}

type ListInput struct {
	RecordType string // empty: every record type
	Status     string // empty or "all": no status filter
	Search     string
	Limit      int
}

type RecordDTO struct {
	RecordType string         `json:"record_type"`
	RecordID   string         `json:"record_id"`
	Status     string         `json:"status"`
	Fields     map[string]any `json:"fields,omitempty"`
}

type ApprovalDTO struct {
	ID          uint64    `json:"id"`
	RecordType  string    `json:"record_type"`
	RecordID    string    `json:"record_id"`
	Status      string    `json:"status"`
	SubmittedBy *string   `json:"submitted_by"`
	PerformedBy *string   `json:"performed_by"`
	Reason      string    `json:"reason"`
	PerformedAt time.Time `json:"performed_at"`
}

// DecisionDTO is the affected record plus the affected approval row.
type DecisionDTO struct {
	MainTable RecordDTO   `json:"main_table"`
	Approval  ApprovalDTO `json:"approval"`
}

func toRecordDTO(r *domainRecord.Record) RecordDTO {
	return RecordDTO{
		RecordType: r.Type,
		RecordID:   r.ID,
		Status:     string(r.Status),
		Fields:     r.Fields,
	}
}

func toApprovalDTO(a *domainApproval.Approval) ApprovalDTO {
	return ApprovalDTO{
		ID:          a.ID,
		RecordType:  a.RecordType,
		RecordID:    a.RecordID,
		Status:      string(a.Status),
		SubmittedBy: a.SubmittedBy,
		PerformedBy: a.PerformedBy,
		Reason:      a.Reason,
		PerformedAt: a.PerformedAt,
	}
}
