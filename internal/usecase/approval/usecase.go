package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domainApproval "agridata-backend/internal/domain/approval"
	domainRecord "agridata-backend/internal/domain/record"
	"agridata-backend/internal/domain/recordtype"
	"agridata-backend/internal/domain/uow"
	"agridata-backend/internal/metrics"

	"github.com/rs/zerolog"
)

const maxReasonLen = 1000

type Usecase struct {
	approvalRepo domainApproval.Repository
	uow          uow.UnitOfWork
	log          zerolog.Logger
	now          func() time.Time
}

// NewUsecase: approvals serves the read paths, tx runs submit and decide.
func NewUsecase(approvals domainApproval.Repository, tx uow.UnitOfWork, log zerolog.Logger) *Usecase {
	return &Usecase{
		approvalRepo: approvals,
		uow:          tx,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// target is a resolved (config, native id, text id) triple. Resolution happens
// before any transaction is opened.
type target struct {
	cfg    recordtype.Config
	id     any
	textID string
}

func resolve(recordType, recordID string) (target, error) {
	cfg, ok := recordtype.Resolve(recordType)
	if !ok {
		return target{}, domainApproval.NewError(domainApproval.CodeInvalidRecordType,
			fmt.Sprintf("unknown record type %q", recordType), nil)
	}
	id, err := cfg.ParseID(recordID)
	if err != nil {
		return target{}, domainApproval.NewError(domainApproval.CodeValidation,
			fmt.Sprintf("invalid record id %q for %s", recordID, cfg.Key), err)
	}
	return target{cfg: cfg, id: id, textID: fmt.Sprint(id)}, nil
}

func actorPtr(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(domainApproval.CodeOf(err))
}

// lockRecord is always the first lock taken in a tx.
func lockRecord(ctx context.Context, r uow.Repos, t target) (*domainRecord.Record, error) {
	rec, err := r.Records.GetForUpdate(ctx, t.cfg, t.id)
	if errors.Is(err, domainRecord.ErrNotFound) {
		return nil, domainApproval.NewError(domainApproval.CodeRecordNotFound,
			fmt.Sprintf("%s record %s not found", t.cfg.Key, t.textID), nil)
	}
	return rec, err
}

// Submit moves a record to pending and opens a pending approval for it.
// If one is already pending it is returned as is, so a key never has two.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*DecisionDTO, error) {
	if u.uow == nil {
		return nil, domainApproval.ErrApproval
	}
	t, err := resolve(in.RecordType, in.RecordID)
	if err != nil {
		return nil, err
	}
	started := time.Now()

	var dto *DecisionDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rec, err := lockRecord(ctx, r, t)
		if err != nil {
			return err
		}

		existing, err := r.Approvals.GetPendingForUpdate(ctx, t.cfg.CanonicalType, t.textID)
		switch {
		case err == nil:
			if rec.Status != domainApproval.StatusPending {
				if err := r.Records.UpdateStatus(ctx, t.cfg, t.id, domainApproval.StatusPending); err != nil {
					return err
				}
				rec.Status = domainApproval.StatusPending
			}
			dto = &DecisionDTO{MainTable: toRecordDTO(rec), Approval: toApprovalDTO(existing)}
			return nil
		case !errors.Is(err, domainApproval.ErrNotFound):
			return err
		}

		if err := r.Records.UpdateStatus(ctx, t.cfg, t.id, domainApproval.StatusPending); err != nil {
			return err
		}
		rec.Status = domainApproval.StatusPending

		a := &domainApproval.Approval{
			RecordType:  t.cfg.CanonicalType,
			RecordID:    t.textID,
			Status:      domainApproval.StatusPending,
			SubmittedBy: actorPtr(in.SubmittedBy),
			Reason:      domainApproval.ReasonAwaitingReview,
			PerformedAt: u.now(),
		}
		if err := r.Approvals.Create(ctx, a); err != nil {
			return err
		}

		dto = &DecisionDTO{MainTable: toRecordDTO(rec), Approval: toApprovalDTO(a)}
		return nil
	})
	err = domainApproval.Wrap(err)
	metrics.ObserveSubmission(t.cfg.CanonicalType, resultLabel(err), started)
	if err != nil {
		u.log.Warn().Err(err).
			Str("record_type", t.cfg.CanonicalType).
			Str("record_id", t.textID).
			Str("code", string(domainApproval.CodeOf(err))).
			Msg("submit for review failed")
		return nil, err
	}

	u.log.Info().
		Str("record_type", t.cfg.CanonicalType).
		Str("record_id", t.textID).
		Uint64("approval_id", dto.Approval.ID).
		Msg("record submitted for review")
	return dto, nil
}

func (u *Usecase) Approve(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	return u.decide(ctx, in, domainApproval.StatusApproved, domainApproval.ReasonNotApplicable)
}

// Reject requires a non-blank reason.
func (u *Usecase) Reject(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domainApproval.NewError(domainApproval.CodeValidation, "rejection reason is required", nil)
	}
	if utf8.RuneCountInString(reason) > maxReasonLen {
		return nil, domainApproval.NewError(domainApproval.CodeValidation,
			fmt.Sprintf("rejection reason exceeds %d characters", maxReasonLen), nil)
	}
	return u.decide(ctx, in, domainApproval.StatusRejected, reason)
}

// decide consumes the single pending approval of a key. Locks: record row,
// then approval row. A concurrent loser finds no pending row after the
// winner commits and fails with NO_PENDING_APPROVAL.
func (u *Usecase) decide(ctx context.Context, in DecideInput, next domainApproval.Status, reason string) (*DecisionDTO, error) {
	if u.uow == nil {
		return nil, domainApproval.ErrApproval
	}
	t, err := resolve(in.RecordType, in.RecordID)
	if err != nil {
		return nil, err
	}
	started := time.Now()

	var dto *DecisionDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rec, err := lockRecord(ctx, r, t)
		if err != nil {
			return err
		}

		a, err := r.Approvals.GetPendingForUpdate(ctx, t.cfg.CanonicalType, t.textID)
		if errors.Is(err, domainApproval.ErrNotFound) {
			return domainApproval.NewError(domainApproval.CodeNoPendingApproval,
				fmt.Sprintf("%s record %s has no pending approval", t.cfg.Key, t.textID), nil)
		}
		if err != nil {
			return err
		}

		if err := r.Records.UpdateStatus(ctx, t.cfg, t.id, next); err != nil {
			return err
		}
		rec.Status = next

		a.Status = next
		a.PerformedBy = actorPtr(in.PerformedBy)
		a.Reason = reason
		a.PerformedAt = u.now()
		if err := r.Approvals.Save(ctx, a); err != nil {
			return err
		}

		dto = &DecisionDTO{MainTable: toRecordDTO(rec), Approval: toApprovalDTO(a)}
		return nil
	})
	err = domainApproval.Wrap(err)
	metrics.ObserveDecision(t.cfg.CanonicalType, string(next), resultLabel(err), started)
	if err != nil {
		u.log.Warn().Err(err).
			Str("record_type", t.cfg.CanonicalType).
			Str("record_id", t.textID).
			Str("decision", string(next)).
			Str("code", string(domainApproval.CodeOf(err))).
			Msg("decision failed")
		return nil, err
	}

	u.log.Info().
		Str("record_type", t.cfg.CanonicalType).
		Str("record_id", t.textID).
		Str("decision", string(next)).
		Uint64("approval_id", dto.Approval.ID).
		Msg("approval decided")
	return dto, nil
}

// LatestStatus returns nil, nil when the record was never submitted.
func (u *Usecase) LatestStatus(ctx context.Context, recordType, recordID string) (*ApprovalDTO, error) {
	t, err := resolve(recordType, recordID)
	if err != nil {
		return nil, err
	}
	a, err := u.approvalRepo.GetLatest(ctx, t.cfg.CanonicalType, t.textID)
	if errors.Is(err, domainApproval.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domainApproval.Wrap(err)
	}
	dto := toApprovalDTO(a)
	return &dto, nil
}

// ListPending lists approvals across record types. An unknown record type is
// not an error here; it simply matches nothing.
func (u *Usecase) ListPending(ctx context.Context, in ListInput) ([]ApprovalDTO, error) {
	f := domainApproval.ListFilter{Search: in.Search, Limit: in.Limit}

	if rt := strings.TrimSpace(in.RecordType); rt != "" {
		f.RecordTypes = []string{recordtype.Canonicalize(rt)}
	}

	switch st := strings.ToLower(strings.TrimSpace(in.Status)); st {
	case "", "all":
	default:
		s, ok := domainApproval.ParseStatus(st)
		if !ok {
			return nil, domainApproval.NewError(domainApproval.CodeValidation,
				fmt.Sprintf("invalid status filter %q", in.Status), nil)
		}
		f.Status = s
	}

	rows, err := u.approvalRepo.List(ctx, f)
	if err != nil {
		return nil, domainApproval.Wrap(err)
	}
	out := make([]ApprovalDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toApprovalDTO(&rows[i]))
	}
	return out, nil
}
