package http

import (
	"errors"
	"net/http"
	"strings"

	domainApproval "agridata-backend/internal/domain/approval"
	ucApproval "agridata-backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

// HeaderActorID carries the authenticated user id, set by the auth gateway.
const HeaderActorID = "X-Actor-Id"

type ApprovalHandler struct{ uc *ucApproval.Usecase }

func NewApprovalHandler(uc *ucApproval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

type actorHeader struct {
	ActorID string `header:"X-Actor-Id" validate:"required,actorid"`
}

type rejectReq struct {
	Reason string `json:"reason" validate:"notblank,max=1000"`
}

type listQuery struct {
	RecordType string `query:"record_type" validate:"max=64"`
	Status     string `query:"status"      validate:"statusfilter"`
	Search     string `query:"q"           validate:"max=128"`
	Limit      int    `query:"limit"       validate:"gte=0,lte=500"`
}

type latestResp struct {
	RecordType string                  `json:"record_type"`
	RecordID   string                  `json:"record_id"`
	Approval   *ucApproval.ApprovalDTO `json:"approval"`
}

type listResp struct {
	Items []ucApproval.ApprovalDTO `json:"items"`
	Count int                      `json:"count"`
}

// writeError maps usecase errors onto the HTTP status of their code. Internal
// causes of APPROVAL_ERROR are not echoed to the client.
func writeError(c echo.Context, err error) error {
	code := domainApproval.CodeOf(err)
	msg := domainApproval.ErrApproval.Message
	var ae *domainApproval.Error
	if errors.As(err, &ae) && code != domainApproval.CodeApprovalError {
		msg = ae.Message
	}
	return c.JSON(code.HTTPStatus(), ErrorResponse{Error: msg, Code: string(code)})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    string(domainApproval.CodeValidation),
		Details: ToFieldErrors(err),
	})
}

// pathKey reads and checks the record path params.
func pathKey(c echo.Context) (recordType, recordID string, ok bool) {
	recordType = strings.TrimSpace(c.Param("record_type"))
	recordID = strings.TrimSpace(c.Param("record_id"))
	return recordType, recordID, recordType != "" && recordID != ""
}

func (h *ApprovalHandler) actor(c echo.Context) (string, error) {
	a := actorHeader{ActorID: strings.TrimSpace(c.Request().Header.Get(HeaderActorID))}
	if err := c.Validate(&a); err != nil {
		return "", err
	}
	return a.ActorID, nil
}

func (h *ApprovalHandler) Submit(c echo.Context) error {
	recordType, recordID, ok := pathKey(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing record_type or record_id path param"})
	}
	actor, err := h.actor(c)
	if err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.Submit(c.Request().Context(), ucApproval.SubmitInput{
		RecordType:  recordType,
		RecordID:    recordID,
		SubmittedBy: actor,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApprovalHandler) Approve(c echo.Context) error {
	recordType, recordID, ok := pathKey(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing record_type or record_id path param"})
	}
	actor, err := h.actor(c)
	if err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.Approve(c.Request().Context(), ucApproval.DecideInput{
		RecordType:  recordType,
		RecordID:    recordID,
		PerformedBy: actor,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApprovalHandler) Reject(c echo.Context) error {
	recordType, recordID, ok := pathKey(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing record_type or record_id path param"})
	}
	actor, err := h.actor(c)
	if err != nil {
		return validationFailed(c, err)
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.Reject(c.Request().Context(), ucApproval.DecideInput{
		RecordType:  recordType,
		RecordID:    recordID,
		PerformedBy: actor,
		Reason:      req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApprovalHandler) LatestStatus(c echo.Context) error {
	recordType, recordID, ok := pathKey(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing record_type or record_id path param"})
	}
	dto, err := h.uc.LatestStatus(c.Request().Context(), recordType, recordID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, latestResp{RecordType: recordType, RecordID: recordID, Approval: dto})
}

func (h *ApprovalHandler) List(c echo.Context) error {
	var q listQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&q); err != nil {
		return validationFailed(c, err)
	}

	items, err := h.uc.ListPending(c.Request().Context(), ucApproval.ListInput{
		RecordType: q.RecordType,
		Status:     q.Status,
		Search:     q.Search,
		Limit:      q.Limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResp{Items: items, Count: len(items)})
}
