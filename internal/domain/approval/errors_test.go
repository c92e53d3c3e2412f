package approval

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_IsMatchesOnCode(t *testing.T) {
	err := NewError(CodeNoPendingApproval, "barangay_yields/42 has no pending approval", nil)
	wrapped := fmt.Errorf("decide: %w", err)

	if !errors.Is(wrapped, ErrNoPendingApproval) {
		t.Fatalf("errors.Is should match NO_PENDING_APPROVAL through wrapping")
	}
	if errors.Is(wrapped, ErrRecordNotFound) {
		t.Fatalf("errors.Is must not match a different code")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}

	cause := errors.New("connection reset")
	got := Wrap(cause)
	if CodeOf(got) != CodeApprovalError {
		t.Fatalf("code = %s, want APPROVAL_ERROR", CodeOf(got))
	}
	if !errors.Is(got, cause) {
		t.Fatalf("Wrap should keep the cause reachable")
	}

	typed := NewError(CodeRecordNotFound, "record not found", nil)
	if Wrap(typed) != error(typed) {
		t.Fatalf("Wrap should not rewrap a typed error")
	}
}

func TestCode_HTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidRecordType: http.StatusBadRequest,
		CodeValidation:        http.StatusBadRequest,
		CodeRecordNotFound:    http.StatusNotFound,
		CodeNoPendingApproval: http.StatusConflict,
		CodeApprovalError:     http.StatusInternalServerError,
		Code("SOMETHING"):     http.StatusInternalServerError,
	}
	for c, want := range cases {
		if got := c.HTTPStatus(); got != want {
			t.Fatalf("%s.HTTPStatus() = %d, want %d", c, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected"} {
		if _, ok := ParseStatus(s); !ok {
			t.Fatalf("ParseStatus(%q) should succeed", s)
		}
	}
	for _, s := range []string{"", "all", "APPROVED", "done"} {
		if _, ok := ParseStatus(s); ok {
			t.Fatalf("ParseStatus(%q) should fail", s)
		}
	}
	if StatusPending.Decided() || !StatusApproved.Decided() || !StatusRejected.Decided() {
		t.Fatalf("Decided() mismatch")
	}
}
