package id

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	reHex32   = regexp.MustCompile(`^[a-f0-9]{32}$`)
	reActorID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.@-]{0,63}$`)
)

// NewRequestID returns a lowercase UUIDv4, used for X-Request-Id.
func NewRequestID() string { return uuid.NewString() }

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")
}

// ValidRequestID accepts a canonical lowercase UUID or 32-char lowercase hex.
func ValidRequestID(s string) bool {
	if reHex32.MatchString(s) {
		return true
	}
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	return err == nil && u.String() == s
}

// ValidActorID: 1-64 chars, letters, digits and _ . @ -, not starting with a symbol.
func ValidActorID(s string) bool { return reActorID.MatchString(s) }
