// Package domain holds shared identifier types used across modules.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "vetgate/pkg/domain-errors"
)

// CaseID identifies one screening workflow invocation. Callers may supply
// their own correlation value (demo runners do), so this is a validated
// string rather than a typed UUID.
type CaseID string

const maxCaseIDLen = 64

// NewCaseID generates a fresh UUID-backed case identifier.
func NewCaseID() CaseID {
	return CaseID(uuid.NewString())
}

// ParseCaseID validates a caller-supplied case identifier.
func ParseCaseID(s string) (CaseID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "case_id is required")
	}
	if len(s) > maxCaseIDLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "case_id must be at most 64 characters")
	}
	for _, r := range s {
		if !isCaseIDRune(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "case_id may only contain letters, digits, '-', '_', '.'")
		}
	}
	return CaseID(s), nil
}

func isCaseIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.':
		return true
	}
	return false
}

func (id CaseID) String() string { return string(id) }

// IsZero reports whether the ID is unset.
func (id CaseID) IsZero() bool { return id == "" }
