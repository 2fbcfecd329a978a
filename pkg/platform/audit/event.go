// Package audit captures structured screening audit events. Events are
// transport-agnostic so stores and sinks can fan out.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	id "vetgate/pkg/domain"
)

// Category classifies the audit event source.
type Category string

const (
	CategoryCase  Category = "case"
	CategoryStage Category = "stage"
)

// Event is emitted from the pipeline to capture key actions. Subject identity
// is carried only as a hash; raw identifiers never enter the audit trail.
type Event struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Category      Category  `json:"category"`
	CaseID        id.CaseID `json:"case_id"`
	Stage         string    `json:"stage,omitempty"`
	Decision      string    `json:"decision,omitempty"`
	Reasons       []string  `json:"reasons,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	SubjectIDHash string    `json:"subject_id_hash,omitempty"`
}

// NewEvent constructs an event with a fresh ID and timestamp.
func NewEvent(category Category, caseID id.CaseID) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Category:  category,
		CaseID:    caseID,
	}
}

// HashSubject derives the audit-safe subject hash from a raw identifier
// such as an SSN. Empty input yields an empty hash.
func HashSubject(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
