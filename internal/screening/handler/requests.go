package handler

import (
	"strings"

	"vetgate/internal/screening/models"
	id "vetgate/pkg/domain"
	dErrors "vetgate/pkg/domain-errors"
)

// ScreenRequest is the HTTP request body for POST /workflows/screening/full.
type ScreenRequest struct {
	CaseID string        `json:"case_id"`
	Intake models.Intake `json:"intake"`

	// Parsed values (populated by Validate)
	parsedCaseID id.CaseID
}

// Validate validates and parses the request. A missing case_id gets a fresh
// one; a supplied case_id must be well-formed.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ScreenRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.CaseID = strings.TrimSpace(r.CaseID)
	if r.CaseID == "" {
		r.parsedCaseID = id.NewCaseID()
		return nil
	}

	caseID, err := id.ParseCaseID(r.CaseID)
	if err != nil {
		return err
	}
	r.parsedCaseID = caseID
	return nil
}

// ParsedCaseID returns the validated (or generated) case ID.
func (r *ScreenRequest) ParsedCaseID() id.CaseID {
	return r.parsedCaseID
}
