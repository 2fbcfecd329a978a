package handler

import (
	"encoding/json"
	"time"

	"vetgate/internal/screening/models"
	"vetgate/internal/screening/pipeline"
	"vetgate/internal/screening/policy"
)

// ScreenResponse is the HTTP response for POST /workflows/screening/full.
// Raw vendor payloads ride along for transparency; early exits leave later
// stages null.
type ScreenResponse struct {
	CaseID string `json:"case_id"`
	Status string `json:"status"`

	AMLDecision    *models.Decision       `json:"aml_decision"`
	FraudDecision  *models.Decision       `json:"fraud_decision"`
	CreditDecision *policy.CreditDecision `json:"credit_decision,omitempty"`
	IncomeDecision *policy.IncomeDecision `json:"income_decision,omitempty"`

	ProvisionalTier *models.Tier `json:"provisional_tier"`
	BureauTier      *models.Tier `json:"bureau_tier,omitempty"`
	FinalTier       *models.Tier `json:"final_tier,omitempty"`

	AMLRaw    json.RawMessage `json:"aml_raw,omitempty"`
	FraudRaw  json.RawMessage `json:"fraud_raw,omitempty"`
	CreditRaw json.RawMessage `json:"credit_raw,omitempty"`
}

// FromResult converts a pipeline result to an HTTP response.
func FromResult(result *pipeline.Result) *ScreenResponse {
	return &ScreenResponse{
		CaseID:          result.CaseID.String(),
		Status:          string(result.Status),
		AMLDecision:     result.AML,
		FraudDecision:   result.Fraud,
		CreditDecision:  result.Credit,
		IncomeDecision:  result.Income,
		ProvisionalTier: result.ProvisionalTier,
		BureauTier:      result.BureauTier,
		FinalTier:       result.FinalTier,
		AMLRaw:          result.Raw[models.StageAML],
		FraudRaw:        result.Raw[models.StageFraud],
		CreditRaw:       result.Raw[models.StageCredit],
	}
}

// CaseResponse is the HTTP response for GET /cases/{caseID}.
type CaseResponse struct {
	CaseID    string                           `json:"case_id"`
	Status    string                           `json:"status"`
	Decisions map[models.Stage]models.Decision `json:"decisions,omitempty"`
	Timeline  []models.TimelineEvent           `json:"timeline,omitempty"`
	CreatedAt time.Time                        `json:"created_at"`
	UpdatedAt time.Time                        `json:"updated_at"`
}

// FromCase converts a stored case to an HTTP response. Intake is deliberately
// omitted: lookups must not replay applicant PII.
func FromCase(c models.Case) *CaseResponse {
	return &CaseResponse{
		CaseID:    c.ID.String(),
		Status:    string(c.Status),
		Decisions: c.Decisions,
		Timeline:  c.Timeline,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
