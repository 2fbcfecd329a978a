package pipeline

import (
	"encoding/json"

	"vetgate/internal/screening/models"
	"vetgate/internal/screening/policy"
	id "vetgate/pkg/domain"
)

// Result is the combined pipeline output: the terminal status, every stage
// decision reached, the tier trail, and the raw vendor payloads for the
// stages that ran. Early exits leave later fields nil.
type Result struct {
	CaseID id.CaseID         `json:"case_id"`
	Status models.CaseStatus `json:"status"`

	AML    *models.Decision       `json:"aml_decision,omitempty"`
	Fraud  *models.Decision       `json:"fraud_decision,omitempty"`
	Credit *policy.CreditDecision `json:"credit_decision,omitempty"`
	Income *policy.IncomeDecision `json:"income_decision,omitempty"`

	ProvisionalTier *models.Tier `json:"provisional_tier,omitempty"`
	BureauTier      *models.Tier `json:"bureau_tier,omitempty"`
	FinalTier       *models.Tier `json:"final_tier,omitempty"`

	Raw map[models.Stage]json.RawMessage `json:"-"`
}

func newResult(caseID id.CaseID) *Result {
	return &Result{
		CaseID: caseID,
		Raw:    make(map[models.Stage]json.RawMessage),
	}
}
