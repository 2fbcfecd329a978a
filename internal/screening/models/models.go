// Package models holds the screening domain types shared by the policy
// evaluators, the pipeline, stores, and transport.
package models

import (
	"fmt"
	"strings"
	"time"

	id "vetgate/pkg/domain"
)

// Stage names one vendor call plus its policy evaluation.
type Stage string

const (
	StageAML    Stage = "aml"
	StageFraud  Stage = "fraud"
	StageCredit Stage = "credit"
	StageIncome Stage = "income"
)

// Outcome is the decision produced by a stage evaluator.
type Outcome string

const (
	OutcomePass    Outcome = "PASS"
	OutcomeReview  Outcome = "REVIEW"
	OutcomeDecline Outcome = "DECLINE"
)

// Tier is the normalized 0 (worst) to 7 (best) risk/affordability rank.
type Tier int

const (
	TierMin Tier = 0
	TierMax Tier = 7
)

// Valid reports whether the tier is within the normalized range.
func (t Tier) Valid() bool { return t >= TierMin && t <= TierMax }

// MinTier intersects two tiers conservatively.
func MinTier(a, b Tier) Tier {
	if a < b {
		return a
	}
	return b
}

// TierPtr is a convenience for optional tier fields.
func TierPtr(t Tier) *Tier { return &t }

// Decision is the structured output of one stage evaluation. Produced once,
// immutable thereafter.
type Decision struct {
	Stage   Stage          `json:"stage"`
	Outcome Outcome        `json:"outcome"`
	Reasons []string       `json:"reasons"`
	Tier    *Tier          `json:"tier,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Intake is the immutable applicant-supplied record. Custom fields carry
// pass-through scenario knobs consumed by the payload builders, never by the
// evaluators.
type Intake struct {
	FullName     string         `json:"user_fullname"`
	DateOfBirth  string         `json:"user_dob"`
	Country      string         `json:"user_country"`
	SSN          string         `json:"ssn"`
	GovIDType    string         `json:"gov_id_type"`
	GovIDNumber  string         `json:"gov_id_number"`
	AddressLine1 string         `json:"address_line1"`
	AddressCity  string         `json:"address_city"`
	AddressState string         `json:"address_state"`
	AddressZip   string         `json:"address_zip"`
	Email        string         `json:"email"`
	PhoneNumber  string         `json:"phone_number"`
	IP           string         `json:"ip"`
	Session      string         `json:"session"`
	ClientUserID string         `json:"client_user_id,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
}

// CustomString returns a custom field as a trimmed string, empty when absent.
func (i Intake) CustomString(key string) string {
	if i.CustomFields == nil {
		return ""
	}
	v, ok := i.CustomFields[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// CustomBool returns a custom field interpreted as a boolean flag.
func (i Intake) CustomBool(key string) bool {
	if i.CustomFields == nil {
		return false
	}
	switch v := i.CustomFields[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

// CustomInt returns a custom field as an int with a fallback default.
// JSON decoding delivers numbers as float64.
func (i Intake) CustomInt(key string, def int) int {
	if i.CustomFields == nil {
		return def
	}
	switch v := i.CustomFields[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

// CaseStatus tracks the pipeline state machine position for a case.
type CaseStatus string

const StatusCreated CaseStatus = "CREATED"

// StageStatus derives the case status after a stage evaluation, e.g.
// FRAUD_REVIEW or CREDIT_PASS. AML uses PROCEED rather than PASS because it
// gates the pipeline without contributing a tier.
func StageStatus(stage Stage, outcome Outcome) CaseStatus {
	o := string(outcome)
	if stage == StageAML && outcome == OutcomePass {
		o = "PROCEED"
	}
	return CaseStatus(strings.ToUpper(string(stage)) + "_" + o)
}

// TimelineEvent is one audit-trail entry on a case.
type TimelineEvent struct {
	At      time.Time      `json:"at"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Case is one workflow invocation: intake snapshot, per-stage decisions, and
// an ordered timeline. Mutated only by the pipeline.
type Case struct {
	ID        id.CaseID          `json:"id"`
	Intake    Intake             `json:"intake"`
	Status    CaseStatus         `json:"status"`
	Decisions map[Stage]Decision `json:"decisions,omitempty"`
	Timeline  []TimelineEvent    `json:"timeline,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
