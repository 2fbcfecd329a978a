package policy

import (
	"strings"

	"vetgate/internal/screening/models"
)

// Income reason codes.
const (
	IncomeNoIncome            = "NO_INCOME"
	IncomeNetMonthlyTooLow    = "NET_MONTHLY_LT_1000"
	IncomeSuspiciousAndLow    = "SUSPICIOUS_AND_LOW_INCOME"
	IncomeInsufficientCover   = "INSUFFICIENT_COVERAGE"
	IncomeSuspiciousSignals   = "SUSPICIOUS_SIGNALS"
)

// Income source labels.
const (
	SourcePayroll = "payroll"
	SourceBank    = "bank"
	SourceEmpty   = "empty"
	SourceUnknown = "unknown"
)

const (
	netMonthlyFloor     = 1000
	suspiciousNetFloor  = 1500
	minCoverageMonths   = 3
	creditLimitMultiple = 8
)

// IncomeDecision is the income stage output: decision, normalized metrics,
// the income tier, the merged final tier, and the credit-limit suggestion.
type IncomeDecision struct {
	Decision    models.Decision `json:"decision"`
	SourceUsed  string          `json:"source_used"`
	NetMonthly  float64         `json:"net_monthly"`
	Coverage    string          `json:"coverage"`
	IncomeTier  *models.Tier    `json:"income_tier,omitempty"`
	FinalTier   *models.Tier    `json:"final_tier,omitempty"`
	CreditLimit *float64        `json:"credit_limit,omitempty"`
}

// EvaluateIncome applies the income policy over the three vendor documents.
// Payroll income is preferred; bank-derived income is the fallback. The
// decision ladder, in order: vendor error -> REVIEW; no income -> DECLINE;
// net monthly below floor -> DECLINE; suspicious signals with low income ->
// DECLINE; thin bank coverage -> DECLINE; lingering suspicious signals ->
// REVIEW; otherwise PASS with the tier intersection and a credit-limit
// suggestion.
func EvaluateIncome(bundle models.IncomeBundle, coverageMonths int, creditFinalTier *models.Tier) IncomeDecision {
	out := IncomeDecision{
		SourceUsed: SourceEmpty,
		Decision: models.Decision{
			Stage:   models.StageIncome,
			Reasons: []string{},
			Details: map[string]any{"coverage_months": coverageMonths},
		},
	}

	if bundle.Payroll.HasError() || bundle.Bank.HasError() || bundle.Risk.HasError() {
		out.SourceUsed = SourceUnknown
		out.Decision.Outcome = models.OutcomeReview
		out.Decision.Reasons = []string{ReasonIncomeVendorErr}
		return out
	}

	suspicious := hasSuspiciousSignals(bundle.Risk)

	var netMonthly float64
	coverage := ""
	switch {
	case bundle.Payroll != nil && bundle.Payroll.PayrollIncome != nil:
		out.SourceUsed = SourcePayroll
		netMonthly = netMonthlyFromPayroll(bundle.Payroll.PayrollIncome)
	case bundle.Bank != nil && bundle.Bank.BankIncome != nil:
		out.SourceUsed = SourceBank
		netMonthly = netMonthlyFromBank(bundle.Bank.BankIncome)
		coverage = bundle.Bank.BankIncome.Coverage
	}
	out.NetMonthly = netMonthly
	out.Coverage = coverage
	out.Decision.Details["net_monthly"] = netMonthly
	out.Decision.Details["source_used"] = out.SourceUsed

	decline := func(reason string) IncomeDecision {
		out.Decision.Outcome = models.OutcomeDecline
		out.Decision.Reasons = []string{reason}
		return out
	}

	if netMonthly <= 0 {
		return decline(IncomeNoIncome)
	}
	if netMonthly < netMonthlyFloor {
		return decline(IncomeNetMonthlyTooLow)
	}
	if suspicious && netMonthly < suspiciousNetFloor {
		return decline(IncomeSuspiciousAndLow)
	}
	if out.SourceUsed == SourceBank &&
		!strings.EqualFold(coverage, "FULL") && coverageMonths < minCoverageMonths {
		return decline(IncomeInsufficientCover)
	}

	if suspicious {
		out.Decision.Outcome = models.OutcomeReview
		out.Decision.Reasons = []string{IncomeSuspiciousSignals}
		return out
	}

	out.Decision.Outcome = models.OutcomePass
	tier := incomeTierFromNetMonthly(netMonthly)
	out.IncomeTier = models.TierPtr(tier)
	out.Decision.Tier = models.TierPtr(tier)
	if creditFinalTier != nil {
		out.FinalTier = models.TierPtr(models.MinTier(*creditFinalTier, tier))
	}
	limit := round2(netMonthly * creditLimitMultiple)
	out.CreditLimit = &limit
	return out
}

// netMonthlyFromPayroll normalizes the first payroll stream to a monthly
// figure using the cadence multiplier.
func netMonthlyFromPayroll(p *models.PayrollIncome) float64 {
	if p == nil || len(p.Streams) == 0 {
		return 0
	}
	s := p.Streams[0]
	cadence := s.Cadence
	if cadence == "" {
		cadence = p.PayFrequency
	}
	return round2(num(s.Net) * cadenceFactor(cadence))
}

// netMonthlyFromBank reads the bank-derived average, which is already a
// monthly figure.
func netMonthlyFromBank(b *models.BankIncome) float64 {
	if b == nil || len(b.Streams) == 0 {
		return 0
	}
	return round2(num(b.Streams[0].AverageNet))
}

// hasSuspiciousSignals reports any medium or high severity finding.
func hasSuspiciousSignals(risk *models.IncomeDocument) bool {
	if risk == nil {
		return false
	}
	for _, s := range risk.Signals {
		code := strings.ToUpper(s.Code)
		severity := strings.ToUpper(s.Severity)
		if code != "" && code != "NO_FINDINGS" && (severity == "MEDIUM" || severity == "HIGH") {
			return true
		}
	}
	return false
}
