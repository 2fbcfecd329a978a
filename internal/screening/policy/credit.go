package policy

import (
	"strings"
	"time"

	"vetgate/internal/screening/models"
)

// Credit knock-out reason codes. Any one of them forces DECLINE; all
// simultaneously-true reasons are reported together for diagnostics.
const (
	KOOFACMatch          = "OFAC_MATCH"
	KOSecurityFreeze     = "SECURITY_FREEZE_NO_OVERRIDE"
	KODeceasedOrFraud    = "DECEASED_OR_FRAUD_FLAG"
	KORecentBankruptcy   = "RECENT_BANKRUPTCY"
	KORecentChargeoff    = "RECENT_CHARGEOFF"
	KORecentRepoOrFore   = "RECENT_REPO_OR_FORECLOSURE"
	KO90DPDLast12M       = "90DPD_LAST_12M"
	KORecentCollection   = "RECENT_COLLECTION_GT_500"
	KORevUtilGT90        = "REV_UTIL_GT_90"
	KOTotalPastDue       = "TOTAL_PAST_DUE_GT_500"
	KOMultiplePastDue    = "MULTIPLE_PAST_DUE"
	KOExcessiveInquiries = "EXCESSIVE_HARD_INQUIRIES_6M"
	KOThinAndYoungFile   = "THIN_AND_YOUNG_FILE"
)

// Credit review reason codes.
const (
	ReviewNoRiskModelScore   = "NO_RISK_MODEL_SCORE"
	ReviewDisputedTradelines = "DISPUTED_TRADELINES"
)

// creditConfig holds the calibrated thresholds for the knock-out pass.
var creditConfig = struct {
	RevolvingUtilizationMax float64
	HardInquiries6mMax      int
	RecentChargeoffMonths   int
	RecentRepoForeMonths    int
	RecentBankruptcyMonths  int
	RecentCollectionsMonths int
	CollectionBalanceMin    float64
	TotalPastDueMin         float64
	ThinFileMinOpenTrades   int
	ThinFileMinOldestMonths int
}{
	RevolvingUtilizationMax: 0.90,
	HardInquiries6mMax:      4,
	RecentChargeoffMonths:   24,
	RecentRepoForeMonths:    36,
	RecentBankruptcyMonths:  84,
	RecentCollectionsMonths: 12,
	CollectionBalanceMin:    500,
	TotalPastDueMin:         500,
	ThinFileMinOpenTrades:   2,
	ThinFileMinOldestMonths: 12,
}

// Scorecard is the diagnostic breakdown of the tiering pass. It explains the
// composite; it never drives the knock-out determination.
type Scorecard struct {
	ModelUsed            string             `json:"model_used,omitempty"`
	BaseScore            *float64           `json:"base_score,omitempty"`
	RevolvingUtilization float64            `json:"revolving_utilization"`
	Inquiries6m          int                `json:"inquiries_6m"`
	OldestTradeMonths    int                `json:"oldest_trade_months"`
	CreditMix            CreditMix          `json:"credit_mix"`
	Contributions        map[string]float64 `json:"contributions,omitempty"`
}

type CreditMix struct {
	Revolving   bool `json:"revolving"`
	Installment bool `json:"installment"`
	Mortgage    bool `json:"mortgage"`
}

// CreditDecision is the credit stage output: the base decision plus the
// bureau tier, the merged final tier, and the scorecard diagnostics.
type CreditDecision struct {
	Decision      models.Decision `json:"decision"`
	BureauTier    models.Tier     `json:"bureau_tier"`
	FinalTier     *models.Tier    `json:"final_tier,omitempty"`
	KOReasons     []string        `json:"ko_reasons"`
	ReviewReasons []string        `json:"review_reasons"`
	Scorecard     Scorecard       `json:"scorecard"`
}

// EvaluateCredit runs the two-pass credit policy over a bureau report:
// knock-out checks first (any hit declines, bureau tier forced to 0), then
// contribution-based tiering. The provisional tier from the fraud stage is
// intersected into the final tier only on PASS. now anchors all
// months-since arithmetic so evaluation stays deterministic.
func EvaluateCredit(report *models.CreditReport, provisionalTier *models.Tier, freezeOverrideCode string, now time.Time) CreditDecision {
	out := CreditDecision{
		KOReasons:     []string{},
		ReviewReasons: []string{},
		Decision: models.Decision{
			Stage:   models.StageCredit,
			Reasons: []string{},
			Details: map[string]any{},
		},
	}

	if report == nil || len(report.Errors) > 0 || len(report.CreditProfile) == 0 {
		out.Decision.Outcome = models.OutcomeReview
		out.Decision.Reasons = []string{ReasonVendorError}
		out.ReviewReasons = []string{ReasonVendorError}
		if report != nil && len(report.Errors) > 0 {
			out.Decision.Details["vendor_errors"] = report.Errors
		}
		return out
	}

	cp := report.CreditProfile[0]
	tradelines := cp.Tradeline
	openRevolving := filterTradelines(tradelines, func(t models.Tradeline) bool {
		return t.RevolvingOrInstallment == "R" && t.OpenOrClosed == "O"
	})
	utilization := revolvingUtilization(openRevolving)
	hard6m := hardInquiries6m(cp.Inquiry, now)
	model := primaryRiskModel(cp.RiskModel)

	out.KOReasons = knockoutReasons(cp, tradelines, openRevolving, utilization, hard6m, freezeOverrideCode, now)
	if len(out.KOReasons) > 0 {
		out.Decision.Outcome = models.OutcomeDecline
		out.Decision.Reasons = out.KOReasons
		out.BureauTier = 0
		out.Decision.Tier = models.TierPtr(0)
		out.Scorecard = buildScorecard(model, utilization, hard6m, tradelines, openRevolving, nil, now)
		return out
	}

	composite, contributions := compositeScore(model, utilization, hard6m, tradelines, now)
	out.BureauTier = bureauTierFromComposite(composite)
	out.Scorecard = buildScorecard(model, utilization, hard6m, tradelines, openRevolving, contributions, now)

	if model == nil {
		out.ReviewReasons = append(out.ReviewReasons, ReviewNoRiskModelScore)
	}
	if hasDisputedTradeline(tradelines) {
		out.ReviewReasons = append(out.ReviewReasons, ReviewDisputedTradelines)
	}

	if len(out.ReviewReasons) > 0 {
		out.Decision.Outcome = models.OutcomeReview
		out.Decision.Reasons = out.ReviewReasons
		return out
	}

	out.Decision.Outcome = models.OutcomePass
	out.Decision.Tier = models.TierPtr(out.BureauTier)
	final := out.BureauTier
	if provisionalTier != nil {
		final = models.MinTier(*provisionalTier, out.BureauTier)
	}
	out.FinalTier = models.TierPtr(final)
	return out
}

// knockoutReasons evaluates every KO trigger; no short-circuiting so all
// simultaneously-true reasons are reported.
func knockoutReasons(cp models.CreditProfile, tradelines, openRevolving []models.Tradeline, utilization float64, hard6m int, freezeOverrideCode string, now time.Time) []string {
	cfg := creditConfig
	reasons := []string{}

	if cp.OFAC != nil && strings.TrimSpace(cp.OFAC.MessageText) != "" {
		reasons = append(reasons, KOOFACMatch)
	}

	hasFreeze := false
	for _, s := range cp.Statement {
		if strings.Contains(strings.ToLower(s.StatementText), "freeze") {
			hasFreeze = true
			break
		}
	}
	if hasFreeze && freezeOverrideCode == "" {
		reasons = append(reasons, KOSecurityFreeze)
	}

	if len(cp.FraudShield) > 0 {
		fs := cp.FraudShield[0]
		severe := fs.DateOfDeath != ""
		if !severe && fs.FraudShieldIndicators != nil {
			for _, ind := range fs.FraudShieldIndicators.Indicator {
				if ind == "5" {
					severe = true
					break
				}
			}
		}
		if severe {
			reasons = append(reasons, KODeceasedOrFraud)
		}
	}

	for _, r := range cp.PublicRecord {
		when := r.StatusDate
		if when == "" {
			when = r.FilingDate
		}
		if strings.Contains(strings.ToLower(r.CourtName), "bankruptcy") &&
			monthsSince(when, now) <= cfg.RecentBankruptcyMonths {
			reasons = append(reasons, KORecentBankruptcy)
			break
		}
	}

	for _, t := range tradelines {
		status := strings.ToUpper(t.Status + " " + enhancedStatus(t))
		chargedOff := (strings.Contains(status, "CHARGE") && strings.Contains(status, "OFF")) ||
			chargeoffAmount(t) > 0
		when := t.StatusDate
		if when == "" {
			when = t.BalanceDate
		}
		if chargedOff && monthsSince(when, now) <= cfg.RecentChargeoffMonths {
			reasons = append(reasons, KORecentChargeoff)
			break
		}
	}

	for _, t := range tradelines {
		comment := strings.ToUpper(t.SpecialComment + " " + enhancedComment(t))
		when := t.StatusDate
		if when == "" {
			when = t.MaxDelinquencyDate
		}
		if (strings.Contains(comment, "REPOSSESSION") || strings.Contains(comment, "FORECLOSURE")) &&
			monthsSince(when, now) <= cfg.RecentRepoForeMonths {
			reasons = append(reasons, KORecentRepoOrFore)
			break
		}
	}

	for _, t := range tradelines {
		when := t.StatusDate
		if when == "" {
			when = t.MaxDelinquencyDate
		}
		if num(t.Delinquencies90to180Days) > 0 && monthsSince(when, now) <= 12 {
			reasons = append(reasons, KO90DPDLast12M)
			break
		}
	}

	for _, t := range tradelines {
		looksCollection := strings.Contains(strings.ToUpper(t.SpecialComment+" "+t.OriginalCreditorName), "COLLECT")
		when := firstNonEmpty(t.OpenDate, t.StatusDate, t.BalanceDate)
		if looksCollection && num(t.BalanceAmount) > cfg.CollectionBalanceMin &&
			monthsSince(when, now) <= cfg.RecentCollectionsMonths {
			reasons = append(reasons, KORecentCollection)
			break
		}
	}

	if totalCreditLimit(openRevolving) > 0 && utilization > cfg.RevolvingUtilizationMax {
		reasons = append(reasons, KORevUtilGT90)
	}

	totalPastDue := 0.0
	pastDueCount := 0
	for _, t := range tradelines {
		pd := num(t.AmountPastDue)
		totalPastDue += pd
		if pd > 0 {
			pastDueCount++
		}
	}
	if totalPastDue > cfg.TotalPastDueMin {
		reasons = append(reasons, KOTotalPastDue)
	}
	if pastDueCount > 1 {
		reasons = append(reasons, KOMultiplePastDue)
	}

	if hard6m > cfg.HardInquiries6mMax {
		reasons = append(reasons, KOExcessiveInquiries)
	}

	openTrades := filterTradelines(tradelines, func(t models.Tradeline) bool { return t.OpenOrClosed == "O" })
	oldestOpen := oldestTradeMonths(openTrades, now)
	if len(openTrades) < cfg.ThinFileMinOpenTrades && oldestOpen < cfg.ThinFileMinOldestMonths {
		reasons = append(reasons, KOThinAndYoungFile)
	}

	return reasons
}

// compositeScore runs the tiering pass: start at 100 and apply additive or
// subtractive contributions per factor.
func compositeScore(model *models.RiskModel, utilization float64, hard6m int, tradelines []models.Tradeline, now time.Time) (float64, map[string]float64) {
	contributions := map[string]float64{}
	score := 100.0

	baseScore := 0.0
	if model != nil {
		baseScore = num(model.Score)
	}
	bandAdj := riskScoreBandAdj(baseScore)
	score += bandAdj
	contributions["score_band"] = bandAdj

	utilAdj := 0.0
	switch {
	case utilization <= 0.09:
		utilAdj = +3
	case utilization >= 0.30 && utilization <= 0.49:
		utilAdj = -5
	case utilization >= 0.50 && utilization <= 0.79:
		utilAdj = -10
	case utilization >= 0.80 && utilization <= 0.89:
		utilAdj = -15
	}
	score += utilAdj
	contributions["revolving_utilization"] = utilAdj

	any60 := false
	count30 := 0
	for _, t := range tradelines {
		if num(t.Delinquencies60Days) > 0 {
			any60 = true
		}
		if num(t.Delinquencies30Days) > 0 {
			count30++
		}
	}
	delAdj := 0.0
	if any60 {
		delAdj = -20
	} else if count30 > 0 {
		delAdj = -minFloat(16, float64(count30)*8)
	}
	score += delAdj
	contributions["delinquency"] = delAdj

	inqAdj := 0.0
	switch {
	case hard6m == 0:
		inqAdj = +2
	case hard6m <= 2:
		inqAdj = -2
	case hard6m <= 4:
		inqAdj = -5
	}
	score += inqAdj
	contributions["inquiries_6m"] = inqAdj

	oldest := oldestTradeMonths(tradelines, now)
	ageAdj := 0.0
	switch {
	case oldest >= 84:
		ageAdj = +5
	case oldest >= 36:
		ageAdj = +2
	case oldest < 12:
		ageAdj = -8
	}
	score += ageAdj
	contributions["age_depth"] = ageAdj

	mixAdj := 0.0
	if hasRevolving(tradelines) && hasInstallment(tradelines) {
		mixAdj += 3
	}
	if hasMortgage(tradelines) {
		mixAdj += 3
	}
	score += mixAdj
	contributions["credit_mix"] = mixAdj

	return score, contributions
}

func buildScorecard(model *models.RiskModel, utilization float64, hard6m int, tradelines, openRevolving []models.Tradeline, contributions map[string]float64, now time.Time) Scorecard {
	sc := Scorecard{
		RevolvingUtilization: round3(utilization),
		Inquiries6m:          hard6m,
		OldestTradeMonths:    oldestTradeMonths(tradelines, now),
		CreditMix: CreditMix{
			Revolving:   len(openRevolving) > 0,
			Installment: hasInstallment(tradelines),
			Mortgage:    hasMortgage(tradelines),
		},
		Contributions: contributions,
	}
	if model != nil {
		sc.ModelUsed = model.ModelIndicator
		base := num(model.Score)
		sc.BaseScore = &base
	}
	return sc
}

// primaryRiskModel selects the first usable risk-model score; the policy is
// calibrated against V4/FICO indicators.
func primaryRiskModel(riskModels []models.RiskModel) *models.RiskModel {
	for i := range riskModels {
		ind := strings.ToUpper(riskModels[i].ModelIndicator)
		if strings.Contains(ind, "V4") || strings.Contains(ind, "FICO") {
			return &riskModels[i]
		}
	}
	return nil
}

func hardInquiries6m(inquiries []models.CreditInquiry, now time.Time) int {
	n := 0
	for _, inq := range inquiries {
		t := strings.ToUpper(strings.TrimSpace(inq.Type))
		if t == "" || t == "SOFT" {
			continue
		}
		if monthsSince(inq.Date, now) <= 6 {
			n++
		}
	}
	return n
}

func revolvingUtilization(openRevolving []models.Tradeline) float64 {
	totalLimit := totalCreditLimit(openRevolving)
	if totalLimit <= 0 {
		return 0
	}
	totalBalance := 0.0
	for _, t := range openRevolving {
		totalBalance += num(t.BalanceAmount)
	}
	return totalBalance / totalLimit
}

func totalCreditLimit(tradelines []models.Tradeline) float64 {
	total := 0.0
	for _, t := range tradelines {
		if t.EnhancedPaymentData != nil {
			total += num(t.EnhancedPaymentData.CreditLimitAmount)
		}
	}
	return total
}

// oldestTradeMonths returns the age of the oldest tradeline. An empty slate
// comes back as monthsUnknown; so does an unparsable open date, preserving
// the "very old" fallback direction the recency checks use even though it
// can mask a thin file here.
func oldestTradeMonths(tradelines []models.Tradeline, now time.Time) int {
	oldest := monthsUnknown
	for _, t := range tradelines {
		if m := monthsSince(t.OpenDate, now); m < oldest {
			oldest = m
		}
	}
	return oldest
}

func hasDisputedTradeline(tradelines []models.Tradeline) bool {
	for _, t := range tradelines {
		flag := strings.TrimSpace(t.ConsumerDisputeFlag)
		if flag != "" && !strings.EqualFold(flag, "N") {
			return true
		}
	}
	return false
}

func hasRevolving(tradelines []models.Tradeline) bool {
	for _, t := range tradelines {
		if t.RevolvingOrInstallment == "R" {
			return true
		}
	}
	return false
}

func hasInstallment(tradelines []models.Tradeline) bool {
	for _, t := range tradelines {
		if t.RevolvingOrInstallment == "I" {
			return true
		}
	}
	return false
}

func hasMortgage(tradelines []models.Tradeline) bool {
	for _, t := range tradelines {
		if strings.Contains(strings.ToUpper(t.AccountType), "MORTGAGE") {
			return true
		}
	}
	return false
}

func filterTradelines(tradelines []models.Tradeline, keep func(models.Tradeline) bool) []models.Tradeline {
	out := make([]models.Tradeline, 0, len(tradelines))
	for _, t := range tradelines {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func enhancedStatus(t models.Tradeline) string {
	if t.EnhancedPaymentData == nil {
		return ""
	}
	return t.EnhancedPaymentData.EnhancedPaymentStatus
}

func enhancedComment(t models.Tradeline) string {
	if t.EnhancedPaymentData == nil {
		return ""
	}
	return t.EnhancedPaymentData.EnhancedSpecialComment
}

func chargeoffAmount(t models.Tradeline) float64 {
	if t.EnhancedPaymentData == nil {
		return 0
	}
	return num(t.EnhancedPaymentData.ChargeoffAmount)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func round3(f float64) float64 {
	return float64(int64(f*1000+0.5)) / 1000
}
