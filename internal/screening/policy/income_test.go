package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetgate/internal/screening/models"
)

func payrollBundle(net float64, cadence string) models.IncomeBundle {
	return models.IncomeBundle{
		Payroll: &models.IncomeDocument{
			PayrollIncome: &models.PayrollIncome{
				Streams: []models.IncomeStream{{Net: net, Cadence: cadence}},
			},
		},
		Risk: &models.IncomeDocument{Signals: []models.RiskSignal{{Code: "NO_FINDINGS", Severity: "LOW"}}},
	}
}

func suspiciousRisk() *models.IncomeDocument {
	return &models.IncomeDocument{Signals: []models.RiskSignal{{Code: "IRREGULAR_DEPOSITS", Severity: "HIGH"}}}
}

func TestEvaluateIncome(t *testing.T) {
	t.Run("vendor error on any document goes to review", func(t *testing.T) {
		errDoc := &models.IncomeDocument{ErrorType: "API_ERROR", ErrorCode: "REQUEST_EXCEPTION"}
		bundles := []models.IncomeBundle{
			{Payroll: errDoc},
			{Payroll: payrollBundle(2000, "MONTHLY").Payroll, Risk: errDoc},
			{Bank: errDoc},
		}
		for _, bundle := range bundles {
			out := EvaluateIncome(bundle, 12, models.TierPtr(5))
			assert.Equal(t, models.OutcomeReview, out.Decision.Outcome)
			assert.Equal(t, []string{ReasonIncomeVendorErr}, out.Decision.Reasons)
			assert.Equal(t, SourceUnknown, out.SourceUsed)
			assert.Nil(t, out.FinalTier)
			assert.Nil(t, out.CreditLimit)
		}
	})

	t.Run("no income declines", func(t *testing.T) {
		out := EvaluateIncome(models.IncomeBundle{}, 12, models.TierPtr(5))
		assert.Equal(t, models.OutcomeDecline, out.Decision.Outcome)
		assert.Equal(t, []string{IncomeNoIncome}, out.Decision.Reasons)
		assert.Equal(t, SourceEmpty, out.SourceUsed)
	})

	t.Run("net monthly below floor declines", func(t *testing.T) {
		out := EvaluateIncome(payrollBundle(900, "MONTHLY"), 12, models.TierPtr(5))
		assert.Equal(t, models.OutcomeDecline, out.Decision.Outcome)
		assert.Equal(t, []string{IncomeNetMonthlyTooLow}, out.Decision.Reasons)
	})

	t.Run("suspicious signals with low income decline", func(t *testing.T) {
		bundle := payrollBundle(1200, "MONTHLY")
		bundle.Risk = suspiciousRisk()
		out := EvaluateIncome(bundle, 12, models.TierPtr(5))
		assert.Equal(t, models.OutcomeDecline, out.Decision.Outcome)
		assert.Equal(t, []string{IncomeSuspiciousAndLow}, out.Decision.Reasons)
	})

	t.Run("suspicious signals with adequate income go to review", func(t *testing.T) {
		bundle := payrollBundle(2000, "MONTHLY")
		bundle.Risk = suspiciousRisk()
		out := EvaluateIncome(bundle, 12, models.TierPtr(5))
		assert.Equal(t, models.OutcomeReview, out.Decision.Outcome)
		assert.Equal(t, []string{IncomeSuspiciousSignals}, out.Decision.Reasons)
		assert.Nil(t, out.FinalTier)
	})

	t.Run("no-findings signals are not suspicious", func(t *testing.T) {
		bundle := payrollBundle(1200, "MONTHLY")
		out := EvaluateIncome(bundle, 12, models.TierPtr(5))
		assert.Equal(t, models.OutcomePass, out.Decision.Outcome)
	})

	t.Run("payroll pass merges tiers and suggests a limit", func(t *testing.T) {
		out := EvaluateIncome(payrollBundle(2000, "MONTHLY"), 12, models.TierPtr(5))
		require.Equal(t, models.OutcomePass, out.Decision.Outcome)
		assert.Equal(t, SourcePayroll, out.SourceUsed)
		assert.Equal(t, 2000.0, out.NetMonthly)
		require.NotNil(t, out.IncomeTier)
		assert.Equal(t, models.Tier(4), *out.IncomeTier)
		require.NotNil(t, out.FinalTier)
		assert.Equal(t, models.Tier(4), *out.FinalTier)
		require.NotNil(t, out.CreditLimit)
		assert.Equal(t, 16000.0, *out.CreditLimit)
	})

	t.Run("weekly cadence is annualized to monthly", func(t *testing.T) {
		out := EvaluateIncome(payrollBundle(500, "WEEKLY"), 12, models.TierPtr(7))
		require.Equal(t, models.OutcomePass, out.Decision.Outcome)
		assert.Equal(t, 2165.0, out.NetMonthly)
		assert.Equal(t, models.Tier(4), *out.IncomeTier)
	})

	t.Run("cadence lookup is case-insensitive with monthly fallback", func(t *testing.T) {
		out := EvaluateIncome(payrollBundle(1000, "biweekly"), 12, nil)
		assert.Equal(t, 2170.0, out.NetMonthly)

		out = EvaluateIncome(payrollBundle(2000, "QUARTERLY"), 12, nil)
		assert.Equal(t, 2000.0, out.NetMonthly)
	})

	t.Run("pay frequency backs up a missing stream cadence", func(t *testing.T) {
		bundle := models.IncomeBundle{
			Payroll: &models.IncomeDocument{
				PayrollIncome: &models.PayrollIncome{
					PayFrequency: "SEMIMONTHLY",
					Streams:      []models.IncomeStream{{Net: float64(1000)}},
				},
			},
		}
		out := EvaluateIncome(bundle, 12, nil)
		assert.Equal(t, 2000.0, out.NetMonthly)
	})

	t.Run("bank fallback with thin coverage declines", func(t *testing.T) {
		bundle := models.IncomeBundle{
			Bank: &models.IncomeDocument{
				BankIncome: &models.BankIncome{
					Coverage: "PARTIAL",
					Streams:  []models.IncomeStream{{AverageNet: float64(2000)}},
				},
			},
		}
		out := EvaluateIncome(bundle, 2, models.TierPtr(5))
		assert.Equal(t, models.OutcomeDecline, out.Decision.Outcome)
		assert.Equal(t, []string{IncomeInsufficientCover}, out.Decision.Reasons)
		assert.Equal(t, SourceBank, out.SourceUsed)
	})

	t.Run("bank fallback with full coverage passes", func(t *testing.T) {
		bundle := models.IncomeBundle{
			Bank: &models.IncomeDocument{
				BankIncome: &models.BankIncome{
					Coverage: "FULL",
					Streams:  []models.IncomeStream{{AverageNet: float64(2600)}},
				},
			},
		}
		out := EvaluateIncome(bundle, 2, models.TierPtr(5))
		require.Equal(t, models.OutcomePass, out.Decision.Outcome)
		assert.Equal(t, models.Tier(5), *out.IncomeTier)
		assert.Equal(t, models.Tier(5), *out.FinalTier)
	})

	t.Run("missing credit tier withholds the merge", func(t *testing.T) {
		out := EvaluateIncome(payrollBundle(2000, "MONTHLY"), 12, nil)
		require.Equal(t, models.OutcomePass, out.Decision.Outcome)
		assert.NotNil(t, out.IncomeTier)
		assert.Nil(t, out.FinalTier)
	})

	t.Run("dollar-string nets normalize", func(t *testing.T) {
		out := EvaluateIncome(payrollBundle(0, "MONTHLY"), 12, nil)
		assert.Equal(t, models.OutcomeDecline, out.Decision.Outcome)

		bundle := models.IncomeBundle{
			Payroll: &models.IncomeDocument{
				PayrollIncome: &models.PayrollIncome{
					Streams: []models.IncomeStream{{Net: "$2,500.00", Cadence: "MONTHLY"}},
				},
			},
		}
		out = EvaluateIncome(bundle, 12, nil)
		assert.Equal(t, 2500.0, out.NetMonthly)
		assert.Equal(t, models.Tier(5), *out.IncomeTier)
	})
}
