package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetgate/internal/screening/models"
)

func TestEvaluateAML(t *testing.T) {
	t.Run("vendor failure fails closed", func(t *testing.T) {
		for _, resp := range []*models.AMLResponse{
			nil,
			{Success: false, TransportError: "connection refused"},
			{Success: true, Data: nil},
		} {
			decision := EvaluateAML(resp)
			assert.Equal(t, models.OutcomeDecline, decision.Outcome)
			assert.Equal(t, []string{ReasonTechnicalError}, decision.Reasons)
			assert.Nil(t, decision.Tier)
		}
	})

	t.Run("sanctions match declines", func(t *testing.T) {
		decision := EvaluateAML(&models.AMLResponse{
			Success: true,
			Data:    &models.AMLData{HasSanctionMatch: true},
		})
		require.Equal(t, models.OutcomeDecline, decision.Outcome)
		assert.Equal(t, []string{ReasonSanctionsMatch}, decision.Reasons)
	})

	t.Run("all blocking matches reported in stable order", func(t *testing.T) {
		decision := EvaluateAML(&models.AMLResponse{
			Success: true,
			Data: &models.AMLData{
				HasSanctionMatch:     true,
				HasPEPMatch:          true,
				HasCrimelistMatch:    true,
				HasAdverseMediaMatch: true,
			},
		})
		require.Equal(t, models.OutcomeDecline, decision.Outcome)
		assert.Equal(t, []string{
			ReasonSanctionsMatch,
			ReasonPEPMatch,
			ReasonCrimelistMatch,
			ReasonAdverseMediaSignal,
		}, decision.Reasons)
	})

	t.Run("adverse media alone does not block", func(t *testing.T) {
		decision := EvaluateAML(&models.AMLResponse{
			Success: true,
			Data:    &models.AMLData{HasAdverseMediaMatch: true},
		})
		assert.Equal(t, models.OutcomePass, decision.Outcome)
		assert.Equal(t, []string{ReasonAdverseMediaSignal}, decision.Reasons)
	})

	t.Run("watchlist match is diagnostic only", func(t *testing.T) {
		decision := EvaluateAML(&models.AMLResponse{
			Success: true,
			Data:    &models.AMLData{HasWatchlistMatch: true},
		})
		assert.Equal(t, models.OutcomePass, decision.Outcome)
		assert.Empty(t, decision.Reasons)
		assert.Equal(t, true, decision.Details["has_watchlist_match"])
	})

	t.Run("clean response passes with no reasons", func(t *testing.T) {
		decision := EvaluateAML(&models.AMLResponse{Success: true, Data: &models.AMLData{}})
		assert.Equal(t, models.OutcomePass, decision.Outcome)
		assert.Empty(t, decision.Reasons)
		assert.Nil(t, decision.Tier)
	})

	t.Run("evaluation is deterministic", func(t *testing.T) {
		resp := &models.AMLResponse{
			Success: true,
			Data:    &models.AMLData{HasPEPMatch: true, HasWatchlistMatch: true},
		}
		first := EvaluateAML(resp)
		second := EvaluateAML(resp)
		assert.Equal(t, first, second)
	})
}
