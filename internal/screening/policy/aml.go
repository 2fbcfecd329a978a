package policy

import "vetgate/internal/screening/models"

// AML reason codes.
const (
	ReasonSanctionsMatch     = "sanctions_match"
	ReasonPEPMatch           = "pep_match"
	ReasonCrimelistMatch     = "crimelist_match"
	ReasonAdverseMediaSignal = "adverse_media_signal"
)

// EvaluateAML screens the watchlist vendor response. Compliance stages fail
// closed: a vendor failure is a DECLINE, never a silent pass. Adverse media
// alone does not block; sanctions, PEP, and crimelist matches do. This stage
// produces no tier.
func EvaluateAML(resp *models.AMLResponse) models.Decision {
	decision := models.Decision{
		Stage:   models.StageAML,
		Reasons: []string{},
		Details: map[string]any{},
	}

	if resp == nil || !resp.Success || resp.Data == nil {
		decision.Outcome = models.OutcomeDecline
		decision.Reasons = []string{ReasonTechnicalError}
		if resp != nil && resp.TransportError != "" {
			decision.Details["transport_error"] = resp.TransportError
		}
		return decision
	}

	data := resp.Data
	blocking := false
	if data.HasSanctionMatch {
		decision.Reasons = append(decision.Reasons, ReasonSanctionsMatch)
		blocking = true
	}
	if data.HasPEPMatch {
		decision.Reasons = append(decision.Reasons, ReasonPEPMatch)
		blocking = true
	}
	if data.HasCrimelistMatch {
		decision.Reasons = append(decision.Reasons, ReasonCrimelistMatch)
		blocking = true
	}
	if data.HasAdverseMediaMatch {
		decision.Reasons = append(decision.Reasons, ReasonAdverseMediaSignal)
	}
	decision.Details["has_watchlist_match"] = data.HasWatchlistMatch

	if blocking {
		decision.Outcome = models.OutcomeDecline
		return decision
	}

	decision.Outcome = models.OutcomePass
	return decision
}
