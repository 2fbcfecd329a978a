package policy

import (
	"strings"

	"vetgate/internal/screening/models"
)

// Fraud severity reason codes, derived from device and IP detail blocks.
const (
	ReasonDeviceVPN       = "device_vpn"
	ReasonDeviceProxy     = "device_proxy"
	ReasonDeviceEmulator  = "device_emulator_or_bot"
	ReasonIPDatacenter    = "ip_datacenter"
	ReasonIPProxy         = "ip_proxy"
	ReasonIPVPN           = "ip_vpn"
	ReasonIPTor           = "ip_tor"
	ReasonMissingDevice   = "missing_device"
	ReasonHighRiskScore   = "high_risk_score"
	ReasonMediumHighScore = "medium_high_risk_score"
)

// Fraud decision thresholds, applied in priority order.
const (
	fraudDeclineScore   = 90
	fraudReviewScore    = 70
	fraudDeclineReasons = 3
)

// EvaluateFraud applies the fraud stage thresholds:
//
//  1. vendor failure            -> REVIEW, no tier
//  2. score >= 90 or 3+ flags   -> DECLINE
//  3. score in [70,90) or flags -> REVIEW
//  4. otherwise                 -> PASS with provisional tier from score
func EvaluateFraud(resp *models.FraudResponse) models.Decision {
	decision := models.Decision{
		Stage:   models.StageFraud,
		Reasons: []string{},
		Details: map[string]any{},
	}

	if resp == nil || !resp.Success || resp.Data == nil {
		decision.Outcome = models.OutcomeReview
		decision.Reasons = []string{ReasonVendorError}
		decision.Details["fraud_score"] = nil
		return decision
	}

	score := num(resp.Data.FraudScore)
	reasons := severityReasons(resp.Data)
	decision.Details["fraud_score"] = score

	switch {
	case score >= fraudDeclineScore || len(reasons) >= fraudDeclineReasons:
		decision.Outcome = models.OutcomeDecline
		if len(reasons) == 0 {
			reasons = []string{ReasonHighRiskScore}
		}
		decision.Reasons = reasons

	case score >= fraudReviewScore || len(reasons) > 0:
		decision.Outcome = models.OutcomeReview
		if len(reasons) == 0 {
			reasons = []string{ReasonMediumHighScore}
		}
		decision.Reasons = reasons

	default:
		decision.Outcome = models.OutcomePass
		decision.Reasons = reasons
		decision.Tier = models.TierPtr(fraudTierFromScore(score))
	}

	return decision
}

// severityReasons inspects device and IP blocks for red flags. Absence of
// device details is itself a (weak) signal that lands the case in review.
func severityReasons(data *models.FraudData) []string {
	reasons := []string{}

	if dd := data.DeviceDetails; dd != nil {
		if dd.VPN {
			reasons = append(reasons, ReasonDeviceVPN)
		}
		if dd.Proxy {
			reasons = append(reasons, ReasonDeviceProxy)
		}
		for _, flag := range dd.SuspiciousFlags {
			f := strings.ToLower(flag)
			if strings.Contains(f, "emulator") || strings.Contains(f, "bot") || strings.Contains(f, "automation") {
				reasons = append(reasons, ReasonDeviceEmulator)
				break
			}
		}
	}

	if ipd := data.IPDetails; ipd != nil {
		if strings.ToUpper(ipd.IPType) == "DCH" {
			reasons = append(reasons, ReasonIPDatacenter)
		}
		if ipd.Proxy {
			reasons = append(reasons, ReasonIPProxy)
		}
		if ipd.VPN {
			reasons = append(reasons, ReasonIPVPN)
		}
		if ipd.Tor {
			reasons = append(reasons, ReasonIPTor)
		}
	}

	if data.DeviceDetails == nil {
		reasons = append(reasons, ReasonMissingDevice)
	}

	return reasons
}
