package policy

import (
	"strings"

	"vetgate/internal/screening/models"
)

// The tier and contribution ladders live in ordered, explicitly-bounded
// tables so boundary semantics stay auditable and testable on their own,
// instead of being buried in if/else chains.

// scoreBand maps an inclusive upper bound to a value. Tables are evaluated
// top-down; the first band whose Max is >= the input wins.
type upperBand struct {
	Max  float64
	Tier models.Tier
}

// fraudTierBands: lower fraud score means higher tier. Bounds are inclusive
// on the upper edge of each band.
var fraudTierBands = []upperBand{
	{Max: 30, Tier: 7},
	{Max: 40, Tier: 6},
	{Max: 50, Tier: 5},
	{Max: 60, Tier: 4},
	{Max: 70, Tier: 3},
	{Max: 80, Tier: 2},
	{Max: 90, Tier: 1},
}

func fraudTierFromScore(score float64) models.Tier {
	for _, b := range fraudTierBands {
		if score <= b.Max {
			return b.Tier
		}
	}
	return 0
}

// lowerBand maps an inclusive lower bound to a tier; first match wins.
type lowerBand struct {
	Min  float64
	Tier models.Tier
}

// compositeTierBands maps the credit composite score to the bureau tier.
var compositeTierBands = []lowerBand{
	{Min: 95, Tier: 7},
	{Min: 90, Tier: 6},
	{Min: 85, Tier: 5},
	{Min: 80, Tier: 4},
	{Min: 75, Tier: 3},
	{Min: 70, Tier: 2},
	{Min: 60, Tier: 1},
}

func bureauTierFromComposite(score float64) models.Tier {
	for _, b := range compositeTierBands {
		if score >= b.Min {
			return b.Tier
		}
	}
	return 0
}

// incomeTierBands maps normalized net monthly income to the income tier.
var incomeTierBands = []lowerBand{
	{Min: 5000, Tier: 7},
	{Min: 3500, Tier: 6},
	{Min: 2500, Tier: 5},
	{Min: 1800, Tier: 4},
	{Min: 1400, Tier: 3},
	{Min: 1000, Tier: 2},
	{Min: 800, Tier: 1},
}

func incomeTierFromNetMonthly(netMonthly float64) models.Tier {
	for _, b := range incomeTierBands {
		if netMonthly >= b.Min {
			return b.Tier
		}
	}
	return 0
}

// riskScoreBandAdj maps the primary risk-model score to its composite
// contribution.
type scoreAdj struct {
	Min float64
	Adj float64
}

var riskScoreBandAdjs = []scoreAdj{
	{Min: 780, Adj: +5},
	{Min: 740, Adj: 0},
	{Min: 700, Adj: -5},
	{Min: 660, Adj: -10},
	{Min: 640, Adj: -15},
	{Min: 620, Adj: -20},
}

func riskScoreBandAdj(score float64) float64 {
	for _, b := range riskScoreBandAdjs {
		if score >= b.Min {
			return b.Adj
		}
	}
	return -30
}

// cadenceFactors convert a pay cadence into a net-monthly multiplier.
// Unknown cadences fall back to monthly.
var cadenceFactors = map[string]float64{
	"WEEKLY":      4.33,
	"BIWEEKLY":    2.17,
	"SEMIMONTHLY": 2.0,
	"MONTHLY":     1.0,
}

func cadenceFactor(cadence string) float64 {
	if f, ok := cadenceFactors[strings.ToUpper(cadence)]; ok {
		return f
	}
	return 1.0
}
