// Package policy contains the per-stage rule engines. Every evaluator is a
// pure function over a vendor document: no I/O, no side effects, no hidden
// state, so re-evaluating identical input yields identical output.
package policy

import (
	"strconv"
	"strings"
)

// Reason codes shared across evaluators.
const (
	ReasonTechnicalError  = "technical_error_or_timeout"
	ReasonVendorError     = "vendor_error_or_timeout"
	ReasonIncomeVendorErr = "vendor_error"
)

// num normalizes a vendor numeric field that may arrive as a JSON number or
// as a formatted string ("$1,234.00"). Unparsable values collapse to zero,
// matching the tolerance the rules are calibrated against.
func num(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(n, ",", ""), "$", ""))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// round2 rounds to cents; decision output must be byte-stable.
func round2(f float64) float64 {
	if f < 0 {
		return float64(int64(f*100-0.5)) / 100
	}
	return float64(int64(f*100+0.5)) / 100
}
