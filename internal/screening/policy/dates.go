package policy

import (
	"strconv"
	"strings"
	"time"
)

// monthsUnknown is the fallback age for blank or unparsable dates. Treating
// bad dates as infinitely old means recency-based knock-outs never fire on
// malformed vendor data. The same fallback applies to oldest-open-months,
// which keeps decline rates aligned with the calibrated policy even though
// "very old" can mask a thin file there.
const monthsUnknown = 9999

// monthsSince parses a vendor date in MMDDYYYY, YYYYMMDD, or ISO YYYY-MM-DD
// form and returns whole calendar months elapsed relative to now.
func monthsSince(dateStr string, now time.Time) int {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return monthsUnknown
	}

	y, m, d, ok := parseVendorDate(s)
	if !ok {
		return monthsUnknown
	}
	// Reject impossible calendar values the same way a strict parse would.
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return monthsUnknown
	}

	months := (now.Year()-y)*12 + int(now.Month()) - m
	return months
}

func parseVendorDate(s string) (year, month, day int, ok bool) {
	if len(s) == 8 && isDigits(s) {
		// Eight digits is ambiguous; bureaus emit MMDDYYYY, so try that
		// first and fall back to YYYYMMDD when the month slot is impossible.
		mm, _ := strconv.Atoi(s[0:2])
		dd, _ := strconv.Atoi(s[2:4])
		yyyy, _ := strconv.Atoi(s[4:8])
		if mm >= 1 && mm <= 12 {
			return yyyy, mm, dd, true
		}
		yyyy, _ = strconv.Atoi(s[0:4])
		mm, _ = strconv.Atoi(s[4:6])
		dd, _ = strconv.Atoi(s[6:8])
		return yyyy, mm, dd, true
	}

	parts := strings.Split(s, "-")
	if len(parts) == 3 {
		y, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		d, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, 0, 0, false
		}
		return y, m, d, true
	}

	return 0, 0, 0, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
