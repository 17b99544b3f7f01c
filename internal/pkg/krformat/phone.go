package krformat

import (
	"regexp"
	"strings"
)

// phoneRE matches a fully-masked Korean mobile number, e.g. 010-1234-5678.
var phoneRE = regexp.MustCompile(`^01[016789]-\d{3,4}-\d{4}$`)

// ValidPhone reports whether s is a well-formed masked mobile number.
func ValidPhone(s string) bool {
	return phoneRE.MatchString(s)
}

// FormatPhone strips non-digits from raw input and re-masks it into
// 3-4-4 dashed segments as the user types: "0101234" -> "010-1234",
// "01012345678" -> "010-1234-5678". Input beyond 11 digits is truncated.
func FormatPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 11 {
				break
			}
		}
	}

	d := digits.String()
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 7:
		return d[:3] + "-" + d[3:]
	case len(d) == 10:
		// Completed 10-digit numbers mask 3-3-4 (e.g. 011-123-4567).
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	default:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	}
}
