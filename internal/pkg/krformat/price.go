// Package krformat holds the storefront's string and number formatting
// helpers: price display with thousands separators, progressive phone-number
// masking, and byte-length rules for mixed Hangul/Latin text.
package krformat

import "strconv"

// FormatPrice renders an amount in currency units with comma separators,
// e.g. 50000 -> "50,000". Non-positive amounts render as "0".
func FormatPrice(price int64) string {
	if price <= 0 {
		return "0"
	}

	s := strconv.FormatInt(price, 10)
	n := len(s)
	if n <= 3 {
		return s
	}

	var out []byte
	head := n % 3
	if head > 0 {
		out = append(out, s[:head]...)
	}
	for i := head; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
