package shared

import "strings"

const brazilCountryCode = "55"

// NormalizePhoneBR returns the phone as country code + area code + number,
// digits only ("5511987654321"). It returns "" when the input cannot be a
// Brazilian landline or mobile number.
func NormalizePhoneBR(raw string) string {
	d := OnlyDigits(raw)
	d = strings.TrimLeft(d, "0")

	switch len(d) {
	case 10, 11:
		d = brazilCountryCode + d
	case 12, 13:
		if !strings.HasPrefix(d, brazilCountryCode) {
			return ""
		}
	default:
		return ""
	}

	// area codes are 11..99
	if d[2] == '0' {
		return ""
	}
	return d
}
