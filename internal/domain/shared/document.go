package shared

import (
	"strings"
)

// OnlyDigits strips everything but ASCII digits.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPF checks length and both check digits of a Brazilian individual
// taxpayer number. Formatting characters are ignored.
func IsValidCPF(doc string) bool {
	d := OnlyDigits(doc)
	if len(d) != 11 || allSame(d) {
		return false
	}
	return checkDigit(d[:9], 10) == d[9] && checkDigit(d[:10], 11) == d[10]
}

// IsValidCNPJ checks length and both check digits of a Brazilian company
// registration number.
func IsValidCNPJ(doc string) bool {
	d := OnlyDigits(doc)
	if len(d) != 14 || allSame(d) {
		return false
	}
	w1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return weightedDigit(d[:12], w1) == d[12] && weightedDigit(d[:13], w2) == d[13]
}

// IsValidDocument accepts either a CPF or a CNPJ.
func IsValidDocument(doc string) bool {
	return IsValidCPF(doc) || IsValidCNPJ(doc)
}

func checkDigit(digits string, startWeight int) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (startWeight - i)
	}
	return mod11(sum)
}

func weightedDigit(digits string, weights []int) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	return mod11(sum)
}

func mod11(sum int) byte {
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}

func allSame(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
