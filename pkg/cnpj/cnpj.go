// Package cnpj formats and validates Brazilian company tax identifiers (CNPJ).
//
// A CNPJ is 14 digits, displayed as XX.XXX.XXX/XXXX-XX. Stored values are
// always the normalized digit string.
package cnpj

import "strings"

// Length is the number of digits in a normalized CNPJ.
const Length = 14

// Format strips every non-digit, truncates to 14 digits and punctuates
// progressively: a separator appears only once a digit follows it, so partial
// input renders as the operator types ("11222" -> "11.222").
func Format(raw string) string {
	d := Normalize(raw)
	if len(d) > Length {
		d = d[:Length]
	}

	var b strings.Builder
	b.Grow(Length + 4)
	for i := 0; i < len(d); i++ {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// Normalize returns only the ASCII digits of s, in order.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsValid reports whether digits is structurally a CNPJ: exactly 14 ASCII
// digits. Check digits are not verified; see HasValidCheckDigits.
func IsValid(digits string) bool {
	if len(digits) != Length {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

var (
	firstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// HasValidCheckDigits runs the mod-11 check-digit algorithm on a structurally
// valid CNPJ. Sequences of a single repeated digit are rejected.
func HasValidCheckDigits(digits string) bool {
	if !IsValid(digits) {
		return false
	}
	if strings.Count(digits, digits[:1]) == Length {
		return false
	}
	return checkDigit(digits[:12], firstWeights) == digits[12] &&
		checkDigit(digits[:13], secondWeights) == digits[13]
}

func checkDigit(base string, weights []int) byte {
	sum := 0
	for i := range weights {
		sum += int(base[i]-'0') * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + 11 - rem)
}
