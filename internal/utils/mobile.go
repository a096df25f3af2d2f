package utils

import (
	"crypto/subtle"
	"regexp"
	"strings"
)

var nonDigitRegexp = regexp.MustCompile(`\D`)

// NormalizeMobileNumber reduces a Pakistani mobile number to the canonical
// +92XXXXXXXXXX form: non-digits are stripped, a 92 country prefix on a
// 12-digit number or a trunk zero on an 11-digit number is dropped, and a
// bare 10-digit subscriber number gains the +92 prefix.
//
// Inputs that do not reduce to that shape are returned unchanged. Two
// differently formatted strings for the same subscriber can therefore stay
// distinct; lookups against such records fail the secure comparison. This
// looseness is deliberate and covered by tests rather than "fixed".
func NormalizeMobileNumber(mobile string) string {
	if strings.TrimSpace(mobile) == "" {
		return mobile
	}

	digits := nonDigitRegexp.ReplaceAllString(mobile, "")

	if strings.HasPrefix(digits, "92") && len(digits) == 12 {
		digits = digits[2:]
	} else if strings.HasPrefix(digits, "0") && len(digits) == 11 {
		digits = digits[1:]
	}

	if len(digits) == 10 {
		return "+92" + digits
	}

	if strings.HasPrefix(mobile, "+92") && len(mobile) == 13 {
		return mobile
	}

	return mobile
}

// SecureCompareMobile normalizes both numbers and compares them in constant
// time, case-insensitively. The scan always runs over the full supplied
// value and does not short-circuit when lengths differ, so the duration
// reveals nothing about where the first mismatch occurs or whether the
// lengths match.
func SecureCompareMobile(stored, supplied string) bool {
	if stored == "" || supplied == "" {
		return false
	}

	a := NormalizeMobileNumber(supplied)
	b := NormalizeMobileNumber(stored)

	// subtle.ConstantTimeCompare returns early on length mismatch, so the
	// length check and the scan are folded by hand instead.
	result := byte(subtle.ConstantTimeEq(int32(len(a)), int32(len(b))) ^ 1)
	if len(b) == 0 {
		return len(a) == 0
	}
	for i := 0; i < len(a); i++ {
		result |= upperASCII(a[i]) ^ upperASCII(b[i%len(b)])
	}
	return result == 0
}

func upperASCII(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
