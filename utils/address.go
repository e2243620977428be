package utils

import (
	"regexp"
	"strings"
)

// addressPattern matches the canonical 20-byte hex account format.
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether s is a well-formed 0x-prefixed
// 40-hex-character account address.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// NormalizeAddress lowercases an address for storage and comparison
// consistency. Addresses are compared case-insensitively everywhere.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// SameAddress compares two addresses case-insensitively.
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// TruncateAddress renders an address as "0x1234...abcd" for display
// when no basename or display name is available.
func TruncateAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
