package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts free-form amount text to a signed float. Both dot
// (12.34) and comma (12,34) decimal separators are accepted. Input that does
// not parse as a number coerces to 0 rather than failing: a malformed amount
// must never abort the surrounding save operation.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseLimit converts credit-limit text to a whole amount, with the same
// coerce-to-zero policy as ParseAmount. Fractional input truncates toward
// zero.
func ParseLimit(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	// Tolerate decimal notation in the limit field.
	f := ParseAmount(s)
	return int64(f)
}
