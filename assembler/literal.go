package assembler

import (
	"math"
	"strconv"
	"strings"
)

// ParseLiteral parses a decimal, 0x, 0o or 0b literal with an optional leading
// minus sign. Prefixes are matched lowercase only. Positive values may use the
// full unsigned 32-bit range and are returned as their two's complement bit
// pattern.
func ParseLiteral(tok string) (int32, error) {
	s := tok
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	radix := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		radix = 16
	case strings.HasPrefix(s, "0o"):
		radix = 8
	case strings.HasPrefix(s, "0b"):
		radix = 2
	}
	if radix != 10 {
		s = s[2:]
	}
	u, err := strconv.ParseUint(s, radix, 32)
	if err != nil {
		return 0, &MalformedLiteralError{Token: tok}
	}
	if !neg {
		return int32(uint32(u)), nil
	}
	v := -int64(u)
	if v < math.MinInt32 {
		return 0, &MalformedLiteralError{Token: tok}
	}
	return int32(v), nil
}
