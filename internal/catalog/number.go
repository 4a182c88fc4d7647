package catalog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// plain decimal or exponent literal: the only text SQLite compares
	// numerically against an INTEGER column
	decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	// radix-prefixed and infinite literals count as numbers for clients but
	// can never equal a stored id
	prefixedLiteral = regexp.MustCompile(`^(0[xX][0-9a-fA-F]+|0[oO][0-7]+|0[bB][01]+|[+-]?Infinity)$`)

	leadingHex = regexp.MustCompile(`^([+-]?)0[xX]([0-9a-fA-F]+)`)
	leadingInt = regexp.MustCompile(`^[+-]?\d+`)
)

// parseDecimal parses raw as a decimal literal. Values beyond float64 range
// become ±Inf and still count as numbers.
func parseDecimal(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if !decimalLiteral.MatchString(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	var nerr *strconv.NumError
	if err != nil && !(errors.As(err, &nerr) && nerr.Err == strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// leadingInteger reads the integer at the start of raw, ignoring whatever
// follows it ("999999.5" is 999999, "1e6" is 1). It returns nil when raw does
// not start with digits or the value overflows int64.
func leadingInteger(raw string) *int64 {
	s := strings.TrimSpace(raw)
	var (
		v   int64
		err error
	)
	if m := leadingHex.FindStringSubmatch(s); m != nil {
		v, err = strconv.ParseInt(m[1]+m[2], 16, 64)
	} else if m := leadingInt.FindString(s); m != "" {
		v, err = strconv.ParseInt(m, 10, 64)
	} else {
		return nil
	}
	if err != nil {
		return nil
	}
	return &v
}
