package ratio

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var nan = math.NaN()

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
	radixLiteral   = regexp.MustCompile(`^0(?:[xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// ToNumber coerces a form string to a float64 the way browsers coerce
// numeric strings.
//
//	""          -> 0
//	"  12  "    -> 12
//	"1e3"       -> 1000
//	"0x1f"      -> 31
//	"-Infinity" -> -Inf
//	"12abc"     -> NaN
func ToNumber(s string) float64 {
	s = strings.TrimFunc(s, isStringSpace)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if radixLiteral.MatchString(s) {
		return parseRadix(s)
	}

	if !decimalLiteral.MatchString(s) {
		return nan
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nan
	}
	return f
}

func parseRadix(s string) float64 {
	base := 16
	switch s[1] {
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	}

	n, ok := new(big.Int).SetString(s[2:], base)
	if !ok {
		return nan
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// isStringSpace matches the whitespace and line terminators stripped from
// numeric strings, which includes the byte order mark but not NEL.
func isStringSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}
