package ratio

import (
	"math"
	"math/big"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DisplayLanguage is the tag used to format results. Only number formatting
// depends on it; page text is not translated.
var DisplayLanguage = language.English

// MaxFractionDigits is the display precision of a computed ratio.
const MaxFractionDigits = 2

// Format renders v for display in DisplayLanguage.
func Format(v float64) string {
	return FormatIn(DisplayLanguage, v)
}

// FormatIn renders v with at most MaxFractionDigits fractional digits and
// the grouping rules of tag. Halfway values round away from zero. NaN
// renders as "NaN", infinities as "∞" and "-∞", and negative values that
// round to zero as "-0".
func FormatIn(tag language.Tag, v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}

	rounded := roundHalfAway(v, MaxFractionDigits)
	if rounded == 0 && math.Signbit(v) {
		return "-0"
	}

	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(rounded, number.MaxFractionDigits(MaxFractionDigits)))
}

// roundHalfAway rounds the exact binary value of v to digits fractional
// digits, ties away from zero, and returns the nearest float64. v must be
// finite.
func roundHalfAway(v float64, digits int) float64 {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)

	r := new(big.Rat).SetFloat64(v)
	r.Mul(r, new(big.Rat).SetInt(scale))

	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	m.Abs(m).Lsh(m, 1)
	if m.Cmp(r.Denom()) >= 0 {
		if r.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}

	f, _ := new(big.Rat).SetFrac(q, scale).Float64()
	return f
}
