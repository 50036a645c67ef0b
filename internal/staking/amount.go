package staking

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// ToRawAmount converts a display amount into base units by flooring
// display * 10^decimals. Flooring keeps the submitted amount at or below
// what the user typed, never above.
func ToRawAmount(display float64, decimals int) uint64 {
	if display <= 0 || math.IsNaN(display) || math.IsInf(display, 0) {
		return 0
	}
	scaled := display * math.Pow(10, float64(decimals))
	if scaled >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(math.Floor(scaled))
}

// FormatRaw renders a raw base-unit amount as a display string with the
// fractional part truncated to four places, e.g. 1234560000 -> "1.2345".
func FormatRaw(raw uint64, decimals int) string {
	return FormatBig(new(big.Int).SetUint64(raw), decimals)
}

// FormatBig is FormatRaw for amounts wider than 64 bits.
func FormatBig(raw *big.Int, decimals int) string {
	if raw == nil {
		return "0"
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(raw, denom, new(big.Int))
	fracStr := fmt.Sprintf("%0*s", decimals, frac.String())
	if len(fracStr) > 4 {
		fracStr = fracStr[:4]
	}
	return whole.String() + "." + fracStr
}

// DisplayAmount converts a raw base-unit amount into the float the dashboard
// shows: the truncated-to-4-places rendering parsed back as a number.
func DisplayAmount(raw uint64, decimals int) float64 {
	v, err := strconv.ParseFloat(FormatRaw(raw, decimals), 64)
	if err != nil {
		return 0
	}
	return v
}

// ClampToBalance bounds an input amount to [0, max]. A non-positive max
// leaves the upper bound open, matching an unknown balance.
func ClampToBalance(num, max float64) float64 {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0
	}
	v := num
	if v < 0 {
		v = 0
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}

// FloorTo4 truncates an amount to four decimal places.
func FloorTo4(v float64) float64 {
	return math.Floor(v*1e4) / 1e4
}

// Step returns the increment used by the amount steppers: roughly 5% of the
// balance, with a floor so a near-zero balance still moves.
func Step(max float64) float64 {
	return math.Max(max/20, 0.0001)
}
