// Package price is the single place where raw monetary payload values are
// interpreted. Everything that leaves this package is a decimal amount in
// major units (rupees, not paise).
//
// The minor-unit classification is a heuristic: an integral value of 1000 or
// more is assumed to be minor units. Payloads that carry an explicit unit tag
// should go through ToMajorUnitsTagged so the tag wins over the guess.
package price

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	UnitMajor = "major"
	UnitMinor = "minor"
)

var (
	hundred            = decimal.NewFromInt(100)
	minorUnitThreshold = decimal.NewFromInt(1000)
	minorUnitMarkers   = []string{"paise", "cents", "minor"}
)

// SnapshotKeys is the fixed priority in which per-item price fields are tried.
var SnapshotKeys = []string{
	"unitPrice",
	"unit_price",
	"price",
	"priceSnapshot",
	"amount",
	"amountMajor",
	"amountPaise",
	"unit_amount",
}

// UnitTagKeys are the payload fields that may carry an explicit unit tag.
var UnitTagKeys = []string{"priceUnit", "currencyUnit"}

// ToMajorUnits converts a raw value of unknown shape into major units.
// It never fails: anything it cannot read is zero.
func ToMajorUnits(v any, hintKey string) decimal.Decimal {
	d, integral, ok := parse(v)
	if !ok {
		return decimal.Zero
	}
	if hasMinorMarker(hintKey) || (integral && d.GreaterThanOrEqual(minorUnitThreshold)) {
		return d.Div(hundred)
	}
	return d
}

// ToMajorUnitsTagged honours an explicit unit tag and falls back to the
// heuristic when the tag is empty or unknown.
func ToMajorUnitsTagged(v any, hintKey, unit string) decimal.Decimal {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case UnitMajor:
		return ParseMajor(v)
	case UnitMinor:
		return ParseMajor(v).Div(hundred)
	default:
		return ToMajorUnits(v, hintKey)
	}
}

// ParseMajor reads a value whose contract already says major units.
func ParseMajor(v any) decimal.Decimal {
	d, _, ok := parse(v)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ToMinorUnits rounds half away from zero to whole minor units.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

func hasMinorMarker(hintKey string) bool {
	k := strings.ToLower(hintKey)
	for _, m := range minorUnitMarkers {
		if strings.Contains(k, m) {
			return true
		}
	}
	return false
}

// parse returns the value, whether its source form was integral, and
// whether anything usable was found.
func parse(v any) (decimal.Decimal, bool, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false, false
	case decimal.Decimal:
		return x, x.IsInteger(), true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, false, false
		}
		return *x, x.IsInteger(), true
	case float64:
		return parseFloat(x)
	case float32:
		return parseFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true, true
	case int8:
		return decimal.NewFromInt(int64(x)), true, true
	case int16:
		return decimal.NewFromInt(int64(x)), true, true
	case int32:
		return decimal.NewFromInt(int64(x)), true, true
	case int64:
		return decimal.NewFromInt(x), true, true
	case uint:
		return decimal.NewFromUint64(uint64(x)), true, true
	case uint8:
		return decimal.NewFromInt(int64(x)), true, true
	case uint16:
		return decimal.NewFromInt(int64(x)), true, true
	case uint32:
		return decimal.NewFromInt(int64(x)), true, true
	case uint64:
		return decimal.NewFromUint64(x), true, true
	case json.Number:
		s := x.String()
		d, err := decimal.NewFromString(s)
		if err != nil {
			return parseString(s)
		}
		return d, !strings.ContainsAny(s, ".eE") && d.IsInteger(), true
	case string:
		return parseString(x)
	default:
		return decimal.Zero, false, false
	}
}

func parseFloat(f float64) (decimal.Decimal, bool, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false, false
	}
	return decimal.NewFromFloat(f), f == math.Trunc(f), true
}

// parseString keeps digits and the decimal point only, so "₹1,299.00"
// reads as 1299.00. More than one decimal point is unparsable.
func parseString(s string) (decimal.Decimal, bool, bool) {
	var b strings.Builder
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			dots++
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if dots > 1 || strings.Trim(cleaned, ".") == "" {
		return decimal.Zero, false, false
	}
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, false
	}
	return d, dots == 0, true
}
