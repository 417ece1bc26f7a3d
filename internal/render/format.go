package render

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is shown wherever a value is missing.
const Placeholder = "—"

// Number renders v as a fixed-point string with the given number of decimals.
// Numeric strings are accepted ("80" → "80"). Ties round away from zero.
// Non-numeric values are returned as text; missing or blank values become
// Placeholder. Number never fails.
func Number(v any, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if d, ok := toDecimal(v); ok {
		return d.StringFixed(int32(decimals))
	}
	return textOr(v, Placeholder)
}

// toDecimal coerces v into a finite decimal.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Decimal{}, false
	case json.Number:
		return parseDecimal(t.String())
	case string:
		return parseDecimal(t)
	case float64:
		return fromFloat(t)
	case float32:
		return fromFloat(float64(t))
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int8:
		return decimal.NewFromInt(int64(t)), true
	case int16:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case uint:
		return fromUint(uint64(t)), true
	case uint8:
		return fromUint(uint64(t)), true
	case uint16:
		return fromUint(uint64(t)), true
	case uint32:
		return fromUint(uint64(t)), true
	case uint64:
		return fromUint(t), true
	default:
		return decimal.Decimal{}, false
	}
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Decimal{}, false
	}
	// Keep the upstream digits when they parse as a plain decimal.
	if d, err := decimal.NewFromString(s); err == nil {
		return d, true
	}
	return decimal.NewFromFloat(f), true
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

// textOr renders v as text, falling back to def for nil or blank values.
func textOr(v any, def string) string {
	var s string
	switch t := v.(type) {
	case nil:
		return def
	case string:
		s = t
	case json.Number:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
