package render

import (
	"github.com/shopspring/decimal"

	"github.com/i474232898/weather-mailer/internal/common"
)

// Badge is the short status summarizing a notification.
type Badge int

const (
	BadgeDaily Badge = iota
	BadgeUmbrella
	BadgeCold
	BadgeSunny
)

func (b Badge) String() string {
	switch b {
	case BadgeUmbrella:
		return "umbrella"
	case BadgeCold:
		return "cold"
	case BadgeSunny:
		return "sunny"
	default:
		return "daily"
	}
}

// Description tokens, matched case-insensitively against the forecast text.
var (
	rainTokens  = []string{"גשם", "rain"}
	frostTokens = []string{"קרה", "frost"}
	sunTokens   = []string{"שמש", "sun"}
)

// coldThreshold is the temperature (°C) at or below which a day counts as cold.
var coldThreshold = decimal.NewFromInt(6)

// Classify derives the badge from the forecast description and the current
// temperature. Rules are checked in priority order: rain, then cold (frost in
// the text or temperature <= 6), then sun; anything else is a daily update.
func Classify(description string, currentTemp any) Badge {
	if common.HasAnyFold(description, rainTokens...) {
		return BadgeUmbrella
	}
	if common.HasAnyFold(description, frostTokens...) {
		return BadgeCold
	}
	if t, ok := toDecimal(currentTemp); ok && t.LessThanOrEqual(coldThreshold) {
		return BadgeCold
	}
	if common.HasAnyFold(description, sunTokens...) {
		return BadgeSunny
	}
	return BadgeDaily
}
