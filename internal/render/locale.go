package render

import "strings"

// Locale holds every fixed string the notification uses.
type Locale struct {
	Code string
	Dir  string // "rtl" or "ltr"

	Title    string
	Subject  string
	Now      string
	Forecast string
	Updated  string
	Footer   string

	Temperature string
	Humidity    string
	Wind        string
	Pressure    string
	RainToday   string
	Sunshine    string
	RainChance  string
	Low         string
	High        string
	Night       string
	HumDay      string

	SpeedUnit string
	RainUnit  string

	Badges map[Badge]string
}

// English is the default locale.
var English = Locale{
	Code:        "en",
	Dir:         "ltr",
	Title:       "Weather forecast",
	Subject:     "Forecast",
	Now:         "Now",
	Forecast:    "Forecast",
	Updated:     "updated",
	Footer:      "Sent automatically",
	Temperature: "Temperature",
	Humidity:    "Humidity",
	Wind:        "Wind",
	Pressure:    "Pressure",
	RainToday:   "Rain today",
	Sunshine:    "Sunshine hours",
	RainChance:  "Chance of rain",
	Low:         "Low",
	High:        "High",
	Night:       "Night",
	HumDay:      "Daytime humidity",
	SpeedUnit:   "km/h",
	RainUnit:    "mm",
	Badges: map[Badge]string{
		BadgeUmbrella: "Umbrella recommended ☔",
		BadgeCold:     "Especially cold 🥶",
		BadgeSunny:    "Sunny ☀️",
		BadgeDaily:    "Daily update",
	},
}

// Hebrew renders right-to-left.
var Hebrew = Locale{
	Code:        "he",
	Dir:         "rtl",
	Title:       "תחזית מזג אוויר",
	Subject:     "תחזית",
	Now:         "עכשיו",
	Forecast:    "תחזית",
	Updated:     "עודכן",
	Footer:      "נשלח אוטומטית",
	Temperature: "טמפרטורה",
	Humidity:    "לחות",
	Wind:        "רוח",
	Pressure:    "לחץ",
	RainToday:   "גשם היום",
	Sunshine:    "שעות שמש",
	RainChance:  "סיכוי גשם",
	Low:         "מינ׳",
	High:        "מקס׳",
	Night:       "לילה",
	HumDay:      "לחות יום",
	SpeedUnit:   "קמ״ש",
	RainUnit:    "מ״מ",
	Badges: map[Badge]string{
		BadgeUmbrella: "מטריה מומלצת ☔",
		BadgeCold:     "קר במיוחד 🥶",
		BadgeSunny:    "יש שמש ☀️",
		BadgeDaily:    "עדכון יומי",
	},
}

// LocaleFor returns the locale registered under code.
func LocaleFor(code string) (Locale, bool) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "", "en":
		return English, true
	case "he", "iw":
		return Hebrew, true
	default:
		return Locale{}, false
	}
}

// Label returns the badge text for b.
func (l Locale) Label(b Badge) string {
	if s, ok := l.Badges[b]; ok {
		return s
	}
	return l.Badges[BadgeDaily]
}
