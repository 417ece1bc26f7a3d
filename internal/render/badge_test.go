package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		desc string
		temp any
		want Badge
	}{
		{"rain wins over mild temperature", "light rain expected", 10, BadgeUmbrella},
		{"temperature only", "", 3, BadgeCold},
		{"rain beats frost", "Heavy RAIN and frost", 2, BadgeUmbrella},
		{"frost in text", "Frost at night", 20, BadgeCold},
		{"cold beats sun", "sunny", 6, BadgeCold},
		{"sun above threshold", "Sunny", "6.1", BadgeSunny},
		{"formatted negative temperature", "", "-1.5", BadgeCold},
		{"placeholder temperature", "cloudy", Placeholder, BadgeDaily},
		{"hebrew rain", "גשם קל בצהריים", nil, BadgeUmbrella},
		{"hebrew frost", "קרה בלילה", 15, BadgeCold},
		{"hebrew sun", "שמש", 20, BadgeSunny},
		{"default", "partly cloudy", 14, BadgeDaily},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.desc, tc.temp))
		})
	}
}

func TestBadgeLabels(t *testing.T) {
	assert.Equal(t, "Umbrella recommended ☔", English.Label(BadgeUmbrella))
	assert.Equal(t, "קר במיוחד 🥶", Hebrew.Label(BadgeCold))
	assert.Equal(t, "Daily update", English.Label(Badge(99)))
	assert.Equal(t, "sunny", BadgeSunny.String())
}

func TestLocaleFor(t *testing.T) {
	l, ok := LocaleFor("HE")
	assert.True(t, ok)
	assert.Equal(t, "rtl", l.Dir)

	l, ok = LocaleFor("")
	assert.True(t, ok)
	assert.Equal(t, "en", l.Code)

	_, ok = LocaleFor("fr")
	assert.False(t, ok)
}
