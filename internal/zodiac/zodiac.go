// Package zodiac maps calendar dates and ecliptic longitudes to tropical signs.
package zodiac

import (
	"strings"
	"time"

	"github.com/thomaskoefod/cosmicgen/internal/astro"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

type window struct {
	sign      models.Sign
	fromMonth time.Month
	fromDay   int
	toMonth   time.Month
	toDay     int
}

// Fixed windows that ignore year-specific boundary drift.
var windows = []window{
	{models.Aries, time.March, 21, time.April, 19},
	{models.Taurus, time.April, 20, time.May, 20},
	{models.Gemini, time.May, 21, time.June, 20},
	{models.Cancer, time.June, 21, time.July, 22},
	{models.Leo, time.July, 23, time.August, 22},
	{models.Virgo, time.August, 23, time.September, 22},
	{models.Libra, time.September, 23, time.October, 22},
	{models.Scorpio, time.October, 23, time.November, 21},
	{models.Sagittarius, time.November, 22, time.December, 21},
	{models.Capricorn, time.December, 22, time.January, 19},
	{models.Aquarius, time.January, 20, time.February, 18},
	{models.Pisces, time.February, 19, time.March, 20},
}

// SunSignFromDate returns the tropical sun sign for the calendar date.
func SunSignFromDate(date time.Time) models.Sign {
	m, d := date.Month(), date.Day()
	for _, w := range windows {
		if (m == w.fromMonth && d >= w.fromDay) || (m == w.toMonth && d <= w.toDay) {
			return w.sign
		}
	}
	return models.NoSign
}

// SignFromLongitude buckets an ecliptic longitude into one of the 30° signs.
func SignFromLongitude(lon float64) models.Sign {
	return models.Sign(int(astro.Normalize360(lon) / 30))
}

// ParseSign matches a sign name case-insensitively.
func ParseSign(s string) (models.Sign, bool) {
	s = strings.TrimSpace(s)
	for _, sign := range models.AllSigns() {
		if strings.EqualFold(sign.String(), s) {
			return sign, true
		}
	}
	return models.NoSign, false
}
