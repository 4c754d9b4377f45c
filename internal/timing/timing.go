// Package timing judges a planned date for an activity by combining the
// weekday with the numerology universal day number.
package timing

import (
	"strings"
	"time"

	"github.com/thomaskoefod/cosmicgen/internal/numerology"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

// Overall verdicts.
const (
	VerdictStrong   = "Strong Cosmic Timing"
	VerdictWeak     = "Weak / Reschedule Suggested"
	VerdictModerate = "Moderate Timing"
)

// Evaluate checks date against rule.
func Evaluate(rule models.ActivityTimingRule, date time.Time, keepMaster bool) models.TimingVerdict {
	weekday := numerology.WeekdayName(date)
	udn := numerology.UniversalDayNumber(date, keepMaster)

	v := models.TimingVerdict{
		Activity:     rule.Activity,
		Date:         date,
		Weekday:      weekday,
		UniversalDay: udn,
		Notes:        rule.Notes,
	}

	switch {
	case hasDay(rule.GoodDays, weekday):
		v.AstrologyFit = models.FitYes
	case hasDay(rule.AvoidDays, weekday):
		v.AstrologyFit = models.FitNo
	default:
		v.AstrologyFit = models.FitMaybe
	}

	switch {
	case hasNumber(rule.GoodNumbers, udn):
		v.NumerologyFit = models.FitYes
	case hasNumber(rule.AvoidNums, udn):
		v.NumerologyFit = models.FitNo
	default:
		v.NumerologyFit = models.FitMaybe
	}

	v.Verdict = Overall(v.AstrologyFit, v.NumerologyFit)
	return v
}

// Overall combines the two fits.
func Overall(astrology, numerology models.Fit) string {
	switch {
	case astrology == models.FitYes && numerology == models.FitYes:
		return VerdictStrong
	case astrology == models.FitNo || numerology == models.FitNo:
		return VerdictWeak
	}
	return VerdictModerate
}

// hasDay matches a full weekday name or its three-letter abbreviation.
func hasDay(days []string, weekday string) bool {
	for _, d := range days {
		d = strings.TrimSpace(d)
		if strings.EqualFold(d, weekday) || (len(d) == 3 && strings.EqualFold(d, weekday[:3])) {
			return true
		}
	}
	return false
}

func hasNumber(nums []int, n int) bool {
	for _, x := range nums {
		if x == n {
			return true
		}
	}
	return false
}
