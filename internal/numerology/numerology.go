// Package numerology holds the calendar arithmetic used by activity timing.
package numerology

import "time"

// WeekdayName returns the English weekday name of date, independent of locale.
func WeekdayName(date time.Time) string {
	return date.Weekday().String()
}

// DigitSum sums the digits of date formatted as YYYYMMDD.
func DigitSum(date time.Time) int {
	n := 0
	for _, ch := range date.Format("20060102") {
		n += int(ch - '0')
	}
	return n
}

// UniversalDayNumber reduces the date's digit sum in a single mod-9 step.
// Master numbers 11, 22 and 33 survive when keepMaster is set. The reduction
// is not iterated: a sum of 29 yields 2, not 11.
func UniversalDayNumber(date time.Time, keepMaster bool) int {
	n := DigitSum(date)
	if keepMaster && (n == 11 || n == 22 || n == 33) {
		return n
	}
	if n%9 == 0 {
		return 9
	}
	return n % 9
}
