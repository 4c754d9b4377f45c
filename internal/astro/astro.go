// Package astro computes low-precision geocentric ecliptic longitudes of the
// Sun and Moon from a Julian Day.
//
// The Moon series keeps only the eleven largest periodic terms of the
// classical lunar theory (Meeus, Astronomical Algorithms, table 47.A), so
// results drift from a precise ephemeris by roughly 0.3° to 1°. That is
// enough to pick a sign, except within about a day of a sign boundary where
// the estimate may land in the neighbouring sign.
package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Day of 2000-01-01 12:00 TT.
const J2000 = 2451545.0

// JulianDay converts a Gregorian calendar date plus a fraction of a day
// (0 = midnight, 0.5 = noon) to a Julian Day.
func JulianDay(year int, month time.Month, day int, dayFraction float64) float64 {
	y, m := year, int(month)
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + float64(b) - 1524.5 + dayFraction
}

// JulianDayOf returns the Julian Day of the instant t, taken in UTC.
func JulianDayOf(t time.Time) float64 {
	u := t.UTC()
	secs := float64(u.Hour()*3600+u.Minute()*60+u.Second()) + float64(u.Nanosecond())/1e9
	return JulianDay(u.Year(), u.Month(), u.Day(), secs/86400)
}

// NoonJulianDay returns the Julian Day of 12:00 UTC on the calendar date of d.
func NoonJulianDay(d time.Time) float64 {
	return JulianDay(d.Year(), d.Month(), d.Day(), 0.5)
}

// JulianCenturies returns centuries elapsed since J2000.0.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525
}

// Normalize360 wraps degrees into [0, 360).
func Normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// a tiny negative remainder rounds back up to exactly 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func sinD(deg float64) float64 {
	return math.Sin(deg * math.Pi / 180)
}

// lunarArguments are the fundamental arguments of the lunar theory, in degrees.
type lunarArguments struct {
	L  float64 // mean longitude
	D  float64 // mean elongation from the Sun
	M  float64 // Sun's mean anomaly
	Mp float64 // Moon's mean anomaly
	F  float64 // argument of latitude
}

func fundamentalArguments(t float64) lunarArguments {
	t2, t3, t4 := t*t, t*t*t, t*t*t*t
	return lunarArguments{
		L:  Normalize360(218.3164477 + 481267.88123421*t - 0.0015786*t2 + t3/538841 - t4/65194000),
		D:  Normalize360(297.8501921 + 445267.1114034*t - 0.0018819*t2 + t3/545868 - t4/113065000),
		M:  Normalize360(357.5291092 + 35999.0502909*t - 0.0001536*t2 + t3/24490000),
		Mp: Normalize360(134.9633964 + 477198.8675055*t + 0.0087414*t2 + t3/69699 - t4/14712000),
		F:  Normalize360(93.2720950 + 483202.0175233*t - 0.0036539*t2 - t3/3526000 + t4/863310000),
	}
}

// periodicTerm is amplitude·sin(d·D + m·M + mp·M' + f·F).
type periodicTerm struct {
	d, m, mp, f int
	amplitude   float64
}

var moonLongitudeTerms = []periodicTerm{
	{0, 0, 1, 0, 6.289},
	{2, 0, -1, 0, 1.274},
	{2, 0, 0, 0, 0.658},
	{0, 0, 2, 0, 0.214},
	{0, 1, 0, 0, -0.186},
	{0, 0, 0, 2, -0.114},
	{2, 0, -2, 0, 0.059},
	{2, -1, -1, 0, 0.057},
	{2, 0, 1, 0, 0.053},
	{2, -1, 0, 0, 0.046},
	{0, 1, -1, 0, -0.041},
}

// MoonLongitude returns the Moon's approximate geocentric ecliptic longitude
// in degrees, normalized into [0, 360).
func MoonLongitude(jd float64) float64 {
	a := fundamentalArguments(JulianCenturies(jd))
	lon := a.L
	for _, term := range moonLongitudeTerms {
		arg := float64(term.d)*a.D + float64(term.m)*a.M + float64(term.mp)*a.Mp + float64(term.f)*a.F
		lon += term.amplitude * sinD(arg)
	}
	return Normalize360(lon)
}

// MoonLongitudeAtNoon evaluates MoonLongitude at 12:00 UTC of the date.
func MoonLongitudeAtNoon(date time.Time) float64 {
	return MoonLongitude(NoonJulianDay(date))
}

// SunLongitude returns the Sun's geometric ecliptic longitude in degrees,
// from the mean longitude plus the equation of centre.
func SunLongitude(jd float64) float64 {
	t := JulianCenturies(jd)
	l0 := Normalize360(280.46646 + 36000.76983*t + 0.0003032*t*t)
	m := Normalize360(357.52911 + 35999.05029*t - 0.0001537*t*t)
	c := (1.914602-0.004817*t-0.000014*t*t)*sinD(m) +
		(0.019993-0.000101*t)*sinD(2*m) +
		0.000289*sinD(3*m)
	return Normalize360(l0 + c)
}

// SunLongitudeAtNoon evaluates SunLongitude at 12:00 UTC of the date.
func SunLongitudeAtNoon(date time.Time) float64 {
	return SunLongitude(NoonJulianDay(date))
}
