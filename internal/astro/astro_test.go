package astro

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulianDay(t *testing.T) {
	assert.Equal(t, J2000, JulianDay(2000, time.January, 1, 0.5))
	assert.Equal(t, 2446895.5, JulianDay(1987, time.April, 10, 0))
	assert.Equal(t, 2436116.31, math.Round(JulianDay(1957, time.October, 4, 0.81)*100)/100)
	// Jan and Feb roll into the previous year's count
	assert.Equal(t, 2451603.5, JulianDay(2000, time.February, 29, 0))
	assert.Equal(t, 2451604.5, JulianDay(2000, time.March, 1, 0))
}

func TestJulianDayOf(t *testing.T) {
	at := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, J2000, JulianDayOf(at))

	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, J2000, JulianDayOf(at.In(ist)))

	assert.InDelta(t, J2000+0.25, JulianDayOf(at.Add(6*time.Hour)), 1e-9)
}

func TestNormalize360(t *testing.T) {
	assert.Equal(t, 0.0, Normalize360(360))
	assert.Equal(t, 10.0, Normalize360(370))
	assert.Equal(t, 350.0, Normalize360(-10))
	assert.Equal(t, 0.0, Normalize360(-1e-15))
	assert.Equal(t, 90.0, Normalize360(-630))
}

func TestMoonLongitudeReference(t *testing.T) {
	// Meeus example 47.a: 1992-04-12 0h, λ = 133.162655°
	jd := JulianDay(1992, time.April, 12, 0)
	assert.InDelta(t, 133.162655, MoonLongitude(jd), 1.0)
}

func TestMoonLongitudeNewMoon(t *testing.T) {
	// new moon of 2000-01-06 18:14 UTC: Moon and Sun share a longitude
	jd := JulianDayOf(time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC))
	assert.InDelta(t, SunLongitude(jd), MoonLongitude(jd), 1.0)
	assert.InDelta(t, 285.7, MoonLongitude(jd), 1.0)

	noon := MoonLongitudeAtNoon(time.Date(2000, time.January, 6, 0, 0, 0, 0, time.UTC))
	assert.InDelta(t, 282.6, noon, 1.0)
}

func TestMoonLongitudeAlwaysNormalized(t *testing.T) {
	for d := time.Date(1800, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() < 2200; d = d.AddDate(0, 0, 13) {
		lon := MoonLongitudeAtNoon(d)
		require.GreaterOrEqual(t, lon, 0.0, d.Format("2006-01-02"))
		require.Less(t, lon, 360.0, d.Format("2006-01-02"))
	}
}

func TestSunLongitude(t *testing.T) {
	// Meeus example 25.a: 1992-10-13 0h, true longitude 199.90988°
	jd := JulianDay(1992, time.October, 13, 0)
	assert.InDelta(t, 199.90988, SunLongitude(jd), 0.01)

	// March equinox 2024-03-20 03:06 UTC
	eq := JulianDayOf(time.Date(2024, time.March, 20, 3, 6, 0, 0, time.UTC))
	lon := SunLongitude(eq)
	if lon > 180 {
		lon -= 360
	}
	assert.InDelta(t, 0, lon, 0.05)
}
