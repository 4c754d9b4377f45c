// Package ephemeris resolves Sun and Moon positions through a two-tier
// strategy: an optional precise ephemeris, then the analytic estimator in
// package astro, which always succeeds.
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/thomaskoefod/cosmicgen/internal/astro"
	"github.com/thomaskoefod/cosmicgen/internal/logging"
	"github.com/thomaskoefod/cosmicgen/internal/zodiac"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

var (
	ErrNoSource     = errors.New("no precise ephemeris configured")
	ErrNoCoverage   = errors.New("ephemeris has no data for this instant")
	ErrInvalidInput = errors.New("invalid date, time or offset")
)

// Source is a precise ephemeris queried by UTC Julian Day.
type Source interface {
	Longitude(ctx context.Context, jd float64, body models.Body) (float64, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, jd float64, body models.Body) (float64, error)

func (f SourceFunc) Longitude(ctx context.Context, jd float64, body models.Body) (float64, error) {
	return f(ctx, jd, body)
}

// PositionSource is the two-tier position strategy. TryExact may fail;
// Approximate never does.
type PositionSource interface {
	TryExact(ctx context.Context, instant time.Time, body models.Body) (float64, error)
	Approximate(date time.Time, body models.Body) float64
}

// Adapter tries its Sources in order, each bounded by timeout, and falls back
// to the analytic estimator.
type Adapter struct {
	sources []Source
	timeout time.Duration
	logger  *zap.Logger
}

func NewAdapter(timeout time.Duration, logger *zap.Logger, sources ...Source) *Adapter {
	var live []Source
	for _, s := range sources {
		if s != nil {
			live = append(live, s)
		}
	}
	return &Adapter{
		sources: live,
		timeout: timeout,
		logger:  logging.OrNop(logger),
	}
}

// TryExact queries the precise sources for body at instant.
func (a *Adapter) TryExact(ctx context.Context, instant time.Time, body models.Body) (float64, error) {
	if len(a.sources) == 0 {
		return 0, ErrNoSource
	}
	jd := astro.JulianDayOf(instant)

	var errs []error
	for i, src := range a.sources {
		lon, err := a.query(ctx, src, jd, body)
		if err == nil {
			return lon, nil
		}
		a.logger.Debug("ephemeris source failed",
			zap.Int("source", i),
			zap.String("body", string(body)),
			zap.Float64("jd", jd),
			zap.Error(err),
		)
		errs = append(errs, err)
	}
	return 0, errors.Join(errs...)
}

// query runs one source under the adapter timeout. The source runs on its own
// goroutine, so a source that ignores ctx is abandoned when the deadline
// passes. A panicking source counts as a failed one.
func (a *Adapter) query(ctx context.Context, src Source, jd float64, body models.Body) (float64, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	type result struct {
		lon float64
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("ephemeris source panicked: %v", r)}
			}
		}()
		lon, err := src.Longitude(ctx, jd, body)
		done <- result{lon: lon, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	if res.err != nil {
		return 0, res.err
	}
	if math.IsNaN(res.lon) || math.IsInf(res.lon, 0) {
		return 0, fmt.Errorf("ephemeris returned non-finite longitude %v", res.lon)
	}
	return astro.Normalize360(res.lon), nil
}

// Approximate evaluates the analytic series at 12:00 UTC of date.
func (a *Adapter) Approximate(date time.Time, body models.Body) float64 {
	if body == models.Sun {
		return astro.SunLongitudeAtNoon(date)
	}
	return astro.MoonLongitudeAtNoon(date)
}

// Resolver turns a local birth moment into a sign.
type Resolver struct {
	positions PositionSource
	logger    *zap.Logger
}

func NewResolver(positions PositionSource, logger *zap.Logger) *Resolver {
	if positions == nil {
		positions = NewAdapter(0, logger)
	}
	return &Resolver{positions: positions, logger: logging.OrNop(logger)}
}

// UTCInstant converts a local date and time at a fixed offset (hours east of
// UTC) to a UTC instant.
func UTCInstant(date time.Time, local models.LocalTime, tzOffsetHours float64) (time.Time, error) {
	if local.Hour < 0 || local.Hour > 23 || local.Minute < 0 || local.Minute > 59 {
		return time.Time{}, fmt.Errorf("%w: time %02d:%02d", ErrInvalidInput, local.Hour, local.Minute)
	}
	if math.IsNaN(tzOffsetHours) || tzOffsetHours < -14 || tzOffsetHours > 14 {
		return time.Time{}, fmt.Errorf("%w: offset %v", ErrInvalidInput, tzOffsetHours)
	}
	wall := time.Date(date.Year(), date.Month(), date.Day(), local.Hour, local.Minute, 0, 0, time.UTC)
	offset := time.Duration(math.Round(tzOffsetHours * float64(time.Hour)))
	return wall.Add(-offset), nil
}

// MoonSignExact resolves the Moon's sign. It always returns a position;
// UsedExact reports whether the precise ephemeris produced it.
func (r *Resolver) MoonSignExact(ctx context.Context, date time.Time, local models.LocalTime, tzOffsetHours float64) models.Position {
	return r.resolve(ctx, models.Moon, date, local, tzOffsetHours)
}

// SunSignExact resolves the Sun's sign with the same contract as MoonSignExact.
func (r *Resolver) SunSignExact(ctx context.Context, date time.Time, local models.LocalTime, tzOffsetHours float64) models.Position {
	return r.resolve(ctx, models.Sun, date, local, tzOffsetHours)
}

func (r *Resolver) resolve(ctx context.Context, body models.Body, date time.Time, local models.LocalTime, tzOffsetHours float64) models.Position {
	instant, err := UTCInstant(date, local, tzOffsetHours)
	if err == nil {
		var lon float64
		if lon, err = r.tryExact(ctx, instant, body); err == nil {
			return models.Position{Body: body, Sign: zodiac.SignFromLongitude(lon), Longitude: lon, UsedExact: true}
		}
	}
	if !errors.Is(err, ErrNoSource) {
		r.logger.Debug("falling back to estimated position", zap.String("body", string(body)), zap.Error(err))
	}

	lon := r.positions.Approximate(date, body)
	return models.Position{Body: body, Sign: zodiac.SignFromLongitude(lon), Longitude: lon}
}

// tryExact shields the resolver from a PositionSource that panics.
func (r *Resolver) tryExact(ctx context.Context, instant time.Time, body models.Body) (lon float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("position source panicked: %v", rec)
		}
	}()
	return r.positions.TryExact(ctx, instant, body)
}
