package locate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/metrics"
)

const DefaultTimeout = 10 * time.Second

var (
	// ErrPermissionDenied means the user has not allowed location lookups
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrTimeout means a provider did not answer within its bounded wait
	ErrTimeout = errors.New("location lookup timed out")
	// ErrNoLocation is returned when every provider failed. The user has to retry by hand.
	ErrNoLocation = errors.New("no location available")
)

// Provider resolves the current position
type Provider interface {
	Name() string
	Locate(ctx context.Context) (geo.Coordinate, error)
}

// Locator asks Primary for a position and falls back to Fallback when that fails.
// Each provider gets its own Timeout. Nothing is retried automatically.
type Locator struct {
	Primary  Provider
	Fallback Provider
	Timeout  time.Duration
	// Consent must be granted before any provider is asked
	Consent bool
	Metrics *metrics.Collector
}

func (l *Locator) Locate(ctx context.Context) (geo.Coordinate, error) {
	if !l.Consent {
		return geo.Coordinate{}, ErrPermissionDenied
	}

	var errs []error
	for _, p := range []Provider{l.Primary, l.Fallback} {
		if p == nil {
			continue
		}

		coord, err := l.try(ctx, p)
		if err == nil {
			return coord, nil
		}
		// The caller gave up, no point asking the fallback
		if ctx.Err() != nil {
			return geo.Coordinate{}, ctx.Err()
		}

		log.Warn().Err(err).Str("provider", p.Name()).Msg("location provider failed")
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return geo.Coordinate{}, fmt.Errorf("%w: no provider configured", ErrNoLocation)
	}
	return geo.Coordinate{}, fmt.Errorf("%w: %w", ErrNoLocation, errors.Join(errs...))
}

func (l *Locator) try(ctx context.Context, p Provider) (geo.Coordinate, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	coord, err := p.Locate(attemptCtx)
	switch {
	case err == nil && !coord.Valid():
		err = fmt.Errorf("%s: invalid coordinate %s", p.Name(), coord)
	case err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%s: %w after %s", p.Name(), ErrTimeout, timeout)
	case err != nil:
		err = fmt.Errorf("%s: %w", p.Name(), err)
	}

	l.Metrics.ObserveLocate(p.Name(), outcome(err))
	if err != nil {
		return geo.Coordinate{}, err
	}
	log.Debug().Str("provider", p.Name()).Stringer("coordinate", coord).Msg("location resolved")
	return coord, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrPermissionDenied):
		return "denied"
	default:
		return "error"
	}
}
