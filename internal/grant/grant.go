// Package grant manages the durable per-app recording permission, persisted
// as a (uid, expiration) property pair.
package grant

import (
	"math"
	"math/bits"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/perfpack/perfpack/internal/android"
	"github.com/perfpack/perfpack/internal/constants"
	"github.com/perfpack/perfpack/internal/shell"
)

const secondsPerDay = 24 * 3600

// Expiration computes the absolute expiration time, in seconds, of a grant
// lasting the given number of days from now. The arithmetic saturates to
// math.MaxUint64: a multi-year day count must widen the grant, never wrap it
// into a near-future expiration.
func Expiration(now time.Time, days uint64) uint64 {
	hi, durationSec := bits.Mul64(days, secondsPerDay)
	if hi != 0 {
		return math.MaxUint64
	}
	expiration, carry := bits.Add64(uint64(now.Unix()), durationSec, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return expiration
}

// Granter persists durable recording grants.
type Granter struct {
	Props  *android.Props
	Runner shell.Runner
	Log    zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Grant resolves app to its uid and persists the grant as two property
// writes, uid first. The pair is deliberately not atomic: a crash between
// the writes can leave a uid with no expiration, and consumers of these
// properties treat a missing half as "no active grant".
func (g *Granter) Grant(app string, days uint64) error {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	uid, err := android.AppUID(g.Runner, app)
	if err != nil {
		return err
	}
	expiration := Expiration(now(), days)

	if err := g.Props.Set(constants.ProfileAppUIDProp, strconv.FormatUint(uint64(uid), 10)); err != nil {
		return err
	}
	if err := g.Props.Set(constants.ProfileAppExpirationProp, strconv.FormatUint(expiration, 10)); err != nil {
		return err
	}

	g.Log.Info().
		Str("app", app).
		Uint32("uid", uid).
		Uint64("expiration", expiration).
		Msg("durable recording grant persisted")
	return nil
}
