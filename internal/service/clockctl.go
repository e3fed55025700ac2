package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/ethanesterson-creator/crest-league-live/internal/clock"
	"github.com/ethanesterson-creator/crest-league-live/internal/constants"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
)

// GameStatusFinal is the store's status value for a finalized game. The
// clock is immutable from then on.
const GameStatusFinal = "final"

// ClockController owns one game's timer transitions. It is the only
// component that persists clock changes; the display loop and the
// scoring screen read its local view.
//
// The store is last-writer-wins, so the controller guards its *local*
// view with a write sequence: a response from an older in-flight request
// never overwrites state produced by a newer action. A failed persist
// mutates nothing; the previous view stays authoritative and the caller
// retries explicitly.
type ClockController struct {
	store GameStore
	clk   clockwork.Clock
	log   zerolog.Logger

	mu      sync.Mutex
	game    domain.GameRecord
	seq     uint64 // last issued write
	applied uint64 // last write reflected in game
}

func NewClockController(store GameStore, clk clockwork.Clock, logger zerolog.Logger, game domain.GameRecord) *ClockController {
	return &ClockController{
		store: store,
		clk:   clk,
		log:   logger.With().Str("game_id", game.ID).Logger(),
		game:  game,
	}
}

// Snapshot returns the last known persisted game record.
func (c *ClockController) Snapshot() domain.GameRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.game
}

// Reading derives the current clock reading from the local view.
func (c *ClockController) Reading() domain.ClockReading {
	c.mu.Lock()
	st := c.game.ClockState
	c.mu.Unlock()
	return clock.ReadingAt(st, c.clk.Now())
}

// Start transitions PAUSED -> RUNNING, anchoring at now with the
// remaining time read just before the transition.
func (c *ClockController) Start(ctx context.Context) (domain.GameRecord, error) {
	c.mu.Lock()
	if c.game.Status == GameStatusFinal {
		c.mu.Unlock()
		return domain.GameRecord{}, &domain.PreconditionError{Msg: "game is finalized; the clock is locked"}
	}
	now := c.clk.Now()
	reading := clock.ReadingAt(c.game.ClockState, now)
	if reading.IsRunning {
		c.mu.Unlock()
		return domain.GameRecord{}, &domain.PreconditionError{Msg: "clock is already running"}
	}
	rem := floorSeconds(reading.Remaining)
	patch := map[string]any{
		"timer_running":             true,
		"timer_anchor_ts":           clock.Seconds(now),
		"timer_remaining_at_anchor": rem,
		"timer_remaining_seconds":   rem,
	}
	seq := c.issueLocked()
	c.mu.Unlock()

	return c.persist(ctx, "start", seq, patch)
}

// Pause transitions to PAUSED, snapshotting the derived remaining time.
// Idempotent: pausing a paused clock re-persists the same reading.
func (c *ClockController) Pause(ctx context.Context) (domain.GameRecord, error) {
	c.mu.Lock()
	if c.game.Status == GameStatusFinal {
		c.mu.Unlock()
		return domain.GameRecord{}, &domain.PreconditionError{Msg: "game is finalized; the clock is locked"}
	}
	reading := clock.ReadingAt(c.game.ClockState, c.clk.Now())
	rem := floorSeconds(reading.Remaining)
	patch := pausedPatch(rem)
	seq := c.issueLocked()
	c.mu.Unlock()

	return c.persist(ctx, "pause", seq, patch)
}

// Reset pauses the clock at targetSeconds and makes it the configured
// period length. Used for "reset to full period" and the preset buttons.
func (c *ClockController) Reset(ctx context.Context, targetSeconds int) (domain.GameRecord, error) {
	if err := validateSeconds(targetSeconds); err != nil {
		return domain.GameRecord{}, err
	}
	c.mu.Lock()
	if c.game.Status == GameStatusFinal {
		c.mu.Unlock()
		return domain.GameRecord{}, &domain.PreconditionError{Msg: "game is finalized; the clock is locked"}
	}
	patch := pausedPatch(targetSeconds)
	patch["duration_seconds"] = targetSeconds
	seq := c.issueLocked()
	c.mu.Unlock()

	return c.persist(ctx, "reset", seq, patch)
}

// SetExact pauses the clock at targetSeconds without touching the
// configured period length. A running clock is paused first so the set
// value is not immediately stale; if that pause fails the set is
// abandoned and the error surfaced.
func (c *ClockController) SetExact(ctx context.Context, targetSeconds int) (domain.GameRecord, error) {
	if err := validateSeconds(targetSeconds); err != nil {
		return domain.GameRecord{}, err
	}
	if c.Reading().IsRunning {
		if _, err := c.Pause(ctx); err != nil {
			return domain.GameRecord{}, err
		}
	}
	c.mu.Lock()
	if c.game.Status == GameStatusFinal {
		c.mu.Unlock()
		return domain.GameRecord{}, &domain.PreconditionError{Msg: "game is finalized; the clock is locked"}
	}
	patch := pausedPatch(targetSeconds)
	seq := c.issueLocked()
	c.mu.Unlock()

	return c.persist(ctx, "set_exact", seq, patch)
}

// SetExactInput is SetExact for counselor-typed mm:ss input.
func (c *ClockController) SetExactInput(ctx context.Context, input string) (domain.GameRecord, error) {
	seconds, err := clock.ParseMMSS(input)
	if err != nil {
		return domain.GameRecord{}, err
	}
	return c.SetExact(ctx, seconds)
}

// Finalize snapshots the paused clock and invokes the store's finalize
// procedure. Blocked locally while the derived reading is running; no
// remote call is made in that case.
func (c *ClockController) Finalize(ctx context.Context) (domain.GameRecord, error) {
	c.mu.Lock()
	if c.game.Status == GameStatusFinal {
		c.mu.Unlock()
		return domain.GameRecord{}, &domain.PreconditionError{Msg: "game is already finalized"}
	}
	reading := clock.ReadingAt(c.game.ClockState, c.clk.Now())
	if reading.IsRunning {
		c.mu.Unlock()
		return domain.GameRecord{}, &domain.PreconditionError{Msg: "pause the clock before finalizing"}
	}
	rem := floorSeconds(reading.Remaining)
	patch := pausedPatch(rem)
	seq := c.issueLocked()
	gameID := c.game.ID
	c.mu.Unlock()

	if _, err := c.persist(ctx, "finalize_snapshot", seq, patch); err != nil {
		return domain.GameRecord{}, err
	}
	if err := c.store.Finalize(ctx, gameID); err != nil {
		c.log.Error().Err(err).Msg("finalize procedure failed")
		return domain.GameRecord{}, err
	}

	c.mu.Lock()
	c.game.Status = GameStatusFinal
	g := c.game
	c.mu.Unlock()
	c.log.Info().Msg("game finalized")
	return g, nil
}

// Refresh re-reads the persisted record, adopting it only when no write
// has been issued since the fetch began. A stale fetch racing a newer
// local action is discarded.
func (c *ClockController) Refresh(ctx context.Context) (domain.GameRecord, error) {
	c.mu.Lock()
	fetchSeq := c.seq
	gameID := c.game.ID
	c.mu.Unlock()

	fetched, err := c.store.FetchGame(ctx, gameID)
	if err != nil {
		c.log.Warn().Err(err).Msg("refresh failed, keeping last known state")
		return c.Snapshot(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq != fetchSeq {
		c.log.Debug().Uint64("fetch_seq", fetchSeq).Uint64("seq", c.seq).Msg("discarding stale refresh")
		return c.game, nil
	}
	c.game = *fetched
	return c.game, nil
}

func (c *ClockController) issueLocked() uint64 {
	c.seq++
	return c.seq
}

// persist writes the patch plus updated_at, then applies the returned
// row to the local view unless a newer write has already landed.
func (c *ClockController) persist(ctx context.Context, op string, seq uint64, patch map[string]any) (domain.GameRecord, error) {
	c.mu.Lock()
	gameID := c.game.ID
	c.mu.Unlock()

	patch["updated_at"] = c.clk.Now().UTC().Format(time.RFC3339Nano)

	ctx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	updated, err := c.store.UpdateGame(ctx, gameID, patch)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("clock persist failed, local state unchanged")
		return domain.GameRecord{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		c.log.Debug().Str("op", op).Uint64("seq", seq).Uint64("applied", c.applied).Msg("ignoring stale clock response")
		return c.game, nil
	}
	c.game = *updated
	c.applied = seq
	c.log.Info().
		Str("op", op).
		Bool("running", c.game.Running).
		Int("remaining_seconds", c.game.RemainingSeconds).
		Int("duration_seconds", c.game.DurationSeconds).
		Msg("clock state persisted")
	return c.game, nil
}

func pausedPatch(remaining int) map[string]any {
	return map[string]any{
		"timer_running":             false,
		"timer_anchor_ts":           nil,
		"timer_remaining_at_anchor": remaining,
		"timer_remaining_seconds":   remaining,
	}
}

func validateSeconds(n int) error {
	if n < 0 {
		return &domain.ValidationError{Field: "seconds", Msg: "must not be negative"}
	}
	if n > constants.MaxRemainingSeconds {
		return &domain.ValidationError{Field: "seconds", Msg: "longer than any period"}
	}
	return nil
}

func floorSeconds(f float64) int {
	n := int(math.Floor(f))
	if n < 0 {
		return 0
	}
	return n
}
