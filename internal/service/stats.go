package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ethanesterson-creator/crest-league-live/internal/constants"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
	"github.com/ethanesterson-creator/crest-league-live/internal/rules"
)

// TotalKey is the grouping key of the aggregate: player id plus
// normalized stat key, or the team side for team-level events.
func TotalKey(playerID string, side domain.TeamSide, statKey string) string {
	if playerID != "" {
		return playerID + ":" + rules.Normalize(statKey)
	}
	return "team:" + string(side) + ":" + rules.Normalize(statKey)
}

// ComputeTotals folds the event log into running sums grouped by
// TotalKey. Addition is commutative, so any ordering or interleaving of
// the same event set converges to the same totals.
func ComputeTotals(events []domain.StatEvent) map[string]int {
	totals := make(map[string]int, len(events))
	for _, ev := range events {
		totals[TotalKey(ev.PlayerID, ev.TeamSide, ev.StatKey)] += ev.Delta
	}
	return totals
}

// StatAggregator keeps one game's displayed totals: the last reconciled
// fold of the event log plus optimistic deltas for this client's own
// appends. The reconciling re-fetch is always the final word.
type StatAggregator struct {
	gameID string
	store  EventStore
	log    zerolog.Logger

	mu     sync.Mutex
	totals map[string]int
}

func NewStatAggregator(store EventStore, logger zerolog.Logger, gameID string, events []domain.StatEvent) *StatAggregator {
	return &StatAggregator{
		gameID: gameID,
		store:  store,
		log:    logger.With().Str("game_id", gameID).Logger(),
		totals: ComputeTotals(events),
	}
}

// Totals returns a copy of the current aggregate.
func (a *StatAggregator) Totals() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int, len(a.totals))
	for k, v := range a.totals {
		out[k] = v
	}
	return out
}

// Total reads one player's current value for a stat.
func (a *StatAggregator) Total(playerID string, statKey string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals[TotalKey(playerID, "", statKey)]
}

// RecordEvent appends one stat event to the store. On success the delta
// is applied to the local aggregate immediately so the tap shows without
// a round trip, and a reconciling re-fetch is scheduled to pick up
// concurrent appends from other devices. On failure nothing changes.
func (a *StatAggregator) RecordEvent(ctx context.Context, ev domain.StatEvent) (*domain.StatEvent, error) {
	if ev.Delta == 0 {
		return nil, &domain.ValidationError{Field: "delta", Msg: "must be non-zero"}
	}
	if rules.Normalize(ev.StatKey) == "" {
		return nil, &domain.ValidationError{Field: "stat_key", Msg: "must not be empty"}
	}
	ev.GameID = a.gameID
	ev.EventType = domain.EventTypeStat
	ev.StatKey = rules.Normalize(ev.StatKey)
	if ev.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate event id: %w", err)
		}
		ev.ID = id
	}

	appendCtx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	stored, err := a.store.AppendEvent(appendCtx, ev)
	if err != nil {
		a.log.Error().Err(err).Str("stat_key", ev.StatKey).Int("delta", ev.Delta).Msg("event append failed, totals unchanged")
		return nil, err
	}

	key := TotalKey(stored.PlayerID, stored.TeamSide, stored.StatKey)
	a.mu.Lock()
	a.totals[key] += stored.Delta
	a.mu.Unlock()

	a.log.Info().
		Str("stat_key", stored.StatKey).
		Str("player_id", stored.PlayerID).
		Int("delta", stored.Delta).
		Msg("stat event recorded")

	a.scheduleReconcile()
	return stored, nil
}

// Reconcile re-reads the full event log and replaces the aggregate
// wholesale. Server truth wins over any optimistic guess.
func (a *StatAggregator) Reconcile(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	events, err := a.store.ListEvents(ctx, a.gameID, domain.EventTypeStat)
	if err != nil {
		a.log.Warn().Err(err).Msg("reconcile fetch failed, keeping displayed totals")
		return err
	}

	totals := ComputeTotals(events)
	a.mu.Lock()
	a.totals = totals
	a.mu.Unlock()

	a.log.Debug().Int("events", len(events)).Msg("totals reconciled")
	return nil
}

func (a *StatAggregator) scheduleReconcile() {
	g := new(errgroup.Group)
	g.Go(func() error {
		// Drop out of the caller's request scope; the reconcile lives on
		// after the tap's response is sent.
		time.Sleep(constants.ReconcileDelay)
		ctx, cancel := context.WithTimeout(context.Background(), constants.StoreTimeout)
		defer cancel()
		return a.Reconcile(ctx)
	})

	go func() {
		if err := g.Wait(); err != nil {
			a.log.Warn().Err(err).Msg("background reconcile failed")
		}
	}()
}
