package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ethanesterson-creator/crest-league-live/internal/clock"
	"github.com/ethanesterson-creator/crest-league-live/internal/constants"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
	"github.com/ethanesterson-creator/crest-league-live/internal/repository"
	"github.com/ethanesterson-creator/crest-league-live/internal/rules"
)

// Session is one live game's screen state: the clock controller, the
// stat aggregator, and the roster.
type Session struct {
	Clock *ClockController
	Stats *StatAggregator

	mu     sync.Mutex
	roster []domain.RosterEntry
}

// Roster returns a copy of the session's roster.
func (s *Session) Roster() []domain.RosterEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.RosterEntry, len(s.roster))
	copy(out, s.roster)
	return out
}

func (s *Session) setPlaying(playerID string, playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.roster {
		if s.roster[i].PlayerID == playerID {
			s.roster[i].IsPlaying = playing
		}
	}
}

func (s *Session) rosterEntry(playerID string) (domain.RosterEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.roster {
		if e.PlayerID == playerID {
			return e, true
		}
	}
	return domain.RosterEntry{}, false
}

// Frame is one display tick's worth of scoreboard state.
type Frame struct {
	GameID    string              `json:"game_id"`
	ScoreA    int                 `json:"score_a"`
	ScoreB    int                 `json:"score_b"`
	Reading   domain.ClockReading `json:"reading"`
	Clock     string              `json:"clock"`
	HasClock  bool                `json:"has_clock"`
	Finalized bool                `json:"finalized"`
}

// GameService loads and owns live game sessions. Fetches go to the
// remote store first and fall back to the local cache, so a store outage
// never blanks a screen that has shown the game before.
type GameService struct {
	store   LeagueStore
	cache   *repository.GameCacheRepository
	leaders *repository.LeadersRepository
	clk     clockwork.Clock
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewGameService(store LeagueStore, cache *repository.GameCacheRepository, leaders *repository.LeadersRepository, clk clockwork.Clock, logger zerolog.Logger) *GameService {
	return &GameService{
		store:    store,
		cache:    cache,
		leaders:  leaders,
		clk:      clk,
		log:      logger,
		sessions: make(map[string]*Session),
	}
}

// Session returns the live session for a game, loading it on first use.
func (g *GameService) Session(ctx context.Context, gameID string) (*Session, error) {
	g.mu.Lock()
	if s, ok := g.sessions[gameID]; ok {
		g.mu.Unlock()
		return s, nil
	}
	g.mu.Unlock()

	game, events, roster, err := g.load(ctx, gameID)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[gameID]; ok {
		// Lost the load race; the winner's session stands.
		return s, nil
	}
	s := &Session{
		Clock:  NewClockController(g.store, g.clk, g.log, *game),
		Stats:  NewStatAggregator(g.store, g.log, gameID, events),
		roster: roster,
	}
	g.sessions[gameID] = s
	return s, nil
}

// load fetches game, events, and roster concurrently. On store failure
// it falls back to the last known-good cache; on success it writes the
// snapshot through to the cache.
func (g *GameService) load(ctx context.Context, gameID string) (*domain.GameRecord, []domain.StatEvent, []domain.RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var (
		game   *domain.GameRecord
		events []domain.StatEvent
		roster []domain.RosterEntry
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		game, err = g.store.FetchGame(egCtx, gameID)
		return err
	})
	eg.Go(func() error {
		var err error
		events, err = g.store.ListEvents(egCtx, gameID, domain.EventTypeStat)
		return err
	})
	eg.Go(func() error {
		var err error
		roster, err = g.store.ListRoster(egCtx, gameID)
		return err
	})

	if err := eg.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil, err
		}
		g.log.Warn().Err(err).Str("game_id", gameID).Msg("store load failed, trying cache")
		return g.loadCached(ctx, gameID, err)
	}

	if err := g.cache.SaveSnapshot(ctx, *game, events, roster); err != nil {
		g.log.Warn().Err(err).Str("game_id", gameID).Msg("cache write failed")
	}
	return game, events, roster, nil
}

func (g *GameService) loadCached(ctx context.Context, gameID string, storeErr error) (*domain.GameRecord, []domain.StatEvent, []domain.RosterEntry, error) {
	game, events, roster, err := g.cache.GetSnapshot(ctx, gameID)
	if err != nil {
		// Never shown this game before; nothing known-good to fall
		// back on.
		return nil, nil, nil, storeErr
	}
	g.log.Info().Str("game_id", gameID).Msg("serving game from last known-good cache")
	return game, events, roster, nil
}

// Frame derives the current scoreboard frame for a game's session.
func (g *GameService) Frame(ctx context.Context, gameID string) (Frame, error) {
	s, err := g.Session(ctx, gameID)
	if err != nil {
		return Frame{}, err
	}
	game := s.Clock.Snapshot()
	reading := s.Clock.Reading()
	return Frame{
		GameID:    game.ID,
		ScoreA:    game.ScoreA,
		ScoreB:    game.ScoreB,
		Reading:   reading,
		Clock:     clock.Format(reading.Remaining),
		HasClock:  rules.ForSport(game.Sport).Clock.Enabled,
		Finalized: game.Status == GameStatusFinal,
	}, nil
}

// BumpScore applies a team-level score change through the store
// procedure, then quietly refreshes the local record.
func (g *GameService) BumpScore(ctx context.Context, gameID string, side domain.TeamSide, delta int) (domain.GameRecord, error) {
	if side != domain.SideA && side != domain.SideB {
		return domain.GameRecord{}, &domain.ValidationError{Field: "side", Msg: `must be "A" or "B"`}
	}
	if delta == 0 {
		return domain.GameRecord{}, &domain.ValidationError{Field: "delta", Msg: "must be non-zero"}
	}
	s, err := g.Session(ctx, gameID)
	if err != nil {
		return domain.GameRecord{}, err
	}
	if s.Clock.Snapshot().Status == GameStatusFinal {
		return domain.GameRecord{}, &domain.PreconditionError{Msg: "game is finalized"}
	}

	rpcCtx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()
	if err := g.store.AddScore(rpcCtx, gameID, side, delta); err != nil {
		g.log.Error().Err(err).Str("game_id", gameID).Str("side", string(side)).Int("delta", delta).Msg("score bump failed")
		return domain.GameRecord{}, err
	}

	game, err := s.Clock.Refresh(ctx)
	if err != nil {
		// The bump landed; the displayed score catches up on the next
		// successful refresh.
		return s.Clock.Snapshot(), nil
	}
	g.cacheGame(ctx, s)
	return game, nil
}

// BumpStat records one stat tap for a rostered player.
func (g *GameService) BumpStat(ctx context.Context, gameID, playerID, statKey string, delta int) (*domain.StatEvent, error) {
	s, err := g.Session(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if s.Clock.Snapshot().Status == GameStatusFinal {
		return nil, &domain.PreconditionError{Msg: "game is finalized"}
	}
	entry, ok := s.rosterEntry(playerID)
	if !ok {
		return nil, &domain.ValidationError{Field: "player_id", Msg: "player is not on this game's roster"}
	}
	return s.Stats.RecordEvent(ctx, domain.StatEvent{
		PlayerID:   entry.PlayerID,
		PlayerName: entry.PlayerName,
		TeamSide:   entry.TeamSide,
		TeamName:   entry.TeamName,
		StatKey:    statKey,
		Delta:      delta,
	})
}

// SetPlaying moves a player between bench and playing.
func (g *GameService) SetPlaying(ctx context.Context, gameID, playerID string, playing bool) error {
	s, err := g.Session(ctx, gameID)
	if err != nil {
		return err
	}
	if _, ok := s.rosterEntry(playerID); !ok {
		return &domain.ValidationError{Field: "player_id", Msg: "player is not on this game's roster"}
	}

	rpcCtx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()
	if err := g.store.SetPlaying(rpcCtx, gameID, playerID, playing); err != nil {
		return err
	}
	s.setPlaying(playerID, playing)
	return nil
}

// Finalize locks the game and folds its totals into the local leaders
// snapshot so the leaderboard view keeps working offline.
func (g *GameService) Finalize(ctx context.Context, gameID string) (domain.GameRecord, error) {
	s, err := g.Session(ctx, gameID)
	if err != nil {
		return domain.GameRecord{}, err
	}
	game, err := s.Clock.Finalize(ctx)
	if err != nil {
		return domain.GameRecord{}, err
	}

	g.cacheGame(ctx, s)
	if err := g.leaders.FoldTotals(ctx, game.LeagueKey, s.Roster(), s.Stats.Totals()); err != nil {
		g.log.Warn().Err(err).Str("game_id", gameID).Msg("leaders snapshot update failed")
	}
	return game, nil
}

// Leaders reads the ranked local leaderboard snapshot for a league.
func (g *GameService) Leaders(ctx context.Context, leagueID, statKey string, limit int) ([]domain.LeaderRow, error) {
	if limit <= 0 {
		limit = constants.LeadersDefaultLimit
	}
	return g.leaders.Top(ctx, leagueID, rules.Normalize(statKey), limit)
}

func (g *GameService) cacheGame(ctx context.Context, s *Session) {
	game := s.Clock.Snapshot()
	if err := g.cache.SaveGame(ctx, game); err != nil {
		g.log.Warn().Err(err).Str("game_id", game.ID).Msg("cache write failed")
	}
}
