package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/ethanesterson-creator/crest-league-live/internal/config"
	"github.com/ethanesterson-creator/crest-league-live/internal/database"
	"github.com/ethanesterson-creator/crest-league-live/internal/db"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
	"github.com/ethanesterson-creator/crest-league-live/internal/repository"
)

// fakeLeagueStore extends the clock store fake with events, roster, and
// the score procedure.
type fakeLeagueStore struct {
	*fakeGameStore

	emu    sync.Mutex
	events []domain.StatEvent
	roster []domain.RosterEntry

	listErr error
}

func (f *fakeLeagueStore) AppendEvent(ctx context.Context, ev domain.StatEvent) (*domain.StatEvent, error) {
	f.emu.Lock()
	defer f.emu.Unlock()
	f.events = append(f.events, ev)
	return &ev, nil
}

func (f *fakeLeagueStore) ListEvents(ctx context.Context, gameID, eventType string) ([]domain.StatEvent, error) {
	f.emu.Lock()
	defer f.emu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.StatEvent, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeLeagueStore) ListRoster(ctx context.Context, gameID string) ([]domain.RosterEntry, error) {
	f.emu.Lock()
	defer f.emu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.RosterEntry, len(f.roster))
	copy(out, f.roster)
	return out, nil
}

func (f *fakeLeagueStore) SetPlaying(ctx context.Context, gameID, playerID string, playing bool) error {
	f.emu.Lock()
	defer f.emu.Unlock()
	for i := range f.roster {
		if f.roster[i].PlayerID == playerID {
			f.roster[i].IsPlaying = playing
		}
	}
	return nil
}

func (f *fakeLeagueStore) AddScore(ctx context.Context, gameID string, side domain.TeamSide, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if side == domain.SideA {
		f.game.ScoreA += delta
	} else {
		f.game.ScoreB += delta
	}
	return nil
}

func newLeagueStore(game domain.GameRecord) *fakeLeagueStore {
	return &fakeLeagueStore{
		fakeGameStore: &fakeGameStore{game: game},
		roster: []domain.RosterEntry{
			{GameID: game.ID, PlayerID: "p1", PlayerName: "Avery", TeamSide: domain.SideA, TeamName: "Eagles", IsPlaying: true},
			{GameID: game.ID, PlayerID: "p2", PlayerName: "Blake", TeamSide: domain.SideB, TeamName: "Hawks"},
		},
	}
}

func newGameService(t *testing.T, store LeagueStore) (*GameService, *repository.GameCacheRepository, *repository.LeadersRepository) {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return newGameServiceOn(sqlDB, store)
}

func newGameServiceOn(sqlDB *sql.DB, store LeagueStore) (*GameService, *repository.GameCacheRepository, *repository.LeadersRepository) {
	queries := db.New(sqlDB)
	cache := repository.NewGameCacheRepository(sqlDB, queries, zerolog.Nop())
	leaders := repository.NewLeadersRepository(sqlDB, queries, zerolog.Nop())
	clk := clockwork.NewFakeClockAt(time.Unix(1000, 0))
	return NewGameService(store, cache, leaders, clk, zerolog.Nop()), cache, leaders
}

func TestSessionLoadsAndCaches(t *testing.T) {
	store := newLeagueStore(pausedGame(600))
	svc, cache, _ := newGameService(t, store)
	ctx := context.Background()

	s, err := svc.Session(ctx, "g1")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if got := len(s.Roster()); got != 2 {
		t.Fatalf("roster size = %d, want 2", got)
	}

	cached, _, cachedRoster, err := cache.GetSnapshot(ctx, "g1")
	if err != nil {
		t.Fatalf("snapshot not written through: %v", err)
	}
	if cached.ID != "g1" || len(cachedRoster) != 2 {
		t.Fatalf("cached = %+v roster %d", cached, len(cachedRoster))
	}
}

func TestSessionUnknownGame(t *testing.T) {
	store := newLeagueStore(pausedGame(600))
	svc, _, _ := newGameService(t, store)

	_, err := svc.Session(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionFallsBackToCache(t *testing.T) {
	store := newLeagueStore(pausedGame(600))
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	svc, _, _ := newGameServiceOn(sqlDB, store)
	if _, err := svc.Session(context.Background(), "g1"); err != nil {
		t.Fatalf("priming session: %v", err)
	}

	// Same cache, dead store, fresh service.
	store.mu.Lock()
	store.fetchErr = errors.New("store down")
	store.mu.Unlock()
	store.emu.Lock()
	store.listErr = errors.New("store down")
	store.emu.Unlock()

	svc2, _, _ := newGameServiceOn(sqlDB, store)
	s, err := svc2.Session(context.Background(), "g1")
	if err != nil {
		t.Fatalf("cached session: %v", err)
	}
	if s.Clock.Snapshot().ID != "g1" {
		t.Fatal("cached game not served")
	}
}

func TestFrameFormatsClock(t *testing.T) {
	game := pausedGame(95)
	store := newLeagueStore(game)
	svc, _, _ := newGameService(t, store)

	f, err := svc.Frame(context.Background(), "g1")
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if f.Clock != "01:35" {
		t.Fatalf("clock = %q, want 01:35", f.Clock)
	}
	if !f.HasClock {
		t.Fatal("hoop games show a clock")
	}
	if f.Finalized {
		t.Fatal("live game reported finalized")
	}
}

func TestBumpScore(t *testing.T) {
	store := newLeagueStore(pausedGame(600))
	svc, _, _ := newGameService(t, store)
	ctx := context.Background()

	if _, err := svc.BumpScore(ctx, "g1", "X", 2); !domain.IsValidation(err) {
		t.Fatalf("bad side err = %v, want validation", err)
	}
	if _, err := svc.BumpScore(ctx, "g1", domain.SideA, 0); !domain.IsValidation(err) {
		t.Fatalf("zero delta err = %v, want validation", err)
	}

	got, err := svc.BumpScore(ctx, "g1", domain.SideA, 2)
	if err != nil {
		t.Fatalf("bump: %v", err)
	}
	if got.ScoreA != 2 {
		t.Fatalf("score_a = %d, want 2", got.ScoreA)
	}
}

func TestBumpStatRequiresRosteredPlayer(t *testing.T) {
	store := newLeagueStore(pausedGame(600))
	svc, _, _ := newGameService(t, store)
	ctx := context.Background()

	if _, err := svc.BumpStat(ctx, "g1", "stranger", "pts", 2); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}

	ev, err := svc.BumpStat(ctx, "g1", "p1", "pts", 2)
	if err != nil {
		t.Fatalf("bump stat: %v", err)
	}
	if ev.PlayerName != "Avery" || ev.TeamName != "Eagles" {
		t.Fatalf("roster identity not stamped: %+v", ev)
	}

	s, _ := svc.Session(ctx, "g1")
	if got := s.Stats.Total("p1", "pts"); got != 2 {
		t.Fatalf("total = %d, want 2", got)
	}
}

func TestFinalizeFoldsLeaders(t *testing.T) {
	game := pausedGame(0)
	game.LeagueKey = "boys-12"
	store := newLeagueStore(game)
	store.events = []domain.StatEvent{
		{ID: "e1", GameID: "g1", PlayerID: "p1", TeamSide: domain.SideA, EventType: domain.EventTypeStat, StatKey: "pts", Delta: 7},
	}
	svc, _, leaders := newGameService(t, store)
	ctx := context.Background()

	got, err := svc.Finalize(ctx, "g1")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if got.Status != GameStatusFinal {
		t.Fatalf("status = %q", got.Status)
	}

	rows, err := leaders.Top(ctx, "boys-12", "pts", 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(rows) != 1 || rows[0].PlayerID != "p1" || rows[0].Total != 7 {
		t.Fatalf("leaders = %+v", rows)
	}

	if _, err := svc.BumpStat(ctx, "g1", "p1", "pts", 2); !domain.IsPrecondition(err) {
		t.Fatalf("stat after finalize err = %v, want precondition", err)
	}
}

func TestSetPlayingUpdatesRoster(t *testing.T) {
	store := newLeagueStore(pausedGame(600))
	svc, _, _ := newGameService(t, store)
	ctx := context.Background()

	if err := svc.SetPlaying(ctx, "g1", "p2", true); err != nil {
		t.Fatalf("set playing: %v", err)
	}
	s, _ := svc.Session(ctx, "g1")
	entry, ok := s.rosterEntry("p2")
	if !ok || !entry.IsPlaying {
		t.Fatalf("entry = %+v", entry)
	}
}
