package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ethanesterson-creator/crest-league-live/internal/config"
	"github.com/ethanesterson-creator/crest-league-live/internal/database"
	"github.com/ethanesterson-creator/crest-league-live/internal/db"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
)

func testDB(t *testing.T) (*sql.DB, *db.Queries) {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB, db.New(sqlDB)
}

func testGame(id string) domain.GameRecord {
	return domain.GameRecord{
		ID:          id,
		LeagueKey:   "boys-12",
		Sport:       "hoop",
		Level:       "senior",
		MatchupType: "team",
		TeamA1:      "Eagles",
		TeamB1:      "Hawks",
		ScoreA:      10,
		ScoreB:      8,
		Status:      "live",
		ClockState: domain.ClockState{
			Running:           false,
			RemainingAtAnchor: 480,
			RemainingSeconds:  480,
			DurationSeconds:   600,
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	sqlDB, queries := testDB(t)
	repo := NewGameCacheRepository(sqlDB, queries, zerolog.Nop())
	ctx := context.Background()

	game := testGame("g1")
	anchor := 1234.5
	game.Running = true
	game.AnchorTS = &anchor

	events := []domain.StatEvent{
		{ID: "e1", GameID: "g1", PlayerID: "p1", PlayerName: "Avery", TeamSide: domain.SideA, StatKey: "pts", EventType: "stat", Delta: 2, CreatedAt: game.UpdatedAt},
	}
	roster := []domain.RosterEntry{
		{GameID: "g1", PlayerID: "p1", PlayerName: "Avery", TeamSide: domain.SideA, TeamName: "Eagles", IsPlaying: true},
		{GameID: "g1", PlayerID: "p2", PlayerName: "Blake", TeamSide: domain.SideB, TeamName: "Hawks"},
	}

	if err := repo.SaveSnapshot(ctx, game, events, roster); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	got, gotEvents, gotRoster, err := repo.GetSnapshot(ctx, "g1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got.ID != "g1" || got.ScoreA != 10 || got.ScoreB != 8 {
		t.Fatalf("game = %+v", got)
	}
	if !got.Running || got.AnchorTS == nil || *got.AnchorTS != anchor {
		t.Fatalf("clock state = %+v", got.ClockState)
	}
	if len(gotEvents) != 1 || gotEvents[0].ID != "e1" || gotEvents[0].Delta != 2 {
		t.Fatalf("events = %+v", gotEvents)
	}
	if len(gotRoster) != 2 {
		t.Fatalf("roster = %+v", gotRoster)
	}
}

func TestSnapshotReplacesEvents(t *testing.T) {
	sqlDB, queries := testDB(t)
	repo := NewGameCacheRepository(sqlDB, queries, zerolog.Nop())
	ctx := context.Background()

	game := testGame("g1")
	first := []domain.StatEvent{
		{ID: "e1", GameID: "g1", PlayerID: "p1", StatKey: "pts", EventType: "stat", Delta: 2, CreatedAt: game.UpdatedAt},
		{ID: "e2", GameID: "g1", PlayerID: "p1", StatKey: "pts", EventType: "stat", Delta: 3, CreatedAt: game.UpdatedAt},
	}
	if err := repo.SaveSnapshot(ctx, game, first, nil); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := first[:1]
	if err := repo.SaveSnapshot(ctx, game, second, nil); err != nil {
		t.Fatalf("second save: %v", err)
	}

	_, gotEvents, _, err := repo.GetSnapshot(ctx, "g1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if len(gotEvents) != 1 {
		t.Fatalf("events = %d, want snapshot replaced wholesale", len(gotEvents))
	}
}

func TestGetSnapshotMissingGame(t *testing.T) {
	sqlDB, queries := testDB(t)
	repo := NewGameCacheRepository(sqlDB, queries, zerolog.Nop())

	_, _, _, err := repo.GetSnapshot(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveGameUpdatesRow(t *testing.T) {
	sqlDB, queries := testDB(t)
	repo := NewGameCacheRepository(sqlDB, queries, zerolog.Nop())
	ctx := context.Background()

	game := testGame("g1")
	if err := repo.SaveGame(ctx, game); err != nil {
		t.Fatalf("save: %v", err)
	}
	game.ScoreA = 12
	game.Status = "final"
	if err := repo.SaveGame(ctx, game); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, _, _, err := repo.GetSnapshot(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ScoreA != 12 || got.Status != "final" {
		t.Fatalf("game = %+v", got)
	}
}

func TestFoldTotalsAccumulates(t *testing.T) {
	sqlDB, queries := testDB(t)
	repo := NewLeadersRepository(sqlDB, queries, zerolog.Nop())
	ctx := context.Background()

	roster := []domain.RosterEntry{
		{GameID: "g1", PlayerID: "p1", PlayerName: "Avery", TeamName: "Eagles", TeamSide: domain.SideA},
		{GameID: "g1", PlayerID: "p2", PlayerName: "Blake", TeamName: "Hawks", TeamSide: domain.SideB},
	}

	// One game's totals, then a second game's.
	err := repo.FoldTotals(ctx, "boys-12", roster, map[string]int{
		"p1:pts":     8,
		"p2:pts":     5,
		"team:A:pts": 8,
		"p1:reb":     3,
	})
	if err != nil {
		t.Fatalf("first fold: %v", err)
	}
	err = repo.FoldTotals(ctx, "boys-12", roster, map[string]int{
		"p1:pts": 4,
		"p2:pts": 6,
	})
	if err != nil {
		t.Fatalf("second fold: %v", err)
	}

	leaders, err := repo.Top(ctx, "boys-12", "pts", 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("leaders = %+v, want 2 players and no team rows", leaders)
	}
	if leaders[0].PlayerID != "p1" || leaders[0].Total != 12 {
		t.Fatalf("first = %+v, want p1 with 12", leaders[0])
	}
	if leaders[1].PlayerID != "p2" || leaders[1].Total != 11 {
		t.Fatalf("second = %+v, want p2 with 11", leaders[1])
	}
	if leaders[0].PlayerName != "Avery" || leaders[0].TeamName != "Eagles" {
		t.Fatalf("roster identity missing: %+v", leaders[0])
	}
}

func TestFoldTotalsOtherLeagueUntouched(t *testing.T) {
	sqlDB, queries := testDB(t)
	repo := NewLeadersRepository(sqlDB, queries, zerolog.Nop())
	ctx := context.Background()

	if err := repo.FoldTotals(ctx, "boys-12", nil, map[string]int{"p1:pts": 8}); err != nil {
		t.Fatalf("fold: %v", err)
	}
	leaders, err := repo.Top(ctx, "girls-10", "pts", 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(leaders) != 0 {
		t.Fatalf("leaders = %+v, want none", leaders)
	}
}
