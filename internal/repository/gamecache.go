package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ethanesterson-creator/crest-league-live/internal/db"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
)

// GameCacheRepository holds the last known-good copy of each game that
// this box has displayed, so a store outage degrades to stale data
// instead of a blank screen.
type GameCacheRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewGameCacheRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GameCacheRepository {
	return &GameCacheRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// SaveSnapshot replaces the cached game, event log, and roster in one
// transaction. Events and roster are rewritten wholesale rather than
// merged; the store copy is authoritative.
func (r *GameCacheRepository) SaveSnapshot(ctx context.Context, game domain.GameRecord, events []domain.StatEvent, roster []domain.RosterEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if err := qtx.UpsertCachedGame(ctx, gameParams(game, time.Now().UTC())); err != nil {
		return fmt.Errorf("failed to upsert cached game: %w", err)
	}

	if err := qtx.DeleteCachedEventsForGame(ctx, game.ID); err != nil {
		return fmt.Errorf("failed to clear cached events: %w", err)
	}
	for _, e := range events {
		err := qtx.InsertCachedEvent(ctx, db.InsertCachedEventParams{
			ID:         e.ID,
			GameID:     e.GameID,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			TeamSide:   string(e.TeamSide),
			TeamName:   e.TeamName,
			EventType:  e.EventType,
			StatKey:    e.StatKey,
			Delta:      int64(e.Delta),
			CreatedAt:  e.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to insert cached event: %w", err)
		}
	}

	if err := qtx.DeleteCachedRosterForGame(ctx, game.ID); err != nil {
		return fmt.Errorf("failed to clear cached roster: %w", err)
	}
	for _, entry := range roster {
		err := qtx.InsertCachedRoster(ctx, db.InsertCachedRosterParams{
			GameID:     entry.GameID,
			PlayerID:   entry.PlayerID,
			PlayerName: entry.PlayerName,
			TeamSide:   string(entry.TeamSide),
			TeamName:   entry.TeamName,
			IsPlaying:  entry.IsPlaying,
		})
		if err != nil {
			return fmt.Errorf("failed to insert cached roster entry: %w", err)
		}
	}

	return tx.Commit()
}

// SaveGame refreshes just the cached game row, leaving events and
// roster as last snapshotted.
func (r *GameCacheRepository) SaveGame(ctx context.Context, game domain.GameRecord) error {
	return r.queries.UpsertCachedGame(ctx, gameParams(game, time.Now().UTC()))
}

// GetSnapshot reads the cached game with its events and roster.
// Returns domain.ErrNotFound when the game was never cached.
func (r *GameCacheRepository) GetSnapshot(ctx context.Context, gameID string) (*domain.GameRecord, []domain.StatEvent, []domain.RosterEntry, error) {
	row, err := r.queries.GetCachedGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil, domain.ErrNotFound
		}
		return nil, nil, nil, err
	}
	game := gameFromRow(row)

	eventRows, err := r.queries.ListCachedEvents(ctx, gameID)
	if err != nil {
		return nil, nil, nil, err
	}
	events := make([]domain.StatEvent, len(eventRows))
	for i, e := range eventRows {
		events[i] = domain.StatEvent{
			ID:         e.ID,
			GameID:     e.GameID,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			TeamSide:   domain.TeamSide(e.TeamSide),
			TeamName:   e.TeamName,
			EventType:  e.EventType,
			StatKey:    e.StatKey,
			Delta:      int(e.Delta),
			CreatedAt:  e.CreatedAt,
		}
	}

	rosterRows, err := r.queries.ListCachedRoster(ctx, gameID)
	if err != nil {
		return nil, nil, nil, err
	}
	roster := make([]domain.RosterEntry, len(rosterRows))
	for i, entry := range rosterRows {
		roster[i] = domain.RosterEntry{
			GameID:     entry.GameID,
			PlayerID:   entry.PlayerID,
			PlayerName: entry.PlayerName,
			TeamSide:   domain.TeamSide(entry.TeamSide),
			TeamName:   entry.TeamName,
			IsPlaying:  entry.IsPlaying,
		}
	}

	return &game, events, roster, nil
}

func gameParams(game domain.GameRecord, cachedAt time.Time) db.UpsertCachedGameParams {
	anchor := sql.NullFloat64{}
	if game.AnchorTS != nil {
		anchor = sql.NullFloat64{Float64: *game.AnchorTS, Valid: true}
	}
	return db.UpsertCachedGameParams{
		ID:                     game.ID,
		LeagueKey:              game.LeagueKey,
		Sport:                  game.Sport,
		Level:                  game.Level,
		Mode:                   game.Mode,
		MatchupType:            game.MatchupType,
		TeamA1:                 game.TeamA1,
		TeamA2:                 game.TeamA2,
		TeamB1:                 game.TeamB1,
		TeamB2:                 game.TeamB2,
		ScoreA:                 int64(game.ScoreA),
		ScoreB:                 int64(game.ScoreB),
		Status:                 game.Status,
		TimerRunning:           game.Running,
		TimerAnchorTs:          anchor,
		TimerRemainingAtAnchor: int64(game.RemainingAtAnchor),
		TimerRemainingSeconds:  int64(game.RemainingSeconds),
		DurationSeconds:        int64(game.DurationSeconds),
		UpdatedAt:              game.UpdatedAt,
		CachedAt:               cachedAt,
	}
}

func gameFromRow(row db.CachedGame) domain.GameRecord {
	var anchor *float64
	if row.TimerAnchorTs.Valid {
		v := row.TimerAnchorTs.Float64
		anchor = &v
	}
	return domain.GameRecord{
		ID:          row.ID,
		LeagueKey:   row.LeagueKey,
		Sport:       row.Sport,
		Level:       row.Level,
		Mode:        row.Mode,
		MatchupType: row.MatchupType,
		TeamA1:      row.TeamA1,
		TeamA2:      row.TeamA2,
		TeamB1:      row.TeamB1,
		TeamB2:      row.TeamB2,
		ScoreA:      int(row.ScoreA),
		ScoreB:      int(row.ScoreB),
		Status:      row.Status,
		ClockState: domain.ClockState{
			Running:           row.TimerRunning,
			AnchorTS:          anchor,
			RemainingAtAnchor: int(row.TimerRemainingAtAnchor),
			RemainingSeconds:  int(row.TimerRemainingSeconds),
			DurationSeconds:   int(row.DurationSeconds),
		},
		UpdatedAt: row.UpdatedAt,
	}
}
