package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ethanesterson-creator/crest-league-live/internal/db"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
)

// LeadersRepository keeps a cumulative per-league stat leaderboard.
// Totals are folded in additively when a game finalizes, so the
// leaderboard view works even when the store is unreachable.
type LeadersRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewLeadersRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *LeadersRepository {
	return &LeadersRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// FoldTotals adds one finalized game's per-player totals into the
// league's cumulative snapshot. Team-level totals are skipped; the
// leaderboard ranks players.
func (r *LeadersRepository) FoldTotals(ctx context.Context, leagueID string, roster []domain.RosterEntry, totals map[string]int) error {
	if leagueID == "" || len(totals) == 0 {
		return nil
	}

	byPlayer := make(map[string]domain.RosterEntry, len(roster))
	for _, entry := range roster {
		byPlayer[entry.PlayerID] = entry
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()

	for key, total := range totals {
		if total == 0 || strings.HasPrefix(key, "team:") {
			continue
		}
		parts := strings.SplitN(key, ":", 2)
		if len(parts) != 2 {
			continue
		}
		playerID, statKey := parts[0], parts[1]
		entry := byPlayer[playerID]

		err := qtx.AddLeaderTotal(ctx, db.AddLeaderTotalParams{
			LeagueID:   leagueID,
			PlayerID:   playerID,
			PlayerName: entry.PlayerName,
			TeamName:   entry.TeamName,
			StatKey:    statKey,
			Total:      int64(total),
			UpdatedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("failed to fold leader total: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.logger.Debug().Str("league_id", leagueID).Int("keys", len(totals)).Msg("folded game totals into leaders")
	return nil
}

// Top returns the league's ranked leaders for one stat key.
func (r *LeadersRepository) Top(ctx context.Context, leagueID, statKey string, limit int) ([]domain.LeaderRow, error) {
	rows, err := r.queries.ListLeadersByStat(ctx, db.ListLeadersByStatParams{
		LeagueID: leagueID,
		StatKey:  statKey,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.LeaderRow, len(rows))
	for i, row := range rows {
		result[i] = domain.LeaderRow{
			LeagueID:   row.LeagueID,
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			TeamName:   row.TeamName,
			StatKey:    row.StatKey,
			Total:      int(row.Total),
		}
	}
	return result, nil
}
