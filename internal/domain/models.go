package domain

import (
	"time"
)

// TeamSide identifies which half of the matchup a score or roster row
// belongs to.
type TeamSide string

const (
	SideA TeamSide = "A"
	SideB TeamSide = "B"
)

// EventTypeStat marks rows in the event log that carry per-player stat
// deltas. Score bumps go through rpc_add_score and land with their own
// event type; the aggregator only folds stat rows.
const EventTypeStat = "stat"

// ClockState is the persisted, authoritative timer for one game. The
// JSON names are the store's column names and must not change.
//
// Exactly one of two shapes is valid at a persisted instant: running
// with a non-nil positive anchor, or paused with a nil anchor. A running
// state with a missing or non-positive anchor is a half-written record
// and is read as paused.
type ClockState struct {
	Running           bool     `json:"timer_running"`
	AnchorTS          *float64 `json:"timer_anchor_ts"`
	RemainingAtAnchor int      `json:"timer_remaining_at_anchor"`
	RemainingSeconds  int      `json:"timer_remaining_seconds"`
	DurationSeconds   int      `json:"duration_seconds"`
}

// ClockReading is what the scoring screen shows right now. Derived,
// never persisted.
type ClockReading struct {
	Remaining float64 `json:"remaining"`
	IsRunning bool    `json:"is_running"`
}

// GameRecord mirrors a live_games row. The clock columns are embedded so
// one row round-trips through a single JSON object.
type GameRecord struct {
	ID          string `json:"id"`
	LeagueKey   string `json:"league_key"`
	Sport       string `json:"sport"`
	Level       string `json:"level"`
	Mode        string `json:"mode"`
	MatchupType string `json:"matchup_type"`
	TeamA1      string `json:"team_a1"`
	TeamA2      string `json:"team_a2"`
	TeamB1      string `json:"team_b1"`
	TeamB2      string `json:"team_b2"`
	ScoreA      int    `json:"score_a"`
	ScoreB      int    `json:"score_b"`
	Status      string `json:"status"`

	ClockState

	UpdatedAt time.Time `json:"updated_at"`
}

// StatEvent is one immutable row of the append-only event log.
// Corrections are made by appending an offsetting delta, never by
// editing history.
type StatEvent struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	PlayerID   string    `json:"player_id,omitempty"`
	PlayerName string    `json:"player_name,omitempty"`
	TeamSide   TeamSide  `json:"team_side,omitempty"`
	TeamName   string    `json:"team_name,omitempty"`
	EventType  string    `json:"event_type"`
	StatKey    string    `json:"stat_key"`
	Delta      int       `json:"delta"`
	CreatedAt  time.Time `json:"created_at"`
}

// RosterEntry mirrors a game_roster row.
type RosterEntry struct {
	GameID     string   `json:"game_id"`
	PlayerID   string   `json:"player_id"`
	PlayerName string   `json:"player_name"`
	TeamSide   TeamSide `json:"team_side"`
	TeamName   string   `json:"team_name"`
	IsPlaying  bool     `json:"is_playing"`
}

// LeaderRow is one ranked entry of a league's stat leaderboard snapshot.
type LeaderRow struct {
	LeagueID   string `json:"league_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name"`
	StatKey    string `json:"stat_key"`
	Total      int    `json:"total"`
}
