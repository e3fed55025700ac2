package service

import (
	"context"

	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
)

// GameStore is the slice of the remote league store the clock controller
// needs: one row's reads, full-overwrite writes, and the finalize
// procedure.
type GameStore interface {
	FetchGame(ctx context.Context, id string) (*domain.GameRecord, error)
	UpdateGame(ctx context.Context, id string, patch map[string]any) (*domain.GameRecord, error)
	Finalize(ctx context.Context, gameID string) error
}

// EventStore is the append-only event log.
type EventStore interface {
	AppendEvent(ctx context.Context, ev domain.StatEvent) (*domain.StatEvent, error)
	ListEvents(ctx context.Context, gameID, eventType string) ([]domain.StatEvent, error)
}

// LeagueStore is everything the scoring screen touches remotely.
// *store.Client satisfies it.
type LeagueStore interface {
	GameStore
	EventStore
	ListRoster(ctx context.Context, gameID string) ([]domain.RosterEntry, error)
	SetPlaying(ctx context.Context, gameID, playerID string, playing bool) error
	AddScore(ctx context.Context, gameID string, side domain.TeamSide, delta int) error
}
