package display

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/ethanesterson-creator/crest-league-live/internal/constants"
	"github.com/ethanesterson-creator/crest-league-live/internal/service"
)

// FrameSource derives the current scoreboard frame for a game.
// *service.GameService satisfies it.
type FrameSource interface {
	Frame(ctx context.Context, gameID string) (service.Frame, error)
}

// Loop re-derives a game's scoreboard frame on a fixed tick while at
// least one viewer is watching. It only reads; the authoritative clock
// state is never touched from here.
type Loop struct {
	source FrameSource
	clk    clockwork.Clock
	log    zerolog.Logger
}

func NewLoop(source FrameSource, clk clockwork.Clock, logger zerolog.Logger) *Loop {
	return &Loop{source: source, clk: clk, log: logger}
}

// Run ticks until ctx is cancelled, pushing each derived frame to emit.
// A failed derivation is logged and the previous frame stands until the
// next tick.
func (l *Loop) Run(ctx context.Context, gameID string, emit func(service.Frame)) {
	ticker := l.clk.NewTicker(constants.DisplayTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			frame, err := l.source.Frame(ctx, gameID)
			if err != nil {
				l.log.Warn().Err(err).Str("game_id", gameID).Msg("frame derivation failed")
				continue
			}
			emit(frame)
		}
	}
}
