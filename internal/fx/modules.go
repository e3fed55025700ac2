package fx

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/ethanesterson-creator/crest-league-live/internal/config"
	"github.com/ethanesterson-creator/crest-league-live/internal/database"
	"github.com/ethanesterson-creator/crest-league-live/internal/db"
	"github.com/ethanesterson-creator/crest-league-live/internal/display"
	"github.com/ethanesterson-creator/crest-league-live/internal/logger"
	"github.com/ethanesterson-creator/crest-league-live/internal/repository"
	"github.com/ethanesterson-creator/crest-league-live/internal/server"
	"github.com/ethanesterson-creator/crest-league-live/internal/service"
	"github.com/ethanesterson-creator/crest-league-live/internal/store"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func ProvideLeagueStore(client *store.Client) service.LeagueStore {
	return client
}

func ProvideGameService(
	leagueStore service.LeagueStore,
	cache *repository.GameCacheRepository,
	leaders *repository.LeadersRepository,
	clk clockwork.Clock,
	log zerolog.Logger,
) *service.GameService {
	return service.NewGameService(leagueStore, cache, leaders, clk, log)
}

func ProvideDisplayLoop(games *service.GameService, clk clockwork.Clock, log zerolog.Logger) *display.Loop {
	return display.NewLoop(games, clk, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	// LOG_LEVEL applies to everything constructed after config.
	fx.Decorate(func(cfg *config.Config, log zerolog.Logger) zerolog.Logger {
		return log.Level(logger.FromName(cfg.LogLevel))
	}),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(ProvideClock),
	// repos
	fx.Provide(repository.NewGameCacheRepository),
	fx.Provide(repository.NewLeadersRepository),
	// store client
	fx.Provide(store.NewClient),
	fx.Provide(ProvideLeagueStore),
	// svc
	fx.Provide(ProvideGameService),
	// display
	fx.Provide(ProvideDisplayLoop),
	fx.Provide(display.NewBroadcaster),
	// server
	fx.Provide(server.NewHandler),
)
