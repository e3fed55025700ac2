package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ethanesterson-creator/crest-league-live/internal/config"
	"github.com/ethanesterson-creator/crest-league-live/internal/display"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
	"github.com/ethanesterson-creator/crest-league-live/internal/middleware"
	"github.com/ethanesterson-creator/crest-league-live/internal/rules"
	"github.com/ethanesterson-creator/crest-league-live/internal/service"
)

// Handler is the HTTP surface the counselor scoring screens and
// scoreboards talk to.
type Handler struct {
	games       *service.GameService
	broadcaster *display.Broadcaster
	logger      zerolog.Logger
}

func NewHandler(games *service.GameService, broadcaster *display.Broadcaster, logger zerolog.Logger) *Handler {
	return &Handler{
		games:       games,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Router builds the route table. Reads are open; mutations sit behind
// the counselor key gate.
func (h *Handler) Router(cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(h.logger))

	r.Get("/health", h.HandleHealth)
	r.Get("/ws/games/{gameID}", h.HandleScoreboardFeed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/games/{gameID}", h.HandleGetGame)
		r.Get("/games/{gameID}/clock", h.HandleGetClock)
		r.Get("/games/{gameID}/totals", h.HandleGetTotals)
		r.Get("/games/{gameID}/roster", h.HandleGetRoster)
		r.Get("/leagues/{leagueID}/leaders", h.HandleGetLeaders)
		r.Get("/rules/{sport}", h.HandleGetRules)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CounselorGate(cfg.CounselorKey))
			r.Post("/games/{gameID}/clock/start", h.HandleClockStart)
			r.Post("/games/{gameID}/clock/pause", h.HandleClockPause)
			r.Post("/games/{gameID}/clock/reset", h.HandleClockReset)
			r.Post("/games/{gameID}/clock/set", h.HandleClockSet)
			r.Post("/games/{gameID}/score", h.HandleScore)
			r.Post("/games/{gameID}/stats", h.HandleStat)
			r.Post("/games/{gameID}/roster/{playerID}/playing", h.HandleSetPlaying)
			r.Post("/games/{gameID}/finalize", h.HandleFinalize)
		})
	})

	return r
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "crest-league-live",
	})
}

// gameResponse pairs the persisted record with the derived reading so
// one fetch paints the whole screen.
type gameResponse struct {
	Game    domain.GameRecord   `json:"game"`
	Reading domain.ClockReading `json:"reading"`
}

func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, gameResponse{
		Game:    s.Clock.Snapshot(),
		Reading: s.Clock.Reading(),
	})
}

func (h *Handler) HandleGetClock(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.Clock.Reading())
}

func (h *Handler) HandleClockStart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	game, err := s.Clock.Start(r.Context())
	h.respondGame(w, game, err)
}

func (h *Handler) HandleClockPause(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	game, err := s.Clock.Pause(r.Context())
	h.respondGame(w, game, err)
}

func (h *Handler) HandleClockReset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Seconds int `json:"seconds"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	game, err := s.Clock.Reset(r.Context(), body.Seconds)
	h.respondGame(w, game, err)
}

func (h *Handler) HandleClockSet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Time    string `json:"time"`
		Seconds *int   `json:"seconds"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var (
		game domain.GameRecord
		err  error
	)
	if body.Seconds != nil {
		game, err = s.Clock.SetExact(r.Context(), *body.Seconds)
	} else {
		game, err = s.Clock.SetExactInput(r.Context(), body.Time)
	}
	h.respondGame(w, game, err)
}

func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Side  string `json:"side"`
		Delta int    `json:"delta"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	game, err := h.games.BumpScore(r.Context(), chi.URLParam(r, "gameID"), domain.TeamSide(body.Side), body.Delta)
	h.respondGame(w, game, err)
}

func (h *Handler) HandleStat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"player_id"`
		StatKey  string `json:"stat_key"`
		Delta    int    `json:"delta"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	ev, err := h.games.BumpStat(r.Context(), chi.URLParam(r, "gameID"), body.PlayerID, body.StatKey, body.Delta)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ev)
}

func (h *Handler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"game_id": chi.URLParam(r, "gameID"),
		"totals":  s.Stats.Totals(),
	})
}

func (h *Handler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.Roster())
}

func (h *Handler) HandleSetPlaying(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Playing bool `json:"playing"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	gameID := chi.URLParam(r, "gameID")
	playerID := chi.URLParam(r, "playerID")
	if err := h.games.SetPlaying(r.Context(), gameID, playerID, body.Playing); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"player_id": playerID,
		"playing":   body.Playing,
	})
}

func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.Finalize(r.Context(), chi.URLParam(r, "gameID"))
	h.respondGame(w, game, err)
}

func (h *Handler) HandleGetLeaders(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	statKey := r.URL.Query().Get("stat")
	if statKey == "" {
		respondJSON(w, http.StatusBadRequest, errorBody("stat query parameter is required"))
		return
	}
	limit := parseIntParam(r, "limit", 0)

	leaders, err := h.games.Leaders(r.Context(), leagueID, statKey, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"league_id": leagueID,
		"stat_key":  rules.Normalize(statKey),
		"leaders":   leaders,
	})
}

func (h *Handler) HandleGetRules(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rules.ForSport(chi.URLParam(r, "sport")))
}

func (h *Handler) HandleScoreboardFeed(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	// Resolve the session before upgrading so a bad id fails as plain
	// HTTP instead of a dropped websocket.
	if _, err := h.games.Session(r.Context(), gameID); err != nil {
		h.respondError(w, err)
		return
	}
	h.broadcaster.HandleGame(w, r, gameID)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	s, err := h.games.Session(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		h.respondError(w, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) respondGame(w http.ResponseWriter, game domain.GameRecord, err error) {
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody("game not found"))
	case domain.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case domain.IsPrecondition(err):
		respondJSON(w, http.StatusConflict, errorBody(err.Error()))
	case domain.IsStore(err):
		h.logger.Error().Err(err).Msg("store request failed")
		respondJSON(w, http.StatusBadGateway, errorBody("league store is unreachable"))
	default:
		h.logger.Error().Err(err).Msg("request failed")
		respondJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return false
	}
	return true
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
