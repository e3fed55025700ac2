// Package store is the client for the remote league store: a relational
// backend exposed as REST rows (live_games, live_events, game_roster)
// plus named procedures (finalize_game, rpc_add_score, rpc_add_stat,
// rpc_rebuild_leaders). The store is the source of truth; this process
// only caches.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/ethanesterson-creator/crest-league-live/internal/config"
	"github.com/ethanesterson-creator/crest-league-live/internal/constants"
	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
)

type Client struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.StoreURL,
		apiKey:  cfg.StoreAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.StoreTimeout,
			WriteTimeout:        constants.StoreTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// FetchGame reads one live_games row.
func (c *Client) FetchGame(ctx context.Context, id string) (*domain.GameRecord, error) {
	u := fmt.Sprintf("%s/rest/v1/live_games?select=*&id=eq.%s", c.baseURL, url.QueryEscape(id))
	return doSingle[domain.GameRecord](ctx, c, "fetchGame", fasthttp.MethodGet, u, nil)
}

// UpdateGame overwrites the named columns of one live_games row and
// returns the updated row. Last writer wins: no concurrency token.
func (c *Client) UpdateGame(ctx context.Context, id string, patch map[string]any) (*domain.GameRecord, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, &domain.StoreError{Op: "updateGame", Err: err}
	}
	u := fmt.Sprintf("%s/rest/v1/live_games?id=eq.%s", c.baseURL, url.QueryEscape(id))
	return doSingle[domain.GameRecord](ctx, c, "updateGame", fasthttp.MethodPatch, u, body)
}

// AppendEvent inserts one immutable row into the event log and returns
// the stored row.
func (c *Client) AppendEvent(ctx context.Context, ev domain.StatEvent) (*domain.StatEvent, error) {
	row := map[string]any{
		"game_id":    ev.GameID,
		"event_type": ev.EventType,
		"stat_key":   ev.StatKey,
		"delta":      ev.Delta,
	}
	if ev.PlayerID != "" {
		row["player_id"] = ev.PlayerID
		row["player_name"] = ev.PlayerName
	}
	if ev.TeamSide != "" {
		row["team_side"] = string(ev.TeamSide)
	}
	if ev.TeamName != "" {
		row["team_name"] = ev.TeamName
	}
	body, err := json.Marshal(row)
	if err != nil {
		return nil, &domain.StoreError{Op: "appendEvent", Err: err}
	}
	u := fmt.Sprintf("%s/rest/v1/live_events", c.baseURL)
	return doSingle[domain.StatEvent](ctx, c, "appendEvent", fasthttp.MethodPost, u, body)
}

// ListEvents reads the full event log for a game, filtered by event
// type.
func (c *Client) ListEvents(ctx context.Context, gameID, eventType string) ([]domain.StatEvent, error) {
	u := fmt.Sprintf("%s/rest/v1/live_events?select=*&game_id=eq.%s&event_type=eq.%s&limit=%d",
		c.baseURL, url.QueryEscape(gameID), url.QueryEscape(eventType), constants.EventFetchLimit)
	return doList[domain.StatEvent](ctx, c, "listEvents", u)
}

// ListRoster reads the game_roster rows for a game.
func (c *Client) ListRoster(ctx context.Context, gameID string) ([]domain.RosterEntry, error) {
	u := fmt.Sprintf("%s/rest/v1/game_roster?select=*&game_id=eq.%s", c.baseURL, url.QueryEscape(gameID))
	return doList[domain.RosterEntry](ctx, c, "listRoster", u)
}

// SetPlaying toggles one roster entry between bench and playing.
func (c *Client) SetPlaying(ctx context.Context, gameID, playerID string, playing bool) error {
	body, err := json.Marshal(map[string]any{"is_playing": playing})
	if err != nil {
		return &domain.StoreError{Op: "setPlaying", Err: err}
	}
	u := fmt.Sprintf("%s/rest/v1/game_roster?game_id=eq.%s&player_id=eq.%s",
		c.baseURL, url.QueryEscape(gameID), url.QueryEscape(playerID))
	return c.doVoid(ctx, "setPlaying", fasthttp.MethodPatch, u, body)
}

// Finalize invokes the finalize_game procedure. Opaque: the store locks
// the score and rebuilds standings and leaders as a side effect.
func (c *Client) Finalize(ctx context.Context, gameID string) error {
	return c.rpc(ctx, "finalize_game", map[string]any{"gid": gameID})
}

// AddScore invokes rpc_add_score for a team-level score bump.
func (c *Client) AddScore(ctx context.Context, gameID string, side domain.TeamSide, delta int) error {
	return c.rpc(ctx, "rpc_add_score", map[string]any{
		"p_game_id": gameID,
		"p_side":    string(side),
		"p_delta":   delta,
	})
}

func (c *Client) rpc(ctx context.Context, name string, args map[string]any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return &domain.StoreError{Op: name, Err: err}
	}
	u := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, name)
	return c.doVoid(ctx, name, fasthttp.MethodPost, u, body)
}

func doSingle[T any](ctx context.Context, c *Client, op, method, u string, body []byte) (*T, error) {
	raw, status, err := c.do(ctx, method, u, body, true)
	if err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	if status == fasthttp.StatusNotFound || status == fasthttp.StatusNotAcceptable {
		return nil, &domain.StoreError{Op: op, Status: status, Err: domain.ErrNotFound}
	}
	if status < 200 || status >= 300 {
		return nil, &domain.StoreError{Op: op, Status: status}
	}
	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	return &result, nil
}

func doList[T any](ctx context.Context, c *Client, op, u string) ([]T, error) {
	raw, status, err := c.do(ctx, fasthttp.MethodGet, u, nil, false)
	if err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	if status != fasthttp.StatusOK {
		return nil, &domain.StoreError{Op: op, Status: status}
	}
	var result []T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	return result, nil
}

func (c *Client) doVoid(ctx context.Context, op, method, u string, body []byte) error {
	_, status, err := c.do(ctx, method, u, body, false)
	if err != nil {
		return &domain.StoreError{Op: op, Err: err}
	}
	if status == fasthttp.StatusNotFound {
		return &domain.StoreError{Op: op, Status: status, Err: domain.ErrNotFound}
	}
	if status < 200 || status >= 300 {
		return &domain.StoreError{Op: op, Status: status}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, single bool) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u)
	req.Header.SetMethod(method)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}
	if single {
		// Single-object responses; the store answers 406 when the row
		// does not exist.
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
		req.Header.Set("Prefer", "return=representation")
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, 0, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, 0, err
		}
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, resp.StatusCode(), nil
}
