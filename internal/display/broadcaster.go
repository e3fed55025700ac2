package display

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ethanesterson-creator/crest-league-live/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Scoreboard feeds are read-only and served on the camp LAN.
		return true
	},
}

// Broadcaster fans scoreboard frames out to websocket viewers. One
// display loop runs per game while that game has at least one viewer;
// the loop stops when the last viewer disconnects.
type Broadcaster struct {
	loop *Loop
	log  zerolog.Logger

	mu    sync.Mutex
	feeds map[string]*feed
}

func NewBroadcaster(loop *Loop, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		loop:  loop,
		log:   logger,
		feeds: make(map[string]*feed),
	}
}

type feed struct {
	gameID string
	cancel context.CancelFunc

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// HandleGame upgrades the request and streams frames for one game until
// the viewer disconnects.
func (b *Broadcaster) HandleGame(w http.ResponseWriter, r *http.Request, gameID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn().Err(err).Str("game_id", gameID).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	b.attach(gameID, c)
	b.log.Debug().Str("game_id", gameID).Msg("scoreboard viewer connected")

	go c.writePump()
	c.readPump()

	b.detach(gameID, c)
	b.log.Debug().Str("game_id", gameID).Msg("scoreboard viewer disconnected")
}

func (b *Broadcaster) attach(gameID string, c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.feeds[gameID]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		f = &feed{
			gameID:  gameID,
			cancel:  cancel,
			clients: make(map[*client]struct{}),
		}
		b.feeds[gameID] = f
		go b.loop.Run(ctx, gameID, f.broadcast)
	}

	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()
}

func (b *Broadcaster) detach(gameID string, c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.feeds[gameID]
	if !ok {
		return
	}
	f.mu.Lock()
	delete(f.clients, c)
	empty := len(f.clients) == 0
	f.mu.Unlock()
	close(c.send)

	if empty {
		f.cancel()
		delete(b.feeds, gameID)
	}
}

// broadcast pushes one frame to every attached viewer. A viewer whose
// send buffer is full misses the frame; the next tick replaces it
// anyway.
func (f *feed) broadcast(frame service.Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// readPump drains inbound messages so close frames and pongs are
// processed. Viewers never send application data.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
