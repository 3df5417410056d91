package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/log"
)

const (
	clientBuffer = 8
	writeTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// CueHub broadcasts cue frames to websocket clients. Broadcast never blocks
// the caller: a client that falls behind loses frames.
type CueHub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
	lang    string
}

// cueMessage is a cue frame with its instruction text resolved.
type cueMessage struct {
	cue.Frame
	Text string `json:"text,omitempty"`
}

// NewCueHub creates a hub that resolves message texts in lang.
func NewCueHub(lang string) *CueHub {
	return &CueHub{
		clients: make(map[*websocket.Conn]chan []byte),
		lang:    lang,
	}
}

// Clients returns the number of connected clients.
func (h *CueHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues f for every connected client.
func (h *CueHub) Broadcast(f cue.Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg := cueMessage{Frame: f}
	if f.Message != cue.MsgNone {
		msg.Text = cue.Text(f.Message, h.lang)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("marshal cue frame", "err", err)
		return
	}

	for _, ch := range h.clients {
		select {
		case ch <- data:
		default:
		}
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *CueHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade error", "err", err)
		return
	}
	defer conn.Close()

	ch := make(chan []byte, clientBuffer)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// reader detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case data := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
