package arcade

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	// the board is public and read-only
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  512,
	WriteBufferSize: 4096,
}

// EncodeBoard serialises a board for websocket subscribers.
func EncodeBoard(b *Board) ([]byte, error) {
	return msgpack.Marshal(b)
}

// DecodeBoard is the inverse of EncodeBoard.
func DecodeBoard(data []byte) (*Board, error) {
	var b Board
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// BoardHandler streams msgpack-encoded boards over a websocket: the current
// board on connect, then every update.
func (h *Hub) BoardHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("board upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		updates, cancel := h.Subscribe()
		h.logger.Debug("board subscriber connected", "remote", r.RemoteAddr)

		done := make(chan struct{})
		go h.readPump(conn, done)
		h.writePump(conn, updates, done)
		cancel()
		h.logger.Debug("board subscriber gone", "remote", r.RemoteAddr)
	})
}

// readPump discards client messages; it exists to process pongs and notice
// the close.
func (h *Hub) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("board subscriber error", "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, updates <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	if data, err := EncodeBoard(h.Board()); err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return
		}
	}

	for {
		select {
		case <-done:
			return
		case data := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// JSONHandler serves the current board as JSON, for browsers and curl.
func (h *Hub) JSONHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(h.Board()); err != nil {
			h.logger.Warn("write board", "err", err)
		}
	})
}
