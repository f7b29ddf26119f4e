package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

// WebSocket message types.
const (
	wsTypeProgress = "progress"
	wsTypeResult   = "result"
	wsTypeError    = "error"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// wsMessage is one frame of the generation stream.
type wsMessage struct {
	Type       string `json:"type"`
	Stage      string `json:"stage,omitempty"`
	Message    string `json:"message,omitempty"`
	Done       int    `json:"done,omitempty"`
	Total      int    `json:"total,omitempty"`
	ID         string `json:"id,omitempty"`
	Repository string `json:"repository,omitempty"`
	Readme     string `json:"readme,omitempty"`
	Model      string `json:"model,omitempty"`
	Status     int    `json:"status,omitempty"`
}

// wsConn serialises writes to a WebSocket connection.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (c *wsConn) close(code int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, text)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
}

// handleGenerateWS streams generation progress, then the result or error.
// The generation is cancelled if the client disconnects.
func (s *Server) handleGenerateWS(w http.ResponseWriter, r *http.Request) {
	ref, err := repoRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	header := http.Header{HeaderRequestID: {w.Header().Get(HeaderRequestID)}}
	raw, err := wsUpgrader.Upgrade(w, r, header)
	if err != nil {
		logger.Debug("websocket upgrade failed: %v", err)
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.readUntilClosed(raw, cancel)
	go keepAlive(ctx, conn)

	progress := func(ev domain.ProgressEvent) {
		if ev.Stage.IsTerminal() {
			return
		}
		if err := conn.send(wsMessage{
			Type:    wsTypeProgress,
			Stage:   ev.Stage.String(),
			Message: ev.Message,
			Done:    ev.Done,
			Total:   ev.Total,
		}); err != nil {
			cancel()
		}
	}

	gen, err := s.readme.Generate(ctx, ref, progress)
	if err != nil {
		_ = conn.send(wsMessage{Type: wsTypeError, Message: err.Error(), Status: statusFor(err)})
		conn.close(websocket.CloseNormalClosure, "")
		return
	}

	_ = conn.send(wsMessage{
		Type:       wsTypeResult,
		ID:         gen.ID,
		Repository: ref.FullName(),
		Readme:     gen.Readme,
		Model:      gen.Model,
	})
	conn.close(websocket.CloseNormalClosure, "")
}

// readUntilClosed drains client frames so that control messages are handled,
// and cancels the generation once the connection fails.
func (s *Server) readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func keepAlive(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
