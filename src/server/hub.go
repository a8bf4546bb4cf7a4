package server

import (
	"net/http"

	"candle-chart/src/models"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub owns client registration and fans series updates out to sessions.
func (s *ChartServer) runHub() {
	for {
		select {
		case client := <-s.register:
			s.clientsMu.Lock()
			s.clients[client] = struct{}{}
			s.clientsMu.Unlock()
			s.Logger.Debug("Session %s connected", client.session.ID)

		case client := <-s.unregister:
			s.clientsMu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.clientsMu.Unlock()

		case u := <-s.updates:
			s.refreshSessions(u)

		case <-s.quit:
			s.clientsMu.Lock()
			for client := range s.clients {
				client.conn.Close()
			}
			s.clientsMu.Unlock()
			return
		}
	}
}

func (s *ChartServer) refreshSessions(u seriesUpdate) {
	s.clientsMu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.clientsMu.RUnlock()

	for _, client := range clients {
		if !client.session.Watches(u.symbol, u.interval) {
			continue
		}
		msg, err := client.session.Refresh(s)
		if err != nil {
			client.trySend(errorMessage(err))
			continue
		}
		if msg != nil && !client.trySend(msg) {
			// Client too slow; resend the whole frame next time.
			client.session.Invalidate()
			s.Logger.Warning("Session %s is lagging, dropped frame v%d", client.session.ID, u.version)
		}
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *ChartServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:     s,
		conn:    conn,
		send:    make(chan interface{}, 256),
		session: NewSession(s.Config.Render),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *ChartServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSessionCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		client.trySend(models.MErrorMessage{Type: models.MsgError, Message: "invalid command: " + err.Error()})
		return
	}

	msg, err := client.session.Handle(cmd, s)
	if err != nil {
		client.trySend(errorMessage(err))
		return
	}
	if msg != nil && !client.trySend(msg) {
		client.session.Invalidate()
	}
}

func errorMessage(err error) models.MErrorMessage {
	return models.MErrorMessage{Type: models.MsgError, Message: err.Error()}
}
