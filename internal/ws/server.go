package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Ajuste CORS conforme necessário
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage é o único formato aceito do navegador:
// {"action":"subscribe","draft_id":"..."}.
type clientMessage struct {
	Action  string `json:"action"`
	DraftID string `json:"draft_id"`
}

// Handler faz o upgrade e liga a conexão ao hub. ?draft_id= já assina
// na conexão.
func Handler(hub *Hub, buffer int, log *slog.Logger) http.HandlerFunc {
	if buffer <= 0 {
		buffer = 256
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("ws_upgrade_error", "err", err)
			return
		}

		client := &Client{ID: hub.newID(), Send: make(chan []byte, buffer)}
		hub.Register(client)
		if id := r.URL.Query().Get("draft_id"); id != "" {
			hub.Subscribe(client, id)
		}
		log.Info("ws_client_connected", "id", client.ID)

		go writePump(conn, client)
		go readPump(conn, hub, client, log)
	}
}

// writePump envia o que o hub manda e mantém o ping.
func writePump(conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub fechou o canal
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func readPump(conn *websocket.Conn, hub *Hub, c *Client, log *slog.Logger) {
	defer func() {
		hub.Unregister(c)
		_ = conn.Close()
	}()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("ws_read_error", "id", c.ID, "err", err)
			}
			return
		}
		var m clientMessage
		if err := json.Unmarshal(raw, &m); err != nil || m.DraftID == "" {
			log.Debug("ws_message_ignored", "id", c.ID)
			continue
		}
		switch m.Action {
		case "subscribe":
			hub.Subscribe(c, m.DraftID)
		case "unsubscribe":
			hub.Unsubscribe(c, m.DraftID)
		}
	}
}
