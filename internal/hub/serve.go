package hub

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// The handshake accepts any origin; the channel itself carries no
// authentication.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// pingEcho is sent back for every inbound client message. Inbound
// payloads are not part of the protocol and are otherwise ignored.
var pingEcho = []byte(`{"type":"ping","message":"connected"}`)

// Serve upgrades the request to a websocket connection, registers it
// with the hub, and runs the read loop until the client disconnects.
// The read loop exists only to detect disconnect and to answer each
// client message with the ping echo.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}
	sub := h.Register(conn)
	defer h.Unregister(sub)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
		if err := sub.send(pingEcho, h.writeTimeout); err != nil {
			return nil
		}
	}
}
