package http

import (
	"log"
	"time"

	"othello/internal/core"
	"othello/internal/processor"
	"othello/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

// upgradeRequired rejects plain HTTP requests on the stream route
func (h *HTTPHandler) upgradeRequired(c *fiber.Ctx) error {
	if !isValidUUID(c.Params("gameId")) {
		return invalidGameID(c)
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Stream sends the current game state, then one frame per committed transition
// until the client disconnects or the game is deleted.
func (h *HTTPHandler) Stream(conn *websocket.Conn) {
	gameID := conn.Params("gameId")

	updates, cancel, err := h.svc.Subscribe(gameID, service.SubscriberBuffer)
	if err != nil {
		h.writeStreamError(conn, "game not found", core.ErrGameNotFound)
		return
	}
	defer cancel()

	snap, err := h.svc.GetGame(gameID)
	if err != nil {
		h.writeStreamError(conn, "game not found", core.ErrGameNotFound)
		return
	}
	if err := writeState(conn, processor.BuildGameResponse(gameID, snap)); err != nil {
		return
	}
	sent := snap.Version

	// Reader detects client close; incoming frames are ignored
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game closed"))
				return
			}
			if snap.Version <= sent {
				continue
			}
			if err := writeState(conn, processor.BuildGameResponse(gameID, snap)); err != nil {
				log.Printf("stream %s: write failed: %v", gameID, err)
				return
			}
			sent = snap.Version
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeState(conn *websocket.Conn, resp core.GameResponse) error {
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(core.StreamMessage{Event: "state", Game: &resp})
}

func (h *HTTPHandler) writeStreamError(conn *websocket.Conn, message, code string) {
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	conn.WriteJSON(core.StreamMessage{
		Event: "error",
		Error: &core.ErrorResponse{Error: message, Code: code},
	})
}
