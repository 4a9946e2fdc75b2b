// Package ws streams derived train-removal documents to websocket
// subscribers.
package ws

import (
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"railwatch/server/internal/events"
	"railwatch/server/internal/net/proto"
	"railwatch/server/internal/telemetry"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	// sendBuffer bounds the per-client backlog; slow clients lose events
	// rather than stalling dispatch.
	sendBuffer = 16
)

// Handler upgrades connections and relays train.removed events until the
// client disconnects.
type Handler struct {
	bus      *events.Bus
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

func NewHandler(bus *events.Bus, logger telemetry.Logger) *Handler {
	if logger == nil {
		logger = telemetry.LoggerFunc(func(string, ...any) {})
	}
	return &Handler{
		bus:    bus,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*nethttp.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("ws upgrade failed: %v", err)
		return
	}
	go h.serve(conn)
}

func (h *Handler) serve(conn *websocket.Conn) {
	defer conn.Close()

	send := make(chan proto.TrainRemovedMessage, sendBuffer)
	sub := h.bus.Subscribe(events.TypeTrainRemoved, func(ev events.Event) {
		payload, ok := ev.Payload.(events.TrainRemoved)
		if !ok {
			return
		}
		select {
		case send <- proto.NewTrainRemoved(payload):
		default:
		}
	})
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Printf("ws write failed: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
