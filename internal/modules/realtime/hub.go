package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"studiopromise/internal/domain"
	"studiopromise/internal/modules/pipeline"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// clientMessage is what a viewer sends over its socket.
type clientMessage struct {
	Type  string `json:"type"` // hello | route | lock | unlock | refresh
	Route string `json:"route,omitempty"`
}

// serverEvent is pushed to a viewer.
type serverEvent struct {
	Type  string `json:"type"` // navigate | error
	Route string `json:"route,omitempty"`
	Path  string `json:"path,omitempty"`
	Code  string `json:"code,omitempty"`
}

// viewerConn is one open viewer session bound to one deal.
type viewerConn struct {
	conn    *websocket.Conn
	send    chan []byte
	session *Session
}

// Hub owns viewer websocket sessions. Each session gets its own subscription
// and its own coordinator goroutine; nothing is shared across sessions.
type Hub struct {
	broker       *Broker
	deals        DealStageReader
	pollInterval time.Duration
}

func NewHub(broker *Broker, deals DealStageReader, pollInterval time.Duration) *Hub {
	return &Hub{
		broker:       broker,
		deals:        deals,
		pollInterval: pollInterval,
	}
}

// ServeWS runs one viewer session until the socket closes. It subscribes to
// the deal topic, starts the coordinator, and relays navigations; the
// subscription and the coordinator are torn down with the connection, so no
// route update can fire after the viewer is gone.
func (h *Hub) ServeWS(conn *websocket.Conn, dealID int64, studioSlug string) {
	v := &viewerConn{
		conn:    conn,
		send:    make(chan []byte, 16),
		session: &Session{},
	}

	events, unsubscribe := h.broker.Subscribe(dealID)
	ctx, cancel := context.WithCancel(context.Background())

	coord := NewCoordinator(dealID, h.deals, v.session, events, h.pollInterval, func(state domain.RouteState) {
		v.push(&serverEvent{
			Type:  "navigate",
			Route: string(state),
			Path:  pipeline.RoutePath(studioSlug, dealID, state),
		})
	})

	done := make(chan struct{})
	go func() {
		coord.Run(ctx)
		close(done)
	}()
	go v.writePump()

	v.readPump(coord) // blocks until disconnect

	cancel()
	<-done // no navigation may fire once the viewer is gone
	unsubscribe()
	close(v.send)
}

func (v *viewerConn) push(ev *serverEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case v.send <- data:
	default:
		// Client too slow — skip
	}
}

func (v *viewerConn) readPump(coord *Coordinator) {
	defer v.conn.Close()

	v.conn.SetReadLimit(maxMsgSize)
	v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		v.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := v.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			v.push(&serverEvent{Type: "error", Code: "INVALID_JSON"})
			continue
		}

		switch msg.Type {
		case "hello", "route":
			// The client reports the route it is physically on.
			if msg.Route != "" {
				v.session.SetRoute(domain.RouteState(msg.Route))
			}
			if msg.Type == "hello" {
				coord.Nudge()
			}
		case "lock":
			v.session.SetLocked(true)
		case "unlock":
			v.session.SetLocked(false)
			coord.Nudge() // catch up on anything suppressed during the flow
		case "refresh":
			coord.Nudge()
		default:
			v.push(&serverEvent{Type: "error", Code: "UNKNOWN_TYPE"})
		}
	}
}

func (v *viewerConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
