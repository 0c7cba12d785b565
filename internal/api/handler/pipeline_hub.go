package handler

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
	wsSendBuffer = 32
)

// pipelineEvent is broadcast for every pipeline mutation.
type pipelineEvent struct {
	Action      string              `json:"action"`
	Opportunity opportunityResponse `json:"opportunity"`
}

type pipelineClient struct {
	conn   *websocket.Conn
	send   chan []byte
	caller domain.Caller
}

// sees reports whether this dashboard may receive events about o. Admins see
// everything; everyone else only opportunities they own.
func (cl *pipelineClient) sees(o *domain.Opportunity) bool {
	if cl.caller.IsAdmin() {
		return true
	}
	return cl.caller.UserID != "" && o.OwnerUserID != nil && *o.OwnerUserID == cl.caller.UserID
}

// PipelineHub fans opportunity changes out to connected dashboards. Slow
// clients whose buffer fills up, and clients whose writes fail, are dropped.
type PipelineHub struct {
	mu       sync.Mutex
	clients  map[*pipelineClient]struct{}
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

var _ ports.PipelineNotifier = (*PipelineHub)(nil)

// NewPipelineHub accepts upgrades from allowedOrigins only; an empty list
// accepts any origin.
func NewPipelineHub(allowedOrigins []string, log zerolog.Logger) *PipelineHub {
	h := &PipelineHub{
		clients: make(map[*pipelineClient]struct{}),
		log:     log,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Notify implements ports.PipelineNotifier. Events reach admins and the
// owner of o only.
func (h *PipelineHub) Notify(action string, o *domain.Opportunity) {
	if o == nil {
		return
	}
	msg, err := json.Marshal(pipelineEvent{Action: action, Opportunity: toOpportunityResponse(o)})
	if err != nil {
		h.log.Error().Err(err).Msg("pipeline event encode failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		if !cl.sees(o) {
			continue
		}
		select {
		case cl.send <- msg:
		default:
			h.dropLocked(cl)
		}
	}
}

// Serve handles GET /ws/pipeline.
//
// @Summary      Live pipeline feed (websocket)
// @Tags         opportunities
// @Security     BearerAuth
// @Param        access_token  query  string  false  "JWT for clients that cannot set headers"
// @Success      101
// @Router       /ws/pipeline [get]
func (h *PipelineHub) Serve(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	cl := &pipelineClient{conn: conn, send: make(chan []byte, wsSendBuffer), caller: caller}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(cl)
	h.readLoop(cl)
	return nil
}

// Clients reports the number of connected dashboards.
func (h *PipelineHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *PipelineHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		h.dropLocked(cl)
	}
}

// readLoop discards inbound frames and keeps the read deadline fresh until
// the peer goes away.
func (h *PipelineHub) readLoop(cl *pipelineClient) {
	defer h.drop(cl)

	_ = cl.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *PipelineHub) writeLoop(cl *pipelineClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.drop(cl)
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(cl)
				return
			}
		}
	}
}

func (h *PipelineHub) drop(cl *pipelineClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(cl)
}

// dropLocked must be called with h.mu held. It is a no-op for clients that
// were already removed.
func (h *PipelineHub) dropLocked(cl *pipelineClient) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
	_ = cl.conn.Close()
}
