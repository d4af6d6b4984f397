package handler

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"painel/internal/listing/models"
	"painel/internal/listing/service"
	"painel/pkg/platform/httputil"
	"painel/pkg/requestcontext"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 45 * time.Second
	pingPeriod = 15 * time.Second
	maxMessage = 4096
)

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(h.allowedOrigins, origin) {
				return true
			}
			h.logger.WarnContext(r.Context(), "websocket origin rejected",
				"origin", origin,
				"request_id", requestcontext.RequestID(r.Context()),
			)
			return false
		},
	}
}

// HandleStream implements GET /api/tenants/stream.
//
// The connection receives a "rows" message after every refresh of the
// collection and accepts "search" and "edit" messages. Edits are applied to
// the connection's view optimistically and settle with an "edit" message. The
// tenant subscription is released when the connection closes.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := httputil.RequireOperator(ctx, h.logger); err != nil {
		httputil.WriteError(w, err)
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	defer conn.Close()

	h.metrics.StreamOpened()
	defer h.metrics.StreamClosed()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st := &stream{conn: conn, view: models.NewView(nil)}
	var wg sync.WaitGroup
	defer wg.Wait()

	wg.Add(3)
	go func() {
		defer wg.Done()
		defer cancel()
		if err := h.listing.Watch(ctx, st.onRows); err != nil {
			h.logger.WarnContext(ctx, "listing stream ended", "error", err)
			_ = st.send(models.ServerMessage{Type: models.MessageError, Error: err.Error()})
		}
	}()
	go func() {
		defer wg.Done()
		st.keepAlive(ctx)
	}()
	go func() {
		defer wg.Done()
		<-ctx.Done()
		// Unblocks the read loop below.
		_ = conn.SetReadDeadline(time.Now())
	}()

	h.readLoop(ctx, st, &wg)
	cancel()
}

func (h *Handler) readLoop(ctx context.Context, st *stream, wg *sync.WaitGroup) {
	st.conn.SetReadLimit(maxMessage)
	_ = st.conn.SetReadDeadline(time.Now().Add(pongWait))
	st.conn.SetPongHandler(func(string) error {
		return st.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg models.ClientMessage
		if err := st.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				h.logger.DebugContext(ctx, "listing stream read failed", "error", err)
			}
			return
		}

		switch msg.Type {
		case models.MessageSearch:
			st.setQuery(msg.Query)
			_ = st.pushRows()
		case models.MessageEdit:
			req := &models.EditRequest{LicenseCount: msg.LicenseCount, ExpiresAt: msg.ExpiresAt}
			if err := httputil.PrepareRequest(req); err != nil {
				_ = st.send(models.ServerMessage{Type: models.MessageEdit, Edit: &models.EditResult{
					AccountID: msg.AccountID, Error: err.Error(),
				}})
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.applyEdit(ctx, st, msg, req)
			}()
		default:
			_ = st.send(models.ServerMessage{Type: models.MessageError, Error: "unknown message type"})
		}
	}
}

func (h *Handler) applyEdit(ctx context.Context, st *stream, msg models.ClientMessage, req *models.EditRequest) {
	row, err := h.listing.EditRow(context.WithoutCancel(ctx), st.view, msg.AccountID, req.LicenseCount, req.Expires())
	result := &models.EditResult{AccountID: msg.AccountID, OK: err == nil, Row: row}
	if err != nil {
		result.Error = err.Error()
	} else {
		h.logger.InfoContext(ctx, "tenant terms updated",
			"account_id", msg.AccountID.String(),
			"operator", requestcontext.OperatorEmail(ctx),
		)
	}
	_ = st.send(models.ServerMessage{Type: models.MessageEdit, Edit: result})
	_ = st.pushRows()
}

// stream is one open listing connection.
type stream struct {
	conn *websocket.Conn
	view *models.View

	writeMu sync.Mutex

	mu         sync.Mutex
	query      string
	generation uint64
}

func (s *stream) onRows(snap service.Snapshot) {
	s.view.Replace(snap.Rows)
	s.mu.Lock()
	s.generation = snap.Generation
	s.mu.Unlock()
	_ = s.pushRows()
}

func (s *stream) setQuery(q string) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
}

func (s *stream) pushRows() error {
	s.mu.Lock()
	query, generation := s.query, s.generation
	s.mu.Unlock()

	list := models.NewListResponse(s.view.Rows(), query, generation)
	return s.send(models.ServerMessage{Type: models.MessageRows, List: &list})
}

func (s *stream) send(msg models.ServerMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *stream) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		case <-ctx.Done():
			return
		}
	}
}
