package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

// upgrader accepts the same origins as the CORS policy of s.
func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin allows requests without an Origin header (non-browser
// clients), same-origin requests and origins in the allowed list. Entries
// may hold one "*" wildcard, as in "https://*.example.com".
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	origin = strings.ToLower(origin)
	for _, allowed := range s.origins {
		allowed = strings.ToLower(allowed)
		if allowed == "*" || allowed == origin {
			return true
		}
		if prefix, suffix, ok := strings.Cut(allowed, "*"); ok &&
			len(origin) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// SubscribeEvents handles GET /events (SSE) with lifecycle events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Stream.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// ServeWS handles GET /ws. The socket pushes lifecycle events and accepts
// commands; each command gets its Response on the same socket.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	events, cancel := s.Stream.Subscribe()
	replies := make(chan []byte, 8)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		s.writePump(conn, events, replies)
	}()
	s.readPump(conn, replies, stopped)

	// Closing the subscription ends the write pump.
	cancel()
	<-stopped
}

// readPump decodes commands until the client goes away.
func (s *Server) readPump(conn *websocket.Conn, replies chan<- []byte, stopped <-chan struct{}) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var resp domain.Response
		var cmd domain.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			resp = domain.Response{Error: "invalid command"}
		} else {
			resp = s.Engine.Dispatch(context.Background(), cmd)
		}

		msg, err := json.Marshal(resp)
		if err != nil {
			continue
		}
		select {
		case replies <- msg:
		case <-stopped:
			return
		}
	}
}

// writePump serializes all writes to the connection.
func (s *Server) writePump(conn *websocket.Conn, events <-chan []byte, replies <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	write := func(msg []byte) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, msg) == nil
	}

	for {
		select {
		case msg, ok := <-events:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if !write(msg) {
				return
			}
		case msg := <-replies:
			if !write(msg) {
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
