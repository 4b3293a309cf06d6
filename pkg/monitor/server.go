// Package monitor broadcasts per-iteration run records to websocket
// clients, giving a live view of an ongoing solver run.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Record is one time-loop iteration as seen by the orchestration layer.
type Record struct {
	RunID        string     `json:"run_id"`
	Iter         int        `json:"iter"`
	Time         float64    `json:"time"`
	Displacement [3]float64 `json:"displacement"`
	Stop         bool       `json:"stop"`
}

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	pingEvery = (pongWait * 9) / 10
)

// Server fans records out to connected websocket clients.
type Server struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]*sync.Mutex
}

// NewServer creates an empty broadcast server.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handler returns the HTTP mux exposing /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves the feed until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	writeMu := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = writeMu
	s.mu.Unlock()

	go s.ping(conn, writeMu)

	// Drain reads so pong handlers fire; drop the client on error
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) ping(conn *websocket.Conn, writeMu *sync.Mutex) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()
	for range ticker.C {
		writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteMessage(websocket.PingMessage, nil)
		writeMu.Unlock()
		if err != nil {
			s.drop(conn)
			return
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close()
	}
	s.mu.Unlock()
}

// Publish sends a record to every connected client. Slow or broken clients
// are dropped rather than blocking the time loop.
func (s *Server) Publish(rec Record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return
	}

	s.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(s.clients))
	for conn, mu := range s.clients {
		conns[conn] = mu
	}
	s.mu.Unlock()

	for conn, writeMu := range conns {
		writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteMessage(websocket.TextMessage, payload)
		writeMu.Unlock()
		if err != nil {
			s.drop(conn)
		}
	}
}

// ClientCount reports the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
