package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Server is the transport collaborator: it reads snapshots from SharedState
// for polling clients and pushes each publish to websocket subscribers. It
// never blocks the sampler beyond the broadcast writes.
type Server struct {
	config   *Config
	state    *SharedState
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*websocket.Conn]bool
}

func newServer(config *Config, state *SharedState) *Server {
	return &Server{
		config:      config,
		state:       state,
		subscribers: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", s.handleData)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// handleData serves the current snapshot. Polling faster than the sampling
// interval just re-reads the same snapshot; before the first cycle the
// endpoint reports initializing instead of an error page.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(r, s.config.Token) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	snap := s.state.Current()
	if snap == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "initializing"})
		return
	}
	json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"seq":    s.state.Seq(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(r, s.config.Token) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	s.addSubscriber(conn)
	defer s.removeSubscriber(conn)

	// Send the current snapshot immediately so a fresh dashboard does not
	// wait out a full sampling interval.
	if snap := s.state.Current(); snap != nil {
		s.sendSnapshot(conn, snap)
	}

	// Clients only listen; the read loop exists to notice the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast pushes a freshly published snapshot to every subscriber. Wired
// as the sampler's onPublish callback.
func (s *Server) Broadcast(snap *Snapshot) {
	s.mu.Lock()
	subs := make([]*websocket.Conn, 0, len(s.subscribers))
	for conn := range s.subscribers {
		subs = append(subs, conn)
	}
	s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("broadcast marshal: %v", err)
		return
	}
	for _, conn := range subs {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

func (s *Server) sendSnapshot(conn *websocket.Conn, snap *Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) addSubscriber(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[conn] = true
}

func (s *Server) removeSubscriber(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, conn)
}
