// Package httpapi exposes the simulation's read-only peripheral HTTP
// surface: health, snapshot, and stats endpoints gated by a static API
// key, plus a push-based websocket stream for observers. Nothing here
// participates in core semantics; it only reads.
package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"terrasim/internal/engine"
)

// Config holds the HTTP surface's configuration.
type Config struct {
	Addr   string
	APIKey string
}

// Server is the peripheral read-only HTTP/websocket surface.
type Server struct {
	addr     string
	apiKey   string
	upgrader websocket.Upgrader
	hub      *Hub
	server   *http.Server
}

// New constructs a Server. It does not start listening until Start is
// called.
func New(cfg Config) *Server {
	s := &Server{
		addr:   cfg.Addr,
		apiKey: cfg.APIKey,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.hub = NewHub()
	return s
}

// Start begins serving and broadcasting tick snapshots to websocket
// observers. It blocks until the server stops.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/snapshot", s.gated(s.handleSnapshot))
	mux.HandleFunc("/stats", s.gated(s.handleStats))
	mux.HandleFunc("/stream", s.gated(s.handleStream))

	s.server = &http.Server{Addr: s.addr, Handler: mux}

	log.Printf("terrasim httpapi listening on %s", s.addr)

	go s.hub.Run()
	go s.broadcastLoop()

	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) gated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
			http.Error(w, "invalid or missing API key", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// snapshot is the JSON shape served by /snapshot and pushed over /stream.
type snapshot struct {
	StepNumber   uint64  `json:"stepNumber"`
	TotalMinutes uint64  `json:"totalMinutes"`
	CacheStats   *cacheStatsDTO `json:"cacheStats,omitempty"`
}

type cacheStatsDTO struct {
	ResidentCount int `json:"residentCount"`
	TotalAccesses int `json:"totalAccesses"`
	CacheHits     int `json:"cacheHits"`
	CacheMisses   int `json:"cacheMisses"`
	Evictions     int `json:"evictions"`
}

func currentSnapshot() snapshot {
	snap := snapshot{}

	if sched := engine.CurrentScheduler(); sched != nil {
		snap.StepNumber = sched.StepNumber()
		snap.TotalMinutes = sched.GameTimeNow().TotalMinutes
	}

	if w := engine.CurrentWorld(); w != nil {
		st := w.Cache.GetStats()
		snap.CacheStats = &cacheStatsDTO{
			ResidentCount: st.ResidentCount,
			TotalAccesses: st.TotalAccesses,
			CacheHits:     st.CacheHits,
			CacheMisses:   st.CacheMisses,
			Evictions:     st.Evictions,
		}
	}

	return snap
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if engine.CurrentScheduler() == nil && engine.CurrentWorld() == nil {
		http.Error(w, "service unavailable: engine not running", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(currentSnapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	world := engine.CurrentWorld()
	if world == nil {
		http.Error(w, "service unavailable: world not initialized", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(world.Cache.GetStats())
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("httpapi: websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(s.hub, conn)
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// broadcastLoop pushes a fresh snapshot to every connected observer
// whenever the scheduler's step number advances, polling at a fixed
// interval well under one real tick.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastStep uint64
	for range ticker.C {
		sched := engine.CurrentScheduler()
		if sched == nil {
			continue
		}
		step := sched.StepNumber()
		if step == lastStep {
			continue
		}
		lastStep = step
		s.hub.Broadcast(currentSnapshot())
	}
}
