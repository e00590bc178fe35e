package server

import (
	"context"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"tank-dashboard-go/internal/api"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	mux       *http.ServeMux
	tmpl      *template.Template
	api       *api.Client
	tankID    int
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
	broadcast chan interface{}
}

func New() *Server {
	funcMap := template.FuncMap{
		"toJSON": toJSON,
	}

	tmpl := template.Must(template.New("base").Funcs(funcMap).ParseGlob("templates/*.html"))

	tankID := 1
	if v := os.Getenv("TANK_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			tankID = n
		}
	}

	s := &Server{
		mux:       http.NewServeMux(),
		tmpl:      tmpl,
		api:       api.New(),
		tankID:    tankID,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan interface{}, 256),
	}

	s.routes()
	go s.handleBroadcast()
	go s.periodicUpdate()

	return s
}

func (s *Server) routes() {
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/", s.handleDashboard)
	s.mux.HandleFunc("/api/snapshot", s.handleSnapshot)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
		conn.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	snap, _ := s.api.TankData(ctx, s.tankID)
	cancel()
	conn.WriteJSON(map[string]interface{}{
		"type": "init",
		"data": snap,
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) handleBroadcast() {
	for msg := range s.broadcast {
		s.clientsMu.RLock()
		for conn := range s.clients {
			if err := conn.WriteJSON(msg); err != nil {
				conn.Close()
				delete(s.clients, conn)
			}
		}
		s.clientsMu.RUnlock()
	}
}

// Polls the query endpoint on a fixed schedule; a failed refresh is logged
// and skipped, the loop never stops.
func (s *Server) periodicUpdate() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		snap, err := s.api.TankData(ctx, s.tankID)
		cancel()
		if err != nil {
			log.Println("refresh failed:", err)
			continue
		}

		s.broadcast <- map[string]interface{}{
			"type": "update",
			"data": snap,
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "offline"
	if err := s.api.Health(ctx); err == nil {
		status = "online"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	snap, err := s.api.TankData(ctx, s.tankID)
	apiStatus := "online"
	if err != nil {
		log.Println("dashboard refresh failed:", err)
		apiStatus = "offline"
	}

	data := map[string]interface{}{
		"Title":        "Water Tank Dashboard",
		"TankID":       s.tankID,
		"SnapshotJSON": toJSON(snap),
		"Snapshot":     snap,
		"APIStatus":    apiStatus,
	}

	s.render(w, "dashboard.html", data)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	snap, err := s.api.TankData(ctx, s.tankID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func toJSON(v interface{}) template.JS {
	b, _ := json.Marshal(v)
	return template.JS(b)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Println("render error:", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
