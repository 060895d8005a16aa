package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/skip2/go-qrcode"

	"cheesechase/protocol"
	"cheesechase/room"
)

const (
	stateTimeout = 2 * time.Second
	qrSize       = 256
)

// Routes returns the HTTP surface: the websocket endpoint plus a few side routes.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.wsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /state", s.stateHandler)
	mux.HandleFunc("GET /qr.png", s.qrHandler)
	return mux
}

// stateHandler serves the same snapshot a joining client receives.
func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	reply := make(chan protocol.RoundState, 1)
	if !s.room.Post(room.Query{Reply: reply}) {
		http.Error(w, "room stopped", http.StatusServiceUnavailable)
		return
	}

	var st protocol.RoundState
	select {
	case st = <-reply:
	case <-r.Context().Done():
		return
	case <-time.After(stateTimeout):
		http.Error(w, "room busy", http.StatusServiceUnavailable)
		return
	}

	if s.origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		s.log.Warn("write state", "err", err)
	}
}

// qrHandler renders the frontend URL so players can join from a phone.
func (s *Server) qrHandler(w http.ResponseWriter, r *http.Request) {
	target := s.opts.FrontendURL
	if target == "" || target == "*" {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
	if err != nil {
		s.log.Error("qr encode", "url", target, "err", err)
		http.Error(w, "qr unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}
