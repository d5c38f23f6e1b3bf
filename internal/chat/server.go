// Package chat exposes the assistant over HTTP for the rep-facing frontend.
package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anatolykoptev/repnote/internal/agent"
	"github.com/anatolykoptev/repnote/internal/extract"
)

// maxBodyBytes caps the /chat request body. Meeting notes are short; anything
// beyond this is a client bug.
const maxBodyBytes = 64 * 1024

// Server handles the /chat endpoint and CORS for the browser frontend.
type Server struct {
	loop    *agent.Loop
	origins []string
}

// NewServer builds a chat server around an agent loop. origins is the CORS
// allowlist for browser clients.
func NewServer(loop *agent.Loop, origins []string) *Server {
	return &Server{loop: loop, origins: origins}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	Data     any    `json:"data"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Register mounts the chat routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("/chat", s.cors(http.HandlerFunc(s.handleChat)))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
		return
	}

	reqID := uuid.NewString()
	log := slog.With("request_id", reqID)
	start := time.Now()

	var req chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestsTotal.WithLabelValues(outcomeBadRequest).Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	log.Info("chat request", "message_len", len(req.Message))

	res, err := s.loop.Process(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			// Client went away; nothing useful to send.
			log.Warn("chat request cancelled", "error", err)
			return
		}
		requestsTotal.WithLabelValues(outcomeGatewayError).Inc()
		log.Error("chat request failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Detail: "model gateway failure"})
		return
	}

	outcome := outcomeOK
	if res.Capped {
		outcome = outcomeTurnCap
	}
	requestsTotal.WithLabelValues(outcome).Inc()
	requestSeconds.Observe(time.Since(start).Seconds())
	agentTurns.Observe(float64(res.Turns))

	resp := chatResponse{Response: extract.DisplayText(res.History), Data: struct{}{}}
	if rec, ok := extract.FromHistory(res.History); ok {
		resp.Data = rec
	}

	log.Info("chat request done", "turns", res.Turns, "capped", res.Capped,
		"duration", time.Since(start).Round(time.Millisecond))
	writeJSON(w, http.StatusOK, resp)
}

// cors allows the configured browser origins, including preflight.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}
