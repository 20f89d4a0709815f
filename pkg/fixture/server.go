// Package fixture serves a small AI chat demo site used as the target of the e2e suite.
// Replies are canned but stream word by word over SSE, so the page text grows and then settles.
package fixture

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	sse "github.com/tmaxmax/go-sse"
	"golang.org/x/time/rate"
)

//go:embed templates static
var content embed.FS

// defaults applied by NewServer to zero ServerConfig fields
const (
	DefaultChunkDelay  = 80 * time.Millisecond
	DefaultTypingDelay = 300 * time.Millisecond
)

// maxMessageSize limits POST /api/chat bodies.
const maxMessageSize = 4096

// SSE event names of a reply stream
const (
	ChunkEvent = "chunk"
	DoneEvent  = "done"
)

// ServerConfig holds configuration for the fixture server.
type ServerConfig struct {
	Port        int           // port to listen on
	ChunkDelay  time.Duration // pause between streamed words
	TypingDelay time.Duration // pause before the first word
	RateLimit   float64       // accepted chat messages per second, zero is unlimited
}

// Server is the demo chat application.
type Server struct {
	cfg       ServerConfig
	responder Responder
	replies   *replyStore
	limiter   *rate.Limiter
	metrics   *metrics
	srv       *http.Server
}

// NewServer creates a fixture server. A nil responder uses CannedResponder.
func NewServer(cfg ServerConfig, responder Responder) *Server {
	if cfg.ChunkDelay <= 0 {
		cfg.ChunkDelay = DefaultChunkDelay
	}
	if cfg.TypingDelay <= 0 {
		cfg.TypingDelay = DefaultTypingDelay
	}
	if responder == nil {
		responder = CannedResponder{}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, int(cfg.RateLimit)))
	}
	return &Server{cfg: cfg, responder: responder, replies: newReplyStore(), limiter: limiter, metrics: newMetrics()}
}

// Handler returns the routed handler, usable with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/api/chat", s.handlePostMessage)
	mux.HandleFunc("/api/chat/stream", s.handleStream)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.handler())

	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		// embedded at build time, can't be missing
		panic(fmt.Sprintf("static filesystem: %v", err))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	return mux
}

// Start begins listening for HTTP requests.
// blocks until ctx is canceled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("http server: %w", err)
}

// pageData is passed to every page template.
type pageData struct {
	Query   string
	Results []Document
	Seconds string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, "home.html", pageData{})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	start := time.Now()
	data := pageData{Query: q, Results: Search(q)}
	data.Seconds = fmt.Sprintf("%.2f", time.Since(start).Seconds()+0.01)
	s.renderPage(w, "search.html", data)
}

func (s *Server) handleChat(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "chat.html", pageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "login.html", pageData{})
}

// renderPage executes the base layout with the named page template.
func (s *Server) renderPage(w http.ResponseWriter, page string, data pageData) {
	tmpl, err := template.ParseFS(content, "templates/base.html", "templates/"+page)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("[WARN] render %s: %v", page, err)
	}
}

type postMessageRequest struct {
	Message string `json:"message"`
}

type postMessageResponse struct {
	ID string `json:"id"`
}

// handlePostMessage accepts a user message and returns the id of the reply stream.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !s.limiter.Allow() {
		s.metrics.limited.Inc()
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	id, err := s.replies.put(s.responder.Reply(msg))
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.metrics.messages.Inc()
	writeJSON(w, postMessageResponse{ID: id})
}

// handleStream streams a pending reply as "chunk" events followed by one "done" event
// carrying the full reply.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	reply, ok := s.replies.take(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "unknown reply id", http.StatusNotFound)
		return
	}

	sess, err := sse.Upgrade(w, r)
	if err != nil {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	if !sleep(r.Context(), s.cfg.TypingDelay) {
		s.metrics.streams.WithLabelValues(streamAborted).Inc()
		return
	}
	for i, tok := range Tokens(reply) {
		if i > 0 && !sleep(r.Context(), s.cfg.ChunkDelay) {
			s.metrics.streams.WithLabelValues(streamAborted).Inc()
			return
		}
		if err := send(sess, ChunkEvent, tok); err != nil {
			log.Printf("[WARN] stream chunk: %v", err)
			s.metrics.streams.WithLabelValues(streamAborted).Inc()
			return
		}
		s.metrics.chunks.Inc()
	}
	if err := send(sess, DoneEvent, reply); err != nil {
		log.Printf("[WARN] stream done: %v", err)
		s.metrics.streams.WithLabelValues(streamAborted).Inc()
		return
	}
	s.metrics.streams.WithLabelValues(streamComplete).Inc()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func send(sess *sse.Session, event, data string) error {
	m := &sse.Message{Type: sse.Type(event)}
	m.AppendData(data)
	if err := sess.Send(m); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	if err := sess.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", event, err)
	}
	return nil
}

// sleep waits for d, returns false if ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}
