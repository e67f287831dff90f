// Package http hosts the messaging webhook: inbound messages are
// forwarded to the assistant and replies go back out through a Sender.
package http

import (
	"net/http"
	"time"

	"contabot/internal/bot"
	"contabot/internal/log"
)

// Server handles the webhook endpoints. Each inbound message is
// processed synchronously within its request: classify, dispatch,
// reply, in sequence.
type Server struct {
	assistant   *bot.Assistant
	sender      Sender
	verifyToken string
	logger      *log.Logger
}

func NewServer(addr string, assistant *bot.Assistant, sender Sender, verifyToken string, logger *log.Logger) *http.Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &Server{
		assistant:   assistant,
		sender:      sender,
		verifyToken: verifyToken,
		logger:      logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /webhook", s.handleVerify)
	mux.HandleFunc("POST /webhook", s.handleWebhook)

	return &http.Server{
		Addr:           addr,
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleVerify answers the channel's subscription handshake by echoing
// hub.challenge when the verify token matches.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == s.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "verification failed", http.StatusForbidden)
}
