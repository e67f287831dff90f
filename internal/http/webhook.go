package http

import (
	"encoding/json"
	"net/http"

	"contabot/internal/log"
)

// webhookPayload mirrors the channel's nested notification shape; only
// the fields this service reads are declared.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
}

const replyUnsupportedMedia = "I can only read text messages for now. Please type it out."

// handleWebhook processes inbound notifications. It always
// acknowledges with 200 once the payload is decoded — even when a
// handler fails — so the channel never redelivers a message whose
// fault was already downgraded to an error reply.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.logger.Warn("undecodable webhook payload", log.FieldError, err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.From == "" {
					continue
				}
				reply := ""
				if msg.Type == "text" && msg.Text != nil {
					reply = s.assistant.HandleMessage(ctx, msg.From, msg.Text.Body)
				} else {
					reply = replyUnsupportedMedia
				}
				if err := s.sender.SendText(ctx, msg.From, reply); err != nil {
					s.logger.ErrorContext(ctx, "send reply failed",
						log.FieldUserID, msg.From,
						log.FieldError, err)
				}
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}
