package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
)

const (
	msgNoResponse     = "No response needed"
	msgWebhookSorry   = "Sorry, unable to fetch event data right now."
	msgWebhookFailed  = "Webhook processing failed"
	msgUnknownCommand = "Unknown shortcut"
	maxWebhookBody    = 64 << 10
)

var triggerWords = []string{"harvester", "next", "event", "harvest"}

type webhookReply struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Body    string `json:"body"`
}

type inboundMessage struct {
	Text string
	From string
}

func (s *Server) handleWebhookInfo(w http.ResponseWriter, r *http.Request) {
	s.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"message": "WhatsApp webhook endpoint is active",
		"usage":   "Send POST requests with WhatsApp message data",
	})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	msg, err := readInbound(r)
	if err != nil {
		s.responder.writeFailure(ctx, w, msgWebhookFailed, err)
		return
	}

	if !containsTrigger(msg.Text) {
		s.responder.writeJSON(ctx, w, http.StatusOK, messageResponse{Message: msgNoResponse})
		return
	}

	text, err := s.NextEventText(ctx)
	if err != nil {
		s.responder.loggerFor(ctx).WarnContext(ctx, "webhook next event failed", "kind", ErrorKind(err), "error", err)
		s.responder.writeJSON(ctx, w, http.StatusOK, messageResponse{Message: msgWebhookSorry})
		return
	}
	s.responder.writeJSON(ctx, w, http.StatusOK, webhookReply{To: msg.From, Message: text, Body: text})
}

// handleShortcut answers a registered voice phrase with the next-event text.
func (s *Server) handleShortcut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := s.shortcuts[normalizePhrase(r.PathValue("phrase"))]; !ok {
		s.responder.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: msgUnknownCommand})
		return
	}

	loc, err := s.location(r)
	if err != nil {
		s.responder.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msgInvalidTimezone})
		return
	}

	text, err := s.nextEventText(ctx, loc)
	if err != nil {
		s.responder.writeFailure(ctx, w, msgNextEventFailed, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

// readInbound accepts Twilio-style form posts and JSON payloads.
func readInbound(r *http.Request) (inboundMessage, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return inboundMessage{}, fmt.Errorf("read webhook body: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return inboundMessage{}, fmt.Errorf("decode webhook form: %w", err)
		}
		return inboundMessage{
			Text: firstNonEmpty(form.Get("Body"), form.Get("message.text")),
			From: firstNonEmpty(form.Get("From"), form.Get("from")),
		}, nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return inboundMessage{}, fmt.Errorf("decode webhook json: %w", err)
	}
	// Scalars, arrays and null carry no message.
	payload, _ := decoded.(map[string]any)

	text := stringField(payload, "Body")
	if text == "" {
		if nested, ok := payload["message"].(map[string]any); ok {
			text = stringField(nested, "text")
		}
	}
	return inboundMessage{
		Text: text,
		From: firstNonEmpty(stringField(payload, "From"), stringField(payload, "from")),
	}, nil
}

func containsTrigger(text string) bool {
	folded := cases.Fold().String(text)
	for _, word := range triggerWords {
		if strings.Contains(folded, word) {
			return true
		}
	}
	return false
}

// normalizePhrase folds case and treats dashes, underscores and runs of
// whitespace as single spaces.
func normalizePhrase(value string) string {
	replaced := strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(value)
	return strings.Join(strings.Fields(cases.Fold().String(replaced)), " ")
}

func stringField(payload map[string]any, key string) string {
	value, _ := payload[key].(string)
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
