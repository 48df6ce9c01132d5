package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/chatbot"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

const maxMessageLength = 500

// Replier answers a chat message.
type Replier interface {
	Reply(message string) chatbot.Answer
}

type Handler struct {
	bot    Replier
	logger *slog.Logger
}

func New(bot Replier, logger *slog.Logger) *Handler {
	return &Handler{bot: bot, logger: logger}
}

func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/chatbot", h.handleMessage)
}

type messageRequest struct {
	Message string `json:"message"`
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req messageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid chatbot request")
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" || utf8.RuneCountInString(msg) > maxMessageLength {
		httputil.RespondError(ctx, h.logger, w,
			dErrors.NewValidation(map[string]string{"message": "message must be 1 to 500 characters"}),
			"invalid chatbot message")
		return
	}
	answer := h.bot.Reply(msg)
	h.logger.DebugContext(ctx, "chatbot reply",
		"request_id", requestcontext.RequestID(ctx),
		"intent", answer.Intent,
	)
	httputil.WriteJSON(w, http.StatusOK, answer)
}
