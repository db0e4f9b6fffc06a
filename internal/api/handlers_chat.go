package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/ecfrdash/ecfr-dashboard/internal/api/respond"
	"github.com/ecfrdash/ecfr-dashboard/internal/model"
	"github.com/ecfrdash/ecfr-dashboard/internal/services"
)

// maxMessageBody bounds POST /api/chat/messages bodies.
const maxMessageBody = 64 << 10

type ChatHandler struct {
	svc *services.ChatService
}

func NewChatHandler(svc *services.ChatService) *ChatHandler { return &ChatHandler{svc: svc} }

// ListMessages handles GET /api/chat/messages. Any failure yields [].
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.ListMessages(r.Context())
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("list messages failed; returning empty list")
		msgs = []json.RawMessage{}
	}
	respond.WriteJSON(w, http.StatusOK, msgs)
}

// PostMessage handles POST /api/chat/messages
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var in model.MessageInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBody)).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	msg, err := h.svc.PostMessage(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, msg)
}

// ListRooms handles GET /api/chat/rooms. Any failure yields ["general"].
func (h *ChatHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListRooms(r.Context())
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("list rooms failed; returning default")
		respond.WriteJSON(w, http.StatusOK, []string{model.DefaultRoom})
		return
	}
	respond.WriteJSON(w, http.StatusOK, rooms)
}
