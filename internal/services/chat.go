package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/ecfrdash/ecfr-dashboard/internal/collection"
	"github.com/ecfrdash/ecfr-dashboard/internal/model"
)

// ChatService stores chat messages and lists rooms.
type ChatService struct {
	store Collections
	now   func() time.Time
	newID func() string
}

func NewChatService(store Collections) *ChatService {
	return &ChatService{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// PostMessage stamps an id and creation time on in and appends it. A blank
// room becomes model.DefaultRoom.
func (s *ChatService) PostMessage(ctx context.Context, in model.MessageInput) (*model.Message, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, model.NewValidationError("text", "text is required")
	}
	room := strings.TrimSpace(in.Room)
	if room == "" {
		room = model.DefaultRoom
	}
	msg := &model.Message{
		ID:        s.newID(),
		Text:      in.Text,
		User:      in.User,
		Room:      room,
		CreatedAt: strfmt.DateTime(s.now().UTC()),
	}
	if _, err := s.store.Append(ctx, collection.Messages, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns all messages; a missing or corrupt file reads as empty.
func (s *ChatService) ListMessages(ctx context.Context) ([]json.RawMessage, error) {
	return s.store.ReadAll(ctx, collection.Messages)
}

// ListRooms returns the room list, defaulting to ["general"].
func (s *ChatService) ListRooms(ctx context.Context) ([]json.RawMessage, error) {
	return s.store.ReadAll(ctx, collection.Rooms)
}
