package model

import (
	"github.com/go-openapi/strfmt"
)

// DefaultRoom is the chat room used when a message names none.
const DefaultRoom = "general"

// Message is a chat message persisted in the messages collection.
type Message struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	User      string          `json:"user"`
	Room      string          `json:"room"`
	CreatedAt strfmt.DateTime `json:"createdAt"`
}

// MessageInput carries the caller-supplied part of a Message.
type MessageInput struct {
	Text string `json:"text"`
	User string `json:"user"`
	Room string `json:"room,omitempty"`
}

// Activity is an uploaded activity: arbitrary metadata fields plus the image
// reference and upload time.
type Activity map[string]any

const (
	// ActivityImageField is the record key holding the served image path.
	ActivityImageField = "image"
	// ActivityUploadedAtField is the record key holding the upload timestamp.
	ActivityUploadedAtField = "uploadedAt"
)
