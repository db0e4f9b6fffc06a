// Package collection persists small JSON arrays, one file per collection.
//
// Reads never fail on a missing or corrupt file; they return the collection's
// declared default. Appends rewrite the whole file and are not atomic across
// concurrent callers unless the store was built with WithFileLocks.
package collection

import (
	"encoding/json"
)

// Collection names a JSON array file and its read default.
type Collection struct {
	Name    string
	File    string
	Default []json.RawMessage
}

var (
	Activities = Collection{Name: "activities", File: "activities.json"}
	Users      = Collection{Name: "users", File: "users.json"}
	Messages   = Collection{Name: "messages", File: "messages.json"}
	Rooms      = Collection{
		Name:    "rooms",
		File:    "rooms.json",
		Default: []json.RawMessage{json.RawMessage(`"general"`)},
	}
)

// All lists every known collection.
var All = []Collection{Activities, Users, Messages, Rooms}

// defaults returns a copy of the declared default, never nil.
func (c Collection) defaults() []json.RawMessage {
	out := make([]json.RawMessage, len(c.Default))
	copy(out, c.Default)
	return out
}
