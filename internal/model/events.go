package model

import "encoding/json"

// Event is the envelope pushed over the realtime socket; the payload stays
// raw until the event type picks the concrete shape
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Realtime event types the cache reacts to
const (
	EventNewMessage          = "new_message"
	EventConversationUpdated = "conversation_updated"
	EventMessageRead         = "message_read"
)

// NewMessagePayload carries enough of the pushed message to know which
// conversation needs a refresh
type NewMessagePayload struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
}

// ConversationUpdatedPayload signals that the conversation list is stale
type ConversationUpdatedPayload struct {
	ConversationID string `json:"conversation_id"`
}
