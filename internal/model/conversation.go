package model

// ConversationStatus defines whether a conversation is established or still a
// message request awaiting acceptance
type ConversationStatus string

const (
	ConversationStatusActive  ConversationStatus = "active"
	ConversationStatusPending ConversationStatus = "pending"
)

// Participant is the compact member summary the server embeds in
// conversations and messages
type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// LastMessage is the preview of the most recent message in a conversation,
// nil while the conversation has no messages yet
type LastMessage struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
	SenderID  string   `json:"senderId"`
	ReadBy    []string `json:"readBy,omitempty"`
}

// ConversationSummary mirrors a server-side conversation resource.
// IDs are assigned by the server; saving the same ID again overwrites every
// field (last-write-wins, no merge).
type ConversationSummary struct {
	ID           string             `json:"id"`
	Participants []Participant      `json:"participants"`
	LastMessage  *LastMessage       `json:"lastMessage,omitempty"`
	Status       ConversationStatus `json:"status"`
	UpdatedAt    string             `json:"updatedAt"`
}
