package model

// MessageType defines the kind of message entry
type MessageType string

const (
	MessageTypeNormal       MessageType = "normal"
	MessageTypeSystem       MessageType = "system"
	MessageTypeAnnouncement MessageType = "announcement"
)

// MessageSummary mirrors a server-side message resource. A message belongs to
// exactly one conversation and carries at most one shared card attachment;
// the four Shared* fields are mutually exclusive in practice but the server
// does not enforce that, so consumers should rely on Card().
type MessageSummary struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	Content        string      `json:"content"`
	CreatedAt      string      `json:"createdAt"`
	Sender         Participant `json:"sender"`
	Type           MessageType `json:"type,omitempty"`

	SharedPost     *SharedPost     `json:"sharedPost,omitempty"`
	SharedNews     *SharedNews     `json:"sharedNews,omitempty"`
	SharedShowcase *SharedShowcase `json:"sharedShowcase,omitempty"`
	SharedUser     *SharedUser     `json:"sharedUser,omitempty"`

	// Flat preview fields derived from the active card at save time.
	CardType           CardType `json:"cardType,omitempty"`
	PreviewTitle       string   `json:"previewTitle,omitempty"`
	PreviewDescription string   `json:"previewDescription,omitempty"`
	PreviewImageURL    string   `json:"previewImageUrl,omitempty"`
}

// Card returns the active shared card attachment, or nil when the message is
// plain. When the server sends more than one (it should not), the first in
// post/news/showcase/user order wins.
func (m *MessageSummary) Card() SharedCard {
	switch {
	case m.SharedPost != nil:
		return m.SharedPost
	case m.SharedNews != nil:
		return m.SharedNews
	case m.SharedShowcase != nil:
		return m.SharedShowcase
	case m.SharedUser != nil:
		return m.SharedUser
	}
	return nil
}
