package store

// ConversationRow is the flattened storage shape of a conversation summary.
// Nested objects are serialized to JSON text by the mirror layer before they
// reach this row.
type ConversationRow struct {
	ID           string  `gorm:"primaryKey;size:64"`
	Participants string  `gorm:"type:text"`
	LastMessage  *string `gorm:"type:text"` // NULL while the conversation has no messages
	Status       string  `gorm:"size:20;default:'active'"`
	UpdatedAt    string  `gorm:"size:40;index"`
}

func (ConversationRow) TableName() string { return "conversations" }

// MessageRow is the flattened storage shape of a message. The four shared-card
// JSON columns are written on every row, with the non-matching variants NULL,
// so the row shape stays uniform regardless of which card is present.
type MessageRow struct {
	ID             string `gorm:"primaryKey;size:64"`
	ConversationID string `gorm:"size:64;index:idx_messages_conv_created"` // references conversations.id, not enforced
	Content        string `gorm:"type:text"`
	CreatedAt      string `gorm:"size:40;index:idx_messages_conv_created"`
	Sender         string `gorm:"type:text"`
	Type           string `gorm:"size:20;default:'normal'"`

	// Legacy scalar references kept for installs that predate the JSON
	// columns; never read back as the source of truth.
	SharedPostID     *string `gorm:"column:shared_post_id;size:64"`
	SharedNewsID     *string `gorm:"column:shared_news_id;size:64"`
	SharedShowcaseID *string `gorm:"column:shared_showcase_id;size:64"`
	SharedUserID     *string `gorm:"column:shared_user_id;size:64"`

	// Migration-added columns, see EnsureMessageColumns.
	SharedPostJSON     *string `gorm:"column:shared_post_json;type:text"`
	SharedNewsJSON     *string `gorm:"column:shared_news_json;type:text"`
	SharedShowcaseJSON *string `gorm:"column:shared_showcase_json;type:text"`
	SharedUserJSON     *string `gorm:"column:shared_user_json;type:text"`
	CardType           *string `gorm:"column:card_type;size:20"`
	PreviewTitle       *string `gorm:"column:preview_title;type:text"`
	PreviewDescription *string `gorm:"column:preview_description;type:text"`
	PreviewImageURL    *string `gorm:"column:preview_image_url;type:text"`
	CardData           *string `gorm:"column:card_data;type:text"`
}

func (MessageRow) TableName() string { return "messages" }
