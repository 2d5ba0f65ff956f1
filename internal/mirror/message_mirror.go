package mirror

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hivesocial/chatmirror/internal/model"
	"github.com/hivesocial/chatmirror/internal/store"
)

// MessageMirror persists per-conversation message batches, flattening the
// shared-card union into the four variant columns and deriving the uniform
// preview at write time. Re-saving a message recomputes the preview from the
// snapshot passed in; nothing is merged incrementally.
type MessageMirror struct {
	store *store.Store
}

func NewMessageMirror(s *store.Store) *MessageMirror {
	return &MessageMirror{store: s}
}

// SaveMessages upserts a batch of messages for one conversation inside a
// single transaction, keyed on message ID.
func (m *MessageMirror) SaveMessages(ctx context.Context, conversationID string, msgs []model.MessageSummary) Outcome {
	if !m.store.Ready() {
		return OutcomeMiss
	}
	if len(msgs) == 0 {
		return OutcomeHit
	}

	rows := make([]store.MessageRow, 0, len(msgs))
	for _, msg := range msgs {
		rows = append(rows, flattenMessage(conversationID, msg))
	}

	err := m.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("conversation", conversationID).Int("count", len(rows)).Msg("message batch save failed")
		return OutcomeMiss
	}
	return OutcomeHit
}

// GetLocalMessages returns the cached messages of a conversation in ascending
// creation order, with sender and shared-card JSON rehydrated.
func (m *MessageMirror) GetLocalMessages(ctx context.Context, conversationID string) ([]model.MessageSummary, Outcome) {
	if !m.store.Ready() {
		return []model.MessageSummary{}, OutcomeMiss
	}

	var rows []store.MessageRow
	err := m.store.DB().WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		log.Error().Err(err).Str("conversation", conversationID).Msg("message read failed")
		return []model.MessageSummary{}, OutcomeMiss
	}

	return lo.Map(rows, func(row store.MessageRow, _ int) model.MessageSummary {
		return expandMessage(row)
	}), OutcomeHit
}

// flattenMessage reduces a message to its storage row. All four variant
// columns are written on every row, the inactive ones as NULL; the active
// card is additionally serialized under the generic card_data column because
// older UI builds read that key instead of the variant one.
func flattenMessage(conversationID string, msg model.MessageSummary) store.MessageRow {
	msgType := msg.Type
	if msgType == "" {
		msgType = model.MessageTypeNormal
	}

	row := store.MessageRow{
		ID:             msg.ID,
		ConversationID: conversationID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
		Sender:         deref(encode(msg.Sender)),
		Type:           string(msgType),
	}

	if msg.SharedPost != nil {
		row.SharedPostJSON = encode(msg.SharedPost)
		row.SharedPostID = &msg.SharedPost.ID
	}
	if msg.SharedNews != nil {
		row.SharedNewsJSON = encode(msg.SharedNews)
		row.SharedNewsID = &msg.SharedNews.ID
	}
	if msg.SharedShowcase != nil {
		row.SharedShowcaseJSON = encode(msg.SharedShowcase)
		row.SharedShowcaseID = &msg.SharedShowcase.ID
	}
	if msg.SharedUser != nil {
		row.SharedUserJSON = encode(msg.SharedUser)
		row.SharedUserID = &msg.SharedUser.ID
	}

	if card := msg.Card(); card != nil {
		tag := string(card.Type())
		preview := card.Preview(msg.Sender)
		row.CardType = &tag
		row.PreviewTitle = &preview.Title
		row.PreviewDescription = &preview.Description
		row.PreviewImageURL = &preview.ImageURL
		row.CardData = encode(card)
	}
	return row
}

// expandMessage reverses flattenMessage, rehydrating the nested shapes the
// application expects. Preview columns pass through as-is; they were derived
// at write time.
func expandMessage(row store.MessageRow) model.MessageSummary {
	msg := model.MessageSummary{
		ID:                 row.ID,
		ConversationID:     row.ConversationID,
		Content:            row.Content,
		CreatedAt:          row.CreatedAt,
		Type:               model.MessageType(row.Type),
		CardType:           model.CardType(deref(row.CardType)),
		PreviewTitle:       deref(row.PreviewTitle),
		PreviewDescription: deref(row.PreviewDescription),
		PreviewImageURL:    deref(row.PreviewImageURL),
	}
	if sender := decode[model.Participant](&row.Sender, row.ID, "sender"); sender != nil {
		msg.Sender = *sender
	}
	msg.SharedPost = decode[model.SharedPost](row.SharedPostJSON, row.ID, "shared_post_json")
	msg.SharedNews = decode[model.SharedNews](row.SharedNewsJSON, row.ID, "shared_news_json")
	msg.SharedShowcase = decode[model.SharedShowcase](row.SharedShowcaseJSON, row.ID, "shared_showcase_json")
	msg.SharedUser = decode[model.SharedUser](row.SharedUserJSON, row.ID, "shared_user_json")
	return msg
}
