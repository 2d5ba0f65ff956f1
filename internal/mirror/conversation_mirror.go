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

// ConversationMirror persists server-provided conversation summaries in the
// local store. The server stays authoritative: writes are whole-row upserts
// keyed on the conversation ID, and the mirror never originates an ID.
type ConversationMirror struct {
	store *store.Store
}

func NewConversationMirror(s *store.Store) *ConversationMirror {
	return &ConversationMirror{store: s}
}

// SaveConversations upserts a batch of conversation summaries inside one
// transaction, in input order. Saving the same batch twice is idempotent.
func (m *ConversationMirror) SaveConversations(ctx context.Context, convs []model.ConversationSummary) Outcome {
	if !m.store.Ready() {
		return OutcomeMiss
	}
	if len(convs) == 0 {
		return OutcomeHit
	}

	rows := make([]store.ConversationRow, 0, len(convs))
	for _, c := range convs {
		row := store.ConversationRow{
			ID:           c.ID,
			Participants: deref(encode(c.Participants)),
			Status:       string(c.Status),
			UpdatedAt:    c.UpdatedAt,
		}
		if c.LastMessage != nil {
			row.LastMessage = encode(c.LastMessage)
		}
		rows = append(rows, row)
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
		log.Error().Err(err).Int("count", len(rows)).Msg("conversation batch save failed")
		return OutcomeMiss
	}
	return OutcomeHit
}

// GetLocalConversations returns every cached conversation, newest activity
// first, with the nested participant and last-message shapes rehydrated.
func (m *ConversationMirror) GetLocalConversations(ctx context.Context) ([]model.ConversationSummary, Outcome) {
	if !m.store.Ready() {
		return []model.ConversationSummary{}, OutcomeMiss
	}

	var rows []store.ConversationRow
	err := m.store.DB().WithContext(ctx).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		log.Error().Err(err).Msg("conversation read failed")
		return []model.ConversationSummary{}, OutcomeMiss
	}

	convs := lo.Map(rows, func(row store.ConversationRow, _ int) model.ConversationSummary {
		conv := model.ConversationSummary{
			ID:        row.ID,
			Status:    model.ConversationStatus(row.Status),
			UpdatedAt: row.UpdatedAt,
		}
		if participants := decode[[]model.Participant](&row.Participants, row.ID, "participants"); participants != nil {
			conv.Participants = *participants
		}
		conv.LastMessage = decode[model.LastMessage](row.LastMessage, row.ID, "last_message")
		return conv
	})
	return convs, OutcomeHit
}
