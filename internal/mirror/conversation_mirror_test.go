package mirror

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hivesocial/chatmirror/internal/config"
	"github.com/hivesocial/chatmirror/internal/model"
	"github.com/hivesocial/chatmirror/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.Open(config.StoreConfig{Dir: t.TempDir(), File: "mirror_test.db"})
	require.True(t, st.Ready())
	return st
}

func sampleConversation(id, updatedAt string) model.ConversationSummary {
	return model.ConversationSummary{
		ID:           id,
		Participants: []model.Participant{{ID: "u1", Name: "Alice"}},
		Status:       model.ConversationStatusActive,
		UpdatedAt:    updatedAt,
	}
}

func TestSaveConversationsIsIdempotent(t *testing.T) {
	m := NewConversationMirror(newTestStore(t))
	ctx := context.Background()

	batch := []model.ConversationSummary{sampleConversation("c1", "2026-08-30T10:00:00Z")}
	require.Equal(t, OutcomeHit, m.SaveConversations(ctx, batch))
	require.Equal(t, OutcomeHit, m.SaveConversations(ctx, batch))

	convs, outcome := m.GetLocalConversations(ctx)
	require.Equal(t, OutcomeHit, outcome)
	require.Len(t, convs, 1)
	require.Equal(t, "c1", convs[0].ID)
}

func TestResaveOverwritesAllFields(t *testing.T) {
	m := NewConversationMirror(newTestStore(t))
	ctx := context.Background()

	first := sampleConversation("c1", "2026-08-30T10:00:00Z")
	require.Equal(t, OutcomeHit, m.SaveConversations(ctx, []model.ConversationSummary{first}))

	second := first
	second.Status = model.ConversationStatusPending
	second.UpdatedAt = "2026-08-30T11:00:00Z"
	second.LastMessage = &model.LastMessage{ID: "m9", Content: "ping", SenderID: "u1"}
	require.Equal(t, OutcomeHit, m.SaveConversations(ctx, []model.ConversationSummary{second}))

	convs, _ := m.GetLocalConversations(ctx)
	require.Len(t, convs, 1)
	require.Equal(t, model.ConversationStatusPending, convs[0].Status)
	require.Equal(t, "2026-08-30T11:00:00Z", convs[0].UpdatedAt)
	require.NotNil(t, convs[0].LastMessage)
	require.Equal(t, "ping", convs[0].LastMessage.Content)
}

func TestConversationsOrderedNewestFirst(t *testing.T) {
	m := NewConversationMirror(newTestStore(t))
	ctx := context.Background()

	require.Equal(t, OutcomeHit, m.SaveConversations(ctx, []model.ConversationSummary{
		sampleConversation("c1", "2026-08-30T10:00:00Z"),
		sampleConversation("c3", "2026-08-30T12:00:00Z"),
		sampleConversation("c2", "2026-08-30T11:00:00Z"),
	}))

	convs, outcome := m.GetLocalConversations(ctx)
	require.Equal(t, OutcomeHit, outcome)
	require.Len(t, convs, 3)
	require.Equal(t, []string{"c3", "c2", "c1"}, []string{convs[0].ID, convs[1].ID, convs[2].ID})
}

func TestNestedFieldsRoundTrip(t *testing.T) {
	m := NewConversationMirror(newTestStore(t))
	ctx := context.Background()

	conv := model.ConversationSummary{
		ID:           "c1",
		Participants: []model.Participant{{ID: "u1", Name: "Alice"}},
		LastMessage: &model.LastMessage{
			ID: "m1", Content: "hi", SenderID: "u1", ReadBy: []string{"u1"},
		},
		Status:    model.ConversationStatusActive,
		UpdatedAt: "2026-08-30T10:00:00Z",
	}
	require.Equal(t, OutcomeHit, m.SaveConversations(ctx, []model.ConversationSummary{conv}))

	convs, _ := m.GetLocalConversations(ctx)
	require.Len(t, convs, 1)
	require.Equal(t, conv.Participants, convs[0].Participants)
	require.Equal(t, conv.LastMessage, convs[0].LastMessage)
}

func TestNilLastMessageStaysNil(t *testing.T) {
	m := NewConversationMirror(newTestStore(t))
	ctx := context.Background()

	require.Equal(t, OutcomeHit, m.SaveConversations(ctx, []model.ConversationSummary{
		sampleConversation("c1", "2026-08-30T10:00:00Z"),
	}))
	convs, _ := m.GetLocalConversations(ctx)
	require.Len(t, convs, 1)
	require.Nil(t, convs[0].LastMessage)
}

func TestUnavailableStoreDegradesToMiss(t *testing.T) {
	m := NewConversationMirror(&store.Store{})
	ctx := context.Background()

	outcome := m.SaveConversations(ctx, []model.ConversationSummary{sampleConversation("c1", "t")})
	require.Equal(t, OutcomeMiss, outcome)
	require.True(t, outcome.Degraded())

	convs, outcome := m.GetLocalConversations(ctx)
	require.Equal(t, OutcomeMiss, outcome)
	require.Empty(t, convs)
}

func TestCorruptedColumnDegradesToNil(t *testing.T) {
	st := newTestStore(t)
	m := NewConversationMirror(st)
	ctx := context.Background()

	conv := sampleConversation("c1", "2026-08-30T10:00:00Z")
	conv.LastMessage = &model.LastMessage{ID: "m1", Content: "hi"}
	require.Equal(t, OutcomeHit, m.SaveConversations(ctx, []model.ConversationSummary{conv}))

	require.NoError(t, st.DB().Exec(
		`UPDATE conversations SET participants = 'not-json', last_message = '{broken' WHERE id = ?`, "c1",
	).Error)

	convs, outcome := m.GetLocalConversations(ctx)
	require.Equal(t, OutcomeHit, outcome)
	require.Len(t, convs, 1)
	require.Nil(t, convs[0].Participants)
	require.Nil(t, convs[0].LastMessage)
}
