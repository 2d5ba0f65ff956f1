package mirror

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hivesocial/chatmirror/internal/config"
	"github.com/hivesocial/chatmirror/internal/model"
	"github.com/hivesocial/chatmirror/internal/store"
)

func sampleMessage(id, createdAt string) model.MessageSummary {
	return model.MessageSummary{
		ID:        id,
		Content:   "hello",
		CreatedAt: createdAt,
		Sender:    model.Participant{ID: "u1", Name: "Alice"},
	}
}

func TestNewsCardDerivation(t *testing.T) {
	m := NewMessageMirror(newTestStore(t))
	ctx := context.Background()

	msg := sampleMessage("m1", "2026-08-30T10:00:00Z")
	msg.Content = ""
	msg.SharedNews = &model.SharedNews{
		ID: "n1", Headline: "Big News", Source: "Reuters", BannerImage: "http://x/img.png",
	}
	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c1", []model.MessageSummary{msg}))

	msgs, outcome := m.GetLocalMessages(ctx, "c1")
	require.Equal(t, OutcomeHit, outcome)
	require.Len(t, msgs, 1)

	got := msgs[0]
	require.Equal(t, model.CardTypeNews, got.CardType)
	require.Equal(t, "Big News", got.PreviewTitle)
	require.Equal(t, "Reuters", got.PreviewDescription)
	require.Equal(t, "http://x/img.png", got.PreviewImageURL)
	require.NotNil(t, got.SharedNews)
	require.Equal(t, *msg.SharedNews, *got.SharedNews)
	require.Nil(t, got.SharedPost)
	require.Nil(t, got.SharedShowcase)
	require.Nil(t, got.SharedUser)
}

func TestPostTitleFallsBackToSender(t *testing.T) {
	m := NewMessageMirror(newTestStore(t))
	ctx := context.Background()

	msg := sampleMessage("m1", "2026-08-30T10:00:00Z")
	msg.Sender = model.Participant{ID: "u2", Name: "Bob"}
	msg.SharedPost = &model.SharedPost{ID: "p1", Description: "body text"}
	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c1", []model.MessageSummary{msg}))

	msgs, _ := m.GetLocalMessages(ctx, "c1")
	require.Len(t, msgs, 1)
	require.Equal(t, model.CardTypePost, msgs[0].CardType)
	require.Equal(t, "Bob", msgs[0].PreviewTitle)
	require.Equal(t, "body text", msgs[0].PreviewDescription)
}

func TestPlainMessageHasNoCard(t *testing.T) {
	m := NewMessageMirror(newTestStore(t))
	ctx := context.Background()

	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c1", []model.MessageSummary{
		sampleMessage("m1", "2026-08-30T10:00:00Z"),
	}))
	msgs, _ := m.GetLocalMessages(ctx, "c1")
	require.Len(t, msgs, 1)
	require.Empty(t, msgs[0].CardType)
	require.Empty(t, msgs[0].PreviewTitle)
	require.Equal(t, model.MessageTypeNormal, msgs[0].Type)
}

func TestMessagesOrderedByCreationTime(t *testing.T) {
	m := NewMessageMirror(newTestStore(t))
	ctx := context.Background()

	// Saved out of order on purpose.
	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c1", []model.MessageSummary{
		sampleMessage("m3", "2026-08-30T12:00:00Z"),
		sampleMessage("m1", "2026-08-30T10:00:00Z"),
		sampleMessage("m2", "2026-08-30T11:00:00Z"),
	}))

	msgs, _ := m.GetLocalMessages(ctx, "c1")
	require.Len(t, msgs, 3)
	require.Equal(t, []string{"m1", "m2", "m3"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
}

func TestMessagesScopedToConversation(t *testing.T) {
	m := NewMessageMirror(newTestStore(t))
	ctx := context.Background()

	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c1", []model.MessageSummary{sampleMessage("m1", "t1")}))
	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c2", []model.MessageSummary{sampleMessage("m2", "t1")}))

	msgs, _ := m.GetLocalMessages(ctx, "c1")
	require.Len(t, msgs, 1)
	require.Equal(t, "m1", msgs[0].ID)
}

func TestResaveRecomputesPreview(t *testing.T) {
	m := NewMessageMirror(newTestStore(t))
	ctx := context.Background()

	msg := sampleMessage("m1", "2026-08-30T10:00:00Z")
	msg.SharedNews = &model.SharedNews{ID: "n1", Headline: "Big News", Source: "Reuters"}
	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c1", []model.MessageSummary{msg}))

	// The same message comes back with a different card; the preview must be
	// recomputed from the new snapshot and the old variant cleared.
	updated := sampleMessage("m1", "2026-08-30T10:00:00Z")
	updated.SharedUser = &model.SharedUser{ID: "u9", Name: "Carol", Headline: "Designer"}
	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c1", []model.MessageSummary{updated}))

	msgs, _ := m.GetLocalMessages(ctx, "c1")
	require.Len(t, msgs, 1)
	require.Equal(t, model.CardTypeUser, msgs[0].CardType)
	require.Equal(t, "Carol", msgs[0].PreviewTitle)
	require.Equal(t, "Designer", msgs[0].PreviewDescription)
	require.Nil(t, msgs[0].SharedNews)
	require.NotNil(t, msgs[0].SharedUser)
}

func TestFailedBatchIsNotVisible(t *testing.T) {
	cfg := config.StoreConfig{Dir: t.TempDir(), File: "mirror_test.db"}
	st := store.Open(cfg)
	require.True(t, st.Ready())
	m := NewMessageMirror(st)
	ctx := context.Background()

	require.Equal(t, OutcomeHit, m.SaveMessages(ctx, "c1", []model.MessageSummary{
		sampleMessage("m1", "2026-08-30T10:00:00Z"),
	}))

	// Kill the underlying connection; the next save must degrade, not panic
	// or surface an error.
	sqlDB, err := st.DB().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	outcome := m.SaveMessages(ctx, "c1", []model.MessageSummary{
		sampleMessage("m2", "2026-08-30T11:00:00Z"),
	})
	require.Equal(t, OutcomeMiss, outcome)

	// A fresh handle on the same file sees only the first batch.
	reopened := NewMessageMirror(store.Open(cfg))
	msgs, outcome := reopened.GetLocalMessages(ctx, "c1")
	require.Equal(t, OutcomeHit, outcome)
	require.Len(t, msgs, 1)
	require.Equal(t, "m1", msgs[0].ID)
}
