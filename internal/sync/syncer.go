package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hivesocial/chatmirror/internal/mirror"
	"github.com/hivesocial/chatmirror/internal/model"
)

// API is the slice of the backend the syncer depends on
type API interface {
	FetchConversations(ctx context.Context) ([]model.ConversationSummary, error)
	FetchMessageRequests(ctx context.Context) ([]model.ConversationSummary, error)
	FetchMessages(ctx context.Context, conversationID string) ([]model.MessageSummary, error)
}

// Syncer pulls conversation and message state from the backend and feeds the
// mirror's write path. Unlike the mirror, network failures here are real
// errors and are returned to the caller; the cached data simply stays stale.
type Syncer struct {
	api   API
	convs *mirror.ConversationMirror
	msgs  *mirror.MessageMirror
}

func NewSyncer(api API, convs *mirror.ConversationMirror, msgs *mirror.MessageMirror) *Syncer {
	return &Syncer{api: api, convs: convs, msgs: msgs}
}

// RefreshConversations fetches established conversations and pending message
// requests, merges them (established wins on ID collision, requests are
// tagged pending), saves the batch through the mirror, and returns it.
func (s *Syncer) RefreshConversations(ctx context.Context) ([]model.ConversationSummary, error) {
	active, err := s.api.FetchConversations(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.api.FetchMessageRequests(ctx)
	if err != nil {
		return nil, err
	}

	for i := range active {
		if active[i].Status == "" {
			active[i].Status = model.ConversationStatusActive
		}
	}
	for i := range requests {
		requests[i].Status = model.ConversationStatusPending
	}

	// UniqBy keeps the first occurrence, so an established conversation is
	// never clobbered by a stale request with the same ID.
	merged := lo.UniqBy(append(active, requests...), func(c model.ConversationSummary) string {
		return c.ID
	})

	if outcome := s.convs.SaveConversations(ctx, merged); outcome.Degraded() {
		log.Debug().Int("count", len(merged)).Msg("conversation batch not cached")
	}
	return merged, nil
}

// RefreshMessages fetches and caches the message list of one conversation
func (s *Syncer) RefreshMessages(ctx context.Context, conversationID string) ([]model.MessageSummary, error) {
	msgs, err := s.api.FetchMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if outcome := s.msgs.SaveMessages(ctx, conversationID, msgs); outcome.Degraded() {
		log.Debug().Str("conversation", conversationID).Msg("message batch not cached")
	}
	return msgs, nil
}

// Run refreshes the conversation list immediately and then on every tick
// until the context is cancelled
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	if _, err := s.RefreshConversations(ctx); err != nil {
		log.Warn().Err(err).Msg("initial conversation refresh failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RefreshConversations(ctx); err != nil {
				log.Warn().Err(err).Msg("conversation refresh failed")
			}
		}
	}
}
