package services

import (
	"context"
	"sort"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
)

type identityIndex map[models.Variant]map[string]models.Identity

func (idx identityIndex) view(ref models.ParticipantRef) models.ParticipantView {
	v := models.ParticipantView{ID: ref.ID, Variant: ref.Variant}
	if id, ok := idx[ref.Variant][ref.ID]; ok {
		v.DisplayName = id.DisplayName
		v.Email = id.Email
	}
	return v
}

func (idx identityIndex) conversation(c *models.Conversation) models.ConversationView {
	v := models.ConversationView{
		ID:           c.ID,
		Participants: make([]models.ParticipantView, 0, len(c.Participants)),
		Messages:     make([]models.MessageView, 0, len(c.Messages)),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	for _, p := range c.Participants {
		v.Participants = append(v.Participants, idx.view(p))
	}
	for _, m := range c.Messages {
		v.Messages = append(v.Messages, models.MessageView{
			Sender:    idx.view(m.Sender),
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return v
}

// resolveConversations fetches every referenced identity with one query per
// variant. References whose record no longer exists stay as id and variant.
func resolveConversations(ctx context.Context, store repository.IdentityStore, convs []models.Conversation) ([]models.ConversationView, error) {
	wanted := map[models.Variant]map[string]struct{}{}
	add := func(ref models.ParticipantRef) {
		if wanted[ref.Variant] == nil {
			wanted[ref.Variant] = map[string]struct{}{}
		}
		wanted[ref.Variant][ref.ID] = struct{}{}
	}
	for i := range convs {
		for _, p := range convs[i].Participants {
			add(p)
		}
		for _, m := range convs[i].Messages {
			add(m.Sender)
		}
	}

	idx := identityIndex{}
	for variant, set := range wanted {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		found, err := store.Lookup(ctx, variant, ids)
		if err != nil {
			return nil, err
		}
		idx[variant] = found
	}

	out := make([]models.ConversationView, 0, len(convs))
	for i := range convs {
		out = append(out, idx.conversation(&convs[i]))
	}
	return out, nil
}
