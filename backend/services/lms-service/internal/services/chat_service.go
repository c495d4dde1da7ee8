package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/events"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	"github.com/ayesh20/e-learn-backend/backend/shared/metrics"
	"github.com/ayesh20/e-learn-backend/backend/shared/utils"
	"go.uber.org/zap"
)

type ChatConfig struct {
	Timeout          time.Duration
	MaxMessageLength int
}

// ChatService manages two-party conversations between students and instructors.
// Every read resolves participants and senders against the identity store.
type ChatService struct {
	convs   repository.ConversationRepository
	ids     repository.IdentityStore
	events  events.Publisher
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
	cfg     ChatConfig
	now     func() time.Time
}

func NewChatService(convs repository.ConversationRepository, ids repository.IdentityStore, pub events.Publisher, m *metrics.Metrics, log *zap.SugaredLogger, cfg ChatConfig) *ChatService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = 2000
	}
	if pub == nil {
		pub = events.Noop()
	}
	return &ChatService{
		convs:   convs,
		ids:     ids,
		events:  pub,
		metrics: m,
		log:     log,
		cfg:     cfg,
		now:     utils.NowUTC,
	}
}

func parseRef(id, variant, idField, variantField string) (models.ParticipantRef, error) {
	if _, err := parseID(id, idField); err != nil {
		return models.ParticipantRef{}, err
	}
	v, ok := models.ParseVariant(variant)
	if !ok {
		msg := variantField + " must be student or instructor"
		return models.ParticipantRef{}, apperr.Validation(msg,
			apperr.FieldError{Field: variantField, Tag: "oneof", Value: variant, Message: msg})
	}
	return models.ParticipantRef{ID: id, Variant: v}, nil
}

// GetOrCreate returns the single conversation between the two identities,
// creating it on first contact. Argument order does not matter.
func (s *ChatService) GetOrCreate(ctx context.Context, idA, variantA, idB, variantB string) (*models.ConversationView, error) {
	a, err := parseRef(idA, variantA, "idA", "variantA")
	if err != nil {
		return nil, err
	}
	b, err := parseRef(idB, variantB, "idB", "variantB")
	if err != nil {
		return nil, err
	}
	if a.ID == b.ID {
		return nil, apperr.Validation("a conversation needs two different participants")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	for _, ref := range []models.ParticipantRef{a, b} {
		ok, err := s.ids.Exists(ctx, ref.Variant, ref.ID)
		if err != nil {
			return nil, storeErr(err, "")
		}
		if !ok {
			return nil, apperr.NotFound(fmt.Sprintf("%s %s not found", ref.Variant, ref.ID))
		}
	}

	conv, created, err := s.convs.GetOrCreate(ctx, a, b)
	if err != nil {
		return nil, storeErr(err, "")
	}
	if created {
		if s.metrics != nil {
			s.metrics.ConversationsCreated.Inc()
		}
		s.publish(ctx, events.Event{
			Type: events.TopicConversationCreated,
			Key:  conv.ID,
			Data: map[string]any{"conversationId": conv.ID, "participants": conv.Participants},
		})
		s.log.Infow("conversation created", "conversation_id", conv.ID, "a", a.ID, "b", b.ID)
	}
	return s.resolveOne(ctx, conv)
}

// PostMessage appends text from sender and returns the updated conversation.
// Nothing is written when validation fails.
func (s *ChatService) PostMessage(ctx context.Context, conversationID, senderID, senderVariant, text string) (*models.ConversationView, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("message text is required",
			apperr.FieldError{Field: "text", Tag: "required", Message: "message text is required"})
	}
	if n := utf8.RuneCountInString(text); n > s.cfg.MaxMessageLength {
		msg := fmt.Sprintf("message text must be at most %d characters", s.cfg.MaxMessageLength)
		return nil, apperr.Validation(msg, apperr.FieldError{Field: "text", Tag: "max", Message: msg})
	}
	if _, err := parseID(conversationID, "conversationId"); err != nil {
		return nil, err
	}
	sender, err := parseRef(senderID, senderVariant, "senderId", "senderVariant")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	msg := models.Message{Sender: sender, Text: text, CreatedAt: s.now()}
	conv, err := s.convs.AppendMessage(ctx, conversationID, msg)
	if err != nil {
		return nil, storeErr(err, "")
	}
	if s.metrics != nil {
		s.metrics.MessagesSent.Inc()
	}

	// The message is stored; what follows runs on its own deadline.
	after, cancelAfter := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancelAfter()
	s.publish(after, events.Event{
		Type: events.TopicMessageSent,
		Key:  conv.ID,
		Data: map[string]any{
			"conversationId": conv.ID,
			"sender":         msg.Sender,
			"text":           msg.Text,
			"createdAt":      msg.CreatedAt,
		},
	})
	return s.resolveAfterWrite(after, conv), nil
}

func (s *ChatService) GetConversation(ctx context.Context, conversationID string) (*models.ConversationView, error) {
	if _, err := parseID(conversationID, "chatId"); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	conv, err := s.convs.GetByID(ctx, conversationID)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return s.resolveOne(ctx, conv)
}

// ListConversationsFor returns identityID's conversations, most recently active first.
func (s *ChatService) ListConversationsFor(ctx context.Context, identityID string) ([]models.ConversationView, error) {
	if _, err := parseID(identityID, "identityId"); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	convs, err := s.convs.ListForParticipant(ctx, identityID)
	if err != nil {
		return nil, storeErr(err, "")
	}
	views, err := resolveConversations(ctx, s.ids, convs)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return views, nil
}

func (s *ChatService) resolveOne(ctx context.Context, conv *models.Conversation) (*models.ConversationView, error) {
	views, err := resolveConversations(ctx, s.ids, []models.Conversation{*conv})
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &views[0], nil
}

// resolveAfterWrite never fails, since a retried append would store the
// message twice. Unresolvable participants are returned as bare references.
func (s *ChatService) resolveAfterWrite(ctx context.Context, conv *models.Conversation) *models.ConversationView {
	views, err := resolveConversations(ctx, s.ids, []models.Conversation{*conv})
	if err != nil {
		s.log.Warnw("participants not resolved after append", "conversation_id", conv.ID, "error", err)
		v := identityIndex{}.conversation(conv)
		return &v
	}
	return &views[0]
}

// publish is best effort; the write has already succeeded.
func (s *ChatService) publish(ctx context.Context, ev events.Event) {
	ev.OccurredAt = s.now()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warnw("chat event not published", "type", ev.Type, "key", ev.Key, "error", err)
	}
}
