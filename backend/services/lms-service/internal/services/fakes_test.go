package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/events"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memConversations is an in-memory ConversationRepository keyed by pair.
type memConversations struct {
	mu     sync.Mutex
	byID   map[string]*models.Conversation
	byPair map[string]string
	clock  *tickClock
	err    error
}

func newMemConversations(clock *tickClock) *memConversations {
	return &memConversations{byID: map[string]*models.Conversation{}, byPair: map[string]string{}, clock: clock}
}

func clone(c *models.Conversation) *models.Conversation {
	out := *c
	out.Participants = append([]models.ParticipantRef(nil), c.Participants...)
	out.Messages = append([]models.Message{}, c.Messages...)
	return &out
}

func (m *memConversations) GetOrCreate(ctx context.Context, a, b models.ParticipantRef) (*models.Conversation, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := models.PairKey(a.ID, b.ID)
	if id, ok := m.byPair[key]; ok {
		return clone(m.byID[id]), false, nil
	}
	now := m.clock.Now()
	c := &models.Conversation{
		ID:           primitive.NewObjectID().Hex(),
		PairKey:      key,
		Participants: []models.ParticipantRef{a, b},
		Messages:     []models.Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byID[c.ID] = c
	m.byPair[key] = c.ID
	return clone(c), true, nil
}

func (m *memConversations) Create(ctx context.Context, a, b models.ParticipantRef) (*models.Conversation, error) {
	c, created, err := m.GetOrCreate(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, repository.ErrDuplicatePair
	}
	return c, nil
}

func (m *memConversations) FindBetween(ctx context.Context, idA, idB string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byPair[models.PairKey(idA, idB)]
	if !ok {
		return nil, repository.ErrConversationNotFound
	}
	return clone(m.byID[id]), nil
}

func (m *memConversations) AppendMessage(ctx context.Context, id string, msg models.Message) (*models.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrConversationNotFound
	}
	member := false
	for _, p := range c.Participants {
		if p == msg.Sender {
			member = true
		}
	}
	if !member {
		return nil, repository.ErrNotParticipant
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = laterOf(msg.CreatedAt, c.UpdatedAt.Add(time.Millisecond))
	return clone(c), nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func (m *memConversations) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrConversationNotFound
	}
	return clone(c), nil
}

func (m *memConversations) ListForParticipant(ctx context.Context, identityID string) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Conversation{}
	for _, c := range m.byID {
		for _, p := range c.Participants {
			if p.ID == identityID {
				out = append(out, *clone(c))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// blockingConversations waits for the context to end on every call.
type blockingConversations struct {
	memConversations
}

func (b *blockingConversations) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (b *blockingConversations) GetOrCreate(ctx context.Context, a, c models.ParticipantRef) (*models.Conversation, bool, error) {
	<-ctx.Done()
	return nil, false, ctx.Err()
}

// memIdentities is an IdentityStore backed by a map per variant.
type memIdentities struct {
	mu      sync.Mutex
	records map[models.Variant]map[string]models.Identity
	lookups int
}

func newMemIdentities() *memIdentities {
	return &memIdentities{records: map[models.Variant]map[string]models.Identity{
		models.VariantStudent:    {},
		models.VariantInstructor: {},
	}}
}

func (m *memIdentities) add(v models.Variant, name, email string) string {
	id := primitive.NewObjectID().Hex()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[v][id] = models.Identity{ID: id, Variant: v, DisplayName: name, Email: email}
	return id
}

func (m *memIdentities) remove(v models.Variant, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records[v], id)
}

func (m *memIdentities) rename(v models.Variant, id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[v][id]
	rec.DisplayName = name
	m.records[v][id] = rec
}

func (m *memIdentities) Lookup(ctx context.Context, v models.Variant, ids []string) (map[string]models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	out := map[string]models.Identity{}
	for _, id := range ids {
		if rec, ok := m.records[v][id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func (m *memIdentities) Exists(ctx context.Context, v models.Variant, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[v][id]
	return ok, nil
}

// tickClock advances one second per call so orderings are deterministic.
type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTickClock() *tickClock {
	return &tickClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// lateAppendConversations stores the message only once the caller's deadline
// has passed, like a write that lands just as the request times out.
type lateAppendConversations struct {
	*memConversations
}

func (l lateAppendConversations) AppendMessage(ctx context.Context, id string, msg models.Message) (*models.Conversation, error) {
	<-ctx.Done()
	return l.memConversations.AppendMessage(context.Background(), id, msg)
}

// stallingIdentities blocks lookups until the context ends once stall is set.
type stallingIdentities struct {
	*memIdentities
	stall bool
}

func (s *stallingIdentities) Lookup(ctx context.Context, v models.Variant, ids []string) (map[string]models.Identity, error) {
	if s.stall {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.memIdentities.Lookup(ctx, v, ids)
}
