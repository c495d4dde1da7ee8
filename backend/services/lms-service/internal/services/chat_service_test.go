package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/events"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	"github.com/ayesh20/e-learn-backend/backend/shared/logger"
	"github.com/ayesh20/e-learn-backend/backend/shared/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type chatFixture struct {
	svc     *ChatService
	convs   *memConversations
	ids     *memIdentities
	pub     *recordingPublisher
	metrics *metrics.Metrics

	student    string
	instructor string
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	clock := newTickClock()
	f := &chatFixture{
		convs:   newMemConversations(clock),
		ids:     newMemIdentities(),
		pub:     &recordingPublisher{},
		metrics: metrics.New("test"),
	}
	f.svc = NewChatService(f.convs, f.ids, f.pub, f.metrics, logger.Nop(), ChatConfig{})
	f.svc.now = clock.Now
	f.student = f.ids.add(models.VariantStudent, "Ann Lee", "ann@example.com")
	f.instructor = f.ids.add(models.VariantInstructor, "Bob Ray", "bob@example.com")
	return f
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, apperr.HTTPStatus(err), "error: %v", err)
}

func TestChatService_GetOrCreateIsOrderInsensitive(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first, err := f.svc.GetOrCreate(ctx, f.student, "student", f.instructor, "instructor")
	require.NoError(t, err)
	second, err := f.svc.GetOrCreate(ctx, f.instructor, "Instructors", f.student, "STUDENTS")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, first.Messages)
	require.Len(t, first.Participants, 2)
	assert.Equal(t, "Ann Lee", first.Participants[0].DisplayName)
	assert.Equal(t, "bob@example.com", first.Participants[1].Email)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ConversationsCreated))
	assert.Equal(t, []string{events.TopicConversationCreated}, f.pub.types())
}

func TestChatService_GetOrCreateConcurrentCallsShareOneConversation(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	const callers = 16
	ids := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b, va, vb := f.student, f.instructor, "student", "instructor"
			if i%2 == 1 {
				a, b, va, vb = b, a, vb, va
			}
			conv, err := f.svc.GetOrCreate(ctx, a, va, b, vb)
			errs[i] = err
			if err == nil {
				ids[i] = conv.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ConversationsCreated))
}

func TestChatService_GetOrCreateValidation(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	ghost := primitive.NewObjectID().Hex()

	tests := []struct {
		name           string
		idA, varA      string
		idB, varB      string
		expectedStatus int
	}{
		{"malformed id", "nope", "student", f.instructor, "instructor", 400},
		{"unknown variant", f.student, "admin", f.instructor, "instructor", 400},
		{"same identity twice", f.student, "student", f.student, "student", 400},
		{"missing identity", f.student, "student", ghost, "instructor", 404},
		{"variant points at wrong collection", f.student, "instructor", f.instructor, "instructor", 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.GetOrCreate(ctx, tt.idA, tt.varA, tt.idB, tt.varB)
			requireStatus(t, err, tt.expectedStatus)
		})
	}
	assert.Empty(t, f.convs.byID)
}

func TestChatService_PostMessageAppendsInOrder(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	conv, err := f.svc.GetOrCreate(ctx, f.student, "student", f.instructor, "instructor")
	require.NoError(t, err)

	_, err = f.svc.PostMessage(ctx, conv.ID, f.student, "student", "hello")
	require.NoError(t, err)
	got, err := f.svc.PostMessage(ctx, conv.ID, f.instructor, "instructor", "hi there")
	require.NoError(t, err)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "hello", got.Messages[0].Text)
	assert.Equal(t, "Ann Lee", got.Messages[0].Sender.DisplayName)
	assert.Equal(t, "hi there", got.Messages[1].Text)
	assert.Equal(t, models.VariantInstructor, got.Messages[1].Sender.Variant)
	assert.True(t, got.Messages[1].CreatedAt.After(got.Messages[0].CreatedAt))
	assert.Equal(t, got.Messages[1].CreatedAt, got.UpdatedAt)

	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.MessagesSent))
	assert.Equal(t, []string{
		events.TopicConversationCreated, events.TopicMessageSent, events.TopicMessageSent,
	}, f.pub.types())
}

func TestChatService_PostMessageRejectsWithoutWriting(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	conv, err := f.svc.GetOrCreate(ctx, f.student, "student", f.instructor, "instructor")
	require.NoError(t, err)
	outsider := f.ids.add(models.VariantStudent, "Eve", "eve@example.com")

	tests := []struct {
		name           string
		convID         string
		sender         string
		variant        string
		text           string
		expectedStatus int
	}{
		{"blank text", conv.ID, f.student, "student", "   ", 400},
		{"text too long", conv.ID, f.student, "student", strings.Repeat("x", 2001), 400},
		{"bad conversation id", "123", f.student, "student", "hi", 400},
		{"unknown conversation", primitive.NewObjectID().Hex(), f.student, "student", "hi", 404},
		{"sender not a participant", conv.ID, outsider, "student", "hi", 400},
		{"participant id with other variant", conv.ID, f.student, "instructor", "hi", 400},
		{"bad sender variant", conv.ID, f.student, "admin", "hi", 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.PostMessage(ctx, tt.convID, tt.sender, tt.variant, tt.text)
			requireStatus(t, err, tt.expectedStatus)
		})
	}

	stored, err := f.svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Messages)
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.MessagesSent))
}

func TestChatService_MaxLengthCountsCharacters(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	conv, err := f.svc.GetOrCreate(ctx, f.student, "student", f.instructor, "instructor")
	require.NoError(t, err)

	_, err = f.svc.PostMessage(ctx, conv.ID, f.student, "student", strings.Repeat("é", 2000))
	assert.NoError(t, err)
}

func TestChatService_ListOrdersByLatestActivity(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	other := f.ids.add(models.VariantInstructor, "Cat Kim", "cat@example.com")

	older, err := f.svc.GetOrCreate(ctx, f.student, "student", f.instructor, "instructor")
	require.NoError(t, err)
	newer, err := f.svc.GetOrCreate(ctx, f.student, "student", other, "instructor")
	require.NoError(t, err)

	list, err := f.svc.ListConversationsFor(ctx, f.student)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	_, err = f.svc.PostMessage(ctx, older.ID, f.instructor, "instructor", "ping")
	require.NoError(t, err)

	list, err = f.svc.ListConversationsFor(ctx, f.student)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, older.ID, list[0].ID)
	assert.Equal(t, newer.ID, list[1].ID)

	list, err = f.svc.ListConversationsFor(ctx, other)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = f.svc.ListConversationsFor(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestChatService_ListBatchesLookupsPerVariant(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		ins := f.ids.add(models.VariantInstructor, "Grace", "grace@example.com")
		_, err := f.svc.GetOrCreate(ctx, f.student, "student", ins, "instructor")
		require.NoError(t, err)
	}

	f.ids.lookups = 0
	list, err := f.svc.ListConversationsFor(ctx, f.student)
	require.NoError(t, err)
	assert.Len(t, list, 5)
	assert.Equal(t, 2, f.ids.lookups)
}

func TestChatService_ResolvesIdentitiesLive(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	conv, err := f.svc.GetOrCreate(ctx, f.student, "student", f.instructor, "instructor")
	require.NoError(t, err)
	_, err = f.svc.PostMessage(ctx, conv.ID, f.instructor, "instructor", "welcome")
	require.NoError(t, err)

	f.ids.rename(models.VariantStudent, f.student, "Ann Lee-Park")
	f.ids.remove(models.VariantInstructor, f.instructor)

	got, err := f.svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee-Park", got.Participants[0].DisplayName)

	gone := got.Participants[1]
	assert.Equal(t, f.instructor, gone.ID)
	assert.Equal(t, models.VariantInstructor, gone.Variant)
	assert.Empty(t, gone.DisplayName)
	assert.Equal(t, f.instructor, got.Messages[0].Sender.ID)
	assert.Empty(t, got.Messages[0].Sender.DisplayName)
}

func TestChatService_GetConversationErrors(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetConversation(ctx, "xyz")
	requireStatus(t, err, 400)
	_, err = f.svc.GetConversation(ctx, primitive.NewObjectID().Hex())
	requireStatus(t, err, 404)
	_, err = f.svc.ListConversationsFor(ctx, "")
	requireStatus(t, err, 400)
}

func TestChatService_StoreTimeoutIsRetryable(t *testing.T) {
	ids := newMemIdentities()
	a := ids.add(models.VariantStudent, "A", "a@example.com")
	b := ids.add(models.VariantInstructor, "B", "b@example.com")
	convs := &blockingConversations{}
	svc := NewChatService(convs, ids, nil, nil, logger.Nop(), ChatConfig{Timeout: 20 * time.Millisecond})

	_, err := svc.GetConversation(context.Background(), primitive.NewObjectID().Hex())
	requireStatus(t, err, 504)
	assert.True(t, apperr.Retryable(err))

	_, err = svc.GetOrCreate(context.Background(), a, "student", b, "instructor")
	requireStatus(t, err, 504)
}

func TestChatService_StoreFailureIsInternal(t *testing.T) {
	f := newChatFixture(t)
	f.convs.err = errors.New("connection reset")

	_, err := f.svc.GetOrCreate(context.Background(), f.student, "student", f.instructor, "instructor")
	requireStatus(t, err, 500)
	assert.Equal(t, "internal server error", apperr.Public(err))
	assert.False(t, apperr.Retryable(err))
}

func TestChatService_PublishFailureDoesNotFailWrite(t *testing.T) {
	f := newChatFixture(t)
	f.pub.err = errors.New("broker down")
	ctx := context.Background()

	conv, err := f.svc.GetOrCreate(ctx, f.student, "student", f.instructor, "instructor")
	require.NoError(t, err)
	got, err := f.svc.PostMessage(ctx, conv.ID, f.student, "student", "still delivered")
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)
}

func TestChatService_UpdatedAtAdvancesWhenClockRepeats(t *testing.T) {
	f := newChatFixture(t)
	frozen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return frozen }
	ctx := context.Background()
	conv, err := f.svc.GetOrCreate(ctx, f.student, "student", f.instructor, "instructor")
	require.NoError(t, err)

	first, err := f.svc.PostMessage(ctx, conv.ID, f.student, "student", "one")
	require.NoError(t, err)
	second, err := f.svc.PostMessage(ctx, conv.ID, f.instructor, "instructor", "two")
	require.NoError(t, err)

	assert.True(t, second.UpdatedAt.After(first.UpdatedAt), "%v then %v", first.UpdatedAt, second.UpdatedAt)
}

func TestChatService_PostMessageSucceedsWhenWriteLandsAtDeadline(t *testing.T) {
	ids := newMemIdentities()
	a := ids.add(models.VariantStudent, "Ann Lee", "ann@example.com")
	b := ids.add(models.VariantInstructor, "Bob Ray", "bob@example.com")
	convs := lateAppendConversations{newMemConversations(newTickClock())}
	svc := NewChatService(convs, ids, nil, nil, logger.Nop(), ChatConfig{Timeout: 30 * time.Millisecond})
	ctx := context.Background()

	conv, err := svc.GetOrCreate(ctx, a, "student", b, "instructor")
	require.NoError(t, err)
	got, err := svc.PostMessage(ctx, conv.ID, a, "student", "made it")

	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Ann Lee", got.Messages[0].Sender.DisplayName)
}

func TestChatService_PostMessageReturnsBareViewWhenResolutionStalls(t *testing.T) {
	ids := &stallingIdentities{memIdentities: newMemIdentities()}
	a := ids.add(models.VariantStudent, "Ann Lee", "ann@example.com")
	b := ids.add(models.VariantInstructor, "Bob Ray", "bob@example.com")
	convs := newMemConversations(newTickClock())
	svc := NewChatService(convs, ids, nil, nil, logger.Nop(), ChatConfig{Timeout: 20 * time.Millisecond})
	ctx := context.Background()

	conv, err := svc.GetOrCreate(ctx, a, "student", b, "instructor")
	require.NoError(t, err)
	ids.stall = true
	got, err := svc.PostMessage(ctx, conv.ID, a, "student", "stored anyway")

	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, a, got.Messages[0].Sender.ID)
	assert.Empty(t, got.Messages[0].Sender.DisplayName)
	require.Len(t, got.Participants, 2)
	assert.Equal(t, b, got.Participants[1].ID)

	stored, err := convs.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 1)
}
