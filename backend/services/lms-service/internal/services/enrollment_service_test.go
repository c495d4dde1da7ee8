package services

import (
	"context"
	"testing"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/events"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/shared/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memEnrollments struct {
	repository.EnrollmentRepository
	byID map[primitive.ObjectID]*models.Enrollment
}

func (m *memEnrollments) Create(ctx context.Context, e *models.Enrollment) error {
	for _, existing := range m.byID {
		if existing.CourseName == e.CourseName && existing.StudentName == e.StudentName {
			return repository.ErrDuplicate
		}
	}
	e.ID = primitive.NewObjectID()
	cp := *e
	m.byID[e.ID] = &cp
	return nil
}

func (m *memEnrollments) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Enrollment, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEnrollments) Update(ctx context.Context, id primitive.ObjectID, p *models.EnrollmentPatch) (*models.Enrollment, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.EnrollmentStatus != nil {
		e.EnrollmentStatus = *p.EnrollmentStatus
	}
	if p.Grade != nil {
		e.Grade = *p.Grade
	}
	if p.Progress != nil {
		e.Progress = *p.Progress
	}
	if p.CompletionDate != nil {
		e.CompletionDate = p.CompletionDate
	}
	cp := *e
	return &cp, nil
}

func newEnrollmentFixture() (*EnrollmentService, *memEnrollments, *recordingPublisher) {
	repo := &memEnrollments{byID: map[primitive.ObjectID]*models.Enrollment{}}
	pub := &recordingPublisher{}
	svc := NewEnrollmentService(repo, pub, logger.Nop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo, pub
}

func TestEnrollmentService_CreateAppliesDefaults(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()

	e, err := svc.Create(context.Background(), CreateEnrollmentInput{CourseName: "Go 101", StudentName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentEnrolled, e.EnrollmentStatus)
	assert.Equal(t, models.DefaultStudentEmail, e.StudentEmail)
	assert.Equal(t, models.DefaultGrade, e.Grade)
	assert.Zero(t, e.Progress)
	assert.Nil(t, e.CompletionDate)

	_, err = svc.Create(context.Background(), CreateEnrollmentInput{CourseName: "Go 101", StudentName: "Ann"})
	requireStatus(t, err, 400)
}

func TestEnrollmentService_CreateValidation(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()
	over := 101.0

	tests := []struct {
		name string
		in   CreateEnrollmentInput
	}{
		{"missing course", CreateEnrollmentInput{StudentName: "Ann"}},
		{"bad status", CreateEnrollmentInput{CourseName: "Go", StudentName: "Ann", EnrollmentStatus: "PAUSED"}},
		{"progress above 100", CreateEnrollmentInput{CourseName: "Go", StudentName: "Ann", Progress: &over}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			requireStatus(t, err, 400)
		})
	}
}

func TestEnrollmentService_CompletedCreateStampsCompletion(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()

	e, err := svc.Create(context.Background(), CreateEnrollmentInput{
		CourseName: "Go", StudentName: "Ann", EnrollmentStatus: models.EnrollmentCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(100), e.Progress)
	require.NotNil(t, e.CompletionDate)
}

func TestEnrollmentService_UpdateStatusPublishesOnChange(t *testing.T) {
	svc, _, pub := newEnrollmentFixture()
	ctx := context.Background()
	e, err := svc.Create(ctx, CreateEnrollmentInput{CourseName: "Go", StudentName: "Ann"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, e.ID.Hex(), models.EnrollmentEnrolled)
	require.NoError(t, err)
	assert.Empty(t, pub.types())

	got, err := svc.UpdateStatus(ctx, e.ID.Hex(), models.EnrollmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, float64(100), got.Progress)
	require.NotNil(t, got.CompletionDate)
	assert.Equal(t, []string{events.TopicEnrollmentStatusChanged}, pub.types())
	assert.Equal(t, models.EnrollmentEnrolled, pub.events[0].Data.(map[string]any)["from"])

	_, err = svc.UpdateStatus(ctx, e.ID.Hex(), "FINISHED")
	requireStatus(t, err, 400)
	_, err = svc.UpdateStatus(ctx, primitive.NewObjectID().Hex(), models.EnrollmentDropped)
	requireStatus(t, err, 404)
}

func TestEnrollmentService_UpdateProgress(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()
	ctx := context.Background()
	e, err := svc.Create(ctx, CreateEnrollmentInput{CourseName: "Go", StudentName: "Ann"})
	require.NoError(t, err)

	half := 50.0
	got, err := svc.UpdateProgress(ctx, e.ID.Hex(), &half)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Progress)
	assert.Equal(t, models.EnrollmentEnrolled, got.EnrollmentStatus)

	full := 100.0
	got, err = svc.UpdateProgress(ctx, e.ID.Hex(), &full)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, got.EnrollmentStatus)
	require.NotNil(t, got.CompletionDate)

	neg := -1.0
	_, err = svc.UpdateProgress(ctx, e.ID.Hex(), &neg)
	requireStatus(t, err, 400)
	_, err = svc.UpdateProgress(ctx, e.ID.Hex(), nil)
	requireStatus(t, err, 400)
}

func TestEnrollmentService_UpdateGradeRequiresValue(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()
	ctx := context.Background()
	e, err := svc.Create(ctx, CreateEnrollmentInput{CourseName: "Go", StudentName: "Ann"})
	require.NoError(t, err)

	_, err = svc.UpdateGrade(ctx, e.ID.Hex(), " ")
	requireStatus(t, err, 400)
	got, err := svc.UpdateGrade(ctx, e.ID.Hex(), "A")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Grade)
}
