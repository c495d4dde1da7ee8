package services

import (
	"context"
	"strings"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/events"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/utils"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	sharedutils "github.com/ayesh20/e-learn-backend/backend/shared/utils"
	"go.uber.org/zap"
)

const enrollmentStatusList = "ENROLLED, NOT ENROLLMENT, COMPLETED, DROPPED, SUSPENDED, IN PROGRESS"

type CreateEnrollmentInput struct {
	CourseName       string   `json:"courseName" validate:"required,notblank"`
	StudentName      string   `json:"studentName" validate:"required,notblank"`
	StudentEmail     string   `json:"studentEmail" validate:"omitempty,email"`
	EnrollmentStatus string   `json:"enrollmentStatus"`
	Grade            string   `json:"grade"`
	Progress         *float64 `json:"progress" validate:"omitempty,min=0,max=100"`
}

type EnrollmentList struct {
	Enrollments []models.Enrollment   `json:"enrollments"`
	Pagination  repository.Pagination `json:"pagination"`
}

type EnrollmentStatsResult struct {
	Statistics         models.EnrollmentStats `json:"statistics"`
	StatusDistribution []models.StatusCount   `json:"statusDistribution"`
	RecentEnrollments  []models.Enrollment    `json:"recentEnrollments"`
}

type EnrollmentService struct {
	repo   repository.EnrollmentRepository
	events events.Publisher
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewEnrollmentService(repo repository.EnrollmentRepository, pub events.Publisher, log *zap.SugaredLogger) *EnrollmentService {
	if pub == nil {
		pub = events.Noop()
	}
	return &EnrollmentService{repo: repo, events: pub, log: log, now: sharedutils.NowUTC}
}

func invalidEnrollmentStatus() error {
	return apperr.Validation("Invalid enrollment status. Must be one of: " + enrollmentStatusList)
}

func (s *EnrollmentService) Create(ctx context.Context, in CreateEnrollmentInput) (*models.Enrollment, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	status := orDefault(in.EnrollmentStatus, models.EnrollmentEnrolled)
	if !models.IsEnrollmentStatus(status) {
		return nil, invalidEnrollmentStatus()
	}
	e := &models.Enrollment{
		CourseName:       strings.TrimSpace(in.CourseName),
		StudentName:      strings.TrimSpace(in.StudentName),
		StudentEmail:     orDefault(utils.NormalizeEmail(in.StudentEmail), models.DefaultStudentEmail),
		EnrollmentStatus: status,
		Grade:            orDefault(in.Grade, models.DefaultGrade),
	}
	if in.Progress != nil {
		e.Progress = *in.Progress
	}
	now := s.now()
	e.EnrollmentDate = now
	if e.EnrollmentStatus == models.EnrollmentCompleted || e.Progress == 100 {
		e.EnrollmentStatus = models.EnrollmentCompleted
		e.Progress = 100
		e.CompletionDate = &now
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, duplicateErr(err, "Student is already enrolled in this course")
	}
	return e, nil
}

func (s *EnrollmentService) List(ctx context.Context, f repository.EnrollmentFilter) (*EnrollmentList, error) {
	items, page, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &EnrollmentList{Enrollments: items, Pagination: page}, nil
}

func (s *EnrollmentService) Stats(ctx context.Context) (*EnrollmentStatsResult, error) {
	var st models.EnrollmentStats
	counts := []struct {
		status string
		dst    *int64
	}{
		{"", &st.Total},
		{models.EnrollmentEnrolled, &st.Active},
		{models.EnrollmentCompleted, &st.Completed},
		{models.EnrollmentDropped, &st.Dropped},
	}
	for _, c := range counts {
		n, err := s.repo.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, storeErr(err, "")
		}
		*c.dst = n
	}
	dist, err := s.repo.StatusDistribution(ctx)
	if err != nil {
		return nil, storeErr(err, "")
	}
	recent, err := s.repo.Recent(ctx, 5)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &EnrollmentStatsResult{Statistics: st, StatusDistribution: dist, RecentEnrollments: recent}, nil
}

func (s *EnrollmentService) Search(ctx context.Context, query, status string) ([]models.Enrollment, error) {
	if query == "" && status == "" {
		return nil, apperr.Validation("Please provide at least one search parameter")
	}
	out, err := s.repo.Search(ctx, query, status)
	return out, storeErr(err, "")
}

func (s *EnrollmentService) ByStudent(ctx context.Context, name string) ([]models.Enrollment, error) {
	out, err := s.repo.ByStudentName(ctx, name)
	return out, storeErr(err, "")
}

func (s *EnrollmentService) ByCourse(ctx context.Context, name string) ([]models.Enrollment, error) {
	out, err := s.repo.ByCourseName(ctx, name)
	return out, storeErr(err, "")
}

func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	oid, err := parseID(id, "enrollmentId")
	if err != nil {
		return nil, err
	}
	e, err := s.repo.GetByID(ctx, oid)
	return e, storeErr(err, "Enrollment not found")
}

func (s *EnrollmentService) Update(ctx context.Context, id string, patch models.EnrollmentPatch) (*models.Enrollment, error) {
	oid, err := parseID(id, "enrollmentId")
	if err != nil {
		return nil, err
	}
	if patch.EnrollmentStatus != nil && !models.IsEnrollmentStatus(*patch.EnrollmentStatus) {
		return nil, invalidEnrollmentStatus()
	}
	if err := utils.Validate(patch); err != nil {
		return nil, err
	}
	e, err := s.repo.Update(ctx, oid, &patch)
	if err != nil {
		return nil, duplicateOrStoreErr(err, "Student is already enrolled in this course", "Enrollment not found")
	}
	return e, nil
}

// UpdateStatus moves the enrollment to status. COMPLETED also stamps the
// completion date and sets progress to 100.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id, status string) (*models.Enrollment, error) {
	if !models.IsEnrollmentStatus(status) {
		return nil, invalidEnrollmentStatus()
	}
	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch := models.EnrollmentPatch{EnrollmentStatus: &status}
	if status == models.EnrollmentCompleted {
		now := s.now()
		full := 100.0
		patch.CompletionDate = &now
		patch.Progress = &full
	}
	e, err := s.repo.Update(ctx, before.ID, &patch)
	if err != nil {
		return nil, storeErr(err, "Enrollment not found")
	}
	if before.EnrollmentStatus != e.EnrollmentStatus {
		s.publishStatusChange(ctx, before.EnrollmentStatus, e)
	}
	return e, nil
}

func (s *EnrollmentService) UpdateGrade(ctx context.Context, id, grade string) (*models.Enrollment, error) {
	if strings.TrimSpace(grade) == "" {
		return nil, apperr.Validation("Grade is required")
	}
	return s.Update(ctx, id, models.EnrollmentPatch{Grade: &grade})
}

// UpdateProgress records progress; reaching 100 completes the enrollment.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, id string, progress *float64) (*models.Enrollment, error) {
	if progress == nil || *progress < 0 || *progress > 100 {
		return nil, apperr.Validation("Progress must be between 0 and 100")
	}
	if *progress == 100 {
		return s.UpdateStatus(ctx, id, models.EnrollmentCompleted)
	}
	return s.Update(ctx, id, models.EnrollmentPatch{Progress: progress})
}

func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "enrollmentId")
	if err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, oid), "Enrollment not found")
}

func (s *EnrollmentService) publishStatusChange(ctx context.Context, from string, e *models.Enrollment) {
	ev := events.Event{
		Type:       events.TopicEnrollmentStatusChanged,
		Key:        e.ID.Hex(),
		OccurredAt: s.now(),
		Data: map[string]any{
			"enrollmentId": e.ID.Hex(),
			"courseName":   e.CourseName,
			"studentName":  e.StudentName,
			"from":         from,
			"to":           e.EnrollmentStatus,
		},
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warnw("enrollment event not published", "enrollment_id", e.ID.Hex(), "error", err)
	}
}
