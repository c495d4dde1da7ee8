package services

import (
	"context"
	"strings"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/storage"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/utils"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CreateCourseInput struct {
	Title        string                `json:"title" validate:"required,notblank"`
	Description  string                `json:"description" validate:"required,notblank"`
	InstructorID string                `json:"instructorId" validate:"required"`
	Category     string                `json:"category"`
	Duration     float64               `json:"duration" validate:"min=0"`
	Price        float64               `json:"price" validate:"min=0"`
	Level        string                `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Status       string                `json:"status" validate:"omitempty,oneof=Draft Published Archived"`
	MaxStudents  int                   `json:"maxStudents" validate:"min=0"`
	Syllabus     []models.SyllabusItem `json:"syllabus"`
	Requirements []string              `json:"requirements"`
	Tags         []string              `json:"tags"`
	IsFeatured   bool                  `json:"isFeatured"`
	Rating       models.Rating         `json:"rating"`
}

type CourseList struct {
	Courses    []models.CourseView   `json:"courses"`
	Pagination repository.Pagination `json:"pagination"`
}

type InstructorCourses struct {
	Courses         []models.CourseView          `json:"courses"`
	InstructorStats models.InstructorCourseStats `json:"instructorStats"`
}

type CourseService struct {
	courses     repository.CourseRepository
	instructors repository.InstructorRepository
	store       storage.ObjectStore
	presignTTL  time.Duration
	maxUpload   int64
	log         *zap.SugaredLogger
}

func NewCourseService(courses repository.CourseRepository, instructors repository.InstructorRepository, store storage.ObjectStore, presignTTL time.Duration, maxUpload int64, log *zap.SugaredLogger) *CourseService {
	return &CourseService{
		courses:     courses,
		instructors: instructors,
		store:       store,
		presignTTL:  presignTTL,
		maxUpload:   maxUpload,
		log:         log,
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *CourseService) Create(ctx context.Context, in CreateCourseInput) (*models.CourseView, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	insID, err := parseID(in.InstructorID, "instructorId")
	if err != nil {
		return nil, err
	}
	if _, err := s.instructors.GetByID(ctx, insID); err != nil {
		return nil, storeErr(err, "Instructor not found")
	}
	maxStudents := in.MaxStudents
	if maxStudents == 0 {
		maxStudents = models.DefaultMaxStudents
	}
	c := &models.Course{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		InstructorID: insID,
		Category:     orDefault(in.Category, models.DefaultCategory),
		Duration:     in.Duration,
		Price:        in.Price,
		Level:        orDefault(in.Level, models.LevelBeginner),
		Status:       orDefault(in.Status, models.CourseDraft),
		MaxStudents:  maxStudents,
		Syllabus:     nonNil(in.Syllabus),
		Requirements: nonNil(in.Requirements),
		Tags:         nonNil(in.Tags),
		IsFeatured:   in.IsFeatured,
		Rating:       in.Rating,
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, duplicateErr(err, "Course with this title already exists")
	}
	s.log.Infow("course created", "id", c.ID.Hex(), "instructor_id", insID.Hex())
	return s.viewOne(ctx, c)
}

func (s *CourseService) List(ctx context.Context, f repository.CourseFilter) (*CourseList, error) {
	items, page, err := s.courses.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	views, err := s.views(ctx, items)
	if err != nil {
		return nil, err
	}
	return &CourseList{Courses: views, Pagination: page}, nil
}

func (s *CourseService) Featured(ctx context.Context) ([]models.CourseView, error) {
	items, err := s.courses.Featured(ctx)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return s.views(ctx, items)
}

func (s *CourseService) ByCategory(ctx context.Context, category string) ([]models.CourseView, error) {
	items, err := s.courses.ByCategory(ctx, category)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return s.views(ctx, items)
}

func (s *CourseService) ByInstructor(ctx context.Context, instructorID string) (*InstructorCourses, error) {
	oid, err := parseID(instructorID, "instructorId")
	if err != nil {
		return nil, err
	}
	items, err := s.courses.ByInstructor(ctx, oid)
	if err != nil {
		return nil, storeErr(err, "")
	}
	stats := models.InstructorCourseStats{Total: int64(len(items))}
	for _, c := range items {
		switch c.Status {
		case models.CoursePublished:
			stats.Published++
		case models.CourseDraft:
			stats.Draft++
		}
	}
	views, err := s.views(ctx, items)
	if err != nil {
		return nil, err
	}
	return &InstructorCourses{Courses: views, InstructorStats: stats}, nil
}

func (s *CourseService) get(ctx context.Context, id string) (*models.Course, error) {
	oid, err := parseID(id, "courseId")
	if err != nil {
		return nil, err
	}
	c, err := s.courses.GetByID(ctx, oid)
	return c, storeErr(err, "Course not found")
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseView, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.viewOne(ctx, c)
}

func (s *CourseService) Update(ctx context.Context, id string, patch models.CoursePatch) (*models.CourseView, error) {
	oid, err := parseID(id, "courseId")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(patch); err != nil {
		return nil, err
	}
	patch.ThumbnailKey = nil
	c, err := s.courses.Update(ctx, oid, &patch)
	if err != nil {
		return nil, duplicateOrStoreErr(err, "Course with this title already exists", "Course not found")
	}
	return s.viewOne(ctx, c)
}

type courseStatusInput struct {
	Status string `json:"status" validate:"required,oneof=Draft Published Archived"`
}

func (s *CourseService) UpdateStatus(ctx context.Context, id, status string) (*models.CourseView, error) {
	if err := utils.Validate(courseStatusInput{Status: status}); err != nil {
		return nil, apperr.Validation("Invalid status. Must be one of: Draft, Published, Archived", apperr.Fields(err)...)
	}
	return s.Update(ctx, id, models.CoursePatch{Status: &status})
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, c.ID); err != nil {
		return storeErr(err, "Course not found")
	}
	if c.ThumbnailKey != "" {
		s.removeObjects(ctx, c.ThumbnailKey, storage.ThumbnailKey(c.ThumbnailKey))
	}
	return nil
}

// UploadThumbnail stores the image and a resized copy, replacing any previous one.
func (s *CourseService) UploadThumbnail(ctx context.Context, id string, upload Upload) (*models.CourseView, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := storeImage(ctx, s.store, "courses/"+c.ID.Hex(), upload, s.maxUpload)
	if err != nil {
		return nil, err
	}
	updated, err := s.courses.Update(ctx, c.ID, &models.CoursePatch{ThumbnailKey: &key})
	if err != nil {
		s.removeObjects(ctx, key, storage.ThumbnailKey(key))
		return nil, storeErr(err, "Course not found")
	}
	if c.ThumbnailKey != "" {
		s.removeObjects(ctx, c.ThumbnailKey, storage.ThumbnailKey(c.ThumbnailKey))
	}
	return s.viewOne(ctx, updated)
}

func (s *CourseService) removeObjects(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			s.log.Warnw("object delete failed", "key", k, "error", err)
		}
	}
}

func (s *CourseService) viewOne(ctx context.Context, c *models.Course) (*models.CourseView, error) {
	views, err := s.views(ctx, []models.Course{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views embeds the instructor summary and a thumbnail URL in each course.
func (s *CourseService) views(ctx context.Context, courses []models.Course) ([]models.CourseView, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := make([]primitive.ObjectID, 0, len(courses))
	for _, c := range courses {
		if !seen[c.InstructorID] {
			seen[c.InstructorID] = true
			ids = append(ids, c.InstructorID)
		}
	}
	instructors, err := s.instructors.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "")
	}
	byID := make(map[primitive.ObjectID]*models.InstructorSummary, len(instructors))
	for _, in := range instructors {
		byID[in.ID] = &models.InstructorSummary{
			ID:        in.ID.Hex(),
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
		}
	}

	out := make([]models.CourseView, 0, len(courses))
	for _, c := range courses {
		v := models.CourseView{Course: c, Instructor: byID[c.InstructorID]}
		if c.ThumbnailKey != "" {
			if u, err := s.store.PresignGet(ctx, c.ThumbnailKey, s.presignTTL); err == nil {
				v.ThumbnailURL = u
			}
		}
		out = append(out, v)
	}
	return out, nil
}
