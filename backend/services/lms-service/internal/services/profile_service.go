package services

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/storage"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	"go.uber.org/zap"
)

type ProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Gender    string `json:"gender"`
}

type ProfileService struct {
	students   repository.StudentRepository
	profiles   repository.ProfileRepository
	store      storage.ObjectStore
	presignTTL time.Duration
	maxUpload  int64
	log        *zap.SugaredLogger
}

func NewProfileService(students repository.StudentRepository, profiles repository.ProfileRepository, store storage.ObjectStore, presignTTL time.Duration, maxUpload int64, log *zap.SugaredLogger) *ProfileService {
	return &ProfileService{
		students:   students,
		profiles:   profiles,
		store:      store,
		presignTTL: presignTTL,
		maxUpload:  maxUpload,
		log:        log,
	}
}

func (s *ProfileService) student(ctx context.Context, studentID string) (*models.Student, error) {
	oid, err := parseID(studentID, "studentId")
	if err != nil {
		return nil, err
	}
	st, err := s.students.GetByID(ctx, oid)
	return st, storeErr(err, "Student not found")
}

// Get returns the caller's profile, creating it on first access.
func (s *ProfileService) Get(ctx context.Context, studentID string) (*models.ProfileView, error) {
	st, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.GetOrCreate(ctx, st)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return s.view(ctx, st, p), nil
}

func nonEmpty(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// Update changes the names on both the student and the profile; other
// details are only overwritten with non-empty values.
func (s *ProfileService) Update(ctx context.Context, studentID string, in ProfileInput) (*models.ProfileView, error) {
	st, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetOrCreate(ctx, st); err != nil {
		return nil, storeErr(err, "")
	}
	first, last := nonEmpty(in.FirstName), nonEmpty(in.LastName)
	if first != nil || last != nil {
		st, err = s.students.Update(ctx, st.ID, &models.StudentPatch{FirstName: first, LastName: last})
		if err != nil {
			return nil, storeErr(err, "Student not found")
		}
	}
	p, err := s.profiles.Update(ctx, st.ID, &models.ProfilePatch{
		FirstName: first,
		LastName:  last,
		Bio:       nonEmpty(in.Bio),
		Phone:     nonEmpty(in.Phone),
		Address:   nonEmpty(in.Address),
		City:      nonEmpty(in.City),
		Province:  nonEmpty(in.Province),
		Zipcode:   nonEmpty(in.Zipcode),
		Country:   nonEmpty(in.Country),
		Gender:    nonEmpty(in.Gender),
	})
	if err != nil {
		return nil, storeErr(err, "Profile not found")
	}
	return s.view(ctx, st, p), nil
}

// UploadImage replaces the profile image and its thumbnail.
func (s *ProfileService) UploadImage(ctx context.Context, studentID string, up Upload) (*models.ProfileView, error) {
	st, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	old, err := s.profiles.GetOrCreate(ctx, st)
	if err != nil {
		return nil, storeErr(err, "")
	}
	key, err := storeImage(ctx, s.store, "profiles/"+st.ID.Hex(), up, s.maxUpload)
	if err != nil {
		return nil, err
	}
	thumb := storage.ThumbnailKey(key)
	p, err := s.profiles.Update(ctx, st.ID, &models.ProfilePatch{ImageKey: &key, ThumbnailKey: &thumb})
	if err != nil {
		s.removeObjects(ctx, key, thumb)
		return nil, storeErr(err, "Profile not found")
	}
	if st, err = s.students.Update(ctx, st.ID, &models.StudentPatch{ProfileImage: &key}); err != nil {
		return nil, storeErr(err, "Student not found")
	}
	if old.ImageKey != "" {
		s.removeObjects(ctx, old.ImageKey, old.ThumbnailKey)
	}
	s.log.Infow("profile image updated", "student_id", st.ID.Hex(), "key", key)
	return s.view(ctx, st, p), nil
}

// ImageURL returns a short-lived link to one of the caller's own images.
func (s *ProfileService) ImageURL(ctx context.Context, studentID, filename string) (string, error) {
	oid, err := parseID(studentID, "studentId")
	if err != nil {
		return "", err
	}
	p, err := s.profiles.GetByStudentID(ctx, oid)
	if err != nil {
		return "", storeErr(err, "Image not found")
	}
	name := path.Base(filename)
	for _, k := range []string{p.ImageKey, p.ThumbnailKey} {
		if k != "" && path.Base(k) == name {
			u, err := s.store.PresignGet(ctx, k, s.presignTTL)
			if err != nil {
				return "", objectStoreErr(err)
			}
			return u, nil
		}
	}
	return "", apperr.NotFound("Image not found")
}

func (s *ProfileService) Delete(ctx context.Context, studentID string) error {
	oid, err := parseID(studentID, "studentId")
	if err != nil {
		return err
	}
	p, err := s.profiles.Delete(ctx, oid)
	if err != nil {
		return storeErr(err, "Profile not found")
	}
	if p.ImageKey != "" {
		s.removeObjects(ctx, p.ImageKey, p.ThumbnailKey)
		empty := ""
		if _, err := s.students.Update(ctx, oid, &models.StudentPatch{ProfileImage: &empty}); err != nil {
			s.log.Warnw("clear student image failed", "student_id", studentID, "error", err)
		}
	}
	return nil
}

func (s *ProfileService) removeObjects(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.store.Delete(ctx, k); err != nil {
			s.log.Warnw("object delete failed", "key", k, "error", err)
		}
	}
}

func (s *ProfileService) view(ctx context.Context, st *models.Student, p *models.Profile) *models.ProfileView {
	v := &models.ProfileView{
		StudentID:     st.ID.Hex(),
		StudentNumber: st.StudentID,
		FirstName:     st.FirstName,
		LastName:      st.LastName,
		Email:         st.Email,
		Status:        st.Status,
		AcademicLevel: st.AcademicLevel,
		DateOfBirth:   st.DateOfBirth,
		Bio:           p.Bio,
		Phone:         p.Phone,
		Address:       p.Address,
		City:          p.City,
		Province:      p.Province,
		Zipcode:       p.Zipcode,
		Country:       p.Country,
		Gender:        p.Gender,
		HasImage:      p.ImageKey != "",
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if v.HasImage {
		if u, err := s.store.PresignGet(ctx, p.ImageKey, s.presignTTL); err == nil {
			v.ImageURL = u
		}
		if u, err := s.store.PresignGet(ctx, p.ThumbnailKey, s.presignTTL); err == nil {
			v.ThumbnailURL = u
		}
	}
	return v
}
