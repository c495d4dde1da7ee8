package services

import (
	"context"
	"strings"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubTokens struct {
	claims jwt.MapClaims
}

func (s *stubTokens) Issue(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	s.claims = claims
	return "signed-token", nil
}

type memStudents struct {
	repository.StudentRepository
	byID     map[primitive.ObjectID]*models.Student
	searched []repository.StudentSearch
	updates  int
}

func newMemStudents(seed ...*models.Student) *memStudents {
	m := &memStudents{byID: map[primitive.ObjectID]*models.Student{}}
	for _, s := range seed {
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		m.byID[s.ID] = s
	}
	return m
}

func (m *memStudents) Create(ctx context.Context, s *models.Student) error {
	s.ID = primitive.NewObjectID()
	m.byID[s.ID] = s
	return nil
}

func (m *memStudents) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memStudents) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	for _, s := range m.byID {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStudents) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	for _, s := range m.byID {
		if s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStudents) Search(ctx context.Context, q repository.StudentSearch) ([]models.Student, error) {
	m.searched = append(m.searched, q)
	return []models.Student{}, nil
}

func (m *memStudents) Update(ctx context.Context, id primitive.ObjectID, patch *models.StudentPatch) (*models.Student, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m.updates++
	if patch.FirstName != nil {
		s.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		s.LastName = *patch.LastName
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.ProfileImage != nil {
		s.ProfileImage = *patch.ProfileImage
	}
	return s, nil
}

type memInstructors struct {
	repository.InstructorRepository
	byID map[primitive.ObjectID]*models.Instructor
}

func newMemInstructors(seed ...*models.Instructor) *memInstructors {
	m := &memInstructors{byID: map[primitive.ObjectID]*models.Instructor{}}
	for _, in := range seed {
		if in.ID.IsZero() {
			in.ID = primitive.NewObjectID()
		}
		m.byID[in.ID] = in
	}
	return m
}

func (m *memInstructors) Create(ctx context.Context, in *models.Instructor) error {
	in.ID = primitive.NewObjectID()
	m.byID[in.ID] = in
	return nil
}

func (m *memInstructors) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Instructor, error) {
	if in, ok := m.byID[id]; ok {
		return in, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memInstructors) GetByEmail(ctx context.Context, email string) (*models.Instructor, error) {
	for _, in := range m.byID {
		if in.Email == email {
			return in, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memInstructors) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Instructor, error) {
	out := []models.Instructor{}
	for _, id := range ids {
		if in, ok := m.byID[id]; ok {
			out = append(out, *in)
		}
	}
	return out, nil
}

type memUsers struct {
	repository.UserRepository
	byEmail map[string]*models.User
}

func (m *memUsers) Create(ctx context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

// memContacts fails Create with ErrDuplicate when createErr is set, like a
// unique index tripped by a concurrent submission.
type memContacts struct {
	repository.ContactRepository
	byEmail   map[string]*models.ContactMessage
	createErr error
}

func (m *memContacts) Create(ctx context.Context, c *models.ContactMessage) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = primitive.NewObjectID()
	m.byEmail[c.Email] = c
	return nil
}

func (m *memContacts) GetByEmail(ctx context.Context, email string) (*models.ContactMessage, error) {
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

type memCourses struct {
	repository.CourseRepository
	byID map[primitive.ObjectID]*models.Course
}

func (m *memCourses) Create(ctx context.Context, c *models.Course) error {
	c.ID = primitive.NewObjectID()
	m.byID[c.ID] = c
	return nil
}

func (m *memCourses) ByInstructor(ctx context.Context, id primitive.ObjectID) ([]models.Course, error) {
	out := []models.Course{}
	for _, c := range m.byID {
		if c.InstructorID == id {
			out = append(out, *c)
		}
	}
	return out, nil
}

type memProfiles struct {
	repository.ProfileRepository
	byStudent map[primitive.ObjectID]*models.Profile
	created   int
}

func (m *memProfiles) GetOrCreate(ctx context.Context, s *models.Student) (*models.Profile, error) {
	if p, ok := m.byStudent[s.ID]; ok {
		return p, nil
	}
	m.created++
	p := models.NewProfile(s, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	p.ID = primitive.NewObjectID()
	m.byStudent[s.ID] = p
	return p, nil
}

func (m *memProfiles) GetByStudentID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	if p, ok := m.byStudent[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memProfiles) Update(ctx context.Context, id primitive.ObjectID, patch *models.ProfilePatch) (*models.Profile, error) {
	p, ok := m.byStudent[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for dst, src := range map[*string]*string{
		&p.FirstName: patch.FirstName,
		&p.LastName:  patch.LastName,
		&p.Bio:       patch.Bio,
		&p.Phone:     patch.Phone,
		&p.Address:   patch.Address,
		&p.City:      patch.City,
		&p.Province:  patch.Province,
		&p.Zipcode:   patch.Zipcode,
		&p.Country:   patch.Country,
		&p.Gender:    patch.Gender,
		&p.ImageKey:  patch.ImageKey,
	} {
		if src != nil {
			*dst = *src
		}
	}
	if patch.ThumbnailKey != nil {
		p.ThumbnailKey = *patch.ThumbnailKey
	}
	return p, nil
}

// memObjects is an ObjectStore that presigns keys onto a fixed host.
type memObjects struct {
	objects map[string][]byte
	deleted []string
}

func (m *memObjects) Put(ctx context.Context, key, contentType string, data []byte) error {
	m.objects[key] = data
	return nil
}

func (m *memObjects) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memObjects) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://objects.test/" + strings.TrimPrefix(key, "/"), nil
}
