package services

import (
	"context"
	"errors"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/utils"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type RegisterStudentInput struct {
	FirstName     string     `json:"firstName" validate:"required,notblank"`
	LastName      string     `json:"lastName" validate:"required,notblank"`
	Email         string     `json:"email" validate:"required,email"`
	Password      string     `json:"password" validate:"required,min=6"`
	StudentID     string     `json:"studentId" validate:"required,notblank"`
	Phone         string     `json:"phone"`
	DateOfBirth   *time.Time `json:"dateOfBirth"`
	Address       string     `json:"address"`
	AcademicLevel string     `json:"academicLevel" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type StudentAuth struct {
	Token   string          `json:"token"`
	Student *models.Student `json:"student"`
}

type StudentService struct {
	repo   repository.StudentRepository
	tokens TokenIssuer
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewStudentService(repo repository.StudentRepository, tokens TokenIssuer, ttl time.Duration, log *zap.SugaredLogger) *StudentService {
	return &StudentService{repo: repo, tokens: tokens, ttl: ttl, log: log}
}

func (s *StudentService) Register(ctx context.Context, in RegisterStudentInput) (*StudentAuth, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	email := utils.NormalizeEmail(in.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("Student with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "")
	}
	if _, err := s.repo.GetByStudentID(ctx, in.StudentID); err == nil {
		return nil, apperr.Validation("Student ID already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	level := in.AcademicLevel
	if level == "" {
		level = models.LevelBeginner
	}
	st := &models.Student{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         email,
		PasswordHash:  hash,
		StudentID:     in.StudentID,
		Phone:         in.Phone,
		DateOfBirth:   in.DateOfBirth,
		Address:       in.Address,
		Status:        models.StudentActive,
		AcademicLevel: level,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, duplicateErr(err, "Student with this email or student ID already exists")
	}
	s.log.Infow("student registered", "id", st.ID.Hex(), "student_id", st.StudentID)
	return s.issue(st)
}

func (s *StudentService) Login(ctx context.Context, in LoginInput) (*StudentAuth, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	st, err := s.repo.GetByEmail(ctx, utils.NormalizeEmail(in.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Validation("Invalid credentials")
	}
	if err != nil {
		return nil, storeErr(err, "")
	}
	if !utils.CheckPassword(st.PasswordHash, in.Password) {
		return nil, apperr.Validation("Invalid credentials")
	}
	return s.issue(st)
}

func (s *StudentService) issue(st *models.Student) (*StudentAuth, error) {
	token, err := s.tokens.Issue(jwt.MapClaims{"id": st.ID.Hex(), "role": models.RoleStudent}, s.ttl)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	return &StudentAuth{Token: token, Student: st}, nil
}

func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	out, err := s.repo.List(ctx)
	return out, storeErr(err, "")
}

func (s *StudentService) Search(ctx context.Context, q repository.StudentSearch) ([]models.Student, error) {
	if q.Query == "" && q.Status == "" && q.AcademicLevel == "" {
		return nil, apperr.Validation("Please provide at least one search parameter")
	}
	out, err := s.repo.Search(ctx, q)
	return out, storeErr(err, "")
}

func (s *StudentService) GetByStudentNumber(ctx context.Context, studentID string) (*models.Student, error) {
	st, err := s.repo.GetByStudentID(ctx, studentID)
	return st, storeErr(err, "Student not found")
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	oid, err := parseID(id, "studentId")
	if err != nil {
		return nil, err
	}
	st, err := s.repo.GetByID(ctx, oid)
	return st, storeErr(err, "Student not found")
}

// Exists fails with an Unauthorized error when the student record is gone.
func (s *StudentService) Exists(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
			return apperr.Unauthorized("student not found, authorization denied")
		}
		return err
	}
	return nil
}

func (s *StudentService) Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	oid, err := parseID(id, "studentId")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(patch); err != nil {
		return nil, err
	}
	st, err := s.repo.Update(ctx, oid, &patch)
	return st, storeErr(err, "Student not found")
}

type statusInput struct {
	Status string `json:"status" validate:"required,oneof=Active Inactive Graduated Suspended"`
}

func (s *StudentService) UpdateStatus(ctx context.Context, id, status string) (*models.Student, error) {
	if err := utils.Validate(statusInput{Status: status}); err != nil {
		return nil, apperr.Validation("Invalid status. Must be one of: Active, Inactive, Graduated, Suspended", apperr.Fields(err)...)
	}
	return s.Update(ctx, id, models.StudentPatch{Status: &status})
}

func (s *StudentService) ChangePassword(ctx context.Context, id string, in ChangePasswordInput) error {
	if err := utils.Validate(in); err != nil {
		return err
	}
	st, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(st.PasswordHash, in.CurrentPassword) {
		return apperr.Forbidden("Current password is incorrect")
	}
	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	return storeErr(s.repo.SetPassword(ctx, st.ID, hash), "Student not found")
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "studentId")
	if err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, oid), "Student not found")
}
