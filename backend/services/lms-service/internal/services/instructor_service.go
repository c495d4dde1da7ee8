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

type CreateInstructorInput struct {
	FirstName     string             `json:"firstName" validate:"required,notblank"`
	LastName      string             `json:"lastName" validate:"required,notblank"`
	Email         string             `json:"email" validate:"required,email"`
	Password      string             `json:"password" validate:"required,min=6"`
	Phone         string             `json:"phone"`
	Bio           string             `json:"bio"`
	Expertise     []string           `json:"expertise"`
	Experience    int                `json:"experience" validate:"min=0"`
	Qualification string             `json:"qualification"`
	SocialLinks   models.SocialLinks `json:"socialLinks"`
}

type InstructorAuth struct {
	Token      string             `json:"token"`
	Instructor *models.Instructor `json:"instructor"`
}

type InstructorList struct {
	Instructors []models.Instructor   `json:"instructors"`
	Pagination  repository.Pagination `json:"pagination"`
}

type InstructorService struct {
	repo   repository.InstructorRepository
	tokens TokenIssuer
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewInstructorService(repo repository.InstructorRepository, tokens TokenIssuer, ttl time.Duration, log *zap.SugaredLogger) *InstructorService {
	return &InstructorService{repo: repo, tokens: tokens, ttl: ttl, log: log}
}

func (s *InstructorService) Create(ctx context.Context, in CreateInstructorInput) (*models.Instructor, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	email := utils.NormalizeEmail(in.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("Instructor with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	phone := in.Phone
	if phone == "" {
		phone = models.NotGiven
	}
	expertise := in.Expertise
	if expertise == nil {
		expertise = []string{}
	}
	ins := &models.Instructor{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         email,
		PasswordHash:  hash,
		Phone:         phone,
		Role:          models.RoleInstructor,
		Bio:           in.Bio,
		Expertise:     expertise,
		Experience:    in.Experience,
		Qualification: in.Qualification,
		SocialLinks:   in.SocialLinks,
	}
	if err := s.repo.Create(ctx, ins); err != nil {
		return nil, duplicateErr(err, "Instructor with this email already exists")
	}
	s.log.Infow("instructor created", "id", ins.ID.Hex())
	return ins, nil
}

func (s *InstructorService) Login(ctx context.Context, in LoginInput) (*InstructorAuth, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	ins, err := s.repo.GetByEmail(ctx, utils.NormalizeEmail(in.Email))
	if err != nil {
		return nil, storeErr(err, "Instructor not found")
	}
	if !utils.CheckPassword(ins.PasswordHash, in.Password) {
		return nil, apperr.Forbidden("Invalid password")
	}
	token, err := s.tokens.Issue(jwt.MapClaims{
		"id":        ins.ID.Hex(),
		"email":     ins.Email,
		"firstName": ins.FirstName,
		"lastName":  ins.LastName,
		"role":      ins.Role,
		"expertise": ins.Expertise,
	}, s.ttl)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	return &InstructorAuth{Token: token, Instructor: ins}, nil
}

func (s *InstructorService) List(ctx context.Context, f repository.InstructorFilter) (*InstructorList, error) {
	items, page, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &InstructorList{Instructors: items, Pagination: page}, nil
}

func (s *InstructorService) Search(ctx context.Context, query, expertise string) ([]models.Instructor, error) {
	if query == "" && expertise == "" {
		return nil, apperr.Validation("Please provide at least one search parameter")
	}
	out, err := s.repo.Search(ctx, query, expertise)
	return out, storeErr(err, "")
}

func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	oid, err := parseID(id, "instructorId")
	if err != nil {
		return nil, err
	}
	ins, err := s.repo.GetByID(ctx, oid)
	return ins, storeErr(err, "Instructor not found")
}

func (s *InstructorService) Update(ctx context.Context, id string, patch models.InstructorPatch) (*models.Instructor, error) {
	oid, err := parseID(id, "instructorId")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(patch); err != nil {
		return nil, err
	}
	ins, err := s.repo.Update(ctx, oid, &patch)
	return ins, storeErr(err, "Instructor not found")
}

func (s *InstructorService) ChangePassword(ctx context.Context, id string, in ChangePasswordInput) error {
	if err := utils.Validate(in); err != nil {
		return err
	}
	ins, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(ins.PasswordHash, in.CurrentPassword) {
		return apperr.Forbidden("Current password is incorrect")
	}
	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	return storeErr(s.repo.SetPassword(ctx, ins.ID, hash), "Instructor not found")
}

func (s *InstructorService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "instructorId")
	if err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, oid), "Instructor not found")
}
