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

type CreateUserInput struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
}

type UserAuth struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService struct {
	repo   repository.UserRepository
	tokens TokenIssuer
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer, ttl time.Duration, log *zap.SugaredLogger) *UserService {
	return &UserService{repo: repo, tokens: tokens, ttl: ttl, log: log}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	email := utils.NormalizeEmail(in.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("User with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	u := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, duplicateErr(err, "User with this email already exists")
	}
	return u, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*UserAuth, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByEmail(ctx, utils.NormalizeEmail(in.Email))
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	if !utils.CheckPassword(u.PasswordHash, in.Password) {
		return nil, apperr.Forbidden("Invalid password")
	}
	token, err := s.tokens.Issue(jwt.MapClaims{
		"id":        u.ID.Hex(),
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
	}, s.ttl)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	return &UserAuth{Token: token, User: u}, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	out, err := s.repo.List(ctx)
	return out, storeErr(err, "")
}

type roleInput struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

func (s *UserService) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	oid, err := parseID(id, "userId")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(roleInput{Role: role}); err != nil {
		return nil, apperr.Validation("Invalid role. Must be user or admin", apperr.Fields(err)...)
	}
	u, err := s.repo.UpdateRole(ctx, oid, role)
	return u, storeErr(err, "User not found")
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "userId")
	if err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, oid), "User not found")
}
