package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/utils"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
)

const duplicateContact = "A message from this email already exists"

type ContactInput struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Comment string `json:"comment" validate:"max=1000"`
}

type ContactService struct {
	repo repository.ContactRepository
}

func NewContactService(repo repository.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	email := utils.NormalizeEmail(in.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Validation(duplicateContact)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "")
	}
	m := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   email,
		Comment: orDefault(strings.TrimSpace(in.Comment), models.NotGiven),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, duplicateErr(err, duplicateContact)
	}
	return m, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	out, err := s.repo.List(ctx)
	return out, storeErr(err, "")
}

func (s *ContactService) GetByEmail(ctx context.Context, email string) (*models.ContactMessage, error) {
	m, err := s.repo.GetByEmail(ctx, utils.NormalizeEmail(email))
	return m, storeErr(err, "No message found for this email")
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "id")
	if err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, oid), "Message not found")
}
