package services

import (
	"context"
	"errors"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// storeErr translates repository and driver errors into apperr kinds.
// notFound is the message used for repository.ErrNotFound.
func storeErr(err error, notFound string) error {
	var ae *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return err
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return apperr.Timeout(err)
	case errors.Is(err, repository.ErrConversationNotFound):
		return apperr.NotFound("conversation not found")
	case errors.Is(err, repository.ErrNotParticipant):
		return apperr.Validation("sender is not a participant of this conversation")
	case errors.Is(err, repository.ErrDuplicatePair):
		return apperr.Wrap(apperr.ErrConflict, "conversation already exists", err)
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrInvalidID):
		return apperr.Validation("invalid id")
	default:
		return apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
}

// duplicateErr reports a unique-index violation as a 400 with msg.
func duplicateErr(err error, msg string) error {
	return duplicateOrStoreErr(err, msg, "")
}

func duplicateOrStoreErr(err error, duplicate, notFound string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Validation(duplicate)
	}
	return storeErr(err, notFound)
}

func parseID(hex, field string) (primitive.ObjectID, error) {
	oid, err := repository.ParseID(hex)
	if err != nil {
		msg := "invalid " + field
		return oid, apperr.Validation(msg, apperr.FieldError{Field: field, Tag: "objectid", Value: hex, Message: msg})
	}
	return oid, nil
}
