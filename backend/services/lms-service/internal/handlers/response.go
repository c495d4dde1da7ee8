package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/middleware"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	"github.com/gofiber/fiber/v2"
)

// fail writes the error envelope for err.
func fail(c *fiber.Ctx, err error) error {
	c.Locals(middleware.LocalError, err)
	body := fiber.Map{"error": apperr.Public(err)}
	if fields := apperr.Fields(err); len(fields) > 0 {
		body["details"] = fields
	}
	if apperr.Retryable(err) {
		body["retryable"] = true
	}
	return c.Status(apperr.HTTPStatus(err)).JSON(body)
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// formImage reads the multipart file field, refusing anything over max bytes.
func formImage(c *fiber.Ctx, field string, max int64) (services.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return services.Upload{}, apperr.Validation("No file uploaded")
	}
	if max > 0 && fh.Size > max {
		return services.Upload{}, apperr.Validation("File too large")
	}
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, apperr.Wrap(apperr.ErrInternal, "cannot read uploaded file", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return services.Upload{}, apperr.Wrap(apperr.ErrInternal, "cannot read uploaded file", err)
	}
	return services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// ErrorHandler renders errors that escape the handlers, such as unknown routes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = strings.ToLower(fe.Message)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func pageQuery(c *fiber.Ctx) repository.Page {
	return repository.Page{
		Page:  int64(c.QueryInt("page", 1)),
		Limit: int64(c.QueryInt("limit", 10)),
	}
}
