package handlers

import (
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	svc *services.ContactService
}

func NewContactHandler(svc *services.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in services.ContactInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	msg, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message sent successfully",
		"data":    msg,
	})
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *ContactHandler) GetByEmail(c *fiber.Ctx) error {
	msg, err := h.svc.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msg)
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Message deleted successfully")
}
