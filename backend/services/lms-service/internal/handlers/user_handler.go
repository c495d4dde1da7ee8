package handlers

import (
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in services.CreateUserInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	u, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully", "user": u})
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	auth, err := h.svc.Login(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Login successful", "token": auth.Token, "user": auth.User})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	u, err := h.svc.UpdateRole(c.UserContext(), c.Params("userId"), req.Role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User role updated successfully", "user": u})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("userId")); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "User deleted successfully")
}
