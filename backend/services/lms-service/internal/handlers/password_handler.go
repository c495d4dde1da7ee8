package handlers

import (
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PasswordHandler struct {
	svc *services.PasswordService
}

func NewPasswordHandler(svc *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

func (h *PasswordHandler) SendOTP(c *fiber.Ctx) error {
	var in services.EmailInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	if err := h.svc.SendOTP(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "OTP sent to your email")
}

func (h *PasswordHandler) VerifyOTP(c *fiber.Ctx) error {
	var in services.VerifyOTPInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	if err := h.svc.VerifyOTP(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "OTP verified")
}

func (h *PasswordHandler) ResetPassword(c *fiber.Ctx) error {
	var in services.ResetPasswordInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	if err := h.svc.ResetPassword(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Password reset successfully")
}
