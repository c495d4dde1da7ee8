package handlers

import (
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	sharedmw "github.com/ayesh20/e-learn-backend/backend/shared/middleware"
	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves the authenticated student's own profile.
type ProfileHandler struct {
	svc       *services.ProfileService
	maxUpload int64
}

func NewProfileHandler(svc *services.ProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{svc: svc, maxUpload: maxUpload}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), sharedmw.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in services.ProfileInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	p, err := h.svc.Update(c.UserContext(), sharedmw.UserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "profile": p})
}

func (h *ProfileHandler) UploadImage(c *fiber.Ctx) error {
	up, err := formImage(c, "profileImage", h.maxUpload)
	if err != nil {
		return fail(c, err)
	}
	p, err := h.svc.UploadImage(c.UserContext(), sharedmw.UserID(c), up)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile image uploaded successfully", "profile": p})
}

func (h *ProfileHandler) Image(c *fiber.Ctx) error {
	u, err := h.svc.ImageURL(c.UserContext(), sharedmw.UserID(c), c.Params("filename"))
	if err != nil {
		return fail(c, err)
	}
	return c.Redirect(u, fiber.StatusFound)
}

func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), sharedmw.UserID(c)); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Profile deleted successfully")
}
