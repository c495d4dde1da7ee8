package handlers

import (
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	"github.com/gofiber/fiber/v2"
)

type InstructorHandler struct {
	svc *services.InstructorService
}

func NewInstructorHandler(svc *services.InstructorService) *InstructorHandler {
	return &InstructorHandler{svc: svc}
}

func (h *InstructorHandler) Create(c *fiber.Ctx) error {
	var in services.CreateInstructorInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	ins, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Instructor created successfully",
		"instructor": ins,
	})
}

func (h *InstructorHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	auth, err := h.svc.Login(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Login successful",
		"token":      auth.Token,
		"instructor": auth.Instructor,
	})
}

func (h *InstructorHandler) List(c *fiber.Ctx) error {
	f := repository.InstructorFilter{
		Expertise: c.Query("expertise"),
		Page:      pageQuery(c),
	}
	if raw := c.Query("experience"); raw != "" {
		n := c.QueryInt("experience", -1)
		if n < 0 {
			return fail(c, apperr.Validation("experience must be a non-negative number"))
		}
		f.MinExperience = &n
	}
	out, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *InstructorHandler) Search(c *fiber.Ctx) error {
	out, err := h.svc.Search(c.UserContext(), c.Query("query"), c.Query("expertise"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *InstructorHandler) Get(c *fiber.Ctx) error {
	ins, err := h.svc.Get(c.UserContext(), c.Params("instructorId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ins)
}

func (h *InstructorHandler) Update(c *fiber.Ctx) error {
	var patch models.InstructorPatch
	if err := bind(c, &patch); err != nil {
		return fail(c, err)
	}
	ins, err := h.svc.Update(c.UserContext(), c.Params("instructorId"), patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Instructor updated successfully", "instructor": ins})
}

func (h *InstructorHandler) ChangePassword(c *fiber.Ctx) error {
	var in services.ChangePasswordInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	if err := h.svc.ChangePassword(c.UserContext(), c.Params("instructorId"), in); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Password updated successfully")
}

func (h *InstructorHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("instructorId")); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Instructor deleted successfully")
}
