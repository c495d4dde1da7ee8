package handlers

import (
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type EnrollmentHandler struct {
	svc *services.EnrollmentService
}

func NewEnrollmentHandler(svc *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{svc: svc}
}

func (h *EnrollmentHandler) Create(c *fiber.Ctx) error {
	var in services.CreateEnrollmentInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	e, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Enrollment created successfully", "enrollment": e})
}

func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), repository.EnrollmentFilter{
		Status:      c.Query("enrollmentStatus"),
		CourseName:  c.Query("courseName"),
		StudentName: c.Query("studentName"),
		Page:        pageQuery(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *EnrollmentHandler) Stats(c *fiber.Ctx) error {
	out, err := h.svc.Stats(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *EnrollmentHandler) Search(c *fiber.Ctx) error {
	out, err := h.svc.Search(c.UserContext(), c.Query("query"), c.Query("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *EnrollmentHandler) ByStudent(c *fiber.Ctx) error {
	out, err := h.svc.ByStudent(c.UserContext(), c.Params("studentName"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *EnrollmentHandler) ByCourse(c *fiber.Ctx) error {
	out, err := h.svc.ByCourse(c.UserContext(), c.Params("courseName"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *EnrollmentHandler) Get(c *fiber.Ctx) error {
	e, err := h.svc.Get(c.UserContext(), c.Params("enrollmentId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(e)
}

func (h *EnrollmentHandler) Update(c *fiber.Ctx) error {
	var patch models.EnrollmentPatch
	if err := bind(c, &patch); err != nil {
		return fail(c, err)
	}
	e, err := h.svc.Update(c.UserContext(), c.Params("enrollmentId"), patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Enrollment updated successfully", "enrollment": e})
}

func (h *EnrollmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		EnrollmentStatus string `json:"enrollmentStatus"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	e, err := h.svc.UpdateStatus(c.UserContext(), c.Params("enrollmentId"), req.EnrollmentStatus)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Enrollment status updated successfully", "enrollment": e})
}

func (h *EnrollmentHandler) UpdateGrade(c *fiber.Ctx) error {
	var req struct {
		Grade string `json:"grade"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	e, err := h.svc.UpdateGrade(c.UserContext(), c.Params("enrollmentId"), req.Grade)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Grade updated successfully", "enrollment": e})
}

func (h *EnrollmentHandler) UpdateProgress(c *fiber.Ctx) error {
	var req struct {
		Progress *float64 `json:"progress"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	e, err := h.svc.UpdateProgress(c.UserContext(), c.Params("enrollmentId"), req.Progress)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Progress updated successfully", "enrollment": e})
}

func (h *EnrollmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("enrollmentId")); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Enrollment deleted successfully")
}
