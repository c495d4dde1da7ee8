package handlers

import (
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type StudentHandler struct {
	svc *services.StudentService
}

func NewStudentHandler(svc *services.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

func (h *StudentHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterStudentInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	auth, err := h.svc.Register(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student registered successfully",
		"token":   auth.Token,
		"student": auth.Student,
	})
}

func (h *StudentHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	auth, err := h.svc.Login(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   auth.Token,
		"student": auth.Student,
	})
}

func (h *StudentHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *StudentHandler) Search(c *fiber.Ctx) error {
	out, err := h.svc.Search(c.UserContext(), repository.StudentSearch{
		Query:         c.Query("query"),
		Status:        c.Query("status"),
		AcademicLevel: c.Query("academicLevel"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *StudentHandler) GetByStudentNumber(c *fiber.Ctx) error {
	st, err := h.svc.GetByStudentNumber(c.UserContext(), c.Params("studentId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

func (h *StudentHandler) Get(c *fiber.Ctx) error {
	st, err := h.svc.Get(c.UserContext(), c.Params("studentId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

func (h *StudentHandler) Update(c *fiber.Ctx) error {
	var patch models.StudentPatch
	if err := bind(c, &patch); err != nil {
		return fail(c, err)
	}
	st, err := h.svc.Update(c.UserContext(), c.Params("studentId"), patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Student updated successfully", "student": st})
}

func (h *StudentHandler) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	st, err := h.svc.UpdateStatus(c.UserContext(), c.Params("studentId"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Student status updated successfully", "student": st})
}

func (h *StudentHandler) ChangePassword(c *fiber.Ctx) error {
	var in services.ChangePasswordInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	if err := h.svc.ChangePassword(c.UserContext(), c.Params("studentId"), in); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Password updated successfully")
}

func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("studentId")); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Student deleted successfully")
}
