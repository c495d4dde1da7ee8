package handlers

import (
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CourseHandler struct {
	svc       *services.CourseService
	maxUpload int64
}

func NewCourseHandler(svc *services.CourseService, maxUpload int64) *CourseHandler {
	return &CourseHandler{svc: svc, maxUpload: maxUpload}
}

func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var in services.CreateCourseInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	course, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Course created successfully", "course": course})
}

func (h *CourseHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), repository.CourseFilter{
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     pageQuery(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *CourseHandler) Featured(c *fiber.Ctx) error {
	out, err := h.svc.Featured(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *CourseHandler) ByCategory(c *fiber.Ctx) error {
	out, err := h.svc.ByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *CourseHandler) ByInstructor(c *fiber.Ctx) error {
	out, err := h.svc.ByInstructor(c.UserContext(), c.Params("instructorId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *CourseHandler) Get(c *fiber.Ctx) error {
	course, err := h.svc.Get(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(course)
}

func (h *CourseHandler) Update(c *fiber.Ctx) error {
	var patch models.CoursePatch
	if err := bind(c, &patch); err != nil {
		return fail(c, err)
	}
	course, err := h.svc.Update(c.UserContext(), c.Params("courseId"), patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Course updated successfully", "course": course})
}

func (h *CourseHandler) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	course, err := h.svc.UpdateStatus(c.UserContext(), c.Params("courseId"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Course status updated successfully", "course": course})
}

func (h *CourseHandler) UploadThumbnail(c *fiber.Ctx) error {
	up, err := formImage(c, "thumbnail", h.maxUpload)
	if err != nil {
		return fail(c, err)
	}
	course, err := h.svc.UploadThumbnail(c.UserContext(), c.Params("courseId"), up)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Thumbnail uploaded successfully", "course": course})
}

func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("courseId")); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Course deleted successfully")
}
