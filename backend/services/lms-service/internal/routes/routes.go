package routes

import (
	"context"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/handlers"
	"github.com/ayesh20/e-learn-backend/backend/shared/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Chat        *handlers.ChatHandler
	Students    *handlers.StudentHandler
	Instructors *handlers.InstructorHandler
	Users       *handlers.UserHandler
	Courses     *handlers.CourseHandler
	Enrollments *handlers.EnrollmentHandler
	Contact     *handlers.ContactHandler
	Profile     *handlers.ProfileHandler
	Password    *handlers.PasswordHandler
	Health      *handlers.HealthHandler
}

// Deps are the cross-cutting pieces the route table needs besides handlers.
type Deps struct {
	Tokens middleware.TokenVerifier
	// StudentExists rejects profile requests whose student was deleted after the token was issued.
	StudentExists func(ctx context.Context, id string) error
	// AuthLimit throttles login and OTP requests; nil disables it.
	AuthLimit fiber.Handler
}

func Setup(app *fiber.App, h Handlers, d Deps) {
	limit := d.AuthLimit
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group("/api/v1", middleware.OptionalAuth(d.Tokens))
	api.Get("/health", h.Health.Health)

	chat := api.Group("/chat")
	chat.Post("/get-or-create", h.Chat.GetOrCreate)
	chat.Post("/send", h.Chat.Send)
	chat.Get("/chat/:chatId", h.Chat.Get)
	chat.Get("/:identityId", h.Chat.List)

	students := api.Group("/students")
	students.Post("/", h.Students.Register)
	students.Post("/login", limit, h.Students.Login)
	students.Get("/", h.Students.List)
	students.Get("/search", h.Students.Search)
	students.Get("/student-id/:studentId", h.Students.GetByStudentNumber)
	students.Get("/:studentId", h.Students.Get)
	students.Put("/:studentId", h.Students.Update)
	students.Patch("/:studentId/status", h.Students.UpdateStatus)
	students.Patch("/:studentId/password", h.Students.ChangePassword)
	students.Delete("/:studentId", h.Students.Delete)

	instructors := api.Group("/instructors")
	instructors.Post("/", h.Instructors.Create)
	instructors.Post("/login", limit, h.Instructors.Login)
	instructors.Get("/", h.Instructors.List)
	instructors.Get("/search", h.Instructors.Search)
	instructors.Get("/:instructorId", h.Instructors.Get)
	instructors.Put("/:instructorId", h.Instructors.Update)
	instructors.Patch("/:instructorId/password", h.Instructors.ChangePassword)
	instructors.Delete("/:instructorId", h.Instructors.Delete)

	users := api.Group("/users")
	users.Post("/", h.Users.Create)
	users.Post("/login", limit, h.Users.Login)
	users.Get("/", h.Users.List)
	users.Put("/:userId", h.Users.UpdateRole)
	users.Delete("/:userId", h.Users.Delete)

	courses := api.Group("/courses")
	courses.Post("/", h.Courses.Create)
	courses.Get("/", h.Courses.List)
	courses.Get("/featured", h.Courses.Featured)
	courses.Get("/category/:category", h.Courses.ByCategory)
	courses.Get("/instructor/:instructorId", h.Courses.ByInstructor)
	courses.Get("/:courseId", h.Courses.Get)
	courses.Put("/:courseId", h.Courses.Update)
	courses.Patch("/:courseId/status", h.Courses.UpdateStatus)
	courses.Post("/:courseId/thumbnail", h.Courses.UploadThumbnail)
	courses.Delete("/:courseId", h.Courses.Delete)

	enrollments := api.Group("/enrollments")
	enrollments.Post("/", h.Enrollments.Create)
	enrollments.Get("/", h.Enrollments.List)
	enrollments.Get("/stats", h.Enrollments.Stats)
	enrollments.Get("/search", h.Enrollments.Search)
	enrollments.Get("/student/:studentName", h.Enrollments.ByStudent)
	enrollments.Get("/course/:courseName", h.Enrollments.ByCourse)
	enrollments.Get("/:enrollmentId", h.Enrollments.Get)
	enrollments.Put("/:enrollmentId", h.Enrollments.Update)
	enrollments.Patch("/:enrollmentId/status", h.Enrollments.UpdateStatus)
	enrollments.Patch("/:enrollmentId/grade", h.Enrollments.UpdateGrade)
	enrollments.Patch("/:enrollmentId/progress", h.Enrollments.UpdateProgress)
	enrollments.Delete("/:enrollmentId", h.Enrollments.Delete)

	contact := api.Group("/contact")
	contact.Post("/", h.Contact.Create)
	contact.Get("/", h.Contact.List)
	contact.Get("/:email", h.Contact.GetByEmail)
	contact.Delete("/:id", h.Contact.Delete)

	var checks []middleware.SubjectCheck
	if d.StudentExists != nil {
		checks = append(checks, func(ctx context.Context, userID, _ string) error {
			return d.StudentExists(ctx, userID)
		})
	}
	profile := api.Group("/profile", middleware.JWTAuth(d.Tokens, checks...))
	profile.Get("/", h.Profile.Get)
	profile.Put("/", h.Profile.Update)
	profile.Post("/image", h.Profile.UploadImage)
	profile.Get("/image/:filename", h.Profile.Image)
	profile.Delete("/", h.Profile.Delete)

	password := api.Group("/password")
	password.Post("/send-otp", limit, h.Password.SendOTP)
	password.Post("/verify-otp", h.Password.VerifyOTP)
	password.Post("/reset-password", h.Password.ResetPassword)
}
