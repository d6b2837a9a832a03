package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/school-portal/admin-api/internal/middleware"
	"github.com/school-portal/admin-api/internal/models"
	"github.com/school-portal/admin-api/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth            *AuthHandler
	Announcements   *AnnouncementHandler
	Courses         *CourseHandler
	Programs        *ProgramHandler
	Users           *UserHandler
	TeacherSubjects *TeacherSubjectHandler
	Dashboard       *DashboardHandler
	Exports         *ExportHandler
	Files           *FileHandler
}

// RegisterRoutes mounts the API surface on the router. File serving stays
// outside the API prefix so signed URLs and blob URLs are short.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authService *service.AuthService) {
	r.GET("/files/:token", h.Files.Signed)
	r.GET("/blobs/:id", h.Files.Blob)

	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authService), middleware.RequireManagement())

	protected.GET("/auth/me", h.Auth.Me)

	protected.GET("/dashboard/summary", h.Dashboard.Summary)

	protected.GET("/announcements", h.Announcements.List)
	protected.POST("/announcements", h.Announcements.Create)
	protected.GET("/announcements/:id", h.Announcements.Get)
	protected.PUT("/announcements/:id", h.Announcements.Update)
	protected.PATCH("/announcements/:id/active", h.Announcements.Toggle)
	protected.POST("/announcements/:id/image", h.Announcements.UploadImage)
	protected.DELETE("/announcements/:id", h.Announcements.Delete)

	protected.GET("/courses", h.Courses.List)
	protected.POST("/courses", h.Courses.Create)
	protected.GET("/courses/:id", h.Courses.Get)
	protected.PUT("/courses/:id", h.Courses.Update)
	protected.POST("/courses/:id/image", h.Courses.UploadImage)
	protected.DELETE("/courses/:id", h.Courses.Delete)
	protected.GET("/courses/:id/sections", h.Courses.ListSections)
	protected.POST("/courses/:id/sections", h.Courses.CreateSection)
	protected.DELETE("/sections/:sectionId", h.Courses.DeleteSection)

	protected.GET("/programs", h.Programs.List)
	protected.POST("/programs", h.Programs.Create)
	protected.GET("/programs/:id", h.Programs.Get)
	protected.PUT("/programs/:id", h.Programs.Update)
	protected.PATCH("/programs/:id/active", h.Programs.Toggle)
	protected.DELETE("/programs/:id", h.Programs.Delete)

	protected.GET("/users", h.Users.List)
	protected.POST("/users", h.Users.Create)
	protected.GET("/users/:id", h.Users.Get)
	protected.PUT("/users/:id", h.Users.Update)
	protected.PATCH("/users/:id/active", h.Users.Toggle)
	protected.POST("/users/:id/avatar", h.Users.UploadAvatar)
	protected.DELETE("/users/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin), h.Users.Delete)

	protected.GET("/instructors/:instructorId/subjects", h.TeacherSubjects.ListByInstructor)
	protected.POST("/teacher-subjects", h.TeacherSubjects.Create)
	protected.DELETE("/teacher-subjects/:id", h.TeacherSubjects.Delete)

	protected.GET("/exports/users", h.Exports.Users)
	protected.GET("/exports/programs", h.Exports.Programs)
}
