package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academix-api/internal/middleware"
	"github.com/noah-isme/academix-api/internal/models"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Course     *CourseHandler
	Content    *ContentHandler
	Assignment *AssignmentHandler
	Gradebook  *GradebookHandler
	Discussion *DiscussionHandler
	Metrics    *MetricsHandler
}

// Guards are the middleware chains protecting authenticated routes.
type Guards struct {
	JWT      gin.HandlerFunc
	Identity gin.HandlerFunc
	Audit    func(action, resource string) gin.HandlerFunc
}

// RegisterSystemRoutes mounts probes and metrics outside the API prefix.
func RegisterSystemRoutes(r gin.IRouter, h *MetricsHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
	r.GET("/metrics/summary", h.Summary)
}

// RegisterRoutes mounts the API under api.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, g Guards) {
	audit := g.Audit
	if audit == nil {
		audit = func(string, string) gin.HandlerFunc { return func(c *gin.Context) { c.Next() } }
	}
	student := middleware.RequireRoles(models.RoleStudent)
	faculty := middleware.RequireRoles(models.RoleFaculty)

	auth := api.Group("/auth")
	auth.POST("/login/:entry", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/register/verify", h.Auth.Verify)
	auth.POST("/logout", g.JWT, h.Auth.Logout)
	auth.POST("/change-password", g.JWT, h.Auth.ChangePassword)

	// signed links carry their own authorization
	api.GET("/downloads/:token", h.Content.Download)

	protected := api.Group("", g.JWT, g.Identity)
	protected.GET("/me", h.Profile.Me)
	protected.GET("/profile", student, h.Profile.Get)
	protected.PATCH("/profile", student, audit(models.AuditActionProfileUpdate, "student_profile"), h.Profile.Update)

	protected.GET("/courses/mine", h.Course.Mine)
	protected.GET("/courses/available", h.Course.Available)
	protected.POST("/courses", faculty, audit(models.AuditActionCourseCreate, "course"), h.Course.Create)

	course := protected.Group("/courses/:code")
	course.GET("", h.Course.Detail)
	course.PATCH("", faculty, audit(models.AuditActionCourseUpdate, "course"), h.Course.Update)
	course.POST("/enroll", student, audit(models.AuditActionEnroll, "course"), h.Course.Enroll)
	course.GET("/students", h.Course.Roster)
	course.GET("/students/:studentID", h.Profile.ViewStudent)
	course.GET("/students/:studentID/submissions", middleware.RBAC(string(models.RoleFaculty), "SELF"), h.Assignment.StudentSubmissions)

	course.GET("/materials", h.Content.ListMaterials)
	course.POST("/materials", faculty, h.Content.AddMaterial)
	course.PUT("/materials/:id/file", faculty, h.Content.UploadFile)
	course.GET("/materials/:id/download-url", h.Content.DownloadURL)

	course.GET("/announcements", h.Content.ListAnnouncements)
	course.POST("/announcements", faculty, h.Content.AddAnnouncement)
	course.DELETE("/announcements/:id", faculty, audit(models.AuditActionAnnouncementDelete, "announcement"), h.Content.DeleteAnnouncement)

	course.GET("/assignments", h.Assignment.List)
	course.POST("/assignments", faculty, audit(models.AuditActionAssignmentCreate, "assignment"), h.Assignment.Create)
	course.PATCH("/assignments/:name", faculty, h.Assignment.Update)
	course.DELETE("/assignments/:name", faculty, audit(models.AuditActionAssignmentDelete, "assignment"), h.Assignment.Delete)
	course.POST("/assignments/:name/submission", student, h.Assignment.Submit)
	course.PUT("/assignments/:name/submission", student, h.Assignment.EditSubmission)
	course.GET("/assignments/:name/submissions", faculty, h.Assignment.Submissions)
	course.POST("/assignments/:name/submissions/:id/grade", faculty, audit(models.AuditActionGrade, "submission"), h.Assignment.Grade)

	course.GET("/gradebook", faculty, h.Gradebook.Show)
	course.GET("/gradebook/export", faculty, h.Gradebook.Export)

	course.GET("/queries", h.Discussion.ListQueries)
	course.POST("/queries", student, h.Discussion.Ask)
	course.PUT("/queries/:id/reply", faculty, h.Discussion.Reply)

	course.GET("/feedback", h.Discussion.Feedback)
	course.POST("/feedback", student, h.Discussion.SubmitFeedback)
}
