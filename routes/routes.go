package routes

import (
	"taskflow/analytics"
	"taskflow/constants"
	"taskflow/controllers"
	"taskflow/middleware"
	"taskflow/voice"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(cors.Default())
	r.Use(middleware.RequestLogger())

	analyticsService := &analytics.Service{DB: db}

	authController := controllers.AuthController{DB: db}
	userController := controllers.UserController{DB: db}
	taskController := controllers.TaskController{DB: db}
	projectController := controllers.ProjectController{DB: db}
	orgController := controllers.OrganizationController{DB: db}
	teamController := controllers.TeamController{DB: db}
	notificationController := controllers.NotificationController{DB: db}
	analyticsController := controllers.AnalyticsController{Service: analyticsService}
	voiceController := controllers.VoiceController{
		Router: &voice.Router{DB: db, Analytics: analyticsService},
	}

	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())

	users := api.Group("/users")
	users.Use(middleware.RoleMiddleware(constants.RoleAdmin))
	users.GET("", userController.GetUsers)
	users.PUT("/:id", userController.UpdateUser)

	tasks := api.Group("/tasks")
	tasks.POST("", taskController.CreateTask)
	tasks.GET("", taskController.GetTasks)
	tasks.GET("/:id", taskController.GetTask)
	tasks.PUT("/:id", taskController.UpdateTask)
	tasks.DELETE("/:id", taskController.DeleteTask)
	tasks.POST("/:id/assignees", taskController.AssignUser)
	tasks.DELETE("/:id/assignees/:user_id", taskController.UnassignUser)
	tasks.POST("/:id/comments", taskController.CreateComment)
	tasks.GET("/:id/comments", taskController.GetComments)
	tasks.POST("/:id/attachments", taskController.CreateAttachment)
	tasks.GET("/:id/attachments", taskController.GetAttachments)
	tasks.POST("/:id/tags", taskController.AttachTag)
	tasks.DELETE("/:id/tags/:tag_id", taskController.DetachTag)

	projects := api.Group("/projects")
	projects.POST("", projectController.CreateProject)
	projects.GET("", projectController.GetProjects)
	projects.GET("/:id", projectController.GetProject)
	projects.PUT("/:id", projectController.UpdateProject)
	projects.DELETE("/:id", projectController.DeleteProject)

	orgs := api.Group("/organizations")
	orgs.POST("", orgController.CreateOrganization)
	orgs.GET("", orgController.GetOrganizations)
	orgs.GET("/:id", orgController.GetOrganization)
	orgs.PUT("/:id", orgController.UpdateOrganization)
	orgs.DELETE("/:id", orgController.DeleteOrganization)
	orgs.GET("/:id/members", orgController.GetMembers)
	orgs.POST("/:id/members", orgController.AddMember)
	orgs.DELETE("/:id/members/:user_id", orgController.RemoveMember)
	orgs.POST("/:id/invitations", orgController.CreateInvitation)
	orgs.GET("/:id/invitations", orgController.GetInvitations)
	api.POST("/invitations/:token/accept", orgController.AcceptInvitation)

	teams := api.Group("/teams")
	teams.POST("", teamController.CreateTeam)
	teams.GET("", teamController.GetTeams)
	teams.GET("/:id", teamController.GetTeam)
	teams.PUT("/:id", teamController.UpdateTeam)
	teams.DELETE("/:id", teamController.DeleteTeam)
	teams.GET("/:id/members", teamController.GetMembers)
	teams.POST("/:id/members", teamController.AddMember)
	teams.DELETE("/:id/members/:user_id", teamController.RemoveMember)

	notifications := api.Group("/notifications")
	notifications.GET("", notificationController.GetNotifications)
	notifications.PUT("/:id/read", notificationController.MarkRead)
	notifications.PUT("/read-all", notificationController.MarkAllRead)

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.GET("/tasks", analyticsController.GetTaskAnalytics)
	analyticsGroup.GET("/productivity", analyticsController.GetProductivityAnalytics)
	analyticsGroup.GET("/team",
		middleware.RoleMiddleware(constants.RoleManager, constants.RoleAdmin),
		analyticsController.GetTeamAnalytics)
	analyticsGroup.GET("/export", analyticsController.ExportCSV)

	api.POST("/voice-agent", voiceController.HandleQuery)

	return r
}
