package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"proflow/internal/config"
	"proflow/internal/handlers"
	"proflow/internal/identity"
	"proflow/internal/middleware"
	"proflow/internal/models"
	"proflow/internal/store"
	"proflow/internal/workflow"
)

func NewRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	r := gin.Default()

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("proflow_session", sessionStore))
	r.Use(middleware.InjectUser(db))

	records := store.New(db)
	identities := identity.New(db)
	wf := workflow.New(records, identities, workflow.ExistsAuthorizer{Identities: identities}, log)
	h := handlers.New(db, wf, log)

	api := r.Group("/api")

	// AUTH
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", middleware.RequireAuth(), h.Me)

	// ADMIN DELETION WORKFLOW — authorization happens in the workflow
	// against the identity store, via the adminEmail in the request.
	admin := api.Group("/admin")
	admin.DELETE("/delete-client", h.DeleteClient)
	admin.DELETE("/delete-creator", h.DeleteCreator)
	admin.GET("/client-deletion-info", h.ClientDeletionInfo)
	admin.GET("/creator-deletion-info", h.CreatorDeletionInfo)

	auth := api.Group("/")
	auth.Use(middleware.RequireAuth())

	// CLIENTS — no DELETE route here: client removal goes through the
	// deletion workflow only.
	auth.GET("/clients", middleware.RequireRole(models.RoleAdmin), h.ListClients)
	auth.POST("/clients", middleware.RequireRole(models.RoleAdmin), h.CreateClient)
	auth.GET("/clients/:id", h.GetClient)
	auth.PUT("/clients/:id", middleware.RequireRole(models.RoleAdmin), h.UpdateClient)

	// CREATORS — same rule, no DELETE route.
	auth.GET("/creators", h.ListCreators)
	auth.POST("/creators", middleware.RequireRole(models.RoleAdmin), h.CreateCreator)
	auth.GET("/creators/:id", h.GetCreator)
	auth.PUT("/creators/:id", middleware.RequireRole(models.RoleAdmin), h.UpdateCreator)

	// TASKS
	auth.GET("/tasks", h.ListTasks)
	auth.POST("/tasks", middleware.RequireRole(models.RoleAdmin), h.CreateTask)
	auth.GET("/tasks/:id", h.GetTask)
	auth.PUT("/tasks/:id", middleware.RequireRole(models.RoleAdmin), h.UpdateTask)

	// TRANSACTIONS
	auth.GET("/transactions", h.ListTransactions)
	auth.POST("/transactions", middleware.RequireRole(models.RoleAdmin), h.CreateTransaction)

	// NOTIFICATIONS
	auth.GET("/notifications", h.ListNotifications)
	auth.POST("/notifications", middleware.RequireRole(models.RoleAdmin), h.CreateNotification)
	auth.POST("/notifications/:id/read", h.MarkNotificationRead)

	// AUDIT
	auth.GET("/audit-logs", middleware.RequireRole(models.RoleAdmin), h.ListAuditLogs)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
