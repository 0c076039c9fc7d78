package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/projectpulse/project-management-api/internal/auth"
	"github.com/projectpulse/project-management-api/internal/config"
	"github.com/projectpulse/project-management-api/internal/database"
	"github.com/projectpulse/project-management-api/internal/handlers"
	"github.com/projectpulse/project-management-api/internal/logger"
	"github.com/projectpulse/project-management-api/internal/mailer"
	"github.com/projectpulse/project-management-api/internal/middleware"
	"github.com/projectpulse/project-management-api/internal/repository"
	"github.com/projectpulse/project-management-api/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	inviteRepo := repository.NewInvitationRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	// Services
	tokens := auth.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, refreshRepo, tokens)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	userService := services.NewUserService(userRepo)

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	inviteService := services.NewInvitationService(inviteRepo, userRepo, authService, mail, cfg.InviteLinkBase)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(tokens, authService)

	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup-tenant", authHandler.SignupTenant)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.POST("/logout", authHandler.Logout)
		}

		api.GET("/me", requireAuth, authHandler.GetCurrentUser)

		// Tenant user administration (protected, admin checks in service)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.List)
			users.PATCH("/:id/role", userHandler.ChangeRole)
			users.DELETE("/:id", userHandler.Deactivate)
		}

		// Invitations: creation is protected, acceptance is the entry path
		// for users without a session.
		api.POST("/invite", requireAuth, inviteHandler.Create)
		api.POST("/invite/accept/:token", inviteHandler.Accept)

		// Project and task routes (protected; per-project RBAC runs inside
		// the services)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.Create)
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)

			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.DELETE("/:id/members/:memberId", projectHandler.RemoveMember)

			projects.GET("/:id/tasks", taskHandler.List)
			projects.POST("/:id/tasks", taskHandler.Create)
			projects.GET("/:id/tasks/:taskId", taskHandler.Get)
			projects.PUT("/:id/tasks/:taskId", taskHandler.Update)
			projects.DELETE("/:id/tasks/:taskId", taskHandler.Delete)
		}
	}

	log.Info("server starting", zap.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
