package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/planwell/task-planner-api/internal/config"
	"github.com/planwell/task-planner-api/internal/constants"
	"github.com/planwell/task-planner-api/internal/database"
	"github.com/planwell/task-planner-api/internal/handlers"
	"github.com/planwell/task-planner-api/internal/middleware"
	"github.com/planwell/task-planner-api/internal/repository"
	"github.com/planwell/task-planner-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The index backfill probes pg_indexes, so it only runs on postgres.
	if cfg.DBDriver == "postgres" {
		if err := database.MigrateDatabase(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)

	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	meetingService := services.NewMeetingService(meetingRepo, taskRepo)
	scheduleService := services.NewScheduleService(taskRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task planner API is running",
		})
	})

	// Public routes
	r.GET("/users/by-username/:name", authHandler.GetUserByUsername)
	r.POST("/users", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// User routes (protected, scoped to the session user)
	users := r.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.GET("/:id/arrange", userHandler.GetArrange)
		users.GET("/:id/schedule", scheduleHandler.GetSchedule)
		users.GET("/:id/tasks/root", taskHandler.ListRootTasks)
		users.GET("/:id/tasks/leaf", taskHandler.ListLeafTasks)
		users.GET("/:id/tasks/finished-root", taskHandler.ListFinishedRootTasks)
		users.GET("/:id/tasks/finished-leaf", taskHandler.ListFinishedLeafTasks)
		users.GET("/:id/meetings", meetingHandler.ListMeetings)
	}

	// Task routes (protected; per-task routes pass the membership guard)
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
		tasks.PUT("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
		tasks.POST("/:id/delete", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
		tasks.POST("/:id/members", middleware.RequireTaskAccess(), taskHandler.AddMember)
		tasks.POST("/:id/finish", middleware.RequireTaskAccess(), taskHandler.FinishTask)
		tasks.POST("/:id/unfinish", middleware.RequireTaskAccess(), taskHandler.UnfinishTask)
	}

	// Meeting routes (protected)
	meetings := r.Group("/meetings")
	meetings.Use(middleware.RequireAuth())
	{
		meetings.POST("", meetingHandler.CreateMeeting)
		meetings.GET("/:id", meetingHandler.GetMeeting)
		meetings.PUT("/:id", meetingHandler.UpdateMeeting)
		meetings.DELETE("/:id", meetingHandler.DeleteMeeting)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
