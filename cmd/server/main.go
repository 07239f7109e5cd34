package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/gmakarov/gantt-chart-api/internal/config"
	"github.com/gmakarov/gantt-chart-api/internal/constants"
	"github.com/gmakarov/gantt-chart-api/internal/database"
	"github.com/gmakarov/gantt-chart-api/internal/handlers"
	"github.com/gmakarov/gantt-chart-api/internal/metrics"
	"github.com/gmakarov/gantt-chart-api/internal/middleware"
	"github.com/gmakarov/gantt-chart-api/internal/repository"
	"github.com/gmakarov/gantt-chart-api/internal/services"
)

func main() {
	// Load .env when present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	metrics.Register()

	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // password (empty = no password)
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
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	eventRepo := repository.NewEventRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(db, projectRepo, eventRepo)
	eventService := services.NewEventService(db, eventRepo)
	linkService := services.NewLinkService(linkRepo, eventRepo)
	commentService := services.NewCommentService(db, commentRepo)

	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, eventService)
	eventHandler := handlers.NewEventHandler(eventService)
	linkHandler := handlers.NewLinkHandler(linkService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Gantt Chart API is running",
		})
	})

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", middleware.RequireProjectAccess(), projectHandler.GetProject)
			projects.PATCH("/:id", middleware.RequireProjectAccess(), middleware.RequireProjectChange(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireProjectAccess(), middleware.RequireProjectDelete(), projectHandler.DeleteProject)
			projects.GET("/:id/version", middleware.RequireProjectAccess(), projectHandler.GetProjectVersion)
			projects.GET("/:id/stats", middleware.RequireProjectAccess(), projectHandler.GetProjectStats)
			projects.GET("/:id/chart", middleware.RequireProjectAccess(), projectHandler.GetChartData)
			projects.GET("/:id/participants", middleware.RequireProjectAccess(), projectHandler.ListParticipants)
			projects.POST("/:id/participants", middleware.RequireProjectAccess(), middleware.RequireProjectChange(), projectHandler.AddParticipant)
			projects.DELETE("/:id/participants/:participant_id", middleware.RequireProjectAccess(), middleware.RequireProjectChange(), projectHandler.RemoveParticipant)
			projects.GET("/:id/events", middleware.RequireProjectAccess(), eventHandler.ListEvents)
			projects.POST("/:id/events", middleware.RequireProjectAccess(), middleware.RequireProjectWork(), eventHandler.CreateEvent)
		}

		// Event routes (protected)
		events := api.Group("/events")
		events.Use(middleware.RequireAuth())
		{
			events.GET("/:id", middleware.RequireEventAccess(), eventHandler.GetEvent)
			events.PATCH("/:id", middleware.RequireEventAccess(), middleware.RequireEventWork(), eventHandler.UpdateEvent)
			events.DELETE("/:id", middleware.RequireEventAccess(), middleware.RequireEventWork(), eventHandler.DeleteEvent)
			events.GET("/:id/links", middleware.RequireEventAccess(), linkHandler.ListLinks)
			events.POST("/:id/links", middleware.RequireEventAccess(), middleware.RequireEventWork(), linkHandler.CreateLink)
			events.PATCH("/:id/links/:link_id", middleware.RequireEventAccess(), middleware.RequireEventWork(), linkHandler.UpdateLink)
			events.DELETE("/:id/links/:link_id", middleware.RequireEventAccess(), middleware.RequireEventWork(), linkHandler.DeleteLink)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.GET("", commentHandler.ListComments)
			comments.POST("", commentHandler.CreateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	// Wrap the router with CORS for the chart frontend
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := http.ListenAndServe(cfg.ServerAddr, corsHandler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
