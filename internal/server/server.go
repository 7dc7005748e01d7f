// Package server contains the HTTP layer: the Fiber application, its
// middleware stack and the API handlers.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quorum/internal/cache"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/featureflags"
	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/notifications"
	"quorum/internal/repository"
	"quorum/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "quorum-api"
	tokenAudience = "quorum-client"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client

	userRepo         repository.UserRepository
	questionRepo     repository.QuestionRepository
	answerRepo       repository.AnswerRepository
	voteRepo         repository.VoteRepository
	notificationRepo repository.NotificationRepository
	tagRepo          repository.TagRepository

	questionService     *service.QuestionService
	answerService       *service.AnswerService
	voteService         *service.VoteService
	tagService          *service.TagService
	userService         *service.UserService
	notificationService *service.NotificationService

	notifier *notifications.Notifier
	flags    *featureflags.Manager
	prom     *fiberprometheus.FiberPrometheus
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	s := &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		flags:  featureflags.NewManager(cfg.FeatureFlags),
		prom:   middleware.InitMetrics("quorum"),
	}

	s.userRepo = repository.NewUserRepository(db)
	s.questionRepo = repository.NewQuestionRepository(db)
	s.answerRepo = repository.NewAnswerRepository(db)
	s.voteRepo = repository.NewVoteRepository(db)
	s.notificationRepo = repository.NewNotificationRepository(db)
	s.tagRepo = repository.NewTagRepository(db)

	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	s.notificationService = service.NewNotificationService(s.notificationRepo, s.notifier, s.flags)
	s.voteService = service.NewVoteService(s.voteRepo, s.questionRepo, s.answerRepo, s.userRepo, s.notificationService)
	s.questionService = service.NewQuestionService(s.questionRepo, s.answerRepo, s.voteRepo, s.userRepo)
	s.answerService = service.NewAnswerService(s.answerRepo, s.questionRepo, s.voteRepo, s.userRepo, s.notificationService)
	s.tagService = service.NewTagService(s.tagRepo)
	s.userService = service.NewUserService(s.userRepo, s.questionRepo, s.answerRepo, s.voteRepo)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	// Prometheus request instrumentation, exposes /metrics
	s.prom.RegisterAt(app, "/metrics")
	app.Use(middleware.MetricsMiddleware(s.prom))

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Probe endpoints outside the /api prefix for orchestrators
	app.Get("/health", s.HealthCheck)
	app.Get("/health/live", s.Liveness)
	app.Get("/health/ready", s.Readiness)

	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Live in-process stats dashboard
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "Quorum Metrics"}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.AuthRequired(), s.Refresh)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Public question routes (browse). Vote tallies are included; the
	// viewer's own vote state appears when a valid token is attached.
	publicQuestions := api.Group("/questions")
	publicQuestions.Get("/", s.GetQuestions)
	publicQuestions.Get("/:id/answers", s.GetAnswers)
	publicQuestions.Get("/:id", s.GetQuestion)

	// Public answer read
	api.Get("/answers/:id", s.GetAnswer)

	// Public tag listing
	api.Get("/tags", s.GetTags)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Question routes
	questions := protected.Group("/questions")
	questions.Post("/", s.BannedCheck(), middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_question"), s.CreateQuestion)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	questions.Put("/:id/upvote", s.BannedCheck(), s.UpvoteQuestion)
	questions.Put("/:id/downvote", s.BannedCheck(), s.DownvoteQuestion)
	questions.Post("/:id/answers", s.BannedCheck(), middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_answer"), s.CreateAnswer)
	questions.Put("/:id", s.BannedCheck(), s.UpdateQuestion)
	questions.Delete("/:id", s.DeleteQuestion)

	// Answer routes
	answers := protected.Group("/answers")
	answers.Put("/:id/upvote", s.BannedCheck(), s.UpvoteAnswer)
	answers.Put("/:id/downvote", s.BannedCheck(), s.DownvoteAnswer)
	answers.Put("/:id", s.BannedCheck(), s.UpdateAnswer)
	answers.Delete("/:id", s.DeleteAnswer)

	// Notification routes
	notificationsGroup := protected.Group("/notifications")
	notificationsGroup.Get("/", s.GetNotifications)
	notificationsGroup.Get("/unread-count", s.GetUnreadCount)
	notificationsGroup.Put("/read-all", s.MarkAllNotificationsRead)
	notificationsGroup.Put("/:id/read", s.MarkNotificationRead)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Get("/me/votes", s.GetMyVotes)
	users.Get("/:id/stats", s.GetUserStats)
	users.Get("/:id", s.GetUserProfile)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/users", s.AdminListUsers)
	admin.Put("/users/:id/ban", s.AdminBanUser)
	admin.Put("/users/:id/unban", s.AdminUnbanUser)
	admin.Delete("/users/:id", s.AdminDeleteUser)
	admin.Get("/questions", s.AdminListQuestions)
	admin.Delete("/questions/:id", s.DeleteQuestion)
	admin.Delete("/answers/:id", s.DeleteAnswer)
	admin.Get("/tags", s.GetTags)
	admin.Post("/tags", s.AdminAddTag)
	admin.Delete("/tags/:name", s.AdminDeleteTag)
}

// HealthCheck handles health check requests.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Quorum",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Liveness reports that the process is up. No dependency checks.
func (s *Server) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Readiness reports whether the server can take traffic. Redis being down does
// not fail readiness; the app degrades without it.
func (s *Server) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// AuthRequired returns the authentication middleware.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, jti, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		// Logged-out tokens are blacklisted by jti until they expire.
		if s.redis != nil && jti != "" {
			if n, rerr := s.redis.Exists(c.Context(), blacklistKey(jti)).Result(); rerr == nil && n > 0 {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		c.Locals("userID", userID)
		c.Locals("jti", jti)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// AdminRequired verifies the authenticated user holds the admin role. Must run
// after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.userRepo.GetByID(c.UserContext(), currentUserID(c))
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// BannedCheck rejects write operations from banned accounts. Reads stay open.
func (s *Server) BannedCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.userRepo.GetByID(c.UserContext(), currentUserID(c))
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if user.IsBanned {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Your account has been banned"))
		}
		return c.Next()
	}
}

// parseToken validates a JWT and returns the user id and jti claims.
func (s *Server) parseToken(tokenString string) (uint, string, *models.AppError) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", models.NewUnauthorizedError("Invalid token claims")
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, "", models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, "", models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, "", models.NewUnauthorizedError("Invalid user ID in token")
	}

	jti, _ := claims["jti"].(string)
	return uint(userID), jti, nil
}

// optionalUserID extracts the user id from the Authorization header without
// enforcing it. Anonymous browsing of public routes stays possible.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return 0
	}
	userID, _, err := s.parseToken(tokenString)
	if err != nil {
		return 0
	}
	return userID
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func blacklistKey(jti string) string {
	return "jwt:blacklist:" + jti
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.ErrorContext(ctx, "error closing sql DB", "error", cerr.Error())
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.ErrorContext(ctx, "error closing redis", "error", rerr.Error())
		}
	}
	middleware.Logger.InfoContext(ctx, "server shutdown complete")
	return nil
}
