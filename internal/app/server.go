// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"estate_leads_backend/internal/agent"
	"estate_leads_backend/internal/careers"
	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/interest"
	"estate_leads_backend/internal/jobs"
	"estate_leads_backend/internal/middleware"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/property"
	"estate_leads_backend/internal/question"
	"estate_leads_backend/internal/session"
	"estate_leads_backend/internal/valuation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups every route handler the server mounts.
type Handlers struct {
	Session   *session.Handler
	Intake    *intake.Handler
	Property  *property.Handler
	Agent     *agent.Handler
	Interest  *interest.Handler
	Careers   *careers.Handler
	Question  *question.Handler
	Valuation *valuation.Handler

	AdminProperty     *property.AdminHandler
	AdminAgent        *agent.AdminHandler
	AdminInterest     *interest.AdminHandler
	AdminCareers      *careers.AdminHandler
	AdminQuestion     *question.AdminHandler
	AdminValuation    *valuation.AdminHandler
	AdminNotification *notification.Handler
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Jobs
	postingArchiveJob *jobs.PostingArchiveJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handlers *Handlers,
	verifier session.Verifier,
	postingArchiveJob *jobs.PostingArchiveJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.Authenticate(verifier, logger.Named("AuthMiddleware"))
	optionalAuthMW := middleware.OptionalAuth(verifier, logger.Named("AuthMiddleware"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Estate leads API is healthy!"})
	})
	if cfg.StorageDriver == config.StorageDriverLocal && strings.HasPrefix(cfg.StoragePublicBaseURL, "/") {
		router.Static(cfg.StoragePublicBaseURL, cfg.StorageLocalPath)
	}

	api := router.Group("/api")

	// Public
	handlers.Session.RegisterRoutes(api, authMW)
	handlers.Intake.RegisterRoutes(api, optionalAuthMW)
	handlers.Property.RegisterRoutes(api)
	handlers.Interest.RegisterRoutes(api)
	handlers.Agent.RegisterRoutes(api)
	handlers.Careers.RegisterRoutes(api)

	// Signed-in customers
	customer := api.Group("/customer", authMW)
	handlers.Question.RegisterRoutes(customer)
	handlers.Valuation.RegisterRoutes(customer)

	// Admin console. The tier stamp must follow the role check.
	admin := api.Group("/admin", authMW, middleware.RequireRole(common.RoleAdmin), middleware.StampServiceTier())
	handlers.AdminProperty.RegisterRoutes(admin)
	handlers.AdminAgent.RegisterRoutes(admin)
	handlers.AdminInterest.RegisterRoutes(admin)
	handlers.AdminCareers.RegisterRoutes(admin)
	handlers.AdminQuestion.RegisterRoutes(admin)
	handlers.AdminValuation.RegisterRoutes(admin)
	handlers.AdminNotification.RegisterRoutes(admin)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:        httpServer,
		router:            router,
		cfg:               cfg,
		logger:            logger,
		postingArchiveJob: postingArchiveJob,
	}, nil
}

// Router exposes the engine for in-process tests.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) Start() error {
	if s.postingArchiveJob != nil {
		if err := s.postingArchiveJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start posting archive job", zap.Error(err))
		}
	} else {
		s.logger.Info("Posting archive job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.postingArchiveJob != nil {
		s.postingArchiveJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
