package config

import (
	"context"
	"fmt"
	"time"

	"github.com/AChakka/LiftMate/database/postgres"
	coachHandler "github.com/AChakka/LiftMate/internal/api/coach/handler"
	coachService "github.com/AChakka/LiftMate/internal/api/coach/service"
	formHandler "github.com/AChakka/LiftMate/internal/api/form/handler"
	formService "github.com/AChakka/LiftMate/internal/api/form/service"
	workoutHandler "github.com/AChakka/LiftMate/internal/api/workout/handler"
	workoutRepository "github.com/AChakka/LiftMate/internal/api/workout/repository"
	workoutService "github.com/AChakka/LiftMate/internal/api/workout/service"
	"github.com/AChakka/LiftMate/internal/middleware"
	"github.com/AChakka/LiftMate/pkg/formcheck"
	"github.com/AChakka/LiftMate/pkg/gemini"
	"github.com/AChakka/LiftMate/pkg/openai"
	"github.com/AChakka/LiftMate/pkg/pose"
	"github.com/AChakka/LiftMate/pkg/redis"
	"github.com/AChakka/LiftMate/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	cfg            *AppConfig
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	analyzer       formcheck.IAnalyzer
	handlers       []handler
	summaryCache   redis.ISummaryCache
	poseEstimator  pose.IPoseEstimator
	chatGPT        openai.IChatGPT
	geminiClient   gemini.IGemini
	workoutService workoutService.IWorkoutService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.analyzer == nil {
		server.analyzer = formcheck.NewAnalyzer()
	}
	if server.validator == nil {
		v, err := NewValidator(server.analyzer)
		if err != nil {
			return nil, fmt.Errorf("failed to create validator: %w", err)
		}
		server.validator = v
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, middleware.Options{
			RequestsPerSecond: server.cfg.RateLimitRPS,
			Burst:             server.cfg.RateLimitBurst,
		})
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithConfig(cfg *AppConfig) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithAnalyzer(analyzer formcheck.IAnalyzer) ServerOption {
	return func(s *Server) error {
		s.analyzer = analyzer
		return nil
	}
}

// WithDatabase connects the session archive when DB_HOST is set.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil || !s.cfg.Database.Enabled() {
			if s.log != nil {
				s.log.Info("DB_HOST not set, ended sessions will not be archived")
			}
			return nil
		}

		db, err := postgres.New(s.cfg.Database.DSN())
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s.db = db
		return nil
	}
}

// WithRedisCache connects the summary cache when REDIS_ADDRESS is set.
func WithRedisCache() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil || !s.cfg.Redis.Enabled() {
			if s.log != nil {
				s.log.Info("REDIS_ADDRESS not set, summary cache disabled")
			}
			return nil
		}
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before redis")
		}

		cache, err := redis.New(redis.Options{
			Address:  s.cfg.Redis.Address,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		}, s.log)
		if err != nil {
			return fmt.Errorf("failed to create redis cache: %w", err)
		}
		s.summaryCache = cache
		return nil
	}
}

func WithPoseEstimator(estimator pose.IPoseEstimator) ServerOption {
	return func(s *Server) error {
		s.poseEstimator = estimator
		return nil
	}
}

// WithOpenAI enables the coach chat when OPENAI_API_KEY is set.
func WithOpenAI() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil || s.cfg.OpenAIAPIKey == "" {
			return nil
		}
		s.chatGPT = openai.NewChatGPT(s.cfg.OpenAIAPIKey, s.cfg.OpenAIChatModel)
		return nil
	}
}

// WithGeminiClient enables exercise classification when GEMINI_API_KEY is set.
func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil || s.cfg.GeminiAPIKey == "" {
			return nil
		}

		client, err := gemini.NewGeminiClient(context.Background(), s.cfg.GeminiAPIKey, s.cfg.GeminiModelName)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.cfg == nil {
			return fmt.Errorf("config must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, middleware.Options{
			RequestsPerSecond: s.cfg.RateLimitRPS,
			Burst:             s.cfg.RateLimitBurst,
		})
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	if s.poseEstimator == nil {
		s.log.Warn("No pose estimator configured, using placeholder poses")
		s.poseEstimator = pose.NewPlaceholderEstimator(s.utils)
	}

	// Workout Domain
	registry := workoutService.NewRegistry(workoutService.WithMaxFrames(s.cfg.SessionMaxFrames))
	var workoutRepo workoutRepository.Repository
	if s.db != nil {
		workoutRepo = workoutRepository.New(s.db, s.log)
	}
	s.workoutService = workoutService.NewWorkoutService(s.log, registry, workoutRepo, s.summaryCache, s.cfg.SummaryCacheTTL)
	workoutHandlers := workoutHandler.New(s.log, s.middleware, s.workoutService)

	// Form Analysis
	formServices := formService.NewFormService(s.log, s.poseEstimator, s.analyzer, s.utils, s.workoutService, s.cfg.ModelVersion)
	formHandlers := formHandler.New(s.log, s.validator, s.middleware, formServices, s.utils)

	// Coach
	coachServices := coachService.NewCoachService(s.log, s.chatGPT, s.geminiClient, s.analyzer, s.utils, s.workoutService)
	coachHandlers := coachHandler.New(s.log, s.validator, s.middleware, coachServices, s.utils)

	s.handlers = append(s.handlers, formHandlers, workoutHandlers, coachHandlers)
}

// Mount installs the shared middleware and every registered handler.
func (s *Server) Mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	for _, h := range s.handlers {
		h.Start(s.engine)
	}
}

func (s *Server) Run() error {
	s.Mount()
	return s.engine.Listen(fmt.Sprintf(":%s", s.cfg.Port))
}

// StartSweeper ends and archives idle sessions until ctx is done. It does
// nothing when SESSION_IDLE_TIMEOUT is zero.
func (s *Server) StartSweeper(ctx context.Context) {
	if s.workoutService == nil || s.cfg.SessionIdleTimeout <= 0 {
		return
	}

	interval := s.cfg.SessionSweepInterval
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.workoutService.SweepIdle(ctx, s.cfg.SessionIdleTimeout); n > 0 {
					s.log.WithField("swept", n).Info("Archived idle workout sessions")
				}
			}
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)

	if s.summaryCache != nil {
		if cerr := s.summaryCache.Close(); cerr != nil {
			s.log.Warnf("Error closing redis: %v", cerr)
		}
	}
	if s.geminiClient != nil {
		if cerr := s.geminiClient.Close(); cerr != nil {
			s.log.Warnf("Error closing gemini client: %v", cerr)
		}
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.log.Warnf("Error closing database: %v", cerr)
		}
	}
	return err
}
