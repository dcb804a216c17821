package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AChakka/LiftMate/internal/config"
	"github.com/AChakka/LiftMate/pkg/formcheck"
	"github.com/AChakka/LiftMate/pkg/log"
	"github.com/AChakka/LiftMate/pkg/pose"
	"github.com/AChakka/LiftMate/pkg/utils"
	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading config: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	analyzer := formcheck.NewAnalyzer()
	validator, err := config.NewValidator(analyzer)
	if err != nil {
		logger.Fatal(err)
	}

	u := utils.New()
	remotePose := pose.NewRemoteEstimator(cfg.PoseServiceURL, logger)
	defer remotePose.Close()
	if err := remotePose.Connect(); err != nil {
		logger.Warnf("Pose service unavailable, falling back to placeholder poses: %v", err)
	}
	estimator := pose.NewFallbackEstimator(remotePose, pose.NewPlaceholderEstimator(u), logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithConfig(cfg),
		config.WithAnalyzer(analyzer),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisCache(),
		config.WithPoseEstimator(estimator),
		config.WithOpenAI(),
		config.WithGeminiClient(),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.StartSweeper(ctx)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("LiftMate listening on :%s", cfg.Port)

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
