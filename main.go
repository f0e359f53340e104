package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/auth"
	"github.com/found3r/found3r-engine/pkg/config"
	"github.com/found3r/found3r-engine/pkg/database"
	"github.com/found3r/found3r-engine/pkg/handlers"
	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/logging"
	"github.com/found3r/found3r-engine/pkg/middleware"
	"github.com/found3r/found3r-engine/pkg/pages"
	"github.com/found3r/found3r-engine/pkg/repositories"
	"github.com/found3r/found3r-engine/pkg/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model))

	ctx := context.Background()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	sweepTTL := time.Duration(cfg.Agents.SweepStatusTTLSeconds) * time.Second
	var sweepStore services.SweepStatusStore
	if redisClient != nil {
		sweepStore = services.NewRedisSweepStatusStore(redisClient, sweepTTL)
	} else {
		logger.Info("Redis not configured, using in-process sweep status store")
		sweepStore = services.NewMemorySweepStatusStore(sweepTTL)
	}

	llmClient, err := llm.NewClient(cfg.LLM.Provider, &llm.Config{
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Repositories
	projectRepo := repositories.NewProjectRepository(db.Pool)
	brainRepo := repositories.NewBrainRepository(db.Pool)
	ticketRepo := repositories.NewTicketRepository(db.Pool)
	activityRepo := repositories.NewActivityRepository(db.Pool)
	chatRepo := repositories.NewChatRepository(db.Pool)
	waitlistRepo := repositories.NewWaitlistRepository(db.Pool)
	userRepo := repositories.NewUserRepository(db.Pool)

	// Agents
	deps := &agents.Deps{
		Projects:    projectRepo,
		Brains:      brainRepo,
		Tickets:     ticketRepo,
		Activity:    activityRepo,
		Chat:        chatRepo,
		LLM:         llmClient,
		InTx:        db.InTx,
		Config:      cfg.Agents,
		Temperature: cfg.LLM.Temperature,
		Logger:      logger.Named("agents"),
	}

	signalSource := agents.NewLLMSignalSource(llmClient, cfg.LLM.Temperature, cfg.Agents.PainPointCap*2, logger)

	var deployer agents.PageDeployer
	if cfg.Pages.Endpoint != "" {
		deployer = pages.NewDeployer(pages.Config{
			Endpoint:      cfg.Pages.Endpoint,
			Token:         cfg.Pages.Token,
			PublicBaseURL: cfg.Pages.PublicBaseURL,
		}, logger)
	} else {
		logger.Info("Page hosting not configured, landing pages will not be deployed")
	}

	copilot := agents.NewCopilot(deps)
	registry := map[agents.Name]agents.Agent{
		agents.SignalScannerName:   agents.NewSignalScanner(deps, signalSource),
		agents.LaunchTestName:      agents.NewLaunchTest(deps, deployer),
		agents.BuildPlannerName:    agents.NewBuildPlanner(deps),
		agents.DistributionKitName: agents.NewDistributionKit(deps),
	}

	// Services
	projectService := services.NewProjectService(
		projectRepo, brainRepo, ticketRepo, activityRepo, chatRepo, waitlistRepo,
		db.InTx, logger)
	orchestrator := services.NewOrchestrator(registry, projectService, sweepStore, logger)
	chatService := services.NewChatService(copilot, projectService, chatRepo)
	waitlistService := services.NewWaitlistService(waitlistRepo, projectService, logger)
	userService := services.NewUserService(userRepo, projectService, logger)

	// Auth
	validator, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(validator, userService, logger)

	// HTTP surface
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewProjectsHandler(projectService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTicketsHandler(projectService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAgentsHandler(orchestrator, projectService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewChatHandler(chatService, cfg.Agents.ChatHistoryLimit, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewWaitlistHandler(waitlistService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewUsersHandler(userService, cfg.WebhookSecret, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindADDR, cfg.Port)
	logger.Info("Starting found3r-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// runMigrations applies pending schema migrations over a short-lived
// database/sql connection; pgx pools do not expose one.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, cfg.MigrationsPath, logger)
}

// newLogger builds a production logger outside local environments and a
// development logger otherwise.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
