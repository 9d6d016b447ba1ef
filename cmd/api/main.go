package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/project-tracker/internal/api/http"
	"github.com/spec-kit/project-tracker/internal/api/http/handlers"
	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/config"
	"github.com/spec-kit/project-tracker/internal/events"
	"github.com/spec-kit/project-tracker/internal/observability"
	"github.com/spec-kit/project-tracker/internal/persistence"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/service"
	"github.com/spec-kit/project-tracker/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	revocation := auth.NewRevocationStore(redis.Client, logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Revocation: revocation,
	})
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo: projectRepo,
		MemberRepo:  memberRepo,
		Dispatcher:  dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		MemberRepo: memberRepo,
		Dispatcher: dispatcher,
	})
	commentService := service.NewCommentService(commentRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	sessionMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, revocation, cfg.Auth.CookieName)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:      logger,
		Metrics:     metrics,
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:     handlers.NewAuthHandler(authService, cfg.Auth),
		Projects: handlers.NewProjectsHandler(projectService),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Comments: handlers.NewCommentsHandler(commentService),
		Session:  sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
