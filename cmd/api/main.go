package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fusion-kit/auth-service/internal/api/http"
	"github.com/fusion-kit/auth-service/internal/api/http/handlers"
	"github.com/fusion-kit/auth-service/internal/auth"
	"github.com/fusion-kit/auth-service/internal/config"
	"github.com/fusion-kit/auth-service/internal/events"
	"github.com/fusion-kit/auth-service/internal/observability"
	"github.com/fusion-kit/auth-service/internal/persistence"
	"github.com/fusion-kit/auth-service/internal/repository"
	"github.com/fusion-kit/auth-service/internal/service"
	"github.com/fusion-kit/auth-service/internal/session"
	"github.com/fusion-kit/auth-service/internal/worker"
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

	mysql, err := persistence.NewMySQL(ctx, cfg.MySQL, logger)
	if err != nil {
		logger.Fatal("failed to connect mysql", zap.Error(err))
	}
	defer mysql.Close()

	if err := mysql.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure mysql schema", zap.Error(err))
	}

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer mongo.Close(ctx)

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	codec, err := auth.NewCodec(cfg.Auth.PrivateKeyPEM, cfg.Auth.PublicKeyPEM, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		logger.Fatal("failed to parse signing keys", zap.Error(err))
	}

	ledger := session.NewRedisLedger(redis.Client)
	tokens := auth.NewTokenService(codec, ledger, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	adminRepo := repository.NewAdminRepository(mysql.DB)
	productRepo := repository.NewProductRepository(mongo.Database())

	resolver := auth.NewPrincipalResolver(userRepo, adminRepo)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authService := service.NewAuthService(service.AuthDependencies{
		Resolver:   resolver,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	productService := service.NewProductService(productRepo, dispatcher)
	authMiddleware := auth.NewMiddleware(tokens, resolver)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, mysql, mongo, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Products:       handlers.NewProductsHandler(productService),
		AuthMiddleware: authMiddleware,
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
