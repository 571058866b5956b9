package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aegis-iam/aegis/internal/app"
	"github.com/aegis-iam/aegis/internal/auth"
	"github.com/aegis-iam/aegis/internal/observability"
	"github.com/aegis-iam/aegis/internal/permissions"
	"github.com/aegis-iam/aegis/internal/platform/cache"
	"github.com/aegis-iam/aegis/internal/platform/db"
	"github.com/aegis-iam/aegis/internal/rbac"
	"github.com/aegis-iam/aegis/internal/roles"
	"github.com/aegis-iam/aegis/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokenStore := auth.NewTokenStore(redisClient, cfg.TokenTTL)

	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(userService, tokenStore, authRepo)
	authHandler := auth.NewHandler(logger, authService, tokenStore)

	permissionRepo := permissions.NewRepository(pool)
	permissionService := permissions.NewService(permissionRepo)
	if err := permissionService.SeedBaseline(ctx); err != nil {
		logger.Error("seed baseline permissions", slog.Any("error", err))
		os.Exit(1)
	}
	permissionsHandler := permissions.NewHandler(logger, permissionService)

	roleRepo := roles.NewRepository(pool)
	roleService := roles.NewService(roleRepo)
	rolesHandler := roles.NewHandler(logger, roleService)

	rbacRepo := rbac.NewRepository(pool)
	rbacService := rbac.NewService(rbacRepo)
	usersHandler := rbac.NewHandler(logger, rbacService, auth.RequireToken(tokenStore))

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthHandler:        authHandler,
		PermissionsHandler: permissionsHandler,
		RolesHandler:       rolesHandler,
		UsersHandler:       usersHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
