package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"swimteam/swimlog/internal/api"
	"swimteam/swimlog/internal/config"
	"swimteam/swimlog/internal/email"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/repository"
	mongorepo "swimteam/swimlog/internal/repository/mongo"
	"swimteam/swimlog/internal/repository/postgres"
	"swimteam/swimlog/internal/service"
	"swimteam/swimlog/internal/storage"
)

// backend is an opened storage backend.
type backend struct {
	store   repository.Store
	migrate func(context.Context) error
	close   func()
}

func loadConfig(c *cli.Context) (config.Config, *logger.ZapLogger, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func openBackend(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (*backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := postgres.NewPostgresStorage(ctx, cfg.URI, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Info("Postgres connection established.")
		return &backend{store: pg.Store(), migrate: pg.Migrate, close: pg.Close}, nil
	default:
		client, err := mongorepo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		db := client.Database(cfg.Name)
		log.Infof("MongoDB connection established (database %s).", cfg.Name)
		return &backend{
			store: mongorepo.NewStore(db),
			migrate: func(ctx context.Context) error {
				return mongorepo.EnsureIndexes(ctx, db)
			},
			close: func() {
				if err := mongorepo.DisconnectDB(client); err != nil {
					log.Errorf("failed to disconnect MongoDB: %v", err)
				}
			},
		}, nil
	}
}

func migrate(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	b, err := openBackend(c.Context, cfg.Database, log)
	if err != nil {
		return err
	}
	defer b.close()

	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()
	if err := b.migrate(ctx); err != nil {
		return err
	}
	log.Infof("%s schema is up to date.", cfg.Database.Driver)
	return nil
}

func serve(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Info("Starting swimlog server...")

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer b.close()

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	if err := b.migrate(migrateCtx); err != nil {
		log.Warnf("schema check failed, continuing: %v", err)
	}
	cancel()

	sender, err := email.NewSender(cfg.Email, log)
	if err != nil {
		return err
	}

	var fileStorage storage.FileStorage
	if cfg.S3.Enabled {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			return fmt.Errorf("init s3 storage: %w", err)
		}
	} else {
		log.Info("S3 disabled; CSV archiving is off.")
	}

	// --- Initialize Services ---
	team := service.NewTeamService(b.store.Profiles)
	services := api.Services{
		Auth: service.NewAuthService(b.store.Profiles, b.store.MagicLinks, sender, log, service.AuthConfig{
			JWTSecret:     cfg.JWT.Secret,
			JWTExpiration: cfg.JWT.Expiration,
			LinkTTL:       cfg.MagicLink.TTL,
			CallbackURL:   cfg.CallbackURL(),
		}),
		Team:      team,
		Log:       service.NewLogService(b.store.Training, b.store.RHR, b.store.Body, log),
		Dashboard: service.NewDashboardService(team, b.store),
		Notes:     service.NewNotesService(team, b.store, log),
		Plans:     service.NewPlanService(team, b.store.Plans, log),
		Exports:   service.NewExportService(team, b.store, fileStorage, cfg.S3.PresignTTL, log),
	}

	if cfg.Log.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), log.GinMiddleware())
	api.SetupRoutes(router, cfg.JWT.Secret, services, log)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	// Give in-flight requests 5 seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exiting.")
	return nil
}

// @title Swimlog API
// @version 1.0
// @description Training, resting heart rate and technique logging for a swim team.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	app := &cli.App{
		Name:     "swimlog",
		HelpName: "swimlog",
		Usage:    "Swim team training log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   ".",
				Usage:   "directory holding config.yaml",
				EnvVars: []string{"SWIMLOG_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "ensure MongoDB indexes or create Postgres tables",
				Action: migrate,
			},
		},
		Action: serve,
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", c.App.Name, err)
		},
	}
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
