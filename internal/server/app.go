// Package server wires the auth subsystem together: database, revocation
// store, token codec, services, background sweeper, and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/aleksvarts/classroom-auth/internal/logging"
	"github.com/aleksvarts/classroom-auth/internal/server/auth"
	"github.com/aleksvarts/classroom-auth/internal/server/config"
	"github.com/aleksvarts/classroom-auth/internal/server/email"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/repomanager"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/revokedtokens"
	"github.com/aleksvarts/classroom-auth/internal/server/services"

	gs "github.com/aleksvarts/classroom-auth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	otpService  *services.OTPService
	sweeper     *services.Sweeper
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// revocations live in redis when an address is configured, otherwise in
	// the same postgres database as everything else
	var revoked revokedtokens.Repository
	if cfg.RedisAddr != "" {
		revoked = revokedtokens.NewRedisRepository(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		revoked = repos.RevokedTokens(db)
	}

	var dispatcher email.Dispatcher
	if cfg.PostmarkServerToken != "" {
		dispatcher, err = email.NewPostmarkDispatcher(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, cfg.SenderEmail)
		if err != nil {
			return nil, fmt.Errorf("email init error: %w", err)
		}
	} else {
		dispatcher = email.NewDevDispatcher(logger)
	}

	codec, err := auth.NewCodec([]byte(cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	as := services.NewAuthService(db, repos, revoked, codec, logger, cfg)
	ots := services.NewOTPService(db, repos, dispatcher, logger, cfg)
	sw := services.NewSweeper(revoked, repos.OTPs(db), logger, cfg.SweepInterval)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		authService: as,
		otpService:  ots,
		sweeper:     sw,
	}, nil
}

// Auth exposes the token lifecycle service to the embedding platform.
func (app *App) Auth() *services.AuthService {
	return app.authService
}

// OTP exposes the one-time code service to the embedding platform, which
// drives the registration/verification flow.
func (app *App) OTP() *services.OTPService {
	return app.otpService
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.sweeper.Start(); err != nil {
		app.logger.Error(ctx, "sweeper start error", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.sweeper.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
