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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"activity_hub/internal/config"
	"activity_hub/internal/controllers"
	"activity_hub/internal/logger"
	"activity_hub/internal/messaging"
	"activity_hub/internal/middleware"
	"activity_hub/internal/otp"
	"activity_hub/internal/repository"
	"activity_hub/internal/routes"
	"activity_hub/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logWriter := logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logrus.Info("✅ Connected to database and migrated schema")

	// One-time codes live in Redis when configured so every instance sees them.
	var (
		codes otp.Store = otp.NewMemoryStore()
		ready controllers.RedisPinger
	)
	rdb, err := config.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		codes = otp.NewRedisStore(rdb, config.NewCircuitBreaker("Redis-OTP"))
		ready = rdb
		logrus.WithField("addr", cfg.RedisAddr).Info("one-time codes stored in redis")
	} else {
		logrus.Warn("REDIS_ADDR not set; one-time codes kept in process memory")
	}

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RegistrationQueue, config.NewCircuitBreaker("RabbitMQ-Publisher"))
		if err != nil {
			// Registrations still work without the broker.
			logrus.WithError(err).Warn("rabbitmq unavailable; registration events disabled")
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	accountRepo := repository.NewAccountRepository(db)
	accounts := services.NewAccountService(accountRepo)
	auth := services.NewAuthService(accountRepo, tokens, codes, otp.LogSender{RevealCode: cfg.GinMode == gin.DebugMode}, services.OTPConfig{
		TTL:      cfg.OTPTTL,
		TestCode: cfg.OTPTestCode,
	})
	regs := services.NewRegistrationService(repository.NewRegistrationRepository(db), publisher)
	events := services.NewEventService(repository.NewEventRepository(db))

	router := routes.SetupRouter(routes.Handlers{
		Auth:              controllers.NewAuthController(auth, accounts),
		Accounts:          controllers.NewAccountController(accounts),
		Users:             controllers.NewUserController(accounts),
		Events:            controllers.NewEventController(events),
		ParticipantEvents: controllers.NewRegistrationController(regs, services.KindParticipant),
		VolunteerEvents:   controllers.NewRegistrationController(regs, services.KindVolunteer),
		Health:            controllers.NewHealthController(sqlDB, ready, os.Getenv("APP_VERSION")),
		Tokens:            tokens,
		AccessLog:         logWriter,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           middleware.EnableCORS(router, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("🚀 Server running at :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
