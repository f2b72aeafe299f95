package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sportivai/federation-api/internal/config"
	"github.com/sportivai/federation-api/internal/email"
	"github.com/sportivai/federation-api/internal/handler"
	authHandler "github.com/sportivai/federation-api/internal/handler/auth"
	clubHandler "github.com/sportivai/federation-api/internal/handler/club"
	demandeHandler "github.com/sportivai/federation-api/internal/handler/demande"
	devisHandler "github.com/sportivai/federation-api/internal/handler/devis"
	"github.com/sportivai/federation-api/internal/handler/health"
	licenceHandler "github.com/sportivai/federation-api/internal/handler/licence"
	notificationHandler "github.com/sportivai/federation-api/internal/handler/notification"
	wsHandler "github.com/sportivai/federation-api/internal/handler/ws"
	"github.com/sportivai/federation-api/internal/middleware"
	"github.com/sportivai/federation-api/internal/repository/postgres"
	"github.com/sportivai/federation-api/internal/router"
	authService "github.com/sportivai/federation-api/internal/service/auth"
	"github.com/sportivai/federation-api/internal/service/authz"
	clubService "github.com/sportivai/federation-api/internal/service/club"
	demandeService "github.com/sportivai/federation-api/internal/service/demande"
	devisService "github.com/sportivai/federation-api/internal/service/devis"
	licenceService "github.com/sportivai/federation-api/internal/service/licence"
	notificationService "github.com/sportivai/federation-api/internal/service/notification"
	seasonService "github.com/sportivai/federation-api/internal/service/season"
	"github.com/sportivai/federation-api/internal/ws"
	"github.com/sportivai/federation-api/pkg/auth"
	applog "github.com/sportivai/federation-api/pkg/logger"
	"github.com/sportivai/federation-api/pkg/messaging"
	redisBroker "github.com/sportivai/federation-api/pkg/messaging/redis"
	"github.com/sportivai/federation-api/pkg/metrics"
	"github.com/sportivai/federation-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	logger := applog.New(cfg.Logging)
	m := metrics.NewMetrics("federation", "api")

	// The broker is optional: without it notifications are delivered to
	// local connections only.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(cfg.Redis, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer broker.Close()
	}

	base := postgres.NewBaseRepository(db)
	licenceRepo := postgres.NewLicenceRepository(base)
	demandeRepo := postgres.NewDemandeRepository(base)
	devisRepo := postgres.NewDevisRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)
	adherentRepo := postgres.NewAdherentRepository(base)
	seasonRepo := postgres.NewSeasonRepository(base)
	clubRepo := postgres.NewClubRepository(base)
	userRepo := postgres.NewUserRepository(base)
	invitationRepo := postgres.NewInvitationRepository(base)
	offerRepo := postgres.NewOfferRepository(base)

	hub := ws.NewHub(&logger, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if broker != nil {
		go func() {
			if err := hub.RunForwarder(ctx, broker, notificationService.BrokerChannel); err != nil {
				logger.Error().Err(err).Msg("notification forwarder stopped")
			}
		}()
	}

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	evaluator := authz.NewEvaluator()
	mailer := email.NewService(cfg.Email, &logger)

	notificationSvc := notificationService.NewService(notificationRepo, hub, broker, &logger, m)
	seasonSvc := seasonService.NewService(seasonRepo)
	licenceSvc := licenceService.NewService(licenceRepo, adherentRepo, seasonSvc, evaluator, notificationSvc, &logger, m)
	demandeSvc := demandeService.NewService(demandeRepo, evaluator, notificationSvc, &logger, m)
	devisSvc := devisService.NewService(devisRepo, offerRepo, evaluator, mailer, &logger, m)
	authSvc := authService.NewService(userRepo, invitationRepo, jwtSvc, hasher, evaluator, mailer, &logger,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	clubSvc := clubService.NewService(clubRepo, adherentRepo, evaluator)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	handler.RegisterValidations()

	r := router.New(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		devisHandler.NewHandler(devisSvc),
		licenceHandler.NewHandler(licenceSvc),
		demandeHandler.NewHandler(demandeSvc),
		notificationHandler.NewHandler(notificationSvc),
		clubHandler.NewHandler(clubSvc),
		wsHandler.NewHandler(hub, jwtSvc, &logger),
		health.NewHandler(db),
		router.Config{
			RateLimit: rate.Limit(100),
			RateBurst: 200,
			CORS:      middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	logger.Info().Int("port", cfg.Server.Port).Msg("server started")

	<-ctx.Done()
	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited properly")
}
