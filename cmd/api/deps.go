package main

import (
	"context"

	"github.com/rs/zerolog"

	"centavo/internal/domain/connection"
	"centavo/internal/domain/notification"
	"centavo/internal/infrastructure/events"
	"centavo/internal/infrastructure/firebase"
	"centavo/internal/infrastructure/kafka"
	"centavo/internal/infrastructure/openfinance"
	"centavo/internal/infrastructure/postgres"
	httphandlers "centavo/internal/interfaces/http"
	"centavo/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB  *postgres.DB
	Bus *events.Bus

	// Handlers
	ConnectionHandler   *httphandlers.ConnectionHandler
	NotificationHandler *httphandlers.NotificationHandler

	// Monitoring core (for scheduler jobs)
	Guard       *connection.Guard
	HistoryRepo connection.HistoryRepository
	CleanupJob  *notification.CleanupJob

	kafkaPublisher *kafka.Publisher
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	historyRepo := postgres.NewHistoryRepository(db, log)
	notificationRepo := postgres.NewNotificationRepository(db)
	institutionRepo := postgres.NewInstitutionRepository(db)

	// Initialize Open Finance client and target aggregation
	ofClient := openfinance.NewClient(cfg.OpenFinance.BaseURL, cfg.OpenFinance.APIKey)
	source := openfinance.NewTargetSource(institutionRepo, ofClient, log)

	// Failure event fan-out: the in-process bus always runs; Kafka is added
	// when configured.
	bus := events.NewBus(log)
	var publisher connection.FailurePublisher = bus
	var kafkaPublisher *kafka.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher = kafka.NewPublisher(cfg.Kafka.Brokers, log)
		publisher = events.NewMultiPublisher(bus, kafkaPublisher)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka publisher enabled")
	}

	// Monitoring core
	prober := connection.NewProber(log)
	checker := connection.NewChecker(prober, historyRepo, publisher, log)
	guard := connection.NewGuard(checker, source, log)

	// Push messenger is optional; without it notifications are store-only.
	var messenger notification.Messenger
	if cfg.Firebase.Enabled {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.Topic, log)
		if err != nil {
			return nil, err
		}
		messenger = fcm
		log.Info().Str("topic", cfg.Firebase.Topic).Msg("Firebase messaging enabled")
	}

	notificationService := notification.NewService(notificationRepo, messenger, log)
	bus.Subscribe(func(ctx context.Context, evt connection.FailedEvent) error {
		notificationService.HandleConnectionFailed(ctx, evt)
		return nil
	})

	cleanupJob := notification.NewCleanupJob(notificationRepo, log)

	// Initialize handlers
	connectionHandler := httphandlers.NewConnectionHandler(guard, source, historyRepo, log)
	notificationHandler := httphandlers.NewNotificationHandler(notificationRepo, cleanupJob, log)

	return &Dependencies{
		DB:                  db,
		Bus:                 bus,
		ConnectionHandler:   connectionHandler,
		NotificationHandler: notificationHandler,
		Guard:               guard,
		HistoryRepo:         historyRepo,
		CleanupJob:          cleanupJob,
		kafkaPublisher:      kafkaPublisher,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.kafkaPublisher != nil {
		d.kafkaPublisher.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
