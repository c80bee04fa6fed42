package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Monitor     MonitorConfig
	Scheduler   SchedulerConfig
	OpenFinance OpenFinanceConfig
	Kafka       KafkaConfig
	Firebase    FirebaseConfig
	Telemetry   TelemetryConfig
	Logging     LoggingConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MonitorConfig struct {
	// CheckSchedule and CleanupSchedule use 5-field cron syntax.
	CheckSchedule        string
	CleanupSchedule      string
	HistoryRetentionDays int
	RunOnStartup         bool
}

type SchedulerConfig struct {
	Enabled     bool
	WorkerCount int
	QueueSize   int
}

type OpenFinanceConfig struct {
	BaseURL string
	APIKey  string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
}

type FirebaseConfig struct {
	Enabled         bool
	CredentialsFile string
	Topic           string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

type LoggingConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	schedulerWorkers, err := strconv.Atoi(getEnv("SCHEDULER_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_WORKERS: %w", err)
	}
	schedulerQueueSize, err := strconv.Atoi(getEnv("SCHEDULER_QUEUE_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_QUEUE_SIZE: %w", err)
	}

	historyRetention, err := strconv.Atoi(getEnv("MONITOR_HISTORY_RETENTION_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_HISTORY_RETENTION_DAYS: %w", err)
	}

	var kafkaBrokers []string
	for _, broker := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		broker = strings.TrimSpace(broker)
		if broker != "" {
			kafkaBrokers = append(kafkaBrokers, broker)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "centavo"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "centavo"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Monitor: MonitorConfig{
			CheckSchedule:        getEnv("MONITOR_CHECK_SCHEDULE", "0 * * * *"),
			CleanupSchedule:      getEnv("MONITOR_CLEANUP_SCHEDULE", "0 4 * * *"),
			HistoryRetentionDays: historyRetention,
			RunOnStartup:         getBoolEnv("MONITOR_RUN_ON_STARTUP", false),
		},
		Scheduler: SchedulerConfig{
			Enabled:     getBoolEnv("SCHEDULER_ENABLED", true),
			WorkerCount: schedulerWorkers,
			QueueSize:   schedulerQueueSize,
		},
		OpenFinance: OpenFinanceConfig{
			BaseURL: getEnv("OPENFINANCE_BASE_URL", ""),
			APIKey:  getEnv("OPENFINANCE_API_KEY", ""),
		},
		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: kafkaBrokers,
		},
		Firebase: FirebaseConfig{
			Enabled:         getBoolEnv("FIREBASE_ENABLED", false),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			Topic:           getEnv("FIREBASE_TOPIC", "connection-alerts"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "centavo-api"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4318"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBoolEnv("LOG_PRETTY", false),
		},
	}

	if cfg.OpenFinance.APIKey == "" {
		return nil, fmt.Errorf("OPENFINANCE_API_KEY is required")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if cfg.Firebase.Enabled && cfg.Firebase.CredentialsFile == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_FILE is required when FIREBASE_ENABLED=true")
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
