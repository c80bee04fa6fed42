package config

import (
	"os"
	"testing"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("OPENFINANCE_API_KEY", "test-api-key")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenFinance.APIKey != "test-api-key" {
		t.Errorf("OpenFinance.APIKey = %q, want %q", cfg.OpenFinance.APIKey, "test-api-key")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Monitor.CheckSchedule != "0 * * * *" {
		t.Errorf("Monitor.CheckSchedule = %q, want hourly default", cfg.Monitor.CheckSchedule)
	}
	if cfg.Monitor.CleanupSchedule != "0 4 * * *" {
		t.Errorf("Monitor.CleanupSchedule = %q, want daily default", cfg.Monitor.CleanupSchedule)
	}
	if cfg.Monitor.HistoryRetentionDays != 90 {
		t.Errorf("Monitor.HistoryRetentionDays = %d, want 90", cfg.Monitor.HistoryRetentionDays)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENFINANCE_API_KEY", "")
	os.Unsetenv("OPENFINANCE_API_KEY")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing OPENFINANCE_API_KEY, got nil")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_KafkaValidation(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for Kafka enabled without brokers, got nil")
	}
}

func TestLoad_KafkaBrokers(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Kafka.Brokers length = %d, want 2", len(cfg.Kafka.Brokers))
	}
	if cfg.Kafka.Brokers[0] != "broker-1:9092" || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("Kafka.Brokers = %v, want trimmed broker list", cfg.Kafka.Brokers)
	}
}

func TestLoad_FirebaseValidation(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("FIREBASE_ENABLED", "true")
	t.Setenv("FIREBASE_CREDENTIALS_FILE", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for Firebase enabled without credentials, got nil")
	}
}

func TestLoad_SchedulerConfig(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_WORKERS", "10")
	t.Setenv("MONITOR_RUN_ON_STARTUP", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Scheduler.Enabled != false {
		t.Error("Scheduler.Enabled should be false")
	}
	if cfg.Scheduler.WorkerCount != 10 {
		t.Errorf("Scheduler.WorkerCount = %d, want 10", cfg.Scheduler.WorkerCount)
	}
	if cfg.Monitor.RunOnStartup != true {
		t.Error("Monitor.RunOnStartup should be true")
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		defVal   bool
		expected bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"True", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"YES", false, true},
		{"false", true, false},
		{"FALSE", true, false},
		{"0", true, false},
		{"no", true, false},
		{"NO", true, false},
		{"invalid", true, true},   // returns default
		{"invalid", false, false}, // returns default
		{"", true, true},          // empty returns default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			key := "TEST_BOOL_ENV"
			if tt.value == "" {
				os.Unsetenv(key)
			} else {
				t.Setenv(key, tt.value)
			}

			got := getBoolEnv(key, tt.defVal)
			if got != tt.expected {
				t.Errorf("getBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defVal, got, tt.expected)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	got := cfg.ConnectionString()
	if got != expected {
		t.Errorf("ConnectionString() = %q, want %q", got, expected)
	}
}
