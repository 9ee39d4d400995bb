package config

import (
	"strings"
	"testing"
	"time"
)

func setBase(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "a-development-secret")
	t.Setenv("JWT_SECRET_ARN", "")
	t.Setenv("STORE_DRIVER", DriverMemory)
	t.Setenv("OUTBOX_DRIVER", OutboxLog)
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
}

func TestLoadDefaults(t *testing.T) {
	setBase(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Server.Address())
	}
	if cfg.Booking.PaymentSuccessRate != 0.9 {
		t.Errorf("PaymentSuccessRate = %v, want 0.9", cfg.Booking.PaymentSuccessRate)
	}
	if len(cfg.Booking.Rooms) != 4 {
		t.Errorf("Rooms = %v", cfg.Booking.Rooms)
	}
	if cfg.Server.TLSEnabled() {
		t.Error("TLS enabled without a certificate")
	}
}

func TestLoadOverrides(t *testing.T) {
	setBase(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("BOOKING_ROOMS", " Lotus , Jasmine ,")
	t.Setenv("BOOKING_PAYMENT_DELAY", "250ms")
	t.Setenv("REMINDER_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if got := strings.Join(cfg.Booking.Rooms, "|"); got != "Lotus|Jasmine" {
		t.Errorf("Rooms = %q", got)
	}
	if cfg.Booking.PaymentDelay != 250*time.Millisecond {
		t.Errorf("PaymentDelay = %v", cfg.Booking.PaymentDelay)
	}
	if cfg.Reminder.Enabled {
		t.Error("reminder worker still enabled")
	}
	if cfg.RateLimit.RequestsPerSecond != 50 {
		t.Errorf("unparsable value should fall back, got %v", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"short production secret", map[string]string{"APP_ENV": "production", "STORE_DRIVER": DriverSQLite}, "at least 32 characters"},
		{"memory in production", map[string]string{"APP_ENV": "production", "JWT_SECRET": strings.Repeat("x", 32)}, "STORE_DRIVER=memory"},
		{"unknown driver", map[string]string{"STORE_DRIVER": "redis"}, "unknown STORE_DRIVER"},
		{"s3 without bucket", map[string]string{"STORE_DRIVER": DriverS3, "AWS_S3_BUCKET": ""}, "AWS_S3_BUCKET"},
		{"sqs without queue", map[string]string{"OUTBOX_DRIVER": OutboxSQS, "AWS_SQS_QUEUE_URL": ""}, "AWS_SQS_QUEUE_URL"},
		{"success rate", map[string]string{"BOOKING_PAYMENT_SUCCESS_RATE": "1.5"}, "between 0 and 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBase(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
