package config_test

import (
	"slices"
	"testing"
	"time"

	cfg "github.com/Gunvolt24/wf_cart/config"
)

// TestLoadWithPrefix_Defaults - значения по умолчанию.
func TestLoadWithPrefix_Defaults(t *testing.T) {
	t.Parallel()

	c, err := cfg.LoadWithPrefix("CART_TEST_DEFAULTS")
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	if c.HTTP.Addr != ":8080" || c.HTTP.GinMode != "debug" {
		t.Fatalf("HTTP defaults wrong: %+v", c.HTTP)
	}
	if c.HTTP.HandlerTimeout != 3*time.Second || c.HTTP.GracefulTimeout != 10*time.Second {
		t.Fatalf("HTTP timeouts wrong: %+v", c.HTTP)
	}
	if c.Metrics.Addr != ":2112" {
		t.Fatalf("Metrics.Addr: want :2112, got %q", c.Metrics.Addr)
	}
	if c.Tracing.Enabled || c.Tracing.ServiceName != "wf-cart" || c.Tracing.SampleRatio != 1 {
		t.Fatalf("Tracing defaults wrong: %+v", c.Tracing)
	}

	if c.Storage.Driver != "memory" || c.Storage.DSN == "" || c.Storage.MaxConns != 10 || c.Storage.RereadBeforeMutation {
		t.Fatalf("Storage defaults wrong: %+v", c.Storage)
	}
	if c.Sessions.Capacity != 10000 || c.Sessions.TTL != 30*time.Minute || c.Sessions.OutboxSize != 256 {
		t.Fatalf("Sessions defaults wrong: %+v", c.Sessions)
	}
	if c.Backend.LoginURL != "/login" || c.Backend.ReceiptURL != "/receipt" || c.Backend.ReturnURL != "/cart" {
		t.Fatalf("Backend defaults wrong: %+v", c.Backend)
	}
	if c.Notify.StatusDelay != 1500*time.Millisecond {
		t.Fatalf("Notify.StatusDelay: want 1.5s, got %v", c.Notify.StatusDelay)
	}

	if c.Kafka.Enabled || !slices.Equal(c.Kafka.Brokers, []string{"kafka:9092"}) || c.Kafka.Topic != "cart-frames" {
		t.Fatalf("Kafka defaults wrong: %+v", c.Kafka)
	}
	if c.Kafka.ProcessTimeout != 5*time.Second || c.Kafka.RetryInitial != time.Second || c.Kafka.RetryMax != 30*time.Second {
		t.Fatalf("Kafka timeouts wrong: %+v", c.Kafka)
	}
	if c.Kafka.Lanes != 4 {
		t.Fatalf("Kafka.Lanes: want 4, got %d", c.Kafka.Lanes)
	}
	if c.Logger.IsProd {
		t.Fatal("Logger.IsProd: want false")
	}
}

func TestLoadWithPrefix_Overrides(t *testing.T) {
	const p = "CART_TEST_OVR"

	t.Setenv(p+"_HTTP_ADDR", ":9999")
	t.Setenv(p+"_HTTP_HANDLER_TIMEOUT", "4500ms")
	t.Setenv(p+"_TRACING_OTEL_ENABLED", "true")
	t.Setenv(p+"_TRACING_OTEL_SAMPLE_RATIO", "0.25")
	t.Setenv(p+"_STORAGE_DRIVER", "postgres")
	t.Setenv(p+"_STORAGE_MAX_CONNS", "42")
	t.Setenv(p+"_STORAGE_REREAD_BEFORE_MUTATION", "true")
	t.Setenv(p+"_SESSIONS_CAPACITY", "5")
	t.Setenv(p+"_SESSIONS_TTL", "90s")
	t.Setenv(p+"_BACKEND_BASE_URL", "https://frog.example")
	t.Setenv(p+"_NOTIFY_STATUS_DELAY", "2s")
	t.Setenv(p+"_KAFKA_ENABLED", "true")
	t.Setenv(p+"_KAFKA_BROKERS", "k1:9092,k2:9093")
	t.Setenv(p+"_KAFKA_START_OFFSET", "first")
	t.Setenv(p+"_LOGGER_IS_PROD", "true")

	c, err := cfg.LoadWithPrefix(p)
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	if c.HTTP.Addr != ":9999" || c.HTTP.HandlerTimeout != 4500*time.Millisecond {
		t.Fatalf("HTTP overrides wrong: %+v", c.HTTP)
	}
	if !c.Tracing.Enabled || c.Tracing.SampleRatio != 0.25 {
		t.Fatalf("Tracing overrides wrong: %+v", c.Tracing)
	}
	if c.Storage.Driver != "postgres" || c.Storage.MaxConns != 42 || !c.Storage.RereadBeforeMutation {
		t.Fatalf("Storage overrides wrong: %+v", c.Storage)
	}
	if c.Sessions.Capacity != 5 || c.Sessions.TTL != 90*time.Second {
		t.Fatalf("Sessions overrides wrong: %+v", c.Sessions)
	}
	if c.Backend.BaseURL != "https://frog.example" || c.Notify.StatusDelay != 2*time.Second {
		t.Fatalf("Backend/Notify overrides wrong: %+v %+v", c.Backend, c.Notify)
	}
	if !c.Kafka.Enabled || !slices.Equal(c.Kafka.Brokers, []string{"k1:9092", "k2:9093"}) || c.Kafka.StartOffset != "first" {
		t.Fatalf("Kafka overrides wrong: %+v", c.Kafka)
	}
	if !c.Logger.IsProd {
		t.Fatal("Logger.IsProd override wrong")
	}
}

func TestLoadWithPrefix_InvalidValue_ReturnsError(t *testing.T) {
	const p = "CART_TEST_BAD"
	t.Setenv(p+"_NOTIFY_STATUS_DELAY", "soon")

	if _, err := cfg.LoadWithPrefix(p); err == nil {
		t.Fatal("expected error for invalid duration, got nil")
	}
}
