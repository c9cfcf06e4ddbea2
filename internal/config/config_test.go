package config

import (
	"reflect"
	"testing"
	"time"
)

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" kafka-1:9092, ,kafka-2:9092,")
	want := []string{"kafka-1:9092", "kafka-2:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV = %v, want %v", got, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("NOTIFY_WORKERS", "not-a-number")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("PUBLIC_BASE_URL", "https://shop.example/")

	cfg := Load()
	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.NotifyWorkers != 4 {
		t.Errorf("NotifyWorkers = %d, want default 4", cfg.NotifyWorkers)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.AutoMigrate {
		t.Error("AutoMigrate should be false")
	}
	if cfg.PublicBaseURL != "https://shop.example" {
		t.Errorf("PublicBaseURL = %q", cfg.PublicBaseURL)
	}
}
