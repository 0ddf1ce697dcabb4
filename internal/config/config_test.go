package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BaseFee != 1200 {
		t.Errorf("BaseFee = %d, want 1200", cfg.BaseFee)
	}
	if cfg.AppointmentsTable != "appointments" {
		t.Errorf("AppointmentsTable = %q, want appointments", cfg.AppointmentsTable)
	}
	if cfg.LabTestOrdersTable != "scheduledLabTests" {
		t.Errorf("LabTestOrdersTable = %q, want scheduledLabTests", cfg.LabTestOrdersTable)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL = %v, want 12h", cfg.TokenTTL)
	}
	if cfg.MemoryQueueEnabled() {
		t.Error("memory queue should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APPOINTMENT_BASE_FEE", "2500")
	t.Setenv("USE_MEMORY_QUEUE", "true")
	t.Setenv("REF_CACHE_TTL", "30s")
	t.Setenv("WORKER_COUNT", "4")

	cfg := Load()

	if cfg.BaseFee != 2500 {
		t.Errorf("BaseFee = %d, want 2500", cfg.BaseFee)
	}
	if !cfg.MemoryQueueEnabled() {
		t.Error("memory queue should be enabled")
	}
	if cfg.RefCacheTTL != 30*time.Second {
		t.Errorf("RefCacheTTL = %v, want 30s", cfg.RefCacheTTL)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want 4", cfg.WorkerCount)
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("APPOINTMENT_BASE_FEE", "lots")
	t.Setenv("REF_CACHE_TTL", "soon")

	cfg := Load()

	if cfg.BaseFee != 1200 {
		t.Errorf("BaseFee = %d, want default 1200", cfg.BaseFee)
	}
	if cfg.RefCacheTTL != 5*time.Minute {
		t.Errorf("RefCacheTTL = %v, want default 5m", cfg.RefCacheTTL)
	}
}
