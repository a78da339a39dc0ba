package config

import (
	"os"
	"testing"
)

func TestLoadRejectsMissingExplicitConfigFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/does/not/matter.yaml")
	if err == nil {
		t.Fatalf("expected error for missing explicit config file, got cfg=%+v", cfg)
	}
}

func TestLoadAppliesDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected defaults-only load to succeed, got error: %v", err)
	}

	if cfg.Producer.NumThreads != 1 {
		t.Errorf("expected default num_threads 1, got %d", cfg.Producer.NumThreads)
	}
	if cfg.Server.Port != 10197 {
		t.Errorf("expected default server port 10197, got %d", cfg.Server.Port)
	}
	if cfg.Client.Mode != "buffer" {
		t.Errorf("expected default client mode 'buffer', got %q", cfg.Client.Mode)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	_ = os.Setenv("ILLEX_SERVER_PORT", "9999")
	defer func() { _ = os.Unsetenv("ILLEX_SERVER_PORT") }()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected env override to set server.port=9999, got %d", cfg.Server.Port)
	}
}

func TestWhitespaceByteFallsBackToSpace(t *testing.T) {
	c := ProducerConfig{WhitespaceChar: ""}
	if got := c.WhitespaceByte(); got != ' ' {
		t.Errorf("expected fallback space, got %q", got)
	}

	c.WhitespaceChar = "\t"
	if got := c.WhitespaceByte(); got != '\t' {
		t.Errorf("expected tab, got %q", got)
	}
}
