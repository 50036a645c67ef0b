package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RPCEndpoint != DefaultRPCEndpoint {
		t.Errorf("RPCEndpoint = %s", cfg.RPCEndpoint)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.Network != DefaultNetwork {
		t.Errorf("Network = %s", cfg.Network)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOLANA_RPC_ENDPOINT", "http://localhost:8899")
	t.Setenv("PORT", "9999")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RPCEndpoint != "http://localhost:8899" {
		t.Errorf("RPCEndpoint = %s", cfg.RPCEndpoint)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("Debug = false")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid PORT")
	}
}
