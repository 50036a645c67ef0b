// Package config loads the dashboard settings from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults point at the public devnet cluster the staking program lives on.
const (
	DefaultRPCEndpoint = "https://api.devnet.solana.com"
	DefaultWSEndpoint  = "wss://api.devnet.solana.com"
	DefaultNetwork     = "devnet"
	DefaultPort        = 8080
)

// Config holds everything the server binary needs to start.
type Config struct {
	RPCEndpoint   string
	WSEndpoint    string
	Network       string
	KeypairPath   string
	WalletAddress string
	IDLPath       string
	Bind          string
	Port          int
	Debug         bool
	Verbose       bool
}

// Load reads a .env file when present (never overriding real environment
// variables) and builds a Config from the environment.
func Load() (*Config, error) {
	// godotenv.Load errors when the file is absent; that is the normal
	// production case.
	_ = godotenv.Load()

	cfg := &Config{
		RPCEndpoint:   envOr("SOLANA_RPC_ENDPOINT", DefaultRPCEndpoint),
		WSEndpoint:    envOr("SOLANA_WS_ENDPOINT", DefaultWSEndpoint),
		Network:       envOr("NETWORK", DefaultNetwork),
		KeypairPath:   os.Getenv("WALLET_KEYPAIR"),
		WalletAddress: os.Getenv("WALLET_ADDRESS"),
		IDLPath:       os.Getenv("IDL_PATH"),
		Bind:          os.Getenv("BIND_HOST"),
		Port:          DefaultPort,
		Debug:         envBool("DEBUG"),
		Verbose:       envBool("VERBOSE"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse PORT: %w", err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
