// Package main is a one-shot inspector: it fetches the staking pool and,
// when a wallet is given, that wallet's position and balance, and prints
// the decoded records as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Reddjoseph/DEMOHZK/internal/config"
	"github.com/Reddjoseph/DEMOHZK/internal/logger"
	"github.com/Reddjoseph/DEMOHZK/internal/solana"
	"github.com/Reddjoseph/DEMOHZK/internal/staking"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rpcEndpoint := flag.String("rpc-endpoint", cfg.RPCEndpoint, "Solana RPC HTTP endpoint")
	walletAddress := flag.String("wallet", "", "Wallet address to inspect (optional)")
	timeout := flag.Duration("timeout", 15*time.Second, "RPC timeout")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	log := logger.New(*verbose)
	rpc := solana.NewHTTPClient(*rpcEndpoint, solana.WithTimeout(*timeout))
	repo := staking.NewRepository(rpc, log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out := map[string]any{
		"programId": staking.ProgramID.String(),
		"poolPda":   staking.PoolPDA.String(),
	}

	pool, err := repo.FetchPool(ctx)
	if err != nil {
		log.Error("pool fetch failed", "err", err)
		os.Exit(1)
	}
	out["pool"] = pool

	if *walletAddress != "" {
		owner, err := solana.PublicKeyFromBase58(*walletAddress)
		if err != nil {
			log.Error("invalid wallet address", "err", err)
			os.Exit(1)
		}
		pos, err := repo.FetchUserPosition(ctx, owner)
		if err != nil {
			log.Error("position fetch failed", "err", err)
			os.Exit(1)
		}
		out["position"] = pos
		out["balance"] = repo.FetchWalletBalance(ctx, owner)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error("encode output", "err", err)
		os.Exit(1)
	}
}
