// Package main runs the staking dashboard server: it watches the pool and
// user accounts on chain, serves the decoded state over HTTP and submits
// stake, unstake and claim transactions.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Reddjoseph/DEMOHZK/internal/config"
	"github.com/Reddjoseph/DEMOHZK/internal/dashboard"
	"github.com/Reddjoseph/DEMOHZK/internal/history"
	"github.com/Reddjoseph/DEMOHZK/internal/idl"
	"github.com/Reddjoseph/DEMOHZK/internal/layout"
	"github.com/Reddjoseph/DEMOHZK/internal/logger"
	"github.com/Reddjoseph/DEMOHZK/internal/observability"
	"github.com/Reddjoseph/DEMOHZK/internal/solana"
	"github.com/Reddjoseph/DEMOHZK/internal/staking"
	"github.com/Reddjoseph/DEMOHZK/internal/txsubmit"
	"github.com/Reddjoseph/DEMOHZK/internal/wallet"
)

// initialFetchDelay gives the RPC connection a moment before the first
// account fetch fires.
const initialFetchDelay = 300 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	rpcEndpoint := flag.String("rpc-endpoint", cfg.RPCEndpoint, "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", cfg.WSEndpoint, "Solana WebSocket endpoint")
	keypairPath := flag.String("keypair", cfg.KeypairPath, "Path to a solana-keygen wallet file")
	walletAddress := flag.String("wallet", cfg.WalletAddress, "Watch-only wallet address (no signing)")
	idlPath := flag.String("idl", cfg.IDLPath, "Path to the program IDL (built-in schema when empty)")
	bind := flag.String("bind", cfg.Bind, "HTTP bind host")
	port := flag.Int("port", cfg.Port, "HTTP port")
	debug := flag.Bool("debug", cfg.Debug, "Expose debug endpoints")
	verbose := flag.Bool("verbose", cfg.Verbose, "Debug logging")
	flag.Parse()

	log := logger.New(*verbose)

	w, err := buildWallet(*keypairPath, *walletAddress, log)
	if err != nil {
		log.Error("wallet setup failed", "err", err)
		os.Exit(1)
	}
	log.Info("wallet ready", "address", w.PublicKey().String(), "network", cfg.Network)

	doc, err := staking.LoadIDL(*idlPath)
	if err != nil {
		log.Error("IDL load failed", "err", err)
		os.Exit(1)
	}

	rpc := solana.NewHTTPClient(*rpcEndpoint)
	repo := staking.NewRepository(rpc, log).WithCoder(idl.NewCoder(doc))
	builder := staking.NewBuilder(idl.NewCoder(doc))
	activity := history.NewLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var svc *dashboard.Service
	submitter := txsubmit.NewSubmitter(rpc, w, log,
		txsubmit.WithStateFunc(func(_ txsubmit.State, detail string) {
			svc.SetStatus(detail)
		}),
		txsubmit.WithConfirmedHook(func(ctx context.Context) {
			svc.RefreshAll(ctx)
		}),
	)
	svc = dashboard.NewService(repo, builder, submitter, w, activity, cfg.Network, log)

	go func() {
		select {
		case <-time.After(initialFetchDelay):
		case <-ctx.Done():
			return
		}
		svc.RefreshAll(ctx)
	}()

	go watchAccounts(ctx, *wsEndpoint, svc, w.PublicKey(), log)

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.DefaultMetrics.UptimeSeconds.Inc()
			}
		}
	}()

	server := dashboard.NewServer(dashboard.ServerConfig{
		Bind:  *bind,
		Port:  *port,
		Debug: *debug,
	}, svc, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}

// buildWallet picks the signing wallet: a keypair file when given, a
// watch-only wallet for a bare address, otherwise a fresh throwaway key.
func buildWallet(keypairPath, address string, log *slog.Logger) (wallet.Wallet, error) {
	if keypairPath != "" {
		return wallet.Load(keypairPath)
	}
	if address != "" {
		pk, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return nil, err
		}
		log.Warn("running watch-only, transactions will fail to sign", "address", pk.Short())
		return wallet.NewReadOnly(pk), nil
	}
	log.Warn("no wallet configured, generating an ephemeral keypair")
	return wallet.NewKeypair()
}

// watchAccounts streams pool and user-state account changes over WebSocket
// and applies them to the dashboard state. The dashboard stays usable
// without the stream; fetches keep working over HTTP.
func watchAccounts(ctx context.Context, endpoint string, svc *dashboard.Service, owner solana.PublicKey, log *slog.Logger) {
	ws, err := solana.NewWSClient(ctx, endpoint, nil)
	if err != nil {
		log.Warn("account stream unavailable", "err", err)
		return
	}
	defer ws.Close()

	poolCh, err := ws.SubscribeAccount(ctx, staking.PoolPDA.String())
	if err != nil {
		log.Warn("pool subscription failed", "err", err)
		return
	}

	userPda, _, err := staking.UserStateAddress(owner)
	if err != nil {
		log.Warn("user state derivation failed", "err", err)
		return
	}
	userCh, err := ws.SubscribeAccount(ctx, userPda.String())
	if err != nil {
		log.Warn("user state subscription failed", "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-poolCh:
			if !ok {
				return
			}
			observability.DefaultMetrics.WSNotifications.Inc()
			applyPoolNotification(svc, notif, log)
		case notif, ok := <-userCh:
			if !ok {
				return
			}
			observability.DefaultMetrics.WSNotifications.Inc()
			applyUserNotification(svc, notif, userPda, log)
		}
	}
}

func applyPoolNotification(svc *dashboard.Service, notif solana.AccountNotification, log *slog.Logger) {
	if notif.Info == nil {
		return
	}
	data, err := layout.AccountBytes(notif.Info.Data)
	if err != nil {
		log.Warn("pool notification undecodable", "err", err)
		return
	}
	record, err := layout.DecodePool(data)
	if err != nil {
		log.Warn("pool notification decode failed", "err", err)
		return
	}
	svc.ApplyPoolUpdate(record)
	log.Debug("pool updated from stream", "slot", notif.Slot, "total_staked", record.TotalStaked)
}

func applyUserNotification(svc *dashboard.Service, notif solana.AccountNotification, pda solana.PublicKey, log *slog.Logger) {
	if notif.Info == nil {
		return
	}
	data, err := layout.AccountBytes(notif.Info.Data)
	if err != nil {
		log.Warn("user state notification undecodable", "err", err)
		return
	}
	record, err := layout.DecodeUserState(data)
	if err != nil {
		log.Warn("user state notification decode failed", "err", err)
		return
	}
	svc.ApplyPositionUpdate(&staking.Position{Address: pda, Record: record})
	log.Debug("position updated from stream", "slot", notif.Slot, "amount", record.Amount)
}
