// Command veda is the process entrypoint: parses CLI flags (urfave/cli/v2,
// the teacher's own CLI library), lays out --data-dir, opens the KV store
// and chain DB, bootstraps genesis on an empty chain, and runs the
// internal sync-RPC and public read-RPC HTTP servers until SIGINT, per
// spec.md §6.3/§6.4 and SPEC_FULL.md §5's shutdown-cascade note.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/veda-chain/veda/chain"
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/config"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/internal/eventbus"
	"github.com/veda-chain/veda/internal/vlog"
	"github.com/veda-chain/veda/kvstore"
	veda_rpc "github.com/veda-chain/veda/rpc"
	"github.com/veda-chain/veda/rpc/readrpc"
	"github.com/veda-chain/veda/rpc/syncrpc"
)

func main() {
	app := &cli.App{
		Name:  "veda",
		Usage: "deterministic execution layer for externally-sequenced blocks",
		Flags: config.Flags,
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}
	if err := app.Run(os.Args); err != nil {
		vlog.Crit("veda: fatal startup error", "err", err)
	}
}

// run bootstraps every subservice and blocks until SIGINT, mirroring the
// teacher's node.New/node.Start/node.Wait lifecycle but collapsed into one
// function since Veda has no plugin/lifecycle registry to generalize over.
func run(c *cli.Context) error {
	cfg, err := config.FromCLIContext(c)
	if err != nil {
		return err
	}
	vlog.SetLevel(vlog.ParseLevel(cfg.LogLevel))

	if err := cfg.Paths.MkdirAll(); err != nil {
		return fmt.Errorf("veda: creating data-dir layout: %w", err)
	}

	pidPath, unlockPID, err := lockPID(cfg.Paths.PIDDir())
	if err != nil {
		return fmt.Errorf("veda: acquiring pid lock: %w", err)
	}
	defer unlockPID()
	vlog.Info("veda: acquired pid lock", "path", pidPath)

	store, err := kvstore.Open(cfg.Paths.ChainDir(), 0)
	if err != nil {
		return fmt.Errorf("veda: opening kv store: %w", err)
	}
	defer store.Close()

	chainDB, err := chain.Open(store)
	if err != nil {
		return fmt.Errorf("veda: opening chain db: %w", err)
	}

	if chainDB.Tip() == nil {
		if err := bootstrapGenesis(c, chainDB, store); err != nil {
			return fmt.Errorf("veda: bootstrapping genesis: %w", err)
		}
	}

	bus := eventbus.New()
	gate := &veda_rpc.WriteGate{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var servers []*http.Server

	if !cfg.DisableInternal {
		srv := &http.Server{
			Addr:    cfg.InternalHTTPAddrString(),
			Handler: syncrpc.New(chainDB, store, bus, gate).Handler(),
		}
		servers = append(servers, srv)
		go serve(srv, "internal sync-RPC")
	}

	if !cfg.DisableRPC {
		srv := &http.Server{
			Addr:    cfg.HTTPAddr(),
			Handler: readrpc.New(chainDB, store, gate, cfg.ChainID, cfg.GasPrice).Handler(),
		}
		servers = append(servers, srv)
		go serve(srv, "public read-RPC")
	}

	<-ctx.Done()
	vlog.Info("veda: shutdown signal received, draining subservices")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var eg errgroup.Group
	for _, srv := range servers {
		srv := srv
		eg.Go(func() error { return srv.Shutdown(shutdownCtx) })
	}
	if err := eg.Wait(); err != nil {
		vlog.Warn("veda: subservice shutdown error", "err", err)
	}
	vlog.Info("veda: clean shutdown complete")
	return nil
}

func serve(srv *http.Server, name string) {
	vlog.Info("veda: starting subservice", "name", name, "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		vlog.Error("veda: subservice terminated unexpectedly", "name", name, "err", err)
	}
}

// bootstrapGenesis seeds block 0 from --data-dir/genesis.json if present,
// otherwise from an empty allocation, per SPEC_FULL.md's "Supplemented
// features" note on config.Genesis: just enough to give a fresh chain a
// state root and header before the first `sync` call arrives.
func bootstrapGenesis(c *cli.Context, chainDB *chain.ChainDB, store kvstore.Store) error {
	path := filepath.Join(c.String(config.DataDirFlag.Name), "genesis.json")
	var genesis *config.Genesis
	if _, err := os.Stat(path); err == nil {
		g, err := config.LoadGenesis(path)
		if err != nil {
			return err
		}
		genesis = g
	} else {
		genesis = &config.Genesis{GasLimit: 30_000_000, Alloc: map[string]config.GenesisAccount{}}
	}

	st, err := state.New(common.Hash{}, store)
	if err != nil {
		return err
	}
	header, err := genesis.Apply(st)
	if err != nil {
		return err
	}
	return chainDB.WriteBlock(header, nil, nil)
}

// lockPID writes a pid file under pidDir, per spec.md §6.4's "pids-<suffix>/
// holds PID lock files". Returns the path and an unlock func that removes
// the file; the in-process advisory lock is a plain O_EXCL create (no
// flock syscall is needed since this process never forks a sibling that
// races it).
func lockPID(pidDir string) (string, func(), error) {
	path := filepath.Join(pidDir, "veda.pid")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", nil, fmt.Errorf("pid file %s already exists: another veda process may be running", path)
		}
		return "", nil, err
	}
	fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()
	return path, func() { os.Remove(path) }, nil
}
