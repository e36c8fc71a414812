// Package config owns CLI flag parsing (urfave/cli/v2, the teacher's own
// CLI library), env-var fallbacks, and the on-disk layout beneath
// --data-dir, per spec.md §6.3/§6.4.
package config

import (
	"os"

	"github.com/urfave/cli/v2"
)

var (
	DataDirFlag = &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory for the chain database, IPC sockets, PID files and logs",
		EnvVars: []string{"VEDA_DATA_DIR"},
		Value:   defaultDataDir(),
	}
	VedaRootDirFlag = &cli.StringFlag{
		Name:    "veda-root-dir",
		Usage:   "Root directory suffix used to namespace chain-/ipcs-/pids-/logs- subdirectories",
		EnvVars: []string{"XDG_VEDA_ROOT"},
		Value:   "default",
	}
	DisableRPCFlag = &cli.BoolFlag{
		Name:  "disable-rpc",
		Usage: "Disable the public read-RPC HTTP server",
	}
	HTTPListenAddressFlag = &cli.StringFlag{
		Name:  "http-listen-address",
		Usage: "Listen address for the public read-RPC HTTP server",
		Value: "127.0.0.1",
	}
	HTTPPortFlag = &cli.IntFlag{
		Name:  "http-port",
		Usage: "Listen port for the public read-RPC HTTP server",
		Value: 8545,
	}
	EnableHTTPAPIsFlag = &cli.StringFlag{
		Name:  "enable-http-apis",
		Usage: "Comma-separated list of read-RPC namespaces to expose, or \"*\" for all",
		Value: "*",
	}
	DisableInternalRPCFlag = &cli.BoolFlag{
		Name:  "disable-internal-rpc",
		Usage: "Disable the internal sync-RPC HTTP server",
	}
	InternalRPCListenAddressFlag = &cli.StringFlag{
		Name:  "internal-rpc-http-listen-address",
		Usage: "Listen address for the internal sync-RPC HTTP server",
		Value: "127.0.0.1",
	}
	InternalRPCPortFlag = &cli.IntFlag{
		Name:  "internal-rpc-http-port",
		Usage: "Listen port for the internal sync-RPC HTTP server",
		Value: 8679,
	}
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Logging verbosity: debug, info, warn, error",
		Value: "info",
	}
	ProfileFlag = &cli.BoolFlag{
		Name:  "profile",
		Usage: "Enable internal timing counters in internal/metrics",
	}
	GasPriceFlag = &cli.StringFlag{
		Name:    "gas-price",
		Usage:   "Fixed price eth_gasPrice reports, wei, decimal",
		EnvVars: []string{"VEDA_GAS_PRICE"},
		Value:   "1000000000",
	}
)

// Flags is the full set wired into cmd/veda's cli.App.
var Flags = []cli.Flag{
	DataDirFlag,
	VedaRootDirFlag,
	DisableRPCFlag,
	HTTPListenAddressFlag,
	HTTPPortFlag,
	EnableHTTPAPIsFlag,
	DisableInternalRPCFlag,
	InternalRPCListenAddressFlag,
	InternalRPCPortFlag,
	LogLevelFlag,
	ProfileFlag,
	GasPriceFlag,
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".veda"
	}
	return home + "/.veda"
}
