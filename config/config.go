package config

import (
	"math/big"
	"strconv"

	"github.com/urfave/cli/v2"
)

// Config is the fully-resolved runtime configuration assembled from CLI
// flags and env vars, the way the teacher composes node.Config/eth.Config
// from a cli.Context in cmd/geth's makeConfigNode.
type Config struct {
	Paths Paths

	DisableRPC       bool
	HTTPListenAddr   string
	HTTPPort         int
	EnabledAPIs      string
	DisableInternal  bool
	InternalHTTPAddr string
	InternalHTTPPort int

	LogLevel string
	Profile  bool

	GasPrice *big.Int
	ChainID  *big.Int
}

// FromCLIContext resolves a Config from a parsed cli.Context. Flags with
// EnvVars already fold env-var fallbacks in via urfave/cli's own
// resolution order (explicit flag > env var > default).
func FromCLIContext(c *cli.Context) (Config, error) {
	suffix := c.String(VedaRootDirFlag.Name)
	dataDir := c.String(DataDirFlag.Name)

	gasPrice, ok := new(big.Int).SetString(c.String(GasPriceFlag.Name), 10)
	if !ok {
		return Config{}, errInvalidGasPrice(c.String(GasPriceFlag.Name))
	}

	return Config{
		Paths:            NewPaths(dataDir, suffix),
		DisableRPC:       c.Bool(DisableRPCFlag.Name),
		HTTPListenAddr:   c.String(HTTPListenAddressFlag.Name),
		HTTPPort:         c.Int(HTTPPortFlag.Name),
		EnabledAPIs:      c.String(EnableHTTPAPIsFlag.Name),
		DisableInternal:  c.Bool(DisableInternalRPCFlag.Name),
		InternalHTTPAddr: c.String(InternalRPCListenAddressFlag.Name),
		InternalHTTPPort: c.Int(InternalRPCPortFlag.Name),
		LogLevel:         c.String(LogLevelFlag.Name),
		Profile:          c.Bool(ProfileFlag.Name),
		GasPrice:         gasPrice,
		ChainID:          big.NewInt(1),
	}, nil
}

type errInvalidGasPrice string

func (e errInvalidGasPrice) Error() string { return "invalid gas price: " + string(e) }

// HTTPAddr formats the host:port string for the public read-RPC listener.
func (c Config) HTTPAddr() string {
	return c.HTTPListenAddr + ":" + strconv.Itoa(c.HTTPPort)
}

// InternalHTTPAddrString formats the host:port string for the internal
// sync-RPC listener.
func (c Config) InternalHTTPAddrString() string {
	return c.InternalHTTPAddr + ":" + strconv.Itoa(c.InternalHTTPPort)
}
