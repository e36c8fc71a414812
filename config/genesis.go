package config

import (
	"encoding/json"
	"os"

	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/core/types"
)

// GenesisAccount is one pre-seeded account, the Go-sized replacement for
// the original's full eip1085 chain-spec import: just enough fields to
// seed deterministic fixtures (cmd/veda --data-dir first-run bootstrap and
// tests), the way the teacher's core.GenesisAlloc seeds go-ethereum's
// genesis block.
type GenesisAccount struct {
	Nonce   uint64            `json:"nonce"`
	Balance string            `json:"balance"`
	Code    string            `json:"code,omitempty"`
	Storage map[string]string `json:"storage,omitempty"`
}

// Genesis is the minimal chain-spec import format: an address->account
// allocation map plus the handful of header fields the zero block needs.
type Genesis struct {
	Timestamp uint64                    `json:"timestamp"`
	GasLimit  uint64                    `json:"gasLimit"`
	ExtraData string                    `json:"extraData,omitempty"`
	Alloc     map[string]GenesisAccount `json:"alloc"`
}

// LoadGenesis reads and parses a genesis JSON file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Apply seeds st with every account in g.Alloc and returns the header for
// the resulting block 0 (VedaBlockHash/Number are left zero: the caller is
// expected to stamp the externally-supplied genesis identity itself, since
// only the sync boundary ever knows it).
func (g *Genesis) Apply(st *state.StateDB) (*types.Header, error) {
	for addrHex, acc := range g.Alloc {
		addr := common.HexToAddress(addrHex)
		balance := common.MustDecodeHex(orZero(acc.Balance))
		st.SetAccount(addr, types.Account{Nonce: acc.Nonce, Balance: trimOrZero(balance)})
		if acc.Code != "" {
			st.SetCode(addr, common.FromHex(acc.Code))
		}
		for k, v := range acc.Storage {
			st.SetStorage(addr, common.HexToHash(k), common.HexToHash(v))
		}
	}
	stateRoot, _, err := st.Persist()
	if err != nil {
		return nil, err
	}
	header := &types.Header{
		Number:          0,
		GasLimit:        g.GasLimit,
		Timestamp:       g.Timestamp,
		ExtraData:       common.FromHex(g.ExtraData),
		TransactionRoot: common.EmptyTrieRoot,
		ReceiptRoot:     common.EmptyTrieRoot,
		StateRoot:       stateRoot,
	}
	return header, nil
}

func orZero(s string) string {
	if s == "" {
		return "0x0"
	}
	return s
}

func trimOrZero(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
