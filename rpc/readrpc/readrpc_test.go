package readrpc

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veda-chain/veda/chain"
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/kvstore"
	veda_rpc "github.com/veda-chain/veda/rpc"
)

func newTestServer(t *testing.T) (*Server, kvstore.Store, *chain.ChainDB) {
	t.Helper()
	store, err := kvstore.Open("", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	addr := common.HexToAddress("0x01")
	st, err := state.New(common.Hash{}, store)
	require.NoError(t, err)
	st.SetNonce(addr, 3)
	st.SetCode(addr, []byte{0x60, 0x01})
	root, _, err := st.Persist()
	require.NoError(t, err)

	chainDB, err := chain.Open(store)
	require.NoError(t, err)
	genesis := &types.Header{
		Number:          0,
		GasLimit:        1_000_000,
		Timestamp:       1,
		TransactionRoot: common.EmptyTrieRoot,
		ReceiptRoot:     common.EmptyTrieRoot,
		StateRoot:       root,
		VedaBlockHash:   common.HexToHash("0x01"),
	}
	require.NoError(t, chainDB.WriteBlock(genesis, nil, nil))

	srv := New(chainDB, store, &veda_rpc.WriteGate{}, big.NewInt(7777), big.NewInt(0))
	return srv, store, chainDB
}

func doRPC(t *testing.T, handler http.Handler, method string, params interface{}) veda_rpc.Response {
	t.Helper()
	paramsEnc, err := json.Marshal(params)
	require.NoError(t, err)
	reqBody, err := json.Marshal(veda_rpc.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: method, Params: paramsEnc})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(reqBody))
	handler.ServeHTTP(rec, req)

	var resp veda_rpc.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestEthChainIdAndGasPrice(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doRPC(t, srv.Handler(), "eth_chainId", nil)
	require.Nil(t, resp.Error)
	require.Equal(t, "0x1e61", resp.Result)

	resp = doRPC(t, srv.Handler(), "eth_gasPrice", nil)
	require.Nil(t, resp.Error)
	require.Equal(t, "0x0", resp.Result)
}

func TestEthSendRawTransactionIsRejected(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doRPC(t, srv.Handler(), "eth_sendRawTransaction", []string{"0xdead"})
	require.NotNil(t, resp.Error)
	require.Equal(t, veda_rpc.CodeMethodNotFound, resp.Error.Code)
}

func TestEthGetBlockByNumberLatest(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doRPC(t, srv.Handler(), "eth_getBlockByNumber", []interface{}{"latest", false})
	require.Nil(t, resp.Error)

	block := resp.Result.(map[string]interface{})
	require.Equal(t, "0x0", block["number"])
	require.Equal(t, common.HexToHash("0x01").Hex(), block["hash"])
}

func TestEthGetBlockByNumberUnknownIsNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doRPC(t, srv.Handler(), "eth_getBlockByNumber", []interface{}{"0x5", false})
	require.NotNil(t, resp.Error)
	require.Equal(t, veda_rpc.CodeNotFound, resp.Error.Code)
}

func TestEthGetBalanceAndCodeAndNonce(t *testing.T) {
	srv, _, _ := newTestServer(t)
	addr := common.HexToAddress("0x01")

	resp := doRPC(t, srv.Handler(), "eth_getTransactionCount", []string{addr.Hex(), "latest"})
	require.Nil(t, resp.Error)
	require.Equal(t, "0x3", resp.Result)

	resp = doRPC(t, srv.Handler(), "eth_getCode", []string{addr.Hex(), "latest"})
	require.Nil(t, resp.Error)
	require.Equal(t, "0x6001", resp.Result)

	resp = doRPC(t, srv.Handler(), "eth_getBalance", []string{addr.Hex(), "latest"})
	require.Nil(t, resp.Error)
	require.Equal(t, "0x", resp.Result) // value transfers are neutralized: balance is always zero
}

func TestEthCallIdentityPrecompile(t *testing.T) {
	srv, _, _ := newTestServer(t)
	args := callArgs{To: common.BytesToAddress([]byte{4}).Hex(), Data: "0x1234"}

	resp := doRPC(t, srv.Handler(), "eth_call", []interface{}{args, "latest"})
	require.Nil(t, resp.Error)
	require.Equal(t, "0x1234", resp.Result)
}

func TestEthEstimateGasReturnsWithinBlockGasLimit(t *testing.T) {
	srv, _, _ := newTestServer(t)
	args := callArgs{To: common.BytesToAddress([]byte{4}).Hex(), Data: "0x1234"}

	resp := doRPC(t, srv.Handler(), "eth_estimateGas", []interface{}{args})
	require.Nil(t, resp.Error)
	require.NotEmpty(t, resp.Result)
}

func TestEthGetTransactionReceiptNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doRPC(t, srv.Handler(), "eth_getTransactionReceipt", []string{common.HexToHash("0xff").Hex()})
	require.NotNil(t, resp.Error)
	require.Equal(t, veda_rpc.CodeNotFound, resp.Error.Code)
}

func TestEthGetLogsEmptyRange(t *testing.T) {
	srv, _, _ := newTestServer(t)
	filter := map[string]interface{}{"fromBlock": "latest", "toBlock": "latest"}

	resp := doRPC(t, srv.Handler(), "eth_getLogs", []interface{}{filter})
	require.Nil(t, resp.Error)
	require.Equal(t, []interface{}{}, resp.Result)
}

func TestNetVersionMatchesChainID(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doRPC(t, srv.Handler(), "net_version", nil)
	require.Nil(t, resp.Error)
	require.Equal(t, "7777", resp.Result)
}

func TestUnknownMethodIsMethodNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doRPC(t, srv.Handler(), "eth_notAMethod", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, veda_rpc.CodeMethodNotFound, resp.Error.Code)
}
