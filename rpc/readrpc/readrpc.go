// Package readrpc is the public, read-only JSON-RPC surface: a subset of
// the Ethereum dialect with shapes verbatim to it, per spec.md §6.2. Writes
// are rejected (eth_sendRawTransaction is not implemented); every other
// write path is the internal rpc/syncrpc server.
package readrpc

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/rs/cors"

	"github.com/veda-chain/veda/chain"
	"github.com/veda-chain/veda/common"
	"github.com/veda-chain/veda/core"
	"github.com/veda-chain/veda/core/state"
	"github.com/veda-chain/veda/core/types"
	"github.com/veda-chain/veda/core/vm"
	"github.com/veda-chain/veda/crypto"
	"github.com/veda-chain/veda/internal/metrics"
	"github.com/veda-chain/veda/internal/retry"
	"github.com/veda-chain/veda/kvstore"
	veda_rpc "github.com/veda-chain/veda/rpc"
)

// Server is the public read-RPC HTTP server.
type Server struct {
	chainDB *chain.ChainDB
	store   kvstore.Store
	gate    *veda_rpc.WriteGate

	chainID  *big.Int
	gasPrice *big.Int
}

func New(chainDB *chain.ChainDB, store kvstore.Store, gate *veda_rpc.WriteGate, chainID, gasPrice *big.Int) *Server {
	return &Server{chainDB: chainDB, store: store, gate: gate, chainID: chainID, gasPrice: gasPrice}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handle).Methods(http.MethodPost)
	return cors.AllowAll().Handler(r)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	metrics.ReadRPCCalls.Inc(1)
	s.gate.AwaitRead()
	defer s.gate.DoneRead()

	var req veda_rpc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, veda_rpc.ErrResponse(nil, veda_rpc.NewError(veda_rpc.CodeParseError, err.Error())))
		return
	}

	result, rpcErr := s.dispatch(r.Context(), req.Method, req.Params)
	if rpcErr != nil {
		writeResponse(w, veda_rpc.ErrResponse(req.ID, rpcErr))
		return
	}
	writeResponse(w, veda_rpc.Result(req.ID, result))
}

func (s *Server) dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, *veda_rpc.Error) {
	switch method {
	case "eth_chainId":
		return hexBig(s.chainID), nil
	case "eth_gasPrice":
		return hexBig(s.gasPrice), nil
	case "eth_sendRawTransaction":
		return nil, veda_rpc.NewError(veda_rpc.CodeMethodNotFound, "eth_sendRawTransaction is not supported: writes are accepted only via the internal sync RPC")
	case "eth_getBlockByNumber":
		return s.ethGetBlockByNumber(ctx, params)
	case "eth_getBlockByHash":
		return s.ethGetBlockByHash(params)
	case "eth_call":
		return s.ethCall(params)
	case "eth_estimateGas":
		return s.ethEstimateGas(params)
	case "eth_getLogs":
		return s.ethGetLogs(params)
	case "eth_getTransactionReceipt":
		return s.ethGetTransactionReceipt(ctx, params)
	case "eth_getTransactionByHash":
		return s.ethGetTransactionByHash(params)
	case "eth_getBalance":
		return s.ethGetBalance(params)
	case "eth_getCode":
		return s.ethGetCode(params)
	case "eth_getStorageAt":
		return s.ethGetStorageAt(params)
	case "eth_getTransactionCount":
		return s.ethGetTransactionCount(params)
	case "net_version":
		return s.chainID.String(), nil
	case "net_peerCount":
		return "0x0", nil
	case "net_listening":
		return true, nil
	case "txpool_status":
		return map[string]string{"pending": "0x0", "queued": "0x0"}, nil
	case "txpool_content":
		return map[string]interface{}{"pending": map[string]interface{}{}, "queued": map[string]interface{}{}}, nil
	case "trace_transaction":
		return s.traceTransaction(params)
	default:
		return nil, veda_rpc.NewError(veda_rpc.CodeMethodNotFound, "method not found: "+method)
	}
}

// ------------------------------------------------------------ block reads

func (s *Server) resolveHeader(ctx context.Context, tag string) (*types.Header, error) {
	if tag == "latest" || tag == "pending" || tag == "" {
		if h := s.chainDB.Tip(); h != nil {
			return h, nil
		}
		return nil, chain.ErrNotFound
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(tag, "0x"), 16, 64)
	if err != nil {
		return nil, err
	}
	var header *types.Header
	retryErr := retry.Do(ctx, isRetryableNotFound, func() error {
		h, err := s.chainDB.GetHeaderByNumber(n)
		if err != nil {
			return err
		}
		header = h
		return nil
	})
	return header, retryErr
}

func isRetryableNotFound(err error) bool { return err == chain.ErrNotFound || err == kvstore.ErrNotFound }

func (s *Server) ethGetBlockByNumber(ctx context.Context, params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []interface{}
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [blockNumber, fullTx]")
	}
	tag, _ := p[0].(string)
	header, err := s.resolveHeader(ctx, tag)
	if err != nil {
		return nil, notFoundErr(err)
	}
	fullTx, _ := p[1].(bool)
	return s.blockResult(header, fullTx)
}

func (s *Server) ethGetBlockByHash(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []interface{}
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [blockHash, fullTx]")
	}
	hashStr, _ := p[0].(string)
	header, err := s.chainDB.GetHeaderByHash(common.HexToHash(hashStr))
	if err != nil {
		return nil, notFoundErr(err)
	}
	fullTx, _ := p[1].(bool)
	return s.blockResult(header, fullTx)
}

// blockResult mirrors the Ethereum block shape verbatim, per spec.md §6.2:
// zeroed PoW-era fields that have no Veda analogue (miner, sha3Uncles,
// uncles, totalDifficulty, baseFeePerGas, nonce).
func (s *Server) blockResult(header *types.Header, fullTx bool) (interface{}, *veda_rpc.Error) {
	hashes, err := s.chainDB.GetBlockTxHashes(header.Hash())
	if err != nil && err != chain.ErrNotFound {
		return nil, internalErr(err)
	}
	var txs []interface{}
	for _, h := range hashes {
		if !fullTx {
			txs = append(txs, h.Hex())
			continue
		}
		tx, blockHash, blockNumber, index, err := s.chainDB.GetTransaction(h)
		if err != nil {
			continue
		}
		txs = append(txs, transactionResult(tx, blockHash, blockNumber, index))
	}
	return map[string]interface{}{
		"number":           hexUint64(header.Number),
		"hash":             header.Hash().Hex(),
		"parentHash":       header.ParentHash.Hex(),
		"stateRoot":        header.StateRoot.Hex(),
		"transactionsRoot": header.TransactionRoot.Hex(),
		"receiptsRoot":     header.ReceiptRoot.Hex(),
		"logsBloom":        "0x" + hexBytes(header.Bloom[:]),
		"gasLimit":         hexUint64(header.GasLimit),
		"gasUsed":          hexUint64(header.GasUsed),
		"timestamp":        hexUint64(header.Timestamp),
		"extraData":        "0x" + hexBytes(header.ExtraData),
		"mixHash":          header.MixHash.Hex(),
		"miner":            common.Address{}.Hex(),
		"sha3Uncles":       common.Hash{}.Hex(),
		"uncles":           []string{},
		"totalDifficulty":  "0x0",
		"baseFeePerGas":    "0x0",
		"nonce":            "0x0000000000000000",
		"transactions":     txs,
	}, nil
}

func transactionResult(tx *types.Transaction, blockHash common.Hash, blockNumber, index uint64) map[string]interface{} {
	to := interface{}(nil)
	if tx.To != nil {
		to = tx.To.Hex()
	}
	return map[string]interface{}{
		"hash":             tx.Hash().Hex(),
		"nonce":            hexUint64(tx.Nonce),
		"blockHash":        blockHash.Hex(),
		"blockNumber":      hexUint64(blockNumber),
		"transactionIndex": hexUint64(index),
		"from":             tx.VedaSender.Hex(),
		"to":               to,
		"value":            "0x0",
		"gas":              hexUint64(tx.GasLimit),
		"gasPrice":         "0x0",
		"input":            "0x" + hexBytes(tx.Data),
	}
}

// --------------------------------------------------------- account reads

func (s *Server) stateAt(tag string) (*state.StateDB, error) {
	header, err := s.resolveHeader(context.Background(), tag)
	if err != nil {
		return nil, err
	}
	return state.New(header.StateRoot, s.store)
}

func (s *Server) ethGetBalance(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []string
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [address, blockTag]")
	}
	st, err := s.stateAt(tagOrLatest(p, 1))
	if err != nil {
		return nil, notFoundErr(err)
	}
	balance := st.GetBalance(common.HexToAddress(p[0]))
	return "0x" + hexBytes(trimLeadingZeros(balance)), nil
}

func (s *Server) ethGetCode(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []string
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [address, blockTag]")
	}
	st, err := s.stateAt(tagOrLatest(p, 1))
	if err != nil {
		return nil, notFoundErr(err)
	}
	return "0x" + hexBytes(st.GetCode(common.HexToAddress(p[0]))), nil
}

func (s *Server) ethGetStorageAt(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []string
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 2 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [address, slot, blockTag]")
	}
	st, err := s.stateAt(tagOrLatest(p, 2))
	if err != nil {
		return nil, notFoundErr(err)
	}
	v := st.GetStorage(common.HexToAddress(p[0]), common.HexToHash(p[1]))
	return v.Hex(), nil
}

func (s *Server) ethGetTransactionCount(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []string
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [address, blockTag]")
	}
	st, err := s.stateAt(tagOrLatest(p, 1))
	if err != nil {
		return nil, notFoundErr(err)
	}
	return hexUint64(st.GetNonce(common.HexToAddress(p[0]))), nil
}

func tagOrLatest(p []string, idx int) string {
	if idx < len(p) && p[idx] != "" {
		return p[idx]
	}
	return "latest"
}

// ------------------------------------------------------------- tx/receipt

func (s *Server) ethGetTransactionReceipt(ctx context.Context, params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []string
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [txHash]")
	}
	txHash := common.HexToHash(p[0])
	var receipt *types.Receipt
	err := retry.Do(ctx, isRetryableNotFound, func() error {
		r, err := s.chainDB.GetReceipt(txHash)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, notFoundErr(err)
	}
	return receiptResult(receipt), nil
}

func receiptResult(r *types.Receipt) map[string]interface{} {
	logs := make([]map[string]interface{}, len(r.Logs))
	for i, l := range r.Logs {
		topics := make([]string, len(l.Topics))
		for j, t := range l.Topics {
			topics[j] = t.Hex()
		}
		logs[i] = map[string]interface{}{
			"address":          l.Address.Hex(),
			"topics":           topics,
			"data":             "0x" + hexBytes(l.Data),
			"transactionHash":  r.TxHash.Hex(),
			"blockHash":        r.BlockHash.Hex(),
			"blockNumber":      hexUint64(r.BlockNumber),
			"logIndex":         hexUint64(uint64(i)),
			"transactionIndex": hexUint64(uint64(r.TransactionIndex)),
		}
	}
	contractAddr := interface{}(nil)
	if r.ContractAddress != (common.Address{}) {
		contractAddr = r.ContractAddress.Hex()
	}
	return map[string]interface{}{
		"transactionHash":   r.TxHash.Hex(),
		"blockHash":         r.BlockHash.Hex(),
		"blockNumber":       hexUint64(r.BlockNumber),
		"transactionIndex":  hexUint64(uint64(r.TransactionIndex)),
		"status":            hexUint64(r.Status),
		"cumulativeGasUsed": hexUint64(r.CumulativeGasUsed),
		"gasUsed":           hexUint64(r.GasUsed),
		"contractAddress":   contractAddr,
		"logsBloom":         "0x" + hexBytes(r.Bloom[:]),
		"logs":              logs,
	}
}

func (s *Server) ethGetTransactionByHash(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []string
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [txHash]")
	}
	tx, blockHash, blockNumber, index, err := s.chainDB.GetTransaction(common.HexToHash(p[0]))
	if err != nil {
		return nil, notFoundErr(err)
	}
	return transactionResult(tx, blockHash, blockNumber, index), nil
}

func (s *Server) ethGetLogs(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []struct {
		FromBlock string   `json:"fromBlock"`
		ToBlock   string   `json:"toBlock"`
		Address   string   `json:"address"`
		BlockHash string   `json:"blockHash"`
		Topics    []string `json:"topics"`
	}
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [filter]")
	}
	filter := p[0]

	var headers []*types.Header
	if filter.BlockHash != "" {
		h, err := s.chainDB.GetHeaderByHash(common.HexToHash(filter.BlockHash))
		if err != nil {
			return nil, notFoundErr(err)
		}
		headers = append(headers, h)
	} else {
		from, err := s.resolveHeader(context.Background(), orLatest(filter.FromBlock))
		if err != nil {
			return nil, notFoundErr(err)
		}
		to, err := s.resolveHeader(context.Background(), orLatest(filter.ToBlock))
		if err != nil {
			return nil, notFoundErr(err)
		}
		for n := from.Number; n <= to.Number; n++ {
			h, err := s.chainDB.GetHeaderByNumber(n)
			if err != nil {
				continue
			}
			headers = append(headers, h)
		}
	}

	var results []map[string]interface{}
	for _, h := range headers {
		receipts, err := s.chainDB.GetReceipts(h.Hash())
		if err != nil {
			continue
		}
		for _, r := range receipts {
			for _, l := range r.Logs {
				if filter.Address != "" && !strings.EqualFold(l.Address.Hex(), filter.Address) {
					continue
				}
				if !matchesTopics(l.Topics, filter.Topics) {
					continue
				}
				rr := receiptResult(r)
				topics := make([]string, len(l.Topics))
				for i, t := range l.Topics {
					topics[i] = t.Hex()
				}
				results = append(results, map[string]interface{}{
					"address":          l.Address.Hex(),
					"topics":           topics,
					"data":             "0x" + hexBytes(l.Data),
					"blockNumber":      rr["blockNumber"],
					"blockHash":        rr["blockHash"],
					"transactionHash":  rr["transactionHash"],
					"transactionIndex": rr["transactionIndex"],
				})
			}
		}
	}
	if results == nil {
		results = []map[string]interface{}{}
	}
	return results, nil
}

func matchesTopics(logTopics []common.Hash, want []string) bool {
	for i, w := range want {
		if w == "" {
			continue
		}
		if i >= len(logTopics) || !strings.EqualFold(logTopics[i].Hex(), w) {
			return false
		}
	}
	return true
}

func orLatest(s string) string {
	if s == "" {
		return "latest"
	}
	return s
}

// ------------------------------------------------------- eth_call family

type callArgs struct {
	From string `json:"from"`
	To   string `json:"to"`
	Gas  string `json:"gas"`
	Data string `json:"data"`
}

func (s *Server) ethCall(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []json.RawMessage
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [callArgs, blockTag]")
	}
	var args callArgs
	if err := json.Unmarshal(p[0], &args); err != nil {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "malformed call args")
	}
	tag := "latest"
	if len(p) > 1 {
		var t string
		_ = json.Unmarshal(p[1], &t)
		tag = orLatest(t)
	}

	header, err := s.resolveHeader(context.Background(), tag)
	if err != nil {
		return nil, notFoundErr(err)
	}
	st, err := state.New(header.StateRoot, s.store)
	if err != nil {
		return nil, internalErr(err)
	}

	ret, _, err := s.runCall(st, header, args, gasOrDefault(args.Gas, header.GasLimit))
	if err != nil {
		return nil, veda_rpc.NewError(veda_rpc.CodeInternalError, err.Error())
	}
	return "0x" + hexBytes(ret), nil
}

func (s *Server) ethEstimateGas(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []json.RawMessage
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [callArgs]")
	}
	var args callArgs
	if err := json.Unmarshal(p[0], &args); err != nil {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "malformed call args")
	}
	header := s.chainDB.Tip()
	if header == nil {
		return nil, veda_rpc.NewError(veda_rpc.CodeInternalError, "no genesis block has been mined")
	}

	// Binary search over the gas budget, the way the teacher's
	// internal/ethapi.DoEstimateGas narrows [lo, hi] by re-running the call.
	lo, hi := uint64(21000), header.GasLimit
	for lo < hi {
		mid := (lo + hi) / 2
		st, err := state.New(header.StateRoot, s.store)
		if err != nil {
			return nil, internalErr(err)
		}
		_, _, callErr := s.runCall(st, header, args, mid)
		if callErr == nil {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return hexUint64(hi), nil
}

func gasOrDefault(hexGas string, fallback uint64) uint64 {
	if hexGas == "" {
		return fallback
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(hexGas, "0x"), 16, 64)
	if err != nil {
		return fallback
	}
	return v
}

func (s *Server) runCall(st *state.StateDB, header *types.Header, args callArgs, gas uint64) ([]byte, uint64, error) {
	from := common.HexToAddress(args.From)
	blockCtx := vm.BlockContext{
		Coinbase:    header.Coinbase,
		GasLimit:    header.GasLimit,
		BlockNumber: header.Number,
		Time:        header.Timestamp,
		Difficulty:  big.NewInt(0),
		GetHash:     func(uint64) common.Hash { return common.Hash{} },
	}
	evmInst := vm.NewEVM(blockCtx, vm.TxContext{Origin: from}, st, vm.Config{})
	zero := new(uint256.Int)
	data := common.FromHex(args.Data)

	if args.To == "" {
		ret, _, leftover, err := evmInst.Create(from, data, gas, zero)
		return ret, leftover, err
	}
	to := common.HexToAddress(args.To)
	return evmInst.Call(from, to, data, gas, zero)
}

// ------------------------------------------------------------------ trace

// traceTransaction re-executes the target transaction's parent block
// against a throwaway state-trie overlay opened at the parent's state
// root, then returns a minimal classic parity-trace shape, per
// SPEC_FULL.md §6.2 ("re-executes the parent block in a costless state").
func (s *Server) traceTransaction(params json.RawMessage) (interface{}, *veda_rpc.Error) {
	var p []string
	if err := json.Unmarshal(params, &p); err != nil || len(p) < 1 {
		return nil, veda_rpc.NewError(veda_rpc.CodeInvalidParams, "expected [txHash]")
	}
	txHash := common.HexToHash(p[0])
	tx, blockHash, blockNumber, _, err := s.chainDB.GetTransaction(txHash)
	if err != nil {
		return nil, notFoundErr(err)
	}
	header, err := s.chainDB.GetHeaderByHash(blockHash)
	if err != nil {
		return nil, notFoundErr(err)
	}
	var parent *types.Header
	if header.Number > 0 {
		parent, err = s.chainDB.GetHeaderByNumber(blockNumber - 1)
		if err != nil {
			return nil, notFoundErr(err)
		}
	} else {
		parent = header
	}

	hashes, err := s.chainDB.GetBlockTxHashes(blockHash)
	if err != nil {
		return nil, notFoundErr(err)
	}
	st, err := state.New(parent.StateRoot, s.store)
	if err != nil {
		return nil, internalErr(err)
	}
	blockCtx := vm.BlockContext{
		Coinbase:    header.Coinbase,
		GasLimit:    header.GasLimit,
		BlockNumber: header.Number,
		Time:        header.Timestamp,
		Difficulty:  big.NewInt(0),
		GetHash:     func(uint64) common.Hash { return common.Hash{} },
	}
	exec := core.NewExecutor(st, blockCtx, vm.Config{})

	var target *types.Transaction
	var gasUsed uint64
	for _, h := range hashes {
		t, _, _, _, err := s.chainDB.GetTransaction(h)
		if err != nil {
			continue
		}
		receipt, execErr := exec.ApplyTransaction(t, gasUsed)
		if execErr != nil {
			continue
		}
		gasUsed = receipt.CumulativeGasUsed
		if h == txHash {
			target = t
			break
		}
	}
	if target == nil {
		return nil, notFoundErr(chain.ErrNotFound)
	}

	to := interface{}(nil)
	callType := "call"
	if tx.To != nil {
		to = tx.To.Hex()
	} else {
		callType = "create"
	}
	return []map[string]interface{}{
		{
			"action": map[string]interface{}{
				"callType": callType,
				"from":     tx.VedaSender.Hex(),
				"to":       to,
				"gas":      hexUint64(tx.GasLimit),
				"input":    "0x" + hexBytes(tx.Data),
				"value":    "0x0",
			},
			"blockHash":           blockHash.Hex(),
			"blockNumber":         hexUint64(blockNumber),
			"transactionHash":     txHash.Hex(),
			"transactionPosition": 0,
			"type":                callType,
		},
	}, nil
}

// --------------------------------------------------------------- helpers

func hexUint64(v uint64) string { return "0x" + strconv.FormatUint(v, 16) }

func hexBig(v *big.Int) string {
	if v == nil {
		return "0x0"
	}
	return "0x" + v.Text(16)
}

func hexBytes(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}

func notFoundErr(err error) *veda_rpc.Error {
	if err == chain.ErrNotFound || err == kvstore.ErrNotFound {
		return veda_rpc.NewError(veda_rpc.CodeNotFound, "not in the canonical chain")
	}
	return internalErr(err)
}

func internalErr(err error) *veda_rpc.Error {
	return veda_rpc.NewError(veda_rpc.CodeInternalError, err.Error())
}

func writeResponse(w http.ResponseWriter, resp veda_rpc.Response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
