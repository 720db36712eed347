package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarancss/bridgebot/lib/block/types"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f36c5e3"

// mockRequest
type mockRequest struct {
	Version string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      json.RawMessage   `json:"id"`
}

// mockResponse
type mockResponse struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *mockError      `json:"error,omitempty"`
}

type mockError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// mockNode answers the JSON-RPC methods used by Ethereum and records the raw transactions it receives.
type mockNode struct {
	mu      sync.Mutex
	results map[string]interface{}
	fail    map[string]string
	raw     []string
}

func newMockNode() *mockNode {
	return &mockNode{
		results: map[string]interface{}{
			"eth_chainId":             "0xaa36a7",
			"eth_getBalance":          "0x166c761c586733c0",
			"eth_getTransactionCount": "0x5",
			"eth_gasPrice":            "0x3b9aca00",
			"eth_estimateGas":         "0x30d40",
			"eth_sendRawTransaction":  "",
			"eth_blockNumber":         "0x1",
		},
		fail: map[string]string{},
	}
}

func (m *mockNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req mockRequest
	res := mockResponse{Version: "2.0"}

	defer func() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(res)
	}()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		res.Error = &mockError{Code: -32700, Message: err.Error()}
		return
	}
	res.ID = req.ID

	m.mu.Lock()
	defer m.mu.Unlock()

	if msg, ok := m.fail[req.Method]; ok {
		res.Error = &mockError{Code: -32000, Message: msg}
		return
	}

	result, ok := m.results[req.Method]
	if !ok {
		res.Error = &mockError{Code: -32601, Message: "method not found"}
		return
	}

	if req.Method == "eth_sendRawTransaction" && len(req.Params) == 1 {
		var raw string
		_ = json.Unmarshal(req.Params[0], &raw)
		m.raw = append(m.raw, raw)

		tx := new(gtypes.Transaction)
		if err := tx.UnmarshalBinary(common.FromHex(raw)); err != nil {
			res.Error = &mockError{Code: -32000, Message: err.Error()}
			return
		}
		result = tx.Hash().Hex()
	}

	res.Result = result
}

func (m *mockNode) sent(t *testing.T) []*gtypes.Transaction {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := make([]*gtypes.Transaction, 0, len(m.raw))
	for _, raw := range m.raw {
		tx := new(gtypes.Transaction)
		require.NoError(t, tx.UnmarshalBinary(common.FromHex(raw)))
		txs = append(txs, tx)
	}
	return txs
}

func testAccount(t *testing.T) types.Account {
	t.Helper()
	pk, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	return types.Account{Address: crypto.PubkeyToAddress(pk.PublicKey), Key: pk}
}

func dialMock(t *testing.T, node *mockNode, chainID uint64) *Ethereum {
	t.Helper()
	mock := httptest.NewServer(node)
	t.Logf("Info: running tests against mock blockchain in %s", mock.URL)
	t.Cleanup(mock.Close)

	e, err := Dial(context.Background(), "sepolia", mock.URL, chainID, testAccount(t))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestBalance(t *testing.T) {
	e := dialMock(t, newMockNode(), 11155111)
	assert.Equal(t, "sepolia", e.Name())

	bal, err := e.Balance(context.Background(), testAccount(t).Address)
	require.NoError(t, err)
	assert.Equal(t, "1615796230433485760", bal.String())
}

func TestSend(t *testing.T) {
	node := newMockNode()
	e := dialMock(t, node, 0)
	acct := testAccount(t)

	to := common.HexToAddress("0xc94b1BEe63A3e101FE5F71C80F912b4F4b055925")
	value := big.NewInt(100000000000000000)
	data := []byte{0xb1, 0xa1, 0xa8, 0x82}

	hash, err := e.Send(context.Background(), to, data, value)
	require.NoError(t, err)

	txs := node.sent(t)
	require.Len(t, txs, 1)
	tx := txs[0]

	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, to, *tx.To())
	assert.Equal(t, value, tx.Value())
	assert.Equal(t, data, tx.Data())
	assert.Equal(t, uint64(5), tx.Nonce())
	assert.Equal(t, uint64(200000), tx.Gas())
	assert.Equal(t, big.NewInt(1000000000), tx.GasPrice())
	assert.Equal(t, big.NewInt(11155111), tx.ChainId())

	from, err := gtypes.Sender(gtypes.LatestSignerForChainID(tx.ChainId()), tx)
	require.NoError(t, err)
	assert.Equal(t, acct.Address, from)
}

func TestSendErrors(t *testing.T) {
	for _, method := range []string{
		"eth_getTransactionCount", "eth_gasPrice", "eth_estimateGas", "eth_sendRawTransaction",
	} {
		t.Run(method, func(t *testing.T) {
			node := newMockNode()
			node.fail[method] = "execution reverted"
			e := dialMock(t, node, 11155111)

			hash, err := e.Send(context.Background(), common.HexToAddress("0x01"), nil, big.NewInt(1))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrSubmission))
			assert.Contains(t, err.Error(), "execution reverted")
			assert.Equal(t, common.Hash{}, hash)
		})
	}
}

func TestDialChainIDError(t *testing.T) {
	node := newMockNode()
	node.fail["eth_chainId"] = "unavailable"
	mock := httptest.NewServer(node)
	defer mock.Close()

	_, err := Dial(context.Background(), "sepolia", mock.URL, 0, testAccount(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain id")
}

func TestEncodeCall(t *testing.T) {
	desc, err := abi.JSON(strings.NewReader(`[
{"inputs":[{"name":"_minGasLimit","type":"uint32"},{"name":"_extraData","type":"bytes"}],"name":"depositETH","outputs":[],"stateMutability":"payable","type":"function"},
{"inputs":[],"name":"deposit","outputs":[],"stateMutability":"payable","type":"function"}
]`))
	require.NoError(t, err)

	a, err := EncodeCall(desc, "depositETH", uint32(200000), []byte{})
	require.NoError(t, err)
	b, err := EncodeCall(desc, "depositETH", uint32(200000), []byte{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	// selector + uint32 + offset + length
	assert.Len(t, a, 4+3*32)
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000000000"+"00030d40",
		hexutil.Encode(a[4:36]))

	d, err := EncodeCall(desc, "deposit")
	require.NoError(t, err)
	assert.Len(t, d, 4)

	_, err = EncodeCall(desc, "withdraw", big.NewInt(1))
	assert.True(t, errors.Is(err, types.ErrEncoding))

	_, err = EncodeCall(desc, "depositETH", "not a number", []byte{})
	assert.True(t, errors.Is(err, types.ErrEncoding))

	_, err = EncodeCall(desc, "depositETH")
	assert.True(t, errors.Is(err, types.ErrEncoding))
}
