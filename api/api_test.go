// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/holiman/uint256"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/aawallet/admission"
	"github.com/vechain/aawallet/api/costs"
	"github.com/vechain/aawallet/api/stakes"
	"github.com/vechain/aawallet/api/subscriptions"
	"github.com/vechain/aawallet/api/wallets"
	"github.com/vechain/aawallet/eventdb"
	ev "github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/lvldb"
	"github.com/vechain/aawallet/metrics"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/state"
	"github.com/vechain/aawallet/thor"
	"github.com/vechain/aawallet/wallet"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

var (
	walletAddr = thor.BytesToAddress([]byte("wallet"))
	a          = thor.BytesToAddress([]byte("a"))
	b          = thor.BytesToAddress([]byte("b"))
	c          = thor.BytesToAddress([]byte("c"))
	staker     = thor.BytesToAddress([]byte("staker"))
)

type testServer struct {
	*httptest.Server
	rt     *runtime.Runtime
	wallet *wallet.Wallet
	ledger *wallet.Ledger
	db     *eventdb.EventDB
}

func newTestServer(t *testing.T) *testServer {
	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	feed := &ev.Feed{}
	indexer := eventdb.NewIndexer(db, feed)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		indexer.Run(ctx)
	}()

	rt := runtime.New(state.NewStater(kv), runtime.NewManualClock(1000), runtime.WithFeed(feed))
	ledger := wallet.NewLedger(rt, 3600)
	handler, closeFn := New(&Backend{
		Runtime:  rt,
		Ledger:   ledger,
		Collator: admission.New(ledger, uint256.NewInt(1000)),
		EventDB:  db,
		Feed:     feed,
	}, Options{
		AllowedOrigins:  "*",
		EventsLimit:     100,
		EnableReqLogger: true,
		EnableMetrics:   true,
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeFn()
		ts.Close()
		cancel()
		<-done
		feed.Close()
	})

	w := wallet.New(rt, walletAddr, 3600)
	_, err = w.Setup(walletAddr, []thor.Address{a, b, c}, []thor.Address{c}, 2)
	require.NoError(t, err)

	return &testServer{Server: ts, rt: rt, wallet: w, ledger: ledger, db: db}
}

func (ts *testServer) get(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func (ts *testServer) post(t *testing.T, path string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func decode[T any](t *testing.T, body []byte) *T {
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return &v
}

func amount(v *big.Int) string { return v.String() }

func TestWallets(t *testing.T) {
	ts := newTestServer(t)
	base := "/wallets/" + walletAddr.String()

	body, code := ts.get(t, base)
	require.Equal(t, http.StatusOK, code, string(body))
	got := decode[wallets.Wallet](t, body)
	assert.Equal(t, walletAddr, got.Address)
	assert.ElementsMatch(t, []thor.Address{a, b, c}, got.Owners)
	assert.Equal(t, []thor.Address{c}, got.SpecialOwners)
	assert.Equal(t, uint64(2), got.Threshold)

	body, code = ts.get(t, base+"/owners")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, *decode[[]thor.Address](t, body), 3)

	body, code = ts.get(t, base+"/threshold")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint64(2), decode[wallets.Threshold](t, body).Threshold)

	body, code = ts.get(t, base+"/owners/"+c.String())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, &wallets.Owner{IsOwner: true, IsSpecialOwner: true}, decode[wallets.Owner](t, body))

	body, code = ts.get(t, base+"/owners/"+staker.String())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, &wallets.Owner{}, decode[wallets.Owner](t, body))

	body, code = ts.get(t, base+"/special-owners")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []thor.Address{c}, *decode[[]thor.Address](t, body))

	// an uninitialized wallet has no special owners
	_, code = ts.get(t, "/wallets/"+staker.String()+"/special-owners")
	assert.Equal(t, http.StatusConflict, code)
	body, code = ts.get(t, "/wallets/"+staker.String())
	require.Equal(t, http.StatusOK, code)
	empty := decode[wallets.Wallet](t, body)
	assert.Empty(t, empty.Owners)
	assert.NotNil(t, empty.SpecialOwners)
	assert.Zero(t, empty.Threshold)

	_, code = ts.get(t, "/wallets/0xzz/owners")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t)
	path := "/wallets/" + walletAddr.String() + "/validate"
	op := map[string]any{
		"callGas":            "100",
		"verificationGas":    "10",
		"preVerificationGas": "5",
		"maxFeePerGas":       "2",
	}

	body, code := ts.post(t, path, map[string]any{"approvers": []thor.Address{a}, "operation": op})
	require.Equal(t, http.StatusOK, code, string(body))
	res := decode[wallets.ValidateResult](t, body)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Reason)
	assert.Nil(t, res.Affordability)
	assert.True(t, strings.HasPrefix(res.RevertData.String(), "0x08c379a0"), res.RevertData.String())

	body, code = ts.post(t, path, map[string]any{"approvers": []thor.Address{a, b}, "operation": op})
	require.Equal(t, http.StatusOK, code, string(body))
	res = decode[wallets.ValidateResult](t, body)
	assert.False(t, res.Valid)
	require.NotNil(t, res.Affordability)
	assert.Equal(t, "230", amount((*big.Int)(res.Affordability.Shortage)))

	require.NoError(t, ts.rt.Mint(walletAddr, big.NewInt(1000)))
	body, code = ts.post(t, path, map[string]any{"approvers": []thor.Address{c}, "operation": op})
	require.Equal(t, http.StatusOK, code, string(body))
	res = decode[wallets.ValidateResult](t, body)
	assert.True(t, res.Valid)
	assert.Equal(t, walletAddr, res.Affordability.Payer)

	_, code = ts.post(t, path, map[string]any{"approvers": []thor.Address{c}})
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = ts.post(t, path, map[string]any{"unknown": true})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStakes(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.rt.Mint(staker, big.NewInt(5000)))
	_, err := ts.ledger.Stake(staker, uint256.NewInt(2000), 3600)
	require.NoError(t, err)

	body, code := ts.get(t, "/stakes/"+staker.String())
	require.Equal(t, http.StatusOK, code, string(body))
	dep := decode[stakes.Deposit](t, body)
	assert.Equal(t, staker, dep.Account)
	assert.Equal(t, "2000", amount((*big.Int)(dep.Amount)))
	assert.Equal(t, uint32(3600), dep.UnstakeDelaySec)
	assert.Equal(t, "staked", dep.Status)

	body, code = ts.get(t, "/stakes/"+staker.String()+"/staked?amount=2000")
	require.Equal(t, http.StatusOK, code, string(body))
	staked := decode[stakes.Staked](t, body)
	assert.True(t, staked.Staked)
	assert.Equal(t, uint32(3600), staked.RequiredDelay)

	body, code = ts.get(t, "/stakes/"+staker.String()+"/staked?amount=0x7d1&delay=60")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.False(t, decode[stakes.Staked](t, body).Staked)

	body, code = ts.get(t, "/stakes/"+a.String())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "idle", decode[stakes.Deposit](t, body).Status)

	_, code = ts.get(t, "/stakes/"+staker.String()+"/staked?delay=-1")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = ts.get(t, "/stakes/"+staker.String()+"/staked?amount=abc")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestOpCost(t *testing.T) {
	ts := newTestServer(t)
	op := map[string]any{
		"callGas":              "100",
		"verificationGas":      "10",
		"preVerificationGas":   "5",
		"maxFeePerGas":         "10",
		"maxPriorityFeePerGas": "1",
	}

	body, code := ts.post(t, "/opcost?baseFee=5", op)
	require.Equal(t, http.StatusOK, code, string(body))
	cost := decode[costs.Cost](t, body)
	assert.Equal(t, uint64(115), cost.RequiredGas)
	assert.Equal(t, "1150", amount((*big.Int)(cost.PreFund)))
	assert.Equal(t, "6", amount((*big.Int)(cost.GasPrice)))

	body, code = ts.post(t, "/opcost", op)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, decode[costs.Cost](t, body).GasPrice)

	op["sponsor"] = staker.String()
	body, code = ts.post(t, "/opcost", op)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint64(135), decode[costs.Cost](t, body).RequiredGas)

	body, code = ts.post(t, "/opcost/admit", op)
	require.Equal(t, http.StatusOK, code, string(body))
	adm := decode[costs.Admission](t, body)
	assert.False(t, adm.Admitted)
	assert.Equal(t, admission.ErrSponsorNotStaked.Error(), adm.Reason)

	require.NoError(t, ts.rt.Mint(staker, big.NewInt(5000)))
	_, err := ts.ledger.Stake(staker, uint256.NewInt(2000), 3600)
	require.NoError(t, err)
	body, code = ts.post(t, "/opcost/admit", op)
	require.Equal(t, http.StatusOK, code, string(body))
	adm = decode[costs.Admission](t, body)
	assert.True(t, adm.Admitted)
	assert.Equal(t, &staker, adm.Sponsor)

	op["callGas"] = "0xffffffffffffffff"
	_, code = ts.post(t, "/opcost", op)
	assert.Equal(t, http.StatusBadRequest, code)

	op["callGas"] = "1"
	op["maxFeePerGas"] = "-1"
	_, code = ts.post(t, "/opcost", op)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t)

	// setup emitted three OwnerAdded, one SpecialOwnerAdded and one ThresholdChanged
	assert.Eventually(t, func() bool {
		all, err := ts.db.Filter(nil)
		return err == nil && len(all) == 5
	}, 5*time.Second, 10*time.Millisecond)

	body, code := ts.post(t, "/events", map[string]any{
		"contract": walletAddr.String(),
		"names":    []string{"OwnerAdded"},
		"order":    "DESC",
	})
	require.Equal(t, http.StatusOK, code, string(body))
	evs := *decode[[]*eventdb.Event](t, body)
	require.Len(t, evs, 3)
	for _, e := range evs {
		assert.Equal(t, "OwnerAdded", e.Name)
		assert.Equal(t, walletAddr, e.Contract)
	}
	assert.True(t, evs[0].Index > evs[2].Index)

	body, code = ts.post(t, "/events", map[string]any{"subject": staker.String()})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]\n", string(body))

	_, code = ts.post(t, "/events", map[string]any{"options": map[string]any{"limit": 101}})
	assert.Equal(t, http.StatusForbidden, code)
	_, code = ts.post(t, "/events", map[string]any{"range": map[string]any{"unit": "Call", "from": 5, "to": 1}})
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = ts.post(t, "/events", map[string]any{"order": "sideways"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSubscription(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events?names=Deposited&subject=" + staker.String()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, ts.rt.Mint(staker, big.NewInt(100)))
	// filtered out by name
	_, err = ts.wallet.ChangeThreshold(walletAddr, 1)
	require.NoError(t, err)
	_, err = ts.ledger.Deposit(staker, staker, uint256.NewInt(100))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		subscriptions.Message
		Data ev.Deposited `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg), string(data))
	assert.Equal(t, "Deposited", msg.Name)
	assert.Equal(t, staker, msg.Subject)
	assert.Equal(t, ts.ledger.Address(), msg.Contract)
	assert.Equal(t, big.NewInt(100), msg.Data.TotalDeposit)

	_, resp, err = websocket.DefaultDialer.Dial(url+"&contract=0xzz", nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)

	ts.get(t, "/wallets/"+walletAddr.String())
	ts.get(t, "/wallets/"+walletAddr.String()+"/special-owners")
	ts.get(t, "/wallets/"+staker.String()+"/special-owners")

	body, code := ts.get(t, "/metrics")
	require.Equal(t, http.StatusOK, code)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, m := range families["aawallet_api_request_count"].GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		// the registry is shared with the other tests of the package
		counts[labels["method"]+" "+labels["name"]+"/"+labels["code"]] += m.GetCounter().GetValue()
	}
	assert.GreaterOrEqual(t, counts["GET wallets_address/200"], float64(1))
	assert.GreaterOrEqual(t, counts["GET wallets_address_special_owners/200"], float64(1))
	assert.GreaterOrEqual(t, counts["GET wallets_address_special_owners/409"], float64(1))
	assert.Zero(t, counts["POST wallets_address_special_owners/200"])

	assert.Contains(t, families, "aawallet_api_duration_ms")
	assert.Contains(t, families, "aawallet_runtime_calls_count")
}
