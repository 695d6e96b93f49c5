// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/lvldb"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/state"
	"github.com/vechain/aawallet/thor"
	"github.com/vechain/aawallet/wallet"
)

const profile = `
unstakeDelay: 3600
minStake: "0x3e8"
balances:
  - address: "0x000000000000000000000000000000000000000a"
    amount: 5000
wallets:
  - address: "0x00000000000000000000000000000000000000ff"
    owners:
      - "0x000000000000000000000000000000000000000a"
      - "0x000000000000000000000000000000000000000b"
    specialOwners:
      - "0x000000000000000000000000000000000000000b"
    threshold: 2
stakes:
  - account: "0x000000000000000000000000000000000000000a"
    amount: "2000"
    unstakeDelay: 3600
`

var (
	addrA      = thor.BytesToAddress([]byte{0x0a})
	addrB      = thor.BytesToAddress([]byte{0x0b})
	walletAddr = thor.BytesToAddress([]byte{0xff})
)

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(profile))
	require.NoError(t, err)

	assert.Equal(t, uint32(3600), cfg.UnstakeDelay)
	assert.Equal(t, uint256.NewInt(1000), cfg.MinStake.Uint256())
	require.Len(t, cfg.Balances, 1)
	assert.Equal(t, addrA, cfg.Balances[0].Address)
	assert.Equal(t, big.NewInt(5000), cfg.Balances[0].Amount.Int)
	require.Len(t, cfg.Wallets, 1)
	assert.Equal(t, WalletConfig{
		Address:       walletAddr,
		Owners:        []thor.Address{addrA, addrB},
		SpecialOwners: []thor.Address{addrB},
		Threshold:     2,
	}, cfg.Wallets[0])
	require.Len(t, cfg.Stakes, 1)
	assert.Equal(t, uint256.NewInt(2000), cfg.Stakes[0].Amount.Uint256())
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, thor.DefaultUnstakeDelay, cfg.UnstakeDelay)
	assert.True(t, cfg.MinStake.Uint256().IsZero())

	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "unknown: 1"},
		{"zero delay", "unstakeDelay: 0"},
		{"negative amount", "minStake: -1"},
		{"bad address", "balances:\n  - address: 0x01\n    amount: 1"},
		{"missing wallet address", "wallets:\n  - threshold: 1"},
		{"duplicated wallet", "wallets:\n  - address: \"0x00000000000000000000000000000000000000ff\"\n  - address: \"0x00000000000000000000000000000000000000ff\""},
		{"stake without delay", "balances:\n  - address: \"0x000000000000000000000000000000000000000a\"\n    amount: 1\nstakes:\n  - account: \"0x000000000000000000000000000000000000000a\"\n    amount: 1"},
		{"unfunded stake", "stakes:\n  - account: \"0x000000000000000000000000000000000000000a\"\n    amount: 1\n    unstakeDelay: 1"},
		{"stakes above balance", "balances:\n  - address: \"0x000000000000000000000000000000000000000a\"\n    amount: 3\nstakes:\n  - account: \"0x000000000000000000000000000000000000000a\"\n    amount: 2\n    unstakeDelay: 1\n  - account: \"0x000000000000000000000000000000000000000a\"\n    amount: 2\n    unstakeDelay: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func newGenesisRuntime(t *testing.T, cfg *Config) (*runtime.Runtime, *wallet.Ledger) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(state.NewStater(db), runtime.NewManualClock(100))
	return rt, wallet.NewLedger(rt, cfg.UnstakeDelay)
}

func TestApplyGenesis(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(profile))
	require.NoError(t, err)
	rt, ledger := newGenesisRuntime(t, cfg)

	applied, err := applyGenesis(rt, ledger, cfg)
	require.NoError(t, err)
	assert.True(t, applied)

	owners, special, threshold, err := wallet.New(rt, walletAddr, cfg.UnstakeDelay).Members()
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{addrA, addrB}, owners)
	assert.Equal(t, []thor.Address{addrB}, special)
	assert.Equal(t, uint64(2), threshold)

	staked, err := ledger.IsStaked(addrA, uint256.NewInt(2000), 3600)
	require.NoError(t, err)
	assert.True(t, staked)
	balance, err := rt.Balance(addrA)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3000), balance)

	// a second run keeps the store as is
	applied, err = applyGenesis(rt, ledger, cfg)
	require.NoError(t, err)
	assert.False(t, applied)
	balance, _ = rt.Balance(addrA)
	assert.Equal(t, big.NewInt(3000), balance)
}

func TestApplyGenesisAllOrNothing(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(profile))
	require.NoError(t, err)
	rt, ledger := newGenesisRuntime(t, cfg)

	// fails after balances are funded and before stakes are placed
	broken := *cfg
	broken.Wallets = []WalletConfig{{Address: walletAddr, Owners: []thor.Address{addrA}, Threshold: 2}}

	for attempt := 0; attempt < 2; attempt++ {
		applied, err := applyGenesis(rt, ledger, &broken)
		assert.ErrorContains(t, err, "setup wallet")
		assert.False(t, applied)

		balance, err := rt.Balance(addrA)
		require.NoError(t, err)
		assert.Zero(t, balance.Sign(), "nothing is funded")
		threshold, err := wallet.New(rt, walletAddr, cfg.UnstakeDelay).Threshold()
		require.NoError(t, err)
		assert.Zero(t, threshold)
	}

	applied, err := applyGenesis(rt, ledger, cfg)
	require.NoError(t, err)
	assert.True(t, applied)
	balance, _ := rt.Balance(addrA)
	assert.Equal(t, big.NewInt(3000), balance)
}

func TestApplyGenesisEvents(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(profile))
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	feed := &events.Feed{}
	defer feed.Close()
	ch := make(chan []*events.Record, 1)
	sub := feed.Subscribe(ch)
	defer sub.Unsubscribe()

	rt := runtime.New(state.NewStater(db), runtime.NewManualClock(100), runtime.WithFeed(feed))
	ledger := wallet.NewLedger(rt, cfg.UnstakeDelay)
	_, err = applyGenesis(rt, ledger, cfg)
	require.NoError(t, err)

	// the whole profile commits as one call, each event attributed to its contract
	records := <-ch
	contracts := make(map[string]thor.Address)
	for _, r := range records {
		assert.Equal(t, records[0].Call, r.Call)
		contracts[r.Event.Name()] = r.Contract
	}
	assert.Equal(t, walletAddr, contracts["OwnerAdded"])
	assert.Equal(t, walletAddr, contracts["ThresholdChanged"])
	assert.Equal(t, ledger.Address(), contracts["Deposited"])
}
