// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/aawallet/builtin"
	"github.com/vechain/aawallet/builtin/reverts"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/thor"
	"github.com/vechain/aawallet/wallet"
)

var (
	// genesis runs as a call of this address, and marks itself applied in its storage
	genesisAddress = thor.BytesToAddress([]byte("genesis"))
	slotApplied    = thor.Blake2b([]byte("applied"))

	errGenesisApplied = reverts.Conflict("genesis already applied")
)

// Amount is a non-negative integer written in decimal or 0x-prefixed hex.
type Amount struct {
	*big.Int
}

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return errors.Errorf("line %d: invalid amount %q", value.Line, s)
	}
	a.Int = v
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	if a.Int == nil {
		return "0", nil
	}
	return a.String(), nil
}

func (a Amount) Uint256() *uint256.Int {
	if a.Int == nil {
		return new(uint256.Int)
	}
	v, _ := uint256.FromBig(a.Int)
	return v
}

type Balance struct {
	Address thor.Address `yaml:"address"`
	Amount  Amount       `yaml:"amount"`
}

type WalletConfig struct {
	Address       thor.Address   `yaml:"address"`
	Owners        []thor.Address `yaml:"owners"`
	SpecialOwners []thor.Address `yaml:"specialOwners"`
	Threshold     uint64         `yaml:"threshold"`
}

type StakeConfig struct {
	Account      thor.Address `yaml:"account"`
	Amount       Amount       `yaml:"amount"`
	UnstakeDelay uint32       `yaml:"unstakeDelay"`
}

// Config is the genesis profile of a ledger.
type Config struct {
	UnstakeDelay uint32         `yaml:"unstakeDelay"`
	MinStake     Amount         `yaml:"minStake"`
	Balances     []Balance      `yaml:"balances"`
	Wallets      []WalletConfig `yaml:"wallets"`
	Stakes       []StakeConfig  `yaml:"stakes"`
}

func defaultConfig() *Config {
	return &Config{
		UnstakeDelay: thor.DefaultUnstakeDelay,
	}
}

// parseConfig decodes a config in strict mode, filling unset fields with defaults.
func parseConfig(r io.Reader) (*Config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer file.Close()
	return parseConfig(file)
}

func (c *Config) validate() error {
	if c.UnstakeDelay == 0 {
		return errors.New("unstakeDelay must be positive")
	}
	if c.MinStake.Int != nil && c.MinStake.BitLen() > 256 {
		return errors.New("minStake out of range")
	}
	seen := make(map[thor.Address]bool)
	for i, w := range c.Wallets {
		if w.Address.IsZero() {
			return errors.Errorf("wallets[%d]: address is required", i)
		}
		if seen[w.Address] {
			return errors.Errorf("wallets[%d]: duplicated wallet %v", i, w.Address)
		}
		seen[w.Address] = true
	}
	funds := make(map[thor.Address]*big.Int)
	for _, b := range c.Balances {
		if b.Amount.Int == nil {
			continue
		}
		if funds[b.Address] == nil {
			funds[b.Address] = new(big.Int)
		}
		funds[b.Address].Add(funds[b.Address], b.Amount.Int)
	}
	for i, s := range c.Stakes {
		if s.Account.IsZero() {
			return errors.Errorf("stakes[%d]: account is required", i)
		}
		if s.UnstakeDelay == 0 {
			return errors.Errorf("stakes[%d]: unstakeDelay must be positive", i)
		}
		if s.Amount.Int == nil {
			continue
		}
		left := funds[s.Account]
		if left == nil || left.Cmp(s.Amount.Int) < 0 {
			return errors.Errorf("stakes[%d]: balance of %v does not cover %v", i, s.Account, s.Amount)
		}
		left.Sub(left, s.Amount.Int)
	}
	return nil
}

func genesisApplied(env *runtime.Env) (bool, error) {
	v, err := env.State().GetStorage(genesisAddress, slotApplied)
	if err != nil {
		return false, err
	}
	return !v.IsZero(), nil
}

// applyGenesis funds balances, sets up wallets and stakes in one call, so a store either
// holds the whole profile or nothing of it. It reports false when the store already has one.
func applyGenesis(rt *runtime.Runtime, ledger *wallet.Ledger, cfg *Config) (bool, error) {
	var applied bool
	if err := rt.View(func(env *runtime.Env) (err error) {
		applied, err = genesisApplied(env)
		return
	}); err != nil {
		return false, err
	}
	if applied {
		return false, nil
	}

	_, err := rt.Execute(runtime.Call{Caller: genesisAddress, To: genesisAddress}, func(env *runtime.Env) error {
		if applied, err := genesisApplied(env); err != nil {
			return err
		} else if applied {
			return errGenesisApplied
		}

		for _, b := range cfg.Balances {
			if b.Amount.Int == nil {
				continue
			}
			if err := env.State().AddBalance(b.Address, b.Amount.Int); err != nil {
				return errors.Wrapf(err, "fund %v", b.Address)
			}
		}
		for _, w := range cfg.Wallets {
			// governance calls come from the wallet itself
			registry := builtin.Owners(env.At(w.Address), w.Address, wallet.SelfAuthorizer{Wallet: w.Address})
			if err := registry.Setup(w.Address, w.Owners, w.SpecialOwners, w.Threshold); err != nil {
				return errors.WithMessagef(err, "setup wallet %v", w.Address)
			}
		}
		ledgerAddr := builtin.StakeLedger.Address
		for _, s := range cfg.Stakes {
			amount := s.Amount.Uint256()
			if err := env.Transfer(s.Account, ledgerAddr, amount.ToBig()); err != nil {
				return errors.WithMessagef(err, "stake %v", s.Account)
			}
			led := builtin.StakeLedger.WithEnv(env.At(ledgerAddr), ledger.UnstakeDelay())
			if err := led.Stake(s.Account, amount, s.UnstakeDelay); err != nil {
				return errors.WithMessagef(err, "stake %v", s.Account)
			}
		}

		env.State().SetStorage(genesisAddress, slotApplied, thor.BytesToBytes32([]byte{1}))
		return nil
	})
	if err != nil {
		if errors.Is(err, errGenesisApplied) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
