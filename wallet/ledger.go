// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wallet

import (
	"github.com/holiman/uint256"

	"github.com/vechain/aawallet/builtin"
	"github.com/vechain/aawallet/builtin/reverts"
	"github.com/vechain/aawallet/builtin/stakeledger"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/thor"
)

var (
	errInsufficientPreFund = reverts.Funds("insufficient prefund")
	errValueTooLarge       = reverts.Funds("value too large")
)

// Ledger executes calls on the stake ledger.
type Ledger struct {
	rt           *runtime.Runtime
	unstakeDelay uint32
}

func NewLedger(rt *runtime.Runtime, unstakeDelay uint32) *Ledger {
	return &Ledger{rt: rt, unstakeDelay: unstakeDelay}
}

// Address returns the ledger contract address.
func (l *Ledger) Address() thor.Address {
	return builtin.StakeLedger.Address
}

// UnstakeDelay returns the global unstake delay.
func (l *Ledger) UnstakeDelay() uint32 {
	return l.unstakeDelay
}

// payable executes a call sending value from caller to the ledger.
func (l *Ledger) payable(caller thor.Address, value *uint256.Int, fn func(led *stakeledger.Ledger, value *uint256.Int) error) (*runtime.Receipt, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	call := runtime.Call{Caller: caller, To: l.Address(), Value: value.ToBig()}
	return l.rt.Execute(call, func(env *runtime.Env) error {
		v, overflow := uint256.FromBig(env.Value())
		if overflow {
			return errValueTooLarge
		}
		return fn(builtin.StakeLedger.WithEnv(env, l.unstakeDelay), v)
	})
}

// Deposit sends value from caller and credits it to account.
func (l *Ledger) Deposit(caller, account thor.Address, value *uint256.Int) (*runtime.Receipt, error) {
	return l.payable(caller, value, func(led *stakeledger.Ledger, v *uint256.Int) error {
		return led.Deposit(account, v)
	})
}

// Stake sends value from caller, credits it to the caller's deposit and locks it.
func (l *Ledger) Stake(caller thor.Address, value *uint256.Int, unstakeDelaySec uint32) (*runtime.Receipt, error) {
	return l.payable(caller, value, func(led *stakeledger.Ledger, v *uint256.Int) error {
		return led.Stake(caller, v, unstakeDelaySec)
	})
}

func (l *Ledger) Unstake(caller thor.Address) (*runtime.Receipt, error) {
	return l.payable(caller, nil, func(led *stakeledger.Ledger, _ *uint256.Int) error {
		return led.Unstake(caller)
	})
}

func (l *Ledger) Withdraw(caller, destination thor.Address, amount *uint256.Int) (*runtime.Receipt, error) {
	return l.payable(caller, nil, func(led *stakeledger.Ledger, _ *uint256.Int) error {
		return led.Withdraw(caller, destination, amount)
	})
}

func (l *Ledger) view(fn func(led *stakeledger.Ledger) error) error {
	return l.rt.View(func(env *runtime.Env) error {
		return fn(builtin.StakeLedger.WithEnv(env, l.unstakeDelay))
	})
}

func (l *Ledger) DepositInfo(account thor.Address) (info *stakeledger.DepositInfo, err error) {
	err = l.view(func(led *stakeledger.Ledger) error {
		info, err = led.DepositInfo(account)
		return err
	})
	return
}

func (l *Ledger) IsStaked(account thor.Address, requiredAmount *uint256.Int, requiredDelay uint32) (staked bool, err error) {
	err = l.view(func(led *stakeledger.Ledger) error {
		staked, err = led.IsStaked(account, requiredAmount, requiredDelay)
		return err
	})
	return
}

func (l *Ledger) BalanceOf(account thor.Address) (balance *uint256.Int, err error) {
	err = l.view(func(led *stakeledger.Ledger) error {
		balance, err = led.BalanceOf(account)
		return err
	})
	return
}
