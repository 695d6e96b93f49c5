// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakeledger implements the deposit ledger that funds gas of sponsored operations.
// A deposit can be locked as a stake, unlocked with a cooldown and withdrawn once due.
//
// Deposited funds are held as the native balance of the ledger address.
package stakeledger

import (
	"github.com/holiman/uint256"

	"github.com/vechain/aawallet/builtin/solidity"
	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/thor"
)

var slotDeposits = thor.Blake2b([]byte("deposits"))

// Ledger implements the native methods of the stake ledger.
type Ledger struct {
	addr         thor.Address
	env          Env
	deposits     *solidity.Mapping[thor.Address, *DepositInfo]
	unstakeDelay uint32
}

// New creates the ledger at ctx.Address(). unstakeDelay is the global delay of the
// deployment profile; the ledger itself accepts any delay not below the account's current one.
func New(ctx *solidity.Context, env Env, unstakeDelay uint32) *Ledger {
	return &Ledger{
		addr:         ctx.Address(),
		env:          env,
		deposits:     solidity.NewMapping[thor.Address, *DepositInfo](ctx, slotDeposits),
		unstakeDelay: unstakeDelay,
	}
}

// UnstakeDelay returns the global unstake delay.
func (l *Ledger) UnstakeDelay() uint32 {
	return l.unstakeDelay
}

// get returns the record of account, the zero record if it was never referenced.
func (l *Ledger) get(account thor.Address) (*DepositInfo, error) {
	info, err := l.deposits.Get(account)
	if err != nil {
		return nil, err
	}
	if info.Amount == nil {
		info.Amount = new(uint256.Int)
	}
	return info, nil
}

func (l *Ledger) set(account thor.Address, info *DepositInfo) error {
	return l.deposits.Set(account, info, false)
}

// orZero treats a missing amount as zero.
func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

// add returns amount+value, failing when the result exceeds MaxDeposit.
func add(amount, value *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(amount, orZero(value))
	if overflow || sum.Gt(MaxDeposit) {
		return nil, errOverflow
	}
	return sum, nil
}

// DepositInfo returns the record of account.
func (l *Ledger) DepositInfo(account thor.Address) (*DepositInfo, error) {
	return l.get(account)
}

// BalanceOf returns the deposited amount of account.
func (l *Ledger) BalanceOf(account thor.Address) (*uint256.Int, error) {
	info, err := l.get(account)
	if err != nil {
		return nil, err
	}
	return info.Amount, nil
}

// IsStaked reports whether account holds at least requiredAmount, locked for at least
// requiredDelay seconds and not unlocking.
func (l *Ledger) IsStaked(account thor.Address, requiredAmount *uint256.Int, requiredDelay uint32) (bool, error) {
	info, err := l.get(account)
	if err != nil {
		return false, err
	}
	return !info.Amount.Lt(orZero(requiredAmount)) &&
		info.UnstakeDelaySec >= requiredDelay &&
		info.WithdrawTime == 0, nil
}

// Deposit credits value to account. Anyone can deposit for any account.
func (l *Ledger) Deposit(account thor.Address, value *uint256.Int) error {
	info, err := l.get(account)
	if err != nil {
		return err
	}
	if info.Amount, err = add(info.Amount, value); err != nil {
		return err
	}
	if err := l.set(account, info); err != nil {
		return err
	}

	l.env.Emit(&events.Deposited{
		Account:         account,
		TotalDeposit:    info.Amount.ToBig(),
		UnstakeDelaySec: info.UnstakeDelaySec,
	})
	return nil
}

// Stake credits value to account and locks the whole deposit for unstakeDelaySec.
// The delay can't be shortened. Any unstake in progress is cancelled.
func (l *Ledger) Stake(account thor.Address, value *uint256.Int, unstakeDelaySec uint32) error {
	info, err := l.get(account)
	if err != nil {
		return err
	}
	if unstakeDelaySec < info.UnstakeDelaySec {
		return errDecreaseDelay
	}
	amount, err := add(info.Amount, value)
	if err != nil {
		return err
	}
	info = &DepositInfo{
		Amount:          amount,
		UnstakeDelaySec: unstakeDelaySec,
		WithdrawTime:    0,
	}
	if err := l.set(account, info); err != nil {
		return err
	}

	l.env.Emit(&events.Deposited{
		Account:         account,
		TotalDeposit:    amount.ToBig(),
		UnstakeDelaySec: unstakeDelaySec,
	})
	return nil
}

// Unstake starts the cooldown of the caller's stake.
func (l *Ledger) Unstake(caller thor.Address) error {
	info, err := l.get(caller)
	if err != nil {
		return err
	}
	if info.WithdrawTime != 0 {
		return errAlreadyUnstaking
	}
	if info.UnstakeDelaySec == 0 {
		return errNotStaked
	}
	info.WithdrawTime = l.env.Now() + uint64(info.UnstakeDelaySec)
	if err := l.set(caller, info); err != nil {
		return err
	}

	l.env.Emit(&events.DepositUnstaked{Account: caller, WithdrawTime: info.WithdrawTime})
	return nil
}

// Withdraw pays amount of the caller's deposit to destination. A staked deposit must be
// unstaked and due. The record loses its stake status whatever amount is left.
func (l *Ledger) Withdraw(caller, destination thor.Address, amount *uint256.Int) error {
	amount = orZero(amount)
	info, err := l.get(caller)
	if err != nil {
		return err
	}
	if info.UnstakeDelaySec != 0 {
		if info.WithdrawTime == 0 {
			return errUnstakeFirst
		}
		if l.env.Now() < info.WithdrawTime {
			return errNotDue
		}
	}
	if amount.Gt(info.Amount) {
		return errInsufficient
	}
	info = &DepositInfo{
		Amount: new(uint256.Int).Sub(info.Amount, amount),
	}
	if err := l.set(caller, info); err != nil {
		return err
	}
	if err := l.env.Transfer(l.addr, destination, amount.ToBig()); err != nil {
		return err
	}

	l.env.Emit(&events.Withdrawn{Account: caller, Destination: destination, Amount: amount.ToBig()})
	return nil
}
