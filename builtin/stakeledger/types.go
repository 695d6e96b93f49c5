// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakeledger

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/aawallet/builtin/reverts"
	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/thor"
)

// MaxDeposit is the largest amount a deposit can hold, 2^112-1.
var MaxDeposit = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(uint256.NewInt(1), 112), 1)

// DepositInfo is the deposit record of an account.
type DepositInfo struct {
	Amount          *uint256.Int
	UnstakeDelaySec uint32 // 0 means not staked
	WithdrawTime    uint64 // 0 means not unlocking
}

// NewDepositInfo returns the record every account starts with.
func NewDepositInfo() *DepositInfo {
	return &DepositInfo{Amount: new(uint256.Int)}
}

// Status of a deposit record in the stake lifecycle.
type Status uint8

const (
	Idle Status = iota
	Staked
	Unlocking
	Withdrawable
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Staked:
		return "staked"
	case Unlocking:
		return "unlocking"
	case Withdrawable:
		return "withdrawable"
	}
	return "unknown"
}

// Status returns where the record stands at time now.
func (d *DepositInfo) Status(now uint64) Status {
	switch {
	case d.UnstakeDelaySec == 0:
		return Idle
	case d.WithdrawTime == 0:
		return Staked
	case now < d.WithdrawTime:
		return Unlocking
	default:
		return Withdrawable
	}
}

// Env is what the ledger needs from the executing call.
type Env interface {
	events.Emitter
	// Now returns the ledger time in seconds.
	Now() uint64
	// Transfer moves amount of native balance from one address to another.
	Transfer(from, to thor.Address, amount *big.Int) error
}

var (
	errOverflow         = reverts.Funds("deposit overflow")
	errInsufficient     = reverts.Funds("withdraw amount too large")
	errDecreaseDelay    = reverts.Precondition("cannot decrease unstake delay")
	errAlreadyUnstaking = reverts.Conflict("already unstaking")
	errNotStaked        = reverts.Conflict("not staked")
	errUnstakeFirst     = reverts.Timing("must call unstake first")
	errNotDue           = reverts.Timing("withdrawal is not due")
)
