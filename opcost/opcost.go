// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package opcost computes how much gas and prefund a sponsored operation must reserve.
// All functions are pure.
package opcost

import (
	"cmp"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/aawallet/thor"
)

// ErrOverflow is returned when a cost does not fit its integer type.
var ErrOverflow = errors.New("operation cost overflow")

// Operation holds the cost related fields of an operation.
type Operation struct {
	CallGas              uint64
	VerificationGas      uint64
	PreVerificationGas   uint64
	Sponsor              thor.Address // zero when the sender pays
	MaxFeePerGas         *uint256.Int
	MaxPriorityFeePerGas *uint256.Int
}

// HasSponsor reports whether a fee sponsor pays for the operation.
func (op *Operation) HasSponsor() bool {
	return !op.Sponsor.IsZero()
}

// verificationMultiplier is 1, or 3 with a sponsor whose post-op hook may run twice
// against its funds.
func (op *Operation) verificationMultiplier() uint64 {
	if op.HasSponsor() {
		return thor.SponsoredVerificationMultiplier
	}
	return 1
}

// RequiredGas returns callGas + verificationGas*multiplier + preVerificationGas.
func RequiredGas(op *Operation) (uint64, error) {
	verification, overflow := math.SafeMul(op.VerificationGas, op.verificationMultiplier())
	if overflow {
		return 0, ErrOverflow
	}
	total, overflow := math.SafeAdd(op.CallGas, verification)
	if overflow {
		return 0, ErrOverflow
	}
	if total, overflow = math.SafeAdd(total, op.PreVerificationGas); overflow {
		return 0, ErrOverflow
	}
	return total, nil
}

// RequiredPreFund returns RequiredGas(op) * maxFeePerGas.
func RequiredPreFund(op *Operation) (*uint256.Int, error) {
	gas, err := RequiredGas(op)
	if err != nil {
		return nil, err
	}
	fee := op.MaxFeePerGas
	if fee == nil {
		fee = new(uint256.Int)
	}
	prefund, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(gas), fee)
	if overflow {
		return nil, ErrOverflow
	}
	return prefund, nil
}

// GasPrice returns the effective price per gas under baseFee: the base fee plus the
// priority fee, capped by the max fee.
func GasPrice(op *Operation, baseFee *uint256.Int) *uint256.Int {
	maxFee := op.MaxFeePerGas
	if maxFee == nil {
		return new(uint256.Int)
	}
	if baseFee == nil {
		baseFee = new(uint256.Int)
	}
	priority := op.MaxPriorityFeePerGas
	if priority == nil {
		priority = new(uint256.Int)
	}
	price, overflow := new(uint256.Int).AddOverflow(baseFee, priority)
	if overflow || price.Gt(maxFee) {
		return new(uint256.Int).Set(maxFee)
	}
	return price
}

func Min[T cmp.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T cmp.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
