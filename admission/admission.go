// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admission decides whether the collator accepts a sponsored operation.
package admission

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/aawallet/log"
	"github.com/vechain/aawallet/metrics"
	"github.com/vechain/aawallet/opcost"
	"github.com/vechain/aawallet/thor"
)

var (
	logger = log.WithContext("pkg", "admission")

	metricDecisions = metrics.LazyLoadCounterVec("admission_decisions_count", []string{"result"})
)

var (
	ErrSponsorNotStaked     = errors.New("sponsor is not staked")
	ErrSponsorUnderfunded   = errors.New("sponsor deposit does not cover prefund")
	ErrMissingMaxFeePerGas  = errors.New("max fee per gas is required")
	ErrPriorityAboveMaxFees = errors.New("max priority fee per gas exceeds max fee per gas")
)

// IsRejection reports whether err is an admission verdict rather than a failure to decide.
func IsRejection(err error) bool {
	for _, target := range []error{ErrSponsorNotStaked, ErrSponsorUnderfunded, ErrMissingMaxFeePerGas, ErrPriorityAboveMaxFees} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// StakeReader is the query surface of the stake ledger the collator relies on.
type StakeReader interface {
	IsStaked(account thor.Address, requiredAmount *uint256.Int, requiredDelay uint32) (bool, error)
	UnstakeDelay() uint32
	BalanceOf(account thor.Address) (*uint256.Int, error)
}

// Collator admits operations.
type Collator struct {
	stakes   StakeReader
	minStake *uint256.Int
}

// New creates a collator requiring sponsors to keep at least minStake locked for the
// global unstake delay.
func New(stakes StakeReader, minStake *uint256.Int) *Collator {
	if minStake == nil {
		minStake = new(uint256.Int)
	}
	return &Collator{stakes: stakes, minStake: minStake}
}

// Decision is the outcome of a successful admission.
type Decision struct {
	RequiredGas uint64
	PreFund     *uint256.Int
	Sponsor     thor.Address
}

// Admit checks op. A sponsored operation requires its sponsor to be staked and its
// deposit to cover the prefund.
func (c *Collator) Admit(op *opcost.Operation) (*Decision, error) {
	d, err := c.admit(op)
	if err != nil {
		metricDecisions().AddWithLabel(1, map[string]string{"result": "rejected"})
		logger.Debug("operation rejected", "sponsor", op.Sponsor, "err", err)
		return nil, err
	}
	metricDecisions().AddWithLabel(1, map[string]string{"result": "admitted"})
	return d, nil
}

func (c *Collator) admit(op *opcost.Operation) (*Decision, error) {
	if op.MaxFeePerGas == nil {
		return nil, ErrMissingMaxFeePerGas
	}
	if op.MaxPriorityFeePerGas != nil && op.MaxPriorityFeePerGas.Gt(op.MaxFeePerGas) {
		return nil, ErrPriorityAboveMaxFees
	}
	gas, err := opcost.RequiredGas(op)
	if err != nil {
		return nil, err
	}
	prefund, err := opcost.RequiredPreFund(op)
	if err != nil {
		return nil, err
	}
	d := &Decision{RequiredGas: gas, PreFund: prefund, Sponsor: op.Sponsor}
	if !op.HasSponsor() {
		return d, nil
	}

	staked, err := c.stakes.IsStaked(op.Sponsor, c.minStake, c.stakes.UnstakeDelay())
	if err != nil {
		return nil, err
	}
	if !staked {
		return nil, ErrSponsorNotStaked
	}
	deposit, err := c.stakes.BalanceOf(op.Sponsor)
	if err != nil {
		return nil, err
	}
	if deposit.Lt(prefund) {
		return nil, errors.Wrapf(ErrSponsorUnderfunded, "deposit %v, prefund %v", deposit, prefund)
	}
	return d, nil
}
