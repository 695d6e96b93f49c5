// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the notifications emitted by the wallet's native contracts
// and the feed that delivers them to off-chain observers once a call is committed.
package events

import (
	"math/big"

	"github.com/vechain/aawallet/thor"
)

// Event is a notification emitted by a native contract.
type Event interface {
	// Name is the event name, e.g. "OwnerAdded".
	Name() string
	// Subject is the identity the event is about, used for indexing.
	Subject() thor.Address
}

// Emitter receives events raised during a call. Events are buffered until the call commits.
type Emitter interface {
	Emit(ev Event)
}

// Topic returns the keccak hash of the event name, the conventional first log topic.
func Topic(ev Event) thor.Bytes32 {
	return thor.Keccak256([]byte(ev.Name()))
}

type OwnerAdded struct {
	Owner thor.Address `json:"owner"`
}

type OwnerRemoved struct {
	Owner thor.Address `json:"owner"`
}

type SpecialOwnerAdded struct {
	Owner thor.Address `json:"owner"`
}

type SpecialOwnerRemoved struct {
	Owner thor.Address `json:"owner"`
}

type ThresholdChanged struct {
	Wallet    thor.Address `json:"wallet"`
	Threshold uint64       `json:"threshold"`
}

type Deposited struct {
	Account         thor.Address `json:"account"`
	TotalDeposit    *big.Int     `json:"totalDeposit"`
	UnstakeDelaySec uint32       `json:"unstakeDelaySec"`
}

type DepositUnstaked struct {
	Account      thor.Address `json:"account"`
	WithdrawTime uint64       `json:"withdrawTime"`
}

type Withdrawn struct {
	Account     thor.Address `json:"account"`
	Destination thor.Address `json:"destination"`
	Amount      *big.Int     `json:"amount"`
}

func (OwnerAdded) Name() string          { return "OwnerAdded" }
func (OwnerRemoved) Name() string        { return "OwnerRemoved" }
func (SpecialOwnerAdded) Name() string   { return "SpecialOwnerAdded" }
func (SpecialOwnerRemoved) Name() string { return "SpecialOwnerRemoved" }
func (ThresholdChanged) Name() string    { return "ThresholdChanged" }
func (Deposited) Name() string           { return "Deposited" }
func (DepositUnstaked) Name() string     { return "DepositUnstaked" }
func (Withdrawn) Name() string           { return "Withdrawn" }

func (e OwnerAdded) Subject() thor.Address          { return e.Owner }
func (e OwnerRemoved) Subject() thor.Address        { return e.Owner }
func (e SpecialOwnerAdded) Subject() thor.Address   { return e.Owner }
func (e SpecialOwnerRemoved) Subject() thor.Address { return e.Owner }
func (e ThresholdChanged) Subject() thor.Address    { return e.Wallet }
func (e Deposited) Subject() thor.Address           { return e.Account }
func (e DepositUnstaked) Subject() thor.Address     { return e.Account }
func (e Withdrawn) Subject() thor.Address           { return e.Account }
