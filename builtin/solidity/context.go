// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solidity provides storage abstractions for native contracts, laid out the way a
// contract would lay out its state variables: each variable owns a slot position under the
// contract address.
package solidity

import (
	"github.com/vechain/aawallet/state"
	"github.com/vechain/aawallet/thor"
)

type UseGasFunc func(gas uint64)

type Context struct {
	address thor.Address
	state   *state.State
	charger UseGasFunc
}

func NewContext(address thor.Address, state *state.State, charger UseGasFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) UseGas(gas uint64) {
	if c.charger != nil {
		c.charger(gas)
	}
}

// toWordSize converts bytes length to storage words.
func toWordSize(length int) uint64 {
	return (uint64(length) + 31) / 32
}
