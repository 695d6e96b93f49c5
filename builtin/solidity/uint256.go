// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math/big"

	"github.com/vechain/aawallet/thor"
)

var errUnderflow = errors.New("uint256 underflow")

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.UseGas(thor.SloadGas)
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

// Uint64 reads the value, assuming it fits 64 bits.
func (u *Uint256) Uint64() (uint64, error) {
	v, err := u.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (u *Uint256) Set(value *big.Int) {
	u.context.UseGas(thor.SstoreResetGas)
	u.context.state.SetStorage(u.context.address, u.pos, thor.BytesToBytes32(value.Bytes()))
}

func (u *Uint256) SetUint64(value uint64) {
	u.Set(new(big.Int).SetUint64(value))
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(storage.Add(storage, value))
	return nil
}

// Sub subtracts value, failing instead of going negative.
func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return errUnderflow
	}
	u.Set(storage.Sub(storage, value))
	return nil
}
