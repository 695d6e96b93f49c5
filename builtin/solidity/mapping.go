// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/aawallet/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for native contracts, similar to the mapping in Solidity.
// Missing keys read as the zero value of V; for pointer types a fresh zero object is returned.
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Ptr {
			value = reflect.New(t.Elem()).Interface().(V)
		}
		m.context.UseGas(max(toWordSize(len(raw)), 1) * thor.SloadGas)
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores value under key. newValue tells whether the slot was empty before, which
// decides between set and reset gas.
func (m *Mapping[K, V]) Set(key K, value V, newValue bool) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		if newValue {
			m.context.UseGas(toWordSize(len(val)) * thor.SstoreSetGas)
		} else {
			m.context.UseGas(toWordSize(len(val)) * thor.SstoreResetGas)
		}
		return val, nil
	})
}

// Clear empties the slot of key.
func (m *Mapping[K, V]) Clear(key K) {
	m.context.UseGas(thor.SstoreResetGas)
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
