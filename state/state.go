// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/aawallet/stackedmap"
	"github.com/vechain/aawallet/thor"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type (
	storageKey struct {
		addr thor.Address
		key  thor.Bytes32
	}
	balanceKey thor.Address
)

// State manages the storage slots and native balances of accounts.
// Changes are kept in memory until staged and committed.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap
}

func newState(stater *Stater) *State {
	s := &State{stater: stater}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case storageKey:
		raw, err := s.stater.load(storageDBKey(k))
		if err != nil {
			return nil, false, err
		}
		return rlp.RawValue(raw), true, nil
	case balanceKey:
		raw, err := s.stater.load(balanceDBKey(thor.Address(k)))
		if err != nil {
			return nil, false, err
		}
		bal := new(big.Int)
		if len(raw) > 0 {
			if err := rlp.DecodeBytes(raw, bal); err != nil {
				return nil, false, err
			}
		}
		return bal, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) {
	s.sm.Put(balanceKey(addr), new(big.Int).Set(balance))
}

// AddBalance adds amount to the balance of the given address.
func (s *State) AddBalance(addr thor.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	s.SetBalance(addr, bal.Add(bal, amount))
	return nil
}

// SubBalance subtracts amount from the balance of the given address.
// It returns false and changes nothing if the balance is insufficient.
func (s *State) SubBalance(addr thor.Address, amount *big.Int) (bool, error) {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	s.SetBalance(addr, bal.Sub(bal, amount))
	return true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, its hash stands for the slot
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw. Empty raw value clears the slot.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects all changes made so far. The state must not be modified after staging.
func (s *State) Stage() (*Stage, error) {
	changes := make(map[string][]byte)
	var keys []string
	var err error
	s.sm.Journal(func(k, v any) bool {
		var dbKey, dbVal []byte
		switch key := k.(type) {
		case storageKey:
			dbKey, dbVal = storageDBKey(key), v.(rlp.RawValue)
		case balanceKey:
			dbKey = balanceDBKey(thor.Address(key))
			if bal := v.(*big.Int); bal.Sign() != 0 {
				if dbVal, err = rlp.EncodeToBytes(bal); err != nil {
					return false
				}
			}
		}
		if _, ok := changes[string(dbKey)]; !ok {
			keys = append(keys, string(dbKey))
		}
		changes[string(dbKey)] = dbVal
		return true
	})
	if err != nil {
		return nil, &Error{err}
	}
	return &Stage{stater: s.stater, keys: keys, changes: changes}, nil
}

func storageDBKey(k storageKey) []byte {
	key := make([]byte, 0, len(storageBucket)+thor.AddressLength+32)
	key = append(key, storageBucket...)
	key = append(key, k.addr[:]...)
	return append(key, k.key[:]...)
}

func balanceDBKey(addr thor.Address) []byte {
	key := make([]byte, 0, len(balanceBucket)+thor.AddressLength)
	key = append(key, balanceBucket...)
	return append(key, addr[:]...)
}
