// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/aawallet/cache"
	"github.com/vechain/aawallet/kv"
)

const (
	storageBucket = kv.Bucket("s")
	balanceBucket = kv.Bucket("b")

	defaultCacheSize = 4096
)

// Stater is the state creator.
// States created by the same stater share the underlying store and its read cache.
type Stater struct {
	db    kv.Store
	cache *cache.LRU
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	c, _ := cache.NewLRU(defaultCacheSize)
	return &Stater{db, c}
}

// NewState create a new state object on top of the committed data.
func (s *Stater) NewState() *State {
	return newState(s)
}

// load reads the committed value of a store key. Missing keys load as nil.
func (s *Stater) load(key []byte) ([]byte, error) {
	v, err := s.cache.GetOrLoad(string(key), func(any) (any, error) {
		val, err := s.db.Get(key)
		if err != nil {
			if s.db.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
