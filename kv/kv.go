// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter wraps methods for getting kvs.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

// Putter wraps methods for putting kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch defines batch of putting ops.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Store is a kv store that supports batched writes.
type Store interface {
	Getter
	Putter

	NewBatch() Batch
	Close() error
}

// Bucket prefixes keys of an underlying store, so that unrelated data sets share one store.
type Bucket string

// Get reads the value of the prefixed key.
func (b Bucket) Get(g Getter, key []byte) ([]byte, error) {
	return g.Get(b.key(key))
}

// Has checks existence of the prefixed key.
func (b Bucket) Has(g Getter, key []byte) (bool, error) {
	return g.Has(b.key(key))
}

// Put writes the value of the prefixed key.
func (b Bucket) Put(p Putter, key, value []byte) error {
	return p.Put(b.key(key), value)
}

// Delete removes the prefixed key.
func (b Bucket) Delete(p Putter, key []byte) error {
	return p.Delete(b.key(key))
}

func (b Bucket) key(key []byte) []byte {
	buf := make([]byte, 0, len(b)+len(key))
	buf = append(buf, b...)
	return append(buf, key...)
}
