// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/aawallet/kv"
)

func TestLevelDB(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	assert.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := db.Has([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, db.Delete([]byte("k")))
	has, _ = db.Has([]byte("k"))
	assert.False(t, has)
}

func TestBatch(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := db.NewBatch()
	b.Put([]byte("a"), []byte("1"))
	b.Put([]byte("b"), []byte("2"))
	b.Delete([]byte("a"))
	assert.Equal(t, 3, b.Len())

	has, _ := db.Has([]byte("b"))
	assert.False(t, has, "batch must not be visible before write")

	assert.NoError(t, b.Write())
	has, _ = db.Has([]byte("a"))
	assert.False(t, has)
	v, _ := db.Get([]byte("b"))
	assert.Equal(t, []byte("2"), v)
}

func TestBucket(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	b1, b2 := kv.Bucket("x"), kv.Bucket("y")
	assert.NoError(t, b1.Put(db, []byte("k"), []byte("1")))
	assert.NoError(t, b2.Put(db, []byte("k"), []byte("2")))

	v, err := b1.Get(db, []byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	v, _ = db.Get([]byte("yk"))
	assert.Equal(t, []byte("2"), v)

	assert.NoError(t, b1.Delete(db, []byte("k")))
	has, _ := b1.Has(db, []byte("k"))
	assert.False(t, has)
}
