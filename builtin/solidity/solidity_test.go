// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/aawallet/builtin/gascharger"
	"github.com/vechain/aawallet/lvldb"
	"github.com/vechain/aawallet/state"
	"github.com/vechain/aawallet/thor"
)

type record struct {
	Value uint64
	Flag  bool
}

func newContext(t *testing.T) (*Context, *gascharger.Charger) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	charger := gascharger.New()
	st := state.NewStater(db).NewState()
	return NewContext(thor.BytesToAddress([]byte("contract")), st, charger.Charge), charger
}

func TestMapping(t *testing.T) {
	ctx, charger := newContext(t)
	m := NewMapping[thor.Address, *record](ctx, thor.Bytes32{1})

	key := thor.BytesToAddress([]byte("key"))

	r, err := m.Get(key)
	assert.NoError(t, err)
	assert.NotNil(t, r, "missing keys read as a zero object")
	assert.Equal(t, record{}, *r)
	assert.Equal(t, thor.SloadGas, charger.TotalGas())

	assert.NoError(t, m.Set(key, &record{7, true}, true))
	assert.Equal(t, thor.SloadGas+thor.SstoreSetGas, charger.TotalGas())

	r, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, record{7, true}, *r)

	m.Clear(key)
	r, _ = m.Get(key)
	assert.Equal(t, record{}, *r)

	// different base positions don't collide
	other := NewMapping[thor.Address, *record](ctx, thor.Bytes32{2})
	assert.NoError(t, other.Set(key, &record{1, false}, true))
	r, _ = m.Get(key)
	assert.Equal(t, record{}, *r)
}

func TestMappingDecodeError(t *testing.T) {
	ctx, _ := newContext(t)
	m := NewMapping[thor.Address, *record](ctx, thor.Bytes32{1})
	key := thor.BytesToAddress([]byte("key"))

	ctx.State().SetRawStorage(ctx.Address(), m.position(key), rlp.RawValue{0xFF})
	_, err := m.Get(key)
	assert.Error(t, err)
}

func TestUint256(t *testing.T) {
	ctx, _ := newContext(t)
	u := NewUint256(ctx, thor.Bytes32{3})

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	assert.NoError(t, u.Add(big.NewInt(5)))
	assert.NoError(t, u.Sub(big.NewInt(2)))
	n, err := u.Uint64()
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	assert.Error(t, u.Sub(big.NewInt(4)))
	n, _ = u.Uint64()
	assert.Equal(t, uint64(3), n)

	u.SetUint64(0)
	n, _ = u.Uint64()
	assert.Equal(t, uint64(0), n)
}

func TestAddress(t *testing.T) {
	ctx, charger := newContext(t)
	a := NewAddress(ctx, thor.Bytes32{4})

	value := thor.BytesToAddress([]byte("value"))
	a.Set(&value, true)
	assert.Equal(t, thor.SstoreSetGas, charger.TotalGas())

	got, err := a.Get()
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	a.Set(nil, false)
	got, _ = a.Get()
	assert.True(t, got.IsZero())
	assert.Equal(t, thor.BytesToAddress([]byte("contract")), ctx.Address())
}
