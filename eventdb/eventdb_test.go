// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/aawallet/eventdb"
	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/thor"
)

var (
	wallet = thor.BytesToAddress([]byte("wallet"))
	ledger = thor.BytesToAddress([]byte("ledger"))
	owner  = thor.BytesToAddress([]byte("owner"))
)

func newRecords() []*events.Record {
	var records []*events.Record
	for i := uint64(1); i <= 10; i++ {
		records = append(records,
			&events.Record{Call: i, Index: 0, Time: 100 + i, Contract: wallet, Event: &events.OwnerAdded{Owner: owner}},
			&events.Record{Call: i, Index: 1, Time: 100 + i, Contract: ledger, Event: &events.Deposited{Account: owner, TotalDeposit: big.NewInt(int64(i))}},
		)
	}
	return records
}

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	assert.NotEmpty(t, db.SQLiteVersion())
	assert.Equal(t, ":memory:", db.Path())
	require.NoError(t, db.Insert(newRecords()))

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all, 20)

	first := all[0]
	assert.Equal(t, uint64(1), first.Call)
	assert.Equal(t, "OwnerAdded", first.Name)
	assert.Equal(t, owner, first.Subject)
	assert.Equal(t, events.Topic(&events.OwnerAdded{}), first.Topic)
	assert.JSONEq(t, `{"owner":"`+owner.String()+`"}`, string(first.Data))

	limit := uint64(3)
	evs, err := db.Filter(&eventdb.Filter{
		Contract: &ledger,
		Range:    &eventdb.Range{Unit: eventdb.Call, From: 2, To: 8},
		Order:    eventdb.DESC,
		Options:  &eventdb.Options{Offset: 0, Limit: limit},
	})
	require.NoError(t, err)
	require.Len(t, evs, int(limit))
	assert.Equal(t, uint64(8), evs[0].Call)
	assert.Equal(t, "Deposited", evs[0].Name)
	assert.JSONEq(t, `{"account":"`+owner.String()+`","totalDeposit":8,"unstakeDelaySec":0}`, string(evs[0].Data))

	evs, err = db.Filter(&eventdb.Filter{
		Subject: &owner,
		Names:   []string{"OwnerAdded", "Withdrawn"},
		Range:   &eventdb.Range{Unit: eventdb.Time, From: 105},
	})
	require.NoError(t, err)
	assert.Len(t, evs, 6)

	// re-inserting replaces
	require.NoError(t, db.Insert(newRecords()[:2]))
	all, _ = db.Filter(nil)
	assert.Len(t, all, 20)
}

func TestIndexer(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	feed := &events.Feed{}
	ix := eventdb.NewIndexer(db, feed)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ix.Run(ctx)
	}()

	records := newRecords()
	for i := 0; i < len(records); i += 2 {
		feed.Send(records[i : i+2])
	}

	assert.Eventually(t, func() bool {
		evs, err := db.Filter(nil)
		return err == nil && len(evs) == len(records)
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
