// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/log"
	"github.com/vechain/aawallet/metrics"
)

var (
	logger = log.WithContext("pkg", "eventdb")

	metricIndexed = metrics.LazyLoadCounter("eventdb_indexed_count")
)

// Indexer writes the records published on a feed to the db.
type Indexer struct {
	db  *EventDB
	ch  chan []*events.Record
	sub event.Subscription
}

// NewIndexer subscribes to feed right away, so no committed call is missed
// between construction and Run.
func NewIndexer(db *EventDB, feed *events.Feed) *Indexer {
	ch := make(chan []*events.Record, 256)
	return &Indexer{
		db:  db,
		ch:  ch,
		sub: feed.Subscribe(ch),
	}
}

// Run consumes records until ctx is done or the subscription ends.
func (ix *Indexer) Run(ctx context.Context) {
	defer ix.sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			ix.drain()
			return
		case <-ix.sub.Err():
			ix.drain()
			return
		case records := <-ix.ch:
			ix.insert(records)
		}
	}
}

func (ix *Indexer) drain() {
	for {
		select {
		case records := <-ix.ch:
			ix.insert(records)
		default:
			return
		}
	}
}

func (ix *Indexer) insert(records []*events.Record) {
	if err := ix.db.Insert(records); err != nil {
		logger.Warn("failed to index events", "call", records[0].Call, "err", err)
		return
	}
	metricIndexed().Add(int64(len(records)))
}
