// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/aawallet/thor"
)

// Record is an event as committed by the ledger.
type Record struct {
	Call     uint64       // sequence number of the committed call
	Index    uint32       // position of the event within its call
	Time     uint64       // ledger time of the call
	Contract thor.Address // the native contract that emitted the event
	Event    Event
}

// Feed delivers committed records to subscribers, one slice per committed call.
type Feed struct {
	feed  event.Feed
	scope event.SubscriptionScope
}

// Subscribe registers ch to receive the records of every committed call.
// Sends block until all subscribers received, so channels should be buffered.
func (f *Feed) Subscribe(ch chan<- []*Record) event.Subscription {
	return f.scope.Track(f.feed.Subscribe(ch))
}

// Send publishes records and returns the number of subscribers reached.
func (f *Feed) Send(records []*Record) int {
	if len(records) == 0 {
		return 0
	}
	return f.feed.Send(records)
}

// Close unsubscribes all subscribers.
func (f *Feed) Close() {
	f.scope.Close()
}
