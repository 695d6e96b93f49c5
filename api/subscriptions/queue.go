// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/aawallet/events"
)

// queue receives records from the feed and hands them to a connection writer. It keeps
// draining the feed whatever the writer does; once the writer is more than cap(out)
// batches behind, the queue overflows and further records are dropped.
type queue struct {
	in       chan []*events.Record
	out      chan []*events.Record
	overflow chan struct{}
	ended    chan struct{} // closed when run returns
	sub      event.Subscription
}

func newQueue(feed *events.Feed, size int) *queue {
	in := make(chan []*events.Record, 1)
	return &queue{
		in:       in,
		out:      make(chan []*events.Record, size),
		overflow: make(chan struct{}),
		ended:    make(chan struct{}),
		sub:      feed.Subscribe(in),
	}
}

// run forwards records until done is closed or the feed ends.
func (q *queue) run(done <-chan struct{}) {
	defer close(q.ended)
	defer q.sub.Unsubscribe()

	overflowed := false
	for {
		select {
		case <-done:
			return
		case <-q.sub.Err():
			return
		case records := <-q.in:
			if overflowed {
				continue
			}
			select {
			case q.out <- records:
			default:
				overflowed = true
				close(q.overflow)
			}
		}
	}
}
