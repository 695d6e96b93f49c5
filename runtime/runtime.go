// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime is the sequential ledger native contracts run on. Calls are totally
// ordered: each runs to completion inside a state checkpoint, then either commits with
// its events published, or reverts leaving no trace.
package runtime

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/aawallet/builtin/reverts"
	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/log"
	"github.com/vechain/aawallet/state"
	"github.com/vechain/aawallet/thor"
)

var (
	logger = log.WithContext("pkg", "runtime")

	// the committed call sequence lives in the storage of this reserved address
	metaAddress = thor.BytesToAddress([]byte("runtime"))
	slotCallSeq = thor.Blake2b([]byte("callSeq"))
)

// TransferHook is consulted before funds are credited to to. A non-nil error refuses them.
type TransferHook func(to thor.Address, amount *big.Int) error

// Receipt summarizes a committed call.
type Receipt struct {
	Call    uint64
	Time    uint64
	GasUsed uint64
	Events  []*events.Record
}

// Runtime executes calls one at a time against the state.
type Runtime struct {
	mu       sync.Mutex // guards state, the clock check and tickets
	stater   *state.Stater
	clock    Clock
	feed     *events.Feed
	hook     TransferHook
	lastTime uint64

	// committed calls publish in ticket order
	pubCond   *sync.Cond
	ticket    uint64
	published uint64
}

type Option func(*Runtime)

// WithTransferHook installs hook on every transfer.
func WithTransferHook(hook TransferHook) Option {
	return func(rt *Runtime) { rt.hook = hook }
}

// WithFeed publishes committed events to feed.
func WithFeed(feed *events.Feed) Option {
	return func(rt *Runtime) { rt.feed = feed }
}

// New creates a runtime.
func New(stater *state.Stater, clock Clock, opts ...Option) *Runtime {
	rt := &Runtime{
		stater:  stater,
		clock:   clock,
		pubCond: sync.NewCond(&sync.Mutex{}),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Now returns the time of the clock.
func (rt *Runtime) Now() uint64 {
	return rt.clock.Now()
}

// Execute runs fn as call. On success the state changes are committed and the emitted
// events published; on failure nothing is kept and fn's error is returned unchanged.
// Publication happens outside the state lock, so a slow subscriber delays only the
// caller of Execute, while other calls and views proceed.
func (rt *Runtime) Execute(call Call, fn func(env *Env) error) (*Receipt, error) {
	receipt, ticket, err := rt.execute(call, fn)
	if err != nil {
		return nil, err
	}

	rt.pubCond.L.Lock()
	defer rt.pubCond.L.Unlock()
	for rt.published != ticket {
		rt.pubCond.Wait()
	}
	if rt.feed != nil {
		rt.feed.Send(receipt.Events)
	}
	rt.published++
	rt.pubCond.Broadcast()
	return receipt, nil
}

func (rt *Runtime) execute(call Call, fn func(env *Env) error) (*Receipt, uint64, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	now := rt.clock.Now()
	if now < rt.lastTime {
		return nil, 0, errors.Errorf("clock moved backwards: %d < %d", now, rt.lastTime)
	}
	rt.lastTime = now

	st := rt.stater.NewState()
	env := newEnv(call, now, st, rt.hook)

	checkpoint := st.NewCheckpoint()
	if err := run(env, fn); err != nil {
		st.RevertTo(checkpoint)

		kind := reverts.KindOf(err)
		if kind == 0 {
			metricReverts().AddWithLabel(1, map[string]string{"kind": "error"})
			logger.Warn("call failed", "to", call.To, "caller", call.Caller, "err", err)
		} else {
			metricReverts().AddWithLabel(1, map[string]string{"kind": kind.String()})
			logger.Debug("call reverted", "to", call.To, "caller", call.Caller, "kind", kind, "err", err)
		}
		return nil, 0, err
	}

	seq, err := st.GetStorage(metaAddress, slotCallSeq)
	if err != nil {
		return nil, 0, err
	}
	callSeq := new(big.Int).SetBytes(seq.Bytes()).Uint64() + 1
	st.SetStorage(metaAddress, slotCallSeq, thor.BytesToBytes32(new(big.Int).SetUint64(callSeq).Bytes()))

	stage, err := st.Stage()
	if err != nil {
		return nil, 0, errors.Wrap(err, "stage")
	}
	if err := stage.Commit(); err != nil {
		return nil, 0, errors.Wrap(err, "commit")
	}

	records := make([]*events.Record, 0, len(*env.emitted))
	for i, em := range *env.emitted {
		records = append(records, &events.Record{
			Call:     callSeq,
			Index:    uint32(i),
			Time:     now,
			Contract: em.contract,
			Event:    em.event,
		})
	}

	metricCalls().Add(1)
	metricCallGas().Observe(int64(env.charger.TotalGas()))
	metricCallDuration().Observe(time.Since(start).Milliseconds())
	logger.Debug("call committed", "seq", callSeq, "to", call.To, "gas", env.charger.TotalGas(), "events", len(records))

	ticket := rt.ticket
	rt.ticket++
	return &Receipt{
		Call:    callSeq,
		Time:    now,
		GasUsed: env.charger.TotalGas(),
		Events:  records,
	}, ticket, nil
}

func run(env *Env, fn func(env *Env) error) error {
	if err := env.Transfer(env.call.Caller, env.call.To, env.call.Value); err != nil {
		return err
	}
	return fn(env)
}

// View runs fn against the latest committed state. Changes fn makes are discarded.
func (rt *Runtime) View(fn func(env *Env) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	return fn(newEnv(Call{}, rt.clock.Now(), rt.stater.NewState(), rt.hook))
}

// Mint credits amount to addr outside of any call, used to fund accounts at genesis.
func (rt *Runtime) Mint(addr thor.Address, amount *big.Int) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	st := rt.stater.NewState()
	if err := st.AddBalance(addr, amount); err != nil {
		return err
	}
	stage, err := st.Stage()
	if err != nil {
		return err
	}
	return stage.Commit()
}

// Balance returns the committed native balance of addr.
func (rt *Runtime) Balance(addr thor.Address) (*big.Int, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	return rt.stater.NewState().GetBalance(addr)
}
