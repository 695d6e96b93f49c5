// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/vechain/aawallet/builtin/gascharger"
	"github.com/vechain/aawallet/builtin/reverts"
	"github.com/vechain/aawallet/builtin/solidity"
	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/state"
	"github.com/vechain/aawallet/thor"
)

// Call describes an invocation of a native contract.
type Call struct {
	Caller thor.Address
	To     thor.Address
	Value  *big.Int // moved from Caller to To before the call runs
}

type emission struct {
	contract thor.Address
	event    events.Event
}

// Env is the environment of a call being executed.
type Env struct {
	call     Call
	contract thor.Address // emitter of events, call.To unless rebound with At
	now      uint64
	state    *state.State
	charger  *gascharger.Charger
	hook     TransferHook
	emitted  *[]emission
}

func newEnv(call Call, now uint64, st *state.State, hook TransferHook) *Env {
	return &Env{
		call:     call,
		contract: call.To,
		now:      now,
		state:    st,
		charger:  gascharger.New(),
		hook:     hook,
		emitted:  new([]emission),
	}
}

// At returns a view of the same call whose events are emitted by the contract at addr.
// State, gas and buffered events are shared with e.
func (e *Env) At(addr thor.Address) *Env {
	cpy := *e
	cpy.contract = addr
	return &cpy
}

func (e *Env) Caller() thor.Address { return e.call.Caller }
func (e *Env) To() thor.Address     { return e.call.To }
func (e *Env) Now() uint64          { return e.now }
func (e *Env) State() *state.State  { return e.state }

// Value returns the value sent along with the call.
func (e *Env) Value() *big.Int {
	if e.call.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(e.call.Value)
}

// Context returns the storage context of the contract at addr, charging gas to the call.
func (e *Env) Context(addr thor.Address) *solidity.Context {
	return solidity.NewContext(addr, e.state, e.charger.Charge)
}

// UseGas charges gas to the call.
func (e *Env) UseGas(gas uint64) {
	e.charger.Charge(gas)
}

// Emit buffers ev. It is published only if the call commits.
func (e *Env) Emit(ev events.Event) {
	e.charger.Charge(thor.EventGas + thor.EventTopicGas)
	*e.emitted = append(*e.emitted, emission{e.contract, ev})
}

// Transfer moves amount of native balance. The destination may refuse it through the
// runtime's transfer hook.
func (e *Env) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return reverts.Precondition("negative amount")
	}
	e.charger.Charge(thor.TransferGas)

	ok, err := e.state.SubBalance(from, amount)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Funds("insufficient balance")
	}
	if e.hook != nil {
		if err := e.hook(to, amount); err != nil {
			if reverts.IsRevertErr(err) {
				return err
			}
			return reverts.Transfer("transfer refused: " + err.Error())
		}
	}
	return e.state.AddBalance(to, amount)
}
