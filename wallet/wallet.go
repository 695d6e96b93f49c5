// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wallet composes the ownership registry, the stake ledger and the cost
// calculator into the outer wallet, executing each operation as a runtime call.
package wallet

import (
	"github.com/holiman/uint256"

	"github.com/vechain/aawallet/builtin"
	"github.com/vechain/aawallet/builtin/owners"
	"github.com/vechain/aawallet/opcost"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/thor"
)

// SelfAuthorizer permits governance changes only when the wallet calls itself.
type SelfAuthorizer struct {
	Wallet thor.Address
}

func (a SelfAuthorizer) Authorize(caller thor.Address) error {
	if caller != a.Wallet {
		return owners.ErrNotAuthorized
	}
	return nil
}

// Wallet is a smart-contract wallet at a fixed address.
type Wallet struct {
	rt           *runtime.Runtime
	address      thor.Address
	auth         owners.Authorizer
	unstakeDelay uint32
}

// New returns the wallet at address. Governance is self-authorized.
func New(rt *runtime.Runtime, address thor.Address, unstakeDelay uint32) *Wallet {
	return &Wallet{
		rt:           rt,
		address:      address,
		auth:         SelfAuthorizer{address},
		unstakeDelay: unstakeDelay,
	}
}

func (w *Wallet) Address() thor.Address {
	return w.address
}

func (w *Wallet) mutate(caller thor.Address, fn func(r *owners.Registry) error) (*runtime.Receipt, error) {
	return w.rt.Execute(runtime.Call{Caller: caller, To: w.address}, func(env *runtime.Env) error {
		return fn(builtin.Owners(env, w.address, w.auth))
	})
}

func (w *Wallet) view(fn func(r *owners.Registry) error) error {
	return w.rt.View(func(env *runtime.Env) error {
		return fn(builtin.Owners(env, w.address, w.auth))
	})
}

func (w *Wallet) Setup(caller thor.Address, ownerList, specialOwners []thor.Address, threshold uint64) (*runtime.Receipt, error) {
	return w.mutate(caller, func(r *owners.Registry) error {
		return r.Setup(caller, ownerList, specialOwners, threshold)
	})
}

func (w *Wallet) AddOwnerWithThreshold(caller, owner thor.Address, threshold uint64) (*runtime.Receipt, error) {
	return w.mutate(caller, func(r *owners.Registry) error {
		return r.AddOwnerWithThreshold(caller, owner, threshold)
	})
}

func (w *Wallet) RemoveOwner(caller, prevOwner, owner thor.Address, threshold uint64) (*runtime.Receipt, error) {
	return w.mutate(caller, func(r *owners.Registry) error {
		return r.RemoveOwner(caller, prevOwner, owner, threshold)
	})
}

func (w *Wallet) ChangeThreshold(caller thor.Address, threshold uint64) (*runtime.Receipt, error) {
	return w.mutate(caller, func(r *owners.Registry) error {
		return r.ChangeThreshold(caller, threshold)
	})
}

func (w *Wallet) AddSpecialOwner(caller, owner thor.Address) (*runtime.Receipt, error) {
	return w.mutate(caller, func(r *owners.Registry) error {
		return r.AddSpecialOwner(caller, owner)
	})
}

func (w *Wallet) RemoveSpecialOwner(caller, owner thor.Address) (*runtime.Receipt, error) {
	return w.mutate(caller, func(r *owners.Registry) error {
		return r.RemoveSpecialOwner(caller, owner)
	})
}

// Owners returns the owners in list order.
func (w *Wallet) Owners() (list []thor.Address, err error) {
	err = w.view(func(r *owners.Registry) error {
		list, err = r.Owners()
		return err
	})
	return
}

// SpecialOwners fails when there are no special owners.
func (w *Wallet) SpecialOwners() (list []thor.Address, err error) {
	err = w.view(func(r *owners.Registry) error {
		list, err = r.SpecialOwners()
		return err
	})
	return
}

// Members reads owners, special owners and threshold from one state.
// Unlike SpecialOwners it reports an empty special list without failing.
func (w *Wallet) Members() (list, special []thor.Address, threshold uint64, err error) {
	err = w.view(func(r *owners.Registry) error {
		list, special = []thor.Address{}, []thor.Address{}
		if err := r.Iter(func(owner thor.Address, isSpecial bool) bool {
			list = append(list, owner)
			if isSpecial {
				special = append(special, owner)
			}
			return true
		}); err != nil {
			return err
		}
		threshold, err = r.Threshold()
		return err
	})
	return
}

func (w *Wallet) Threshold() (threshold uint64, err error) {
	err = w.view(func(r *owners.Registry) error {
		threshold, err = r.Threshold()
		return err
	})
	return
}

func (w *Wallet) IsOwner(addr thor.Address) (ok bool, err error) {
	err = w.view(func(r *owners.Registry) error {
		ok, err = r.IsOwner(addr)
		return err
	})
	return
}

func (w *Wallet) IsSpecialOwner(addr thor.Address) (ok bool, err error) {
	err = w.view(func(r *owners.Registry) error {
		ok, err = r.IsSpecialOwner(addr)
		return err
	})
	return
}

// Affordability tells whether the payer of an operation can cover its prefund.
type Affordability struct {
	Payer    thor.Address
	PreFund  *uint256.Int
	Funds    *uint256.Int
	Shortage *uint256.Int // zero when affordable
}

func (a *Affordability) OK() bool {
	return a.Shortage.IsZero()
}

// CanAfford computes the prefund of op and compares it with what its payer holds: the
// sponsor's deposit, or the wallet's deposit plus its own balance.
func (w *Wallet) CanAfford(op *opcost.Operation) (*Affordability, error) {
	prefund, err := opcost.RequiredPreFund(op)
	if err != nil {
		return nil, err
	}

	payer := w.address
	if op.HasSponsor() {
		payer = op.Sponsor
	}
	funds := new(uint256.Int)
	if err := w.rt.View(func(env *runtime.Env) error {
		deposit, err := builtin.StakeLedger.WithEnv(env, w.unstakeDelay).BalanceOf(payer)
		if err != nil {
			return err
		}
		funds.Set(deposit)
		if op.HasSponsor() {
			return nil
		}
		balance, err := env.State().GetBalance(w.address)
		if err != nil {
			return err
		}
		own, overflow := uint256.FromBig(balance)
		if overflow {
			own = new(uint256.Int).SetAllOne()
		}
		if _, overflow := funds.AddOverflow(funds, own); overflow {
			funds.SetAllOne()
		}
		return nil
	}); err != nil {
		return nil, err
	}

	shortage := new(uint256.Int)
	if funds.Lt(prefund) {
		shortage.Sub(prefund, funds)
	}
	return &Affordability{
		Payer:    payer,
		PreFund:  prefund,
		Funds:    funds,
		Shortage: shortage,
	}, nil
}

// Validate decides whether an operation approved by approvers may run: the approvals must
// satisfy the registry and the payer must afford the prefund.
func (w *Wallet) Validate(approvers []thor.Address, op *opcost.Operation) (*Affordability, error) {
	if err := w.view(func(r *owners.Registry) error {
		return r.CheckApprovals(approvers)
	}); err != nil {
		return nil, err
	}
	afford, err := w.CanAfford(op)
	if err != nil {
		return nil, err
	}
	if !afford.OK() {
		return afford, errInsufficientPreFund
	}
	return afford, nil
}
