// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package owners implements the ownership registry of a wallet: an ordered owner set,
// an approval threshold and the subset of special owners that can bypass the threshold.
//
// Owners are kept in a singly linked list stored in the wallet's contract slots, chained
// from Sentinel through every owner and back to Sentinel. New owners are inserted at the head.
package owners

import (
	"math/big"

	"github.com/vechain/aawallet/builtin/solidity"
	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/thor"
)

var (
	slotEntries           = thor.Blake2b([]byte("owners"))
	slotOwnerCount        = thor.Blake2b([]byte("ownerCount"))
	slotSpecialOwnerCount = thor.Blake2b([]byte("specialOwnerCount"))
	slotThreshold         = thor.Blake2b([]byte("threshold"))
)

// Registry implements the native methods of a wallet's ownership registry.
type Registry struct {
	wallet            thor.Address
	auth              Authorizer
	emitter           events.Emitter
	entries           *solidity.Mapping[thor.Address, *entry]
	ownerCount        *solidity.Uint256
	specialOwnerCount *solidity.Uint256
	threshold         *solidity.Uint256
}

// New creates the registry of the wallet at ctx.Address(). emitter may be nil.
func New(ctx *solidity.Context, auth Authorizer, emitter events.Emitter) *Registry {
	return &Registry{
		wallet:            ctx.Address(),
		auth:              auth,
		emitter:           emitter,
		entries:           solidity.NewMapping[thor.Address, *entry](ctx, slotEntries),
		ownerCount:        solidity.NewUint256(ctx, slotOwnerCount),
		specialOwnerCount: solidity.NewUint256(ctx, slotSpecialOwnerCount),
		threshold:         solidity.NewUint256(ctx, slotThreshold),
	}
}

// Wallet returns the address of the wallet owning this registry.
func (r *Registry) Wallet() thor.Address {
	return r.wallet
}

func (r *Registry) emit(ev events.Event) {
	if r.emitter != nil {
		r.emitter.Emit(ev)
	}
}

func (r *Registry) authorize(caller thor.Address) error {
	if r.auth == nil {
		return ErrNotAuthorized
	}
	return r.auth.Authorize(caller)
}

// validOwner reports whether addr may be stored as an owner.
func (r *Registry) validOwner(addr thor.Address) bool {
	return !addr.IsZero() && addr != Sentinel && addr != r.wallet
}

func (r *Registry) setEntry(addr thor.Address, e *entry, newValue bool) error {
	if e.IsEmpty() {
		r.entries.Clear(addr)
		return nil
	}
	return r.entries.Set(addr, e, newValue)
}

// Setup initializes the registry. It can only run once: threshold 0 means uninitialized.
// Every argument is validated before anything is written.
func (r *Registry) Setup(caller thor.Address, owners, specialOwners []thor.Address, threshold uint64) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	current, err := r.threshold.Uint64()
	if err != nil {
		return err
	}
	if current != 0 {
		return errInitialized
	}
	if threshold < 1 || threshold > uint64(len(owners)) {
		return errInvalidThreshold
	}
	if len(specialOwners) > len(owners) {
		return errTooManySpecial
	}

	listed := make(map[thor.Address]bool, len(owners))
	for _, owner := range owners {
		if !r.validOwner(owner) {
			return errInvalidOwner
		}
		if listed[owner] {
			return errDuplicateOwner
		}
		listed[owner] = true
	}
	special := make(map[thor.Address]bool, len(specialOwners))
	for _, owner := range specialOwners {
		if !listed[owner] {
			return errSpecialNotOwner
		}
		if special[owner] {
			return errDuplicateSpecial
		}
		special[owner] = true
	}

	// sentinel -> owners[0] -> ... -> owners[n-1] -> sentinel
	prev := Sentinel
	for _, owner := range owners {
		if err := r.setEntry(prev, &entry{Next: owner, Special: special[prev]}, true); err != nil {
			return err
		}
		prev = owner
	}
	if err := r.setEntry(prev, &entry{Next: Sentinel, Special: special[prev]}, true); err != nil {
		return err
	}

	r.ownerCount.SetUint64(uint64(len(owners)))
	r.specialOwnerCount.SetUint64(uint64(len(specialOwners)))
	r.threshold.SetUint64(threshold)

	for _, owner := range owners {
		r.emit(&events.OwnerAdded{Owner: owner})
	}
	for _, owner := range specialOwners {
		r.emit(&events.SpecialOwnerAdded{Owner: owner})
	}
	r.emit(&events.ThresholdChanged{Wallet: r.wallet, Threshold: threshold})
	return nil
}

// AddOwnerWithThreshold inserts owner at the head of the list, then changes the threshold
// if it differs from the current one.
func (r *Registry) AddOwnerWithThreshold(caller thor.Address, owner thor.Address, threshold uint64) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	if err := r.addOwner(owner); err != nil {
		return err
	}
	current, err := r.threshold.Uint64()
	if err != nil {
		return err
	}
	if current != threshold {
		return r.changeThreshold(threshold)
	}
	return nil
}

func (r *Registry) addOwner(owner thor.Address) error {
	if !r.validOwner(owner) {
		return errInvalidOwner
	}
	ownerEntry, err := r.entries.Get(owner)
	if err != nil {
		return err
	}
	if ownerEntry.IsLinked() {
		return errDuplicateOwner
	}

	head, err := r.entries.Get(Sentinel)
	if err != nil {
		return err
	}
	next := head.Next
	if next.IsZero() {
		next = Sentinel
	}
	ownerEntry.Next = next
	if err := r.setEntry(owner, ownerEntry, true); err != nil {
		return err
	}
	head.Next = owner
	if err := r.setEntry(Sentinel, head, false); err != nil {
		return err
	}
	if err := r.ownerCount.Add(big.NewInt(1)); err != nil {
		return err
	}

	r.emit(&events.OwnerAdded{Owner: owner})
	return nil
}

// RemoveOwner splices owner out of the list. prevOwner must be the owner pointing to it
// (Sentinel when owner is the head). A special owner is demoted first.
func (r *Registry) RemoveOwner(caller thor.Address, prevOwner, owner thor.Address, threshold uint64) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	count, err := r.ownerCount.Uint64()
	if err != nil {
		return err
	}
	// the remaining owners must still be able to reach the threshold
	if threshold < 1 || count < threshold+1 {
		return errInvalidThreshold
	}
	if owner.IsZero() || owner == Sentinel {
		return errInvalidOwner
	}
	prevEntry, err := r.entries.Get(prevOwner)
	if err != nil {
		return err
	}
	if prevEntry.Next != owner {
		return errInvalidPrevOwner
	}
	ownerEntry, err := r.entries.Get(owner)
	if err != nil {
		return err
	}
	if ownerEntry.Special {
		if err := r.demote(owner, ownerEntry); err != nil {
			return err
		}
	}

	// prevOwner may be the sentinel, whose entry is never special
	prevEntry.Next = ownerEntry.Next
	if err := r.setEntry(prevOwner, prevEntry, false); err != nil {
		return err
	}
	r.entries.Clear(owner)
	r.ownerCount.SetUint64(count - 1)
	r.emit(&events.OwnerRemoved{Owner: owner})

	current, err := r.threshold.Uint64()
	if err != nil {
		return err
	}
	if current != threshold {
		return r.changeThreshold(threshold)
	}
	return nil
}

// ChangeThreshold sets the number of approvals required, within [1, ownerCount].
func (r *Registry) ChangeThreshold(caller thor.Address, threshold uint64) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	return r.changeThreshold(threshold)
}

func (r *Registry) changeThreshold(threshold uint64) error {
	count, err := r.ownerCount.Uint64()
	if err != nil {
		return err
	}
	if threshold < 1 || threshold > count {
		return errInvalidThreshold
	}
	r.threshold.SetUint64(threshold)
	r.emit(&events.ThresholdChanged{Wallet: r.wallet, Threshold: threshold})
	return nil
}

// AddSpecialOwner marks owner special. A non-owner is added as an owner first, keeping
// the current threshold.
func (r *Registry) AddSpecialOwner(caller thor.Address, owner thor.Address) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	if owner.IsZero() || owner == Sentinel {
		return errInvalidOwner
	}
	ownerEntry, err := r.entries.Get(owner)
	if err != nil {
		return err
	}
	if ownerEntry.Special {
		return errDuplicateSpecial
	}
	if !ownerEntry.IsLinked() {
		if err := r.addOwner(owner); err != nil {
			return err
		}
		if ownerEntry, err = r.entries.Get(owner); err != nil {
			return err
		}
	}

	ownerEntry.Special = true
	if err := r.setEntry(owner, ownerEntry, false); err != nil {
		return err
	}
	if err := r.specialOwnerCount.Add(big.NewInt(1)); err != nil {
		return err
	}
	r.emit(&events.SpecialOwnerAdded{Owner: owner})
	return nil
}

// RemoveSpecialOwner demotes owner to a regular owner.
func (r *Registry) RemoveSpecialOwner(caller thor.Address, owner thor.Address) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	ownerEntry, err := r.entries.Get(owner)
	if err != nil {
		return err
	}
	if !ownerEntry.Special {
		return errNotSpecialOwner
	}
	return r.demote(owner, ownerEntry)
}

func (r *Registry) demote(owner thor.Address, ownerEntry *entry) error {
	ownerEntry.Special = false
	if err := r.setEntry(owner, ownerEntry, false); err != nil {
		return err
	}
	if err := r.specialOwnerCount.Sub(big.NewInt(1)); err != nil {
		return errCorruptedList
	}
	r.emit(&events.SpecialOwnerRemoved{Owner: owner})
	return nil
}
