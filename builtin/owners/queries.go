// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package owners

import (
	"github.com/vechain/aawallet/thor"
)

func (r *Registry) IsOwner(addr thor.Address) (bool, error) {
	if addr == Sentinel {
		return false, nil
	}
	e, err := r.entries.Get(addr)
	if err != nil {
		return false, err
	}
	return e.IsLinked(), nil
}

func (r *Registry) IsSpecialOwner(addr thor.Address) (bool, error) {
	if addr == Sentinel {
		return false, nil
	}
	e, err := r.entries.Get(addr)
	if err != nil {
		return false, err
	}
	return e.Special, nil
}

// Threshold returns the approval threshold, 0 before setup.
func (r *Registry) Threshold() (uint64, error) {
	return r.threshold.Uint64()
}

func (r *Registry) OwnerCount() (uint64, error) {
	return r.ownerCount.Uint64()
}

func (r *Registry) SpecialOwnerCount() (uint64, error) {
	return r.specialOwnerCount.Uint64()
}

// Iter walks the owner list from the head. It stops early when fn returns false.
func (r *Registry) Iter(fn func(owner thor.Address, special bool) bool) error {
	count, err := r.ownerCount.Uint64()
	if err != nil {
		return err
	}
	head, err := r.entries.Get(Sentinel)
	if err != nil {
		return err
	}

	cur := head.Next
	for n := uint64(0); !cur.IsZero() && cur != Sentinel; n++ {
		if n >= count {
			return errCorruptedList
		}
		e, err := r.entries.Get(cur)
		if err != nil {
			return err
		}
		if !fn(cur, e.Special) {
			return nil
		}
		cur = e.Next
	}
	return nil
}

// Owners returns all owners in list order. It returns an empty slice when there are none.
func (r *Registry) Owners() ([]thor.Address, error) {
	owners := make([]thor.Address, 0)
	if err := r.Iter(func(owner thor.Address, _ bool) bool {
		owners = append(owners, owner)
		return true
	}); err != nil {
		return nil, err
	}
	return owners, nil
}

// SpecialOwners returns the special owners in list order.
// Unlike Owners, it fails when the set is empty.
func (r *Registry) SpecialOwners() ([]thor.Address, error) {
	count, err := r.specialOwnerCount.Uint64()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errNoSpecialOwners
	}
	special := make([]thor.Address, 0, count)
	if err := r.Iter(func(owner thor.Address, isSpecial bool) bool {
		if isSpecial {
			special = append(special, owner)
		}
		return uint64(len(special)) < count
	}); err != nil {
		return nil, err
	}
	return special, nil
}

// CheckApprovals decides whether approvers authorize an operation: any special owner
// suffices, otherwise the distinct owners among approvers must reach the threshold.
// Approvers that are not owners are ignored.
func (r *Registry) CheckApprovals(approvers []thor.Address) error {
	threshold, err := r.threshold.Uint64()
	if err != nil {
		return err
	}
	if threshold == 0 {
		return errNotInitialized
	}

	seen := make(map[thor.Address]bool, len(approvers))
	approvals := uint64(0)
	for _, approver := range approvers {
		if approver == Sentinel || seen[approver] {
			continue
		}
		seen[approver] = true

		e, err := r.entries.Get(approver)
		if err != nil {
			return err
		}
		if e.Special {
			return nil
		}
		if e.IsLinked() {
			approvals++
		}
	}
	if approvals < threshold {
		return errNotEnoughApprove
	}
	return nil
}
