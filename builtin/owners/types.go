// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package owners

import (
	"github.com/vechain/aawallet/builtin/reverts"
	"github.com/vechain/aawallet/thor"
)

// Sentinel marks both the head and the end of the owner list. It is never a real owner.
var Sentinel = thor.BytesToAddress([]byte{1})

// entry is the list node of an owner. The sentinel's entry holds the head pointer.
type entry struct {
	Next    thor.Address
	Special bool
}

// IsEmpty returns whether the entry can be treated as empty.
func (e *entry) IsEmpty() bool {
	return e.Next.IsZero() && !e.Special
}

// IsLinked returns whether the entry is part of the list.
func (e *entry) IsLinked() bool {
	return !e.Next.IsZero()
}

// Authorizer decides whether caller may mutate the owner set. A rejection is returned as
// a revert, typically of kind PreconditionViolation.
type Authorizer interface {
	Authorize(caller thor.Address) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(caller thor.Address) error

func (f AuthorizerFunc) Authorize(caller thor.Address) error {
	return f(caller)
}

var (
	// AllowAll permits every caller.
	AllowAll Authorizer = AuthorizerFunc(func(thor.Address) error { return nil })
	// DenyAll rejects every caller.
	DenyAll Authorizer = AuthorizerFunc(func(thor.Address) error { return ErrNotAuthorized })
)

var (
	ErrNotAuthorized    = reverts.Precondition("not authorized")
	errNoSpecialOwners  = reverts.Conflict("no special owners")
	errInitialized      = reverts.Conflict("already initialized")
	errNotInitialized   = reverts.Conflict("not initialized")
	errInvalidOwner     = reverts.Precondition("invalid owner")
	errDuplicateOwner   = reverts.Precondition("duplicate owner")
	errInvalidThreshold = reverts.Precondition("invalid threshold")
	errInvalidPrevOwner = reverts.Precondition("invalid previous owner")
	errNotSpecialOwner  = reverts.Precondition("not a special owner")
	errDuplicateSpecial = reverts.Precondition("duplicate special owner")
	errSpecialNotOwner  = reverts.Precondition("special owner is not an owner")
	errTooManySpecial   = reverts.Precondition("too many special owners")
	errNotEnoughApprove = reverts.Precondition("not enough approvals")
	errCorruptedList    = reverts.Conflict("corrupted owner list")
)
