// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind classifies why a native contract call was rejected.
type Kind uint8

const (
	// PreconditionViolation is a caller error: bad argument or missing authorization.
	PreconditionViolation Kind = iota + 1
	// StateConflict means the call does not fit the current lifecycle state.
	StateConflict
	// TimingViolation means the call is early, or a prior step is missing.
	TimingViolation
	// InsufficientFunds covers balance shortfalls and bounded-arithmetic overflow.
	InsufficientFunds
	// TransferFailure means the destination refused the funds.
	TransferFailure
)

var kindNames = map[Kind]string{
	PreconditionViolation: "PreconditionViolation",
	StateConflict:         "StateConflict",
	TimingViolation:       "TimingViolation",
	InsufficientFunds:     "InsufficientFunds",
	TransferFailure:       "TransferFailure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is a revert raised by a native contract. The whole call is rolled back.
type Error struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Precondition(message string) *Error { return New(PreconditionViolation, message) }

func Conflict(message string) *Error { return New(StateConflict, message) }

func Timing(message string) *Error { return New(TimingViolation, message) }

func Funds(message string) *Error { return New(InsufficientFunds, message) }

func Transfer(message string) *Error { return New(TransferFailure, message) }

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Kind() Kind {
	return e.kind
}

// Bytes returns the message ABI encoded as Error(string), the shape callers of a
// contract revert expect.
func (e *Error) Bytes() []byte {
	if e == nil {
		return nil
	}
	msg := []byte(e.message)
	padded := (len(msg) + 31) / 32 * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, []byte{0x08, 0xc3, 0x79, 0xa0})
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msg)))
	copy(encoded[4+64:], msg)
	return encoded
}

// Data returns the encoded revert wrapped by err, or nil when err is not a revert.
func Data(err error) []byte {
	var re *Error
	if errors.As(err, &re) {
		return re.Bytes()
	}
	return nil
}

// IsRevertErr reports whether err is, or wraps, a revert.
func IsRevertErr(err error) bool {
	var re *Error
	return errors.As(err, &re)
}

// KindOf returns the kind of the revert wrapped by err, or 0 when err is not a revert.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.kind
	}
	return 0
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
