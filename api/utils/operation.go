// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/aawallet/opcost"
	"github.com/vechain/aawallet/thor"
)

// Operation is the JSON form of an operation's gas and fee parameters.
type Operation struct {
	CallGas              math.HexOrDecimal64   `json:"callGas"`
	VerificationGas      math.HexOrDecimal64   `json:"verificationGas"`
	PreVerificationGas   math.HexOrDecimal64   `json:"preVerificationGas"`
	Sponsor              *thor.Address         `json:"sponsor"`
	MaxFeePerGas         *math.HexOrDecimal256 `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *math.HexOrDecimal256 `json:"maxPriorityFeePerGas"`
}

// Convert validates the amounts and returns the operation.
func (o *Operation) Convert() (*opcost.Operation, error) {
	op := &opcost.Operation{
		CallGas:            uint64(o.CallGas),
		VerificationGas:    uint64(o.VerificationGas),
		PreVerificationGas: uint64(o.PreVerificationGas),
	}
	if o.Sponsor != nil {
		op.Sponsor = *o.Sponsor
	}
	var err error
	if op.MaxFeePerGas, err = ToUint256(o.MaxFeePerGas); err != nil {
		return nil, errors.WithMessage(err, "maxFeePerGas")
	}
	if op.MaxPriorityFeePerGas, err = ToUint256(o.MaxPriorityFeePerGas); err != nil {
		return nil, errors.WithMessage(err, "maxPriorityFeePerGas")
	}
	return op, nil
}
