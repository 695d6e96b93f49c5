// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wallets

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/aawallet/api/utils"
	"github.com/vechain/aawallet/thor"
	"github.com/vechain/aawallet/wallet"
)

type Wallet struct {
	Address       thor.Address   `json:"address"`
	Owners        []thor.Address `json:"owners"`
	SpecialOwners []thor.Address `json:"specialOwners"`
	Threshold     uint64         `json:"threshold"`
}

type Threshold struct {
	Threshold uint64 `json:"threshold"`
}

type Owner struct {
	IsOwner        bool `json:"isOwner"`
	IsSpecialOwner bool `json:"isSpecialOwner"`
}

type ValidateRequest struct {
	Approvers []thor.Address   `json:"approvers"`
	Operation *utils.Operation `json:"operation"`
}

type Affordability struct {
	Payer    thor.Address          `json:"payer"`
	PreFund  *math.HexOrDecimal256 `json:"preFund"`
	Funds    *math.HexOrDecimal256 `json:"funds"`
	Shortage *math.HexOrDecimal256 `json:"shortage"`
}

type ValidateResult struct {
	Valid         bool           `json:"valid"`
	Reason        string         `json:"reason,omitempty"`
	RevertData    hexutil.Bytes  `json:"revertData,omitempty"` // Error(string) encoded reason
	Affordability *Affordability `json:"affordability,omitempty"`
}

func convertAffordability(a *wallet.Affordability) *Affordability {
	if a == nil {
		return nil
	}
	return &Affordability{
		Payer:    a.Payer,
		PreFund:  utils.Amount(a.PreFund),
		Funds:    utils.Amount(a.Funds),
		Shortage: utils.Amount(a.Shortage),
	}
}
