// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"github.com/ethereum/go-ethereum/params"
)

// Gas charged by native contracts for storage and balance access.
const (
	SloadGas       = params.SloadGasEIP150 // 200
	SstoreSetGas   = params.SstoreSetGas   // 20000
	SstoreResetGas = params.SstoreResetGas // 5000
	GetBalanceGas  = params.BalanceGasEIP150
	TransferGas    = params.CallValueTransferGas

	EventGas      = params.LogGas
	EventTopicGas = params.LogTopicGas
	EventDataGas  = params.LogDataGas
)

// Profile defaults.
const (
	// DefaultUnstakeDelay is the global unstake delay (in seconds) a fee sponsor must commit to
	// before the collator admits its sponsored operations. 1 day.
	DefaultUnstakeDelay uint32 = 86400

	// SponsoredVerificationMultiplier covers the post-op hook that may run up to twice
	// against the sponsor's funds.
	SponsoredVerificationMultiplier uint64 = 3
)
