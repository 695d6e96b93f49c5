// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/aawallet/builtin/owners"
	"github.com/vechain/aawallet/builtin/stakeledger"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/thor"
)

// Builtin contracts binding.
var (
	StakeLedger = &stakeLedgerContract{thor.BytesToAddress([]byte("StakeLedger"))}
)

type stakeLedgerContract struct {
	Address thor.Address
}

// WithEnv binds the ledger to the call being executed.
func (s *stakeLedgerContract) WithEnv(env *runtime.Env, unstakeDelay uint32) *stakeledger.Ledger {
	return stakeledger.New(env.Context(s.Address), env, unstakeDelay)
}

// Owners binds the ownership registry of wallet to the call being executed.
func Owners(env *runtime.Env, wallet thor.Address, auth owners.Authorizer) *owners.Registry {
	return owners.New(env.Context(wallet), auth, env)
}
