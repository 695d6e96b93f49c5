// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"fmt"

	"github.com/vechain/aawallet/thor"
)

// Charger tallies the gas a native contract call spends on storage and balance access.
type Charger struct {
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	balanceOps     uint64
	customGas      uint64
	totalGas       uint64
}

func New() *Charger {
	return &Charger{}
}

// Charge records gas, classifying it by the well-known per-op costs.
func (c *Charger) Charge(gas uint64) {
	c.totalGas += gas

	switch {
	case gas == 0:
	case gas%thor.SstoreSetGas == 0:
		c.sstoreSetOps += gas / thor.SstoreSetGas
	case gas%thor.SstoreResetGas == 0:
		c.sstoreResetOps += gas / thor.SstoreResetGas
	case gas%thor.GetBalanceGas == 0:
		c.balanceOps += gas / thor.GetBalanceGas
	case gas%thor.SloadGas == 0:
		c.sloadOps += gas / thor.SloadGas
	default:
		c.customGas += gas
	}
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE_SET: %d ops (%d gas) | SSTORE_RESET: %d ops (%d gas) | BALANCE: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*thor.SloadGas,
		c.sstoreSetOps,
		c.sstoreSetOps*thor.SstoreSetGas,
		c.sstoreResetOps,
		c.sstoreResetOps*thor.SstoreResetGas,
		c.balanceOps,
		c.balanceOps*thor.GetBalanceGas,
		c.customGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}
