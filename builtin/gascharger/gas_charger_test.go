// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/aawallet/thor"
)

func TestCharger(t *testing.T) {
	c := New()
	c.Charge(thor.SloadGas)
	c.Charge(2 * thor.SstoreSetGas)
	c.Charge(thor.SstoreResetGas)
	c.Charge(thor.GetBalanceGas)
	c.Charge(7)
	c.Charge(0)

	assert.Equal(t, thor.SloadGas+2*thor.SstoreSetGas+thor.SstoreResetGas+thor.GetBalanceGas+7, c.TotalGas())
	assert.Contains(t, c.Breakdown(), "SSTORE_SET: 2 ops")
	assert.Contains(t, c.Breakdown(), "SLOAD: 1 ops")
	assert.Contains(t, c.Breakdown(), "CUSTOM: 7 gas")
}
