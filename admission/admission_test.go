// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admission

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/aawallet/lvldb"
	"github.com/vechain/aawallet/opcost"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/state"
	"github.com/vechain/aawallet/thor"
	"github.com/vechain/aawallet/wallet"
)

var sponsor = thor.BytesToAddress([]byte("sponsor"))

const delay = 3600

func newLedger(t *testing.T) (*wallet.Ledger, *runtime.Runtime) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(state.NewStater(db), runtime.NewManualClock(1000))
	require.NoError(t, rt.Mint(sponsor, big.NewInt(1_000_000)))
	return wallet.NewLedger(rt, delay), rt
}

func newOp() *opcost.Operation {
	return &opcost.Operation{
		CallGas:              100,
		VerificationGas:      10,
		PreVerificationGas:   5,
		MaxFeePerGas:         uint256.NewInt(10),
		MaxPriorityFeePerGas: uint256.NewInt(1),
	}
}

func TestAdmitUnsponsored(t *testing.T) {
	ledger, _ := newLedger(t)
	c := New(ledger, uint256.NewInt(1000))

	d, err := c.Admit(newOp())
	require.NoError(t, err)
	assert.Equal(t, uint64(115), d.RequiredGas)
	assert.Equal(t, uint256.NewInt(1150), d.PreFund)
	assert.True(t, d.Sponsor.IsZero())
}

func TestAdmitSponsored(t *testing.T) {
	ledger, _ := newLedger(t)
	c := New(ledger, uint256.NewInt(1000))

	op := newOp()
	op.Sponsor = sponsor

	_, err := c.Admit(op)
	assert.Equal(t, ErrSponsorNotStaked, err)

	// staked below the global delay
	_, err = ledger.Stake(sponsor, uint256.NewInt(1000), delay-1)
	require.NoError(t, err)
	_, err = c.Admit(op)
	assert.Equal(t, ErrSponsorNotStaked, err)

	_, err = ledger.Stake(sponsor, nil, delay)
	require.NoError(t, err)
	_, err = c.Admit(op)
	assert.True(t, errors.Is(err, ErrSponsorUnderfunded), "prefund 1350 above deposit 1000")

	_, err = ledger.Deposit(sponsor, sponsor, uint256.NewInt(350))
	require.NoError(t, err)
	d, err := c.Admit(op)
	require.NoError(t, err)
	assert.Equal(t, uint64(135), d.RequiredGas)
	assert.Equal(t, sponsor, d.Sponsor)

	// an unlocking stake no longer counts
	_, err = ledger.Unstake(sponsor)
	require.NoError(t, err)
	_, err = c.Admit(op)
	assert.Equal(t, ErrSponsorNotStaked, err)
}

func TestAdmitFees(t *testing.T) {
	ledger, _ := newLedger(t)
	c := New(ledger, nil)

	op := newOp()
	op.MaxFeePerGas = nil
	_, err := c.Admit(op)
	assert.Equal(t, ErrMissingMaxFeePerGas, err)

	op = newOp()
	op.MaxPriorityFeePerGas = uint256.NewInt(11)
	_, err = c.Admit(op)
	assert.Equal(t, ErrPriorityAboveMaxFees, err)

	op = newOp()
	op.CallGas = ^uint64(0)
	_, err = c.Admit(op)
	assert.Equal(t, opcost.ErrOverflow, err)
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(ErrSponsorNotStaked))
	assert.True(t, IsRejection(errors.Wrap(ErrSponsorUnderfunded, "deposit 1")))
	assert.True(t, IsRejection(ErrMissingMaxFeePerGas))
	assert.False(t, IsRejection(opcost.ErrOverflow))
	assert.False(t, IsRejection(nil))
}
