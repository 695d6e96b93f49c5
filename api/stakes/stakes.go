// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/aawallet/api/utils"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/thor"
	"github.com/vechain/aawallet/wallet"
)

type Deposit struct {
	Account         thor.Address          `json:"account"`
	Amount          *math.HexOrDecimal256 `json:"amount"`
	UnstakeDelaySec uint32                `json:"unstakeDelaySec"`
	WithdrawTime    uint64                `json:"withdrawTime"`
	Status          string                `json:"status"`
}

type Staked struct {
	Staked         bool                  `json:"staked"`
	RequiredAmount *math.HexOrDecimal256 `json:"requiredAmount"`
	RequiredDelay  uint32                `json:"requiredDelay"`
}

type Stakes struct {
	rt     *runtime.Runtime
	ledger *wallet.Ledger
}

func New(rt *runtime.Runtime, ledger *wallet.Ledger) *Stakes {
	return &Stakes{
		rt,
		ledger,
	}
}

func (s *Stakes) handleGetDeposit(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	info, err := s.ledger.DepositInfo(account)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Deposit{
		Account:         account,
		Amount:          utils.Amount(info.Amount),
		UnstakeDelaySec: info.UnstakeDelaySec,
		WithdrawTime:    info.WithdrawTime,
		Status:          info.Status(s.rt.Now()).String(),
	})
}

// handleIsStaked answers whether the account keeps at least amount locked for at least delay
// seconds. The delay defaults to the ledger's global unstake delay.
func (s *Stakes) handleIsStaked(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	amount, err := utils.Uint256Query(req, "amount")
	if err != nil {
		return err
	}
	delay, err := utils.Uint32Query(req, "delay", s.ledger.UnstakeDelay())
	if err != nil {
		return err
	}
	staked, err := s.ledger.IsStaked(account, amount, delay)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Staked{
		Staked:         staked,
		RequiredAmount: utils.Amount(amount),
		RequiredDelay:  delay,
	})
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{account}").
		Methods(http.MethodGet).
		Name("GET /stakes/{account}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetDeposit))
	sub.Path("/{account}/staked").
		Methods(http.MethodGet).
		Name("GET /stakes/{account}/staked").
		HandlerFunc(utils.WrapHandlerFunc(s.handleIsStaked))
}
