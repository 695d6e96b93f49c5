// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package costs

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/aawallet/admission"
	"github.com/vechain/aawallet/api/utils"
	"github.com/vechain/aawallet/opcost"
	"github.com/vechain/aawallet/thor"
)

type Cost struct {
	RequiredGas uint64                `json:"requiredGas"`
	PreFund     *math.HexOrDecimal256 `json:"preFund"`
	GasPrice    *math.HexOrDecimal256 `json:"gasPrice,omitempty"`
}

type Admission struct {
	Admitted    bool                  `json:"admitted"`
	Reason      string                `json:"reason,omitempty"`
	RequiredGas uint64                `json:"requiredGas,omitempty"`
	PreFund     *math.HexOrDecimal256 `json:"preFund,omitempty"`
	Sponsor     *thor.Address         `json:"sponsor,omitempty"`
}

type Costs struct {
	collator *admission.Collator
}

func New(collator *admission.Collator) *Costs {
	return &Costs{collator}
}

func parseOperation(req *http.Request) (*opcost.Operation, error) {
	var body utils.Operation
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	op, err := body.Convert()
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return op, nil
}

// handleCost computes the gas and prefund of an operation. With a baseFee query
// parameter it also returns the effective gas price.
func (c *Costs) handleCost(w http.ResponseWriter, req *http.Request) error {
	op, err := parseOperation(req)
	if err != nil {
		return err
	}
	gas, err := opcost.RequiredGas(op)
	if err != nil {
		return utils.BadRequest(err)
	}
	prefund, err := opcost.RequiredPreFund(op)
	if err != nil {
		return utils.BadRequest(err)
	}
	cost := &Cost{
		RequiredGas: gas,
		PreFund:     utils.Amount(prefund),
	}
	if req.URL.Query().Has("baseFee") {
		baseFee, err := utils.Uint256Query(req, "baseFee")
		if err != nil {
			return err
		}
		cost.GasPrice = utils.Amount(opcost.GasPrice(op, baseFee))
	}
	return utils.WriteJSON(w, cost)
}

func (c *Costs) handleAdmit(w http.ResponseWriter, req *http.Request) error {
	op, err := parseOperation(req)
	if err != nil {
		return err
	}
	d, err := c.collator.Admit(op)
	if err != nil {
		if errors.Is(err, opcost.ErrOverflow) {
			return utils.BadRequest(err)
		}
		if admission.IsRejection(err) {
			return utils.WriteJSON(w, &Admission{Reason: err.Error()})
		}
		return err
	}
	result := &Admission{
		Admitted:    true,
		RequiredGas: d.RequiredGas,
		PreFund:     utils.Amount(d.PreFund),
	}
	if !d.Sponsor.IsZero() {
		result.Sponsor = &d.Sponsor
	}
	return utils.WriteJSON(w, result)
}

func (c *Costs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /opcost").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCost))
	sub.Path("/admit").
		Methods(http.MethodPost).
		Name("POST /opcost/admit").
		HandlerFunc(utils.WrapHandlerFunc(c.handleAdmit))
}
