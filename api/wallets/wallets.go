// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wallets

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/aawallet/api/utils"
	"github.com/vechain/aawallet/builtin/reverts"
	"github.com/vechain/aawallet/opcost"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/wallet"
)

type Wallets struct {
	rt           *runtime.Runtime
	unstakeDelay uint32
}

func New(rt *runtime.Runtime, unstakeDelay uint32) *Wallets {
	return &Wallets{
		rt,
		unstakeDelay,
	}
}

func (ws *Wallets) wallet(req *http.Request) (*wallet.Wallet, error) {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return nil, err
	}
	return wallet.New(ws.rt, addr, ws.unstakeDelay), nil
}

func (ws *Wallets) handleGetWallet(w http.ResponseWriter, req *http.Request) error {
	wal, err := ws.wallet(req)
	if err != nil {
		return err
	}
	owners, special, threshold, err := wal.Members()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Wallet{
		Address:       wal.Address(),
		Owners:        owners,
		SpecialOwners: special,
		Threshold:     threshold,
	})
}

func (ws *Wallets) handleGetOwners(w http.ResponseWriter, req *http.Request) error {
	wal, err := ws.wallet(req)
	if err != nil {
		return err
	}
	owners, err := wal.Owners()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, owners)
}

func (ws *Wallets) handleGetSpecialOwners(w http.ResponseWriter, req *http.Request) error {
	wal, err := ws.wallet(req)
	if err != nil {
		return err
	}
	special, err := wal.SpecialOwners()
	if err != nil {
		return utils.Rejected(err)
	}
	return utils.WriteJSON(w, special)
}

func (ws *Wallets) handleGetThreshold(w http.ResponseWriter, req *http.Request) error {
	wal, err := ws.wallet(req)
	if err != nil {
		return err
	}
	threshold, err := wal.Threshold()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Threshold{threshold})
}

func (ws *Wallets) handleGetOwner(w http.ResponseWriter, req *http.Request) error {
	wal, err := ws.wallet(req)
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	isOwner, err := wal.IsOwner(owner)
	if err != nil {
		return err
	}
	isSpecial, err := wal.IsSpecialOwner(owner)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Owner{
		IsOwner:        isOwner,
		IsSpecialOwner: isSpecial,
	})
}

func (ws *Wallets) handleValidate(w http.ResponseWriter, req *http.Request) error {
	wal, err := ws.wallet(req)
	if err != nil {
		return err
	}
	var body ValidateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Operation == nil {
		return utils.BadRequest(errors.New("body: operation is required"))
	}
	op, err := body.Operation.Convert()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	afford, err := wal.Validate(body.Approvers, op)
	switch {
	case err == nil:
		return utils.WriteJSON(w, &ValidateResult{
			Valid:         true,
			Affordability: convertAffordability(afford),
		})
	case reverts.IsRevertErr(err):
		return utils.WriteJSON(w, &ValidateResult{
			Reason:        err.Error(),
			RevertData:    reverts.Data(err),
			Affordability: convertAffordability(afford),
		})
	case errors.Is(err, opcost.ErrOverflow):
		return utils.BadRequest(err)
	default:
		return err
	}
}

func (ws *Wallets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /wallets/{address}").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetWallet))
	sub.Path("/{address}/owners").
		Methods(http.MethodGet).
		Name("GET /wallets/{address}/owners").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetOwners))
	sub.Path("/{address}/owners/{owner}").
		Methods(http.MethodGet).
		Name("GET /wallets/{address}/owners/{owner}").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetOwner))
	sub.Path("/{address}/special-owners").
		Methods(http.MethodGet).
		Name("GET /wallets/{address}/special-owners").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetSpecialOwners))
	sub.Path("/{address}/threshold").
		Methods(http.MethodGet).
		Name("GET /wallets/{address}/threshold").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetThreshold))
	sub.Path("/{address}/validate").
		Methods(http.MethodPost).
		Name("POST /wallets/{address}/validate").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleValidate))
}
