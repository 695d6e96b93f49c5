// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/aawallet/builtin/reverts"
	"github.com/vechain/aawallet/thor"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// Rejected maps a revert to the status matching its kind. Other errors are returned as is.
func Rejected(err error) error {
	if !reverts.IsRevertErr(err) {
		return err
	}
	status := http.StatusBadRequest
	switch reverts.KindOf(err) {
	case reverts.StateConflict:
		status = http.StatusConflict
	case reverts.TimingViolation:
		status = http.StatusTooEarly
	case reverts.InsufficientFunds:
		status = http.StatusPaymentRequired
	case reverts.TransferFailure:
		status = http.StatusBadGateway
	}
	return HTTPError(err, status)
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err != nil {
			if he, ok := err.(*httpError); ok {
				if he.cause != nil {
					http.Error(w, he.cause.Error(), he.status)
				} else {
					w.WriteHeader(he.status)
				}
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any

// AddressVar parses the named path variable as an address.
func AddressVar(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Uint32Query parses an optional query parameter, returning def when absent.
func Uint32Query(req *http.Request, name string, def uint32) (uint32, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return uint32(v), nil
}

// Uint256Query parses an optional decimal or 0x-prefixed query parameter.
func Uint256Query(req *http.Request, name string) (*uint256.Int, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return new(uint256.Int), nil
	}
	b, ok := math.ParseBig256(s)
	if !ok {
		return nil, BadRequest(errors.Errorf("%s: invalid number", name))
	}
	v, err := ToUint256((*math.HexOrDecimal256)(b))
	if err != nil {
		return nil, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// Amount converts a uint256 into its JSON form. Nil stays nil.
func Amount(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

// ToUint256 converts a JSON amount. Nil stays nil.
func ToUint256(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return nil, nil
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, errors.New("negative amount")
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("amount out of range")
	}
	return u, nil
}
