// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestUint256Query(t *testing.T) {
	tests := []struct {
		query   string
		want    *uint256.Int
		wantErr bool
	}{
		{"", new(uint256.Int), false},
		{"amount=100", uint256.NewInt(100), false},
		{"amount=0x64", uint256.NewInt(100), false},
		{"amount=-1", nil, true},
		{"amount=abc", nil, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		v, err := Uint256Query(req, "amount")
		if tt.wantErr {
			assert.Error(t, err, tt.query)
			var herr *httpError
			if assert.ErrorAs(t, err, &herr, tt.query) {
				assert.Equal(t, http.StatusBadRequest, herr.status)
			}
			continue
		}
		assert.NoError(t, err, tt.query)
		assert.Equal(t, tt.want, v, tt.query)
	}
}
