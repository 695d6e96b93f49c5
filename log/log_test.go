// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsHandler(t *testing.T) {
	logger := WithContext("pkg", "test")

	buf := &bytes.Buffer{}
	SetHandler(ethlog.JSONHandler(buf))
	t.Cleanup(func() { SetHandler(ethlog.DiscardHandler()) })

	logger.Info("hello", "n", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, float64(1), rec["n"])
}

func TestSetupVerbosity(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(buf, 3, false)
	t.Cleanup(func() { SetHandler(ethlog.DiscardHandler()) })

	logger := WithContext("pkg", "test")
	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
	assert.True(t, strings.Contains(out, "pkg=test"))
	assert.False(t, isTerminal(buf))
}
