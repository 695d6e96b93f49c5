// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the structured loggers used across the module. Loggers are
// go-ethereum loggers whose output can be redirected at any time with SetHandler,
// including loggers created in package initializers.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

type Logger = ethlog.Logger

var (
	current atomic.Pointer[slog.Handler]
	root    Logger
)

func init() {
	SetHandler(ethlog.DiscardHandler())
	root = ethlog.NewLogger(&swapHandler{})
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// WithContext returns a logger carrying the given key/value pairs, e.g. WithContext("pkg", "runtime").
func WithContext(ctx ...any) Logger {
	return root.With(ctx...)
}

// SetHandler redirects all loggers to h.
func SetHandler(h slog.Handler) {
	current.Store(&h)
}

// Setup writes logs to w at the given verbosity (0 crit .. 5 trace). Terminal output
// is coloured when w is a tty.
func Setup(w io.Writer, verbosity int, json bool) {
	var h slog.Handler
	if json {
		h = ethlog.JSONHandler(w)
	} else {
		h = ethlog.NewTerminalHandler(w, isTerminal(w))
	}
	glog := ethlog.NewGlogHandler(h)
	glog.Verbosity(ethlog.FromLegacyLevel(verbosity))
	SetHandler(glog)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// swapHandler forwards records to the handler installed by SetHandler.
type swapHandler struct {
	attrs []slog.Attr
}

func (h *swapHandler) inner() slog.Handler {
	inner := *current.Load()
	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}
	return inner
}

func (h *swapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return (*current.Load()).Enabled(ctx, level)
}

func (h *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner().Handle(ctx, r)
}

func (h *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &swapHandler{attrs: append(slices.Clip(h.attrs), attrs...)}
}

// WithGroup is not supported, as with the go-ethereum handlers.
func (h *swapHandler) WithGroup(_ string) slog.Handler {
	return h
}
