// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/aawallet/admission"
	"github.com/vechain/aawallet/api/costs"
	"github.com/vechain/aawallet/api/events"
	"github.com/vechain/aawallet/api/stakes"
	"github.com/vechain/aawallet/api/subscriptions"
	"github.com/vechain/aawallet/api/wallets"
	"github.com/vechain/aawallet/eventdb"
	ev "github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/log"
	"github.com/vechain/aawallet/metrics"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/wallet"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// Backend groups what the handlers read from.
type Backend struct {
	Runtime  *runtime.Runtime
	Ledger   *wallet.Ledger
	Collator *admission.Collator
	EventDB  *eventdb.EventDB // nil disables event queries
	Feed     *ev.Feed         // nil disables subscriptions
}

// New return api router
func New(backend *Backend, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	wallets.New(backend.Runtime, backend.Ledger.UnstakeDelay()).
		Mount(router, "/wallets")
	stakes.New(backend.Runtime, backend.Ledger).
		Mount(router, "/stakes")
	costs.New(backend.Collator).
		Mount(router, "/opcost")

	if backend.EventDB != nil {
		events.New(backend.EventDB, opts.EventsLimit).
			Mount(router, "/events")
	}

	closeFn := func() {}
	if backend.Feed != nil {
		subs := subscriptions.New(backend.Feed, origins)
		subs.Mount(router, "/subscriptions")
		// subscriptions handle hijacked conns, which need to be closed
		closeFn = subs.Close
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, closeFn
}
