// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/aawallet/co"
	"github.com/vechain/aawallet/eventdb"
	"github.com/vechain/aawallet/log"
	"github.com/vechain/aawallet/lvldb"
	"github.com/vechain/aawallet/metrics"
	"github.com/vechain/aawallet/thor"
)

func initLogger(ctx *cli.Context) {
	log.Setup(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name))
}

// openStores opens the ledger and event databases under the data dir, or in memory
// when no data dir is given.
func openStores(ctx *cli.Context) (*lvldb.LevelDB, *eventdb.EventDB, string, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		db, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, "", err
		}
		edb, err := eventdb.NewMem()
		if err != nil {
			db.Close()
			return nil, nil, "", err
		}
		return db, edb, "Memory", nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, "", errors.Wrapf(err, "create data dir [%v]", dir)
	}
	db, err := lvldb.New(filepath.Join(dir, "main.db"), lvldb.Options{
		CacheSize:              ctx.Int(cacheFlag.Name),
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, nil, "", err
	}
	edb, err := eventdb.New(filepath.Join(dir, "events.db"))
	if err != nil {
		db.Close()
		return nil, nil, "", err
	}
	return db, edb, dir, nil
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// websocket connections outlive any request timeout
		if r.Header.Get("Upgrade") != "" {
			h.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func startAPIServer(ctx *cli.Context, handler http.Handler, goes *co.Goes) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
	}, nil
}

func startMetricsServer(addr string, goes *co.Goes) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
	}, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Root().Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := uint256.FromDecimal(s)
	if err == nil {
		return v, nil
	}
	if v, err = uint256.FromHex(s); err == nil {
		return v, nil
	}
	return nil, errors.Errorf("invalid amount %q", s)
}

func parseAddresses(list []string) ([]thor.Address, error) {
	addrs := make([]thor.Address, 0, len(list))
	for _, s := range list {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, s)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
