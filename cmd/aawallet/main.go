// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/aawallet/admission"
	"github.com/vechain/aawallet/api"
	"github.com/vechain/aawallet/co"
	"github.com/vechain/aawallet/eventdb"
	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/log"
	"github.com/vechain/aawallet/metrics"
	"github.com/vechain/aawallet/opcost"
	"github.com/vechain/aawallet/runtime"
	"github.com/vechain/aawallet/state"
	"github.com/vechain/aawallet/thor"
	"github.com/vechain/aawallet/wallet"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "aawallet",
		Usage:     "Account abstraction wallet ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Action: serveAction,
		Commands: []cli.Command{
			{
				Name:  "cost",
				Usage: "compute the gas and prefund an operation must reserve",
				Flags: []cli.Flag{
					callGasFlag,
					verificationGasFlag,
					preVerificationGasFlag,
					maxFeeFlag,
					maxPriorityFeeFlag,
					baseFeeFlag,
					sponsorFlag,
				},
				Action: costAction,
			},
			{
				Name:  "inspect",
				Usage: "print wallets and deposits stored in a data dir",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					walletFlag,
					accountFlag,
					dumpFlag,
					verbosityFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}

	mainDB, eventDB, instanceDir, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	feed := &events.Feed{}
	defer feed.Close()

	var goes co.Goes
	defer goes.Wait()

	exitCtx := handleExitSignal()
	indexCtx, cancelIndex := context.WithCancel(context.Background())
	defer cancelIndex()
	indexer := eventdb.NewIndexer(eventDB, feed)
	goes.GoContext(indexCtx, indexer.Run)

	rt := runtime.New(state.NewStater(mainDB), runtime.SystemClock{}, runtime.WithFeed(feed))
	ledger := wallet.NewLedger(rt, cfg.UnstakeDelay)

	applied, err := applyGenesis(rt, ledger, cfg)
	if err != nil {
		return errors.WithMessage(err, "apply genesis")
	}
	if applied {
		logger.Info("genesis applied", "wallets", len(cfg.Wallets), "stakes", len(cfg.Stakes), "balances", len(cfg.Balances))
	}

	handler, closeAPI := api.New(&api.Backend{
		Runtime:  rt,
		Ledger:   ledger,
		Collator: admission.New(ledger, cfg.MinStake.Uint256()),
		EventDB:  eventDB,
		Feed:     feed,
	}, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	defer closeAPI()

	apiURL, stopAPI, err := startAPIServer(ctx, handler, &goes)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsURL, stopMetrics, err := startMetricsServer(ctx.String(metricsAddrFlag.Name), &goes)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stopMetrics() }()
		logger.Info("metrics server started", "url", metricsURL)
	}

	fmt.Printf(`Starting aawallet
    Version        [ %v ]
    Instance dir   [ %v ]
    Event DB       [ %v, sqlite %v ]
    Unstake delay  [ %v s ]
    API portal     [ %v ]
`, fullVersion(), instanceDir, eventDB.Path(), eventDB.SQLiteVersion(), cfg.UnstakeDelay, apiURL)

	<-exitCtx.Done()
	return nil
}

func costAction(ctx *cli.Context) error {
	maxFee, err := parseAmount(ctx.String(maxFeeFlag.Name))
	if err != nil {
		return errors.WithMessage(err, maxFeeFlag.Name)
	}
	maxPriorityFee, err := parseAmount(ctx.String(maxPriorityFeeFlag.Name))
	if err != nil {
		return errors.WithMessage(err, maxPriorityFeeFlag.Name)
	}
	op := &opcost.Operation{
		CallGas:              ctx.Uint64(callGasFlag.Name),
		VerificationGas:      ctx.Uint64(verificationGasFlag.Name),
		PreVerificationGas:   ctx.Uint64(preVerificationGasFlag.Name),
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: maxPriorityFee,
	}
	if s := ctx.String(sponsorFlag.Name); s != "" {
		if op.Sponsor, err = thor.ParseAddress(s); err != nil {
			return errors.WithMessage(err, sponsorFlag.Name)
		}
	}

	gas, err := opcost.RequiredGas(op)
	if err != nil {
		return err
	}
	prefund, err := opcost.RequiredPreFund(op)
	if err != nil {
		return err
	}
	fmt.Printf("required gas:  %d\n", gas)
	fmt.Printf("prefund:       %s\n", prefund.Dec())
	if s := ctx.String(baseFeeFlag.Name); s != "" {
		baseFee, err := parseAmount(s)
		if err != nil {
			return errors.WithMessage(err, baseFeeFlag.Name)
		}
		fmt.Printf("gas price:     %s\n", opcost.GasPrice(op, baseFee).Dec())
	}
	return nil
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.String(dataDirFlag.Name) == "" {
		return errors.New("inspect needs --data-dir")
	}
	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	mainDB, eventDB, _, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer mainDB.Close()
	defer eventDB.Close()

	wallets, err := parseAddresses(ctx.StringSlice(walletFlag.Name))
	if err != nil {
		return err
	}
	accounts, err := parseAddresses(ctx.StringSlice(accountFlag.Name))
	if err != nil {
		return err
	}
	dump := ctx.Bool(dumpFlag.Name)

	rt := runtime.New(state.NewStater(mainDB), runtime.SystemClock{})
	for _, addr := range wallets {
		owners, special, threshold, err := wallet.New(rt, addr, cfg.UnstakeDelay).Members()
		if err != nil {
			return errors.WithMessagef(err, "wallet %v", addr)
		}
		if dump {
			spew.Dump(owners, special, threshold)
			continue
		}
		fmt.Printf("wallet %v\n  threshold: %d\n  owners:    %v\n  special:   %v\n", addr, threshold, owners, special)
	}

	ledger := wallet.NewLedger(rt, cfg.UnstakeDelay)
	for _, addr := range accounts {
		info, err := ledger.DepositInfo(addr)
		if err != nil {
			return errors.WithMessagef(err, "account %v", addr)
		}
		if dump {
			spew.Dump(info)
			continue
		}
		fmt.Printf("account %v\n  deposit:        %s\n  unstake delay:  %d\n  withdraw time:  %d\n  status:         %v\n",
			addr, info.Amount.Dec(), info.UnstakeDelaySec, info.WithdrawTime, info.Status(rt.Now()))
	}
	return nil
}
