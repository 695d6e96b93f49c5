// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the yaml genesis profile",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for ledger databases (in memory when empty)",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of ram allocated to the ledger database",
		Value: 64,
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	// cost
	callGasFlag = cli.Uint64Flag{
		Name:  "call-gas",
		Usage: "gas limit of the main call",
	}
	verificationGasFlag = cli.Uint64Flag{
		Name:  "verification-gas",
		Usage: "gas limit of the verification step",
	}
	preVerificationGasFlag = cli.Uint64Flag{
		Name:  "pre-verification-gas",
		Usage: "gas paid before verification",
	}
	maxFeeFlag = cli.StringFlag{
		Name:  "max-fee",
		Usage: "max fee per gas",
	}
	maxPriorityFeeFlag = cli.StringFlag{
		Name:  "max-priority-fee",
		Usage: "max priority fee per gas",
	}
	baseFeeFlag = cli.StringFlag{
		Name:  "base-fee",
		Usage: "base fee per gas, to compute the effective gas price",
	}
	sponsorFlag = cli.StringFlag{
		Name:  "sponsor",
		Usage: "address of the fee sponsor",
	}

	// inspect
	walletFlag = cli.StringSliceFlag{
		Name:  "wallet",
		Usage: "wallet address to inspect (repeatable)",
	}
	accountFlag = cli.StringSliceFlag{
		Name:  "account",
		Usage: "stake ledger account to inspect (repeatable)",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump raw structures",
	}
)
