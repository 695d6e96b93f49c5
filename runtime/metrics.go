// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/aawallet/metrics"

var (
	metricCalls        = metrics.LazyLoadCounter("runtime_calls_count")
	metricReverts      = metrics.LazyLoadCounterVec("runtime_reverts_count", []string{"kind"})
	metricCallGas      = metrics.LazyLoadHistogram("runtime_call_gas", []int64{0, 5000, 20000, 50000, 100000, 200000, 500000})
	metricCallDuration = metrics.LazyLoadHistogram("runtime_call_duration_ms", metrics.BucketHTTPReqs)
)
