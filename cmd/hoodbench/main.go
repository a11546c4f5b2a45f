// main.go: hoodbench entry point
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Command hoodbench drives synthetic workloads through hood caches and
// reports hit ratios, eviction counts, probe lengths and latencies.
//
//	hoodbench run --capacity 4096 --keys 20000 --shards 8 --ops 1000000
//	HOOD_SKEW=1.2 hoodbench run --prom-out metrics.prom
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
