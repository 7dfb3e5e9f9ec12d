// Package main provides the evictcache CLI for exercising the FIFO and LRU
// caches from the command line.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
