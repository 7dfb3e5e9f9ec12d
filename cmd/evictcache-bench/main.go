// Package main provides the evictcache-bench CLI tool for comparing eviction
// policies on access traces.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
