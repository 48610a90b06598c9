// Package main is the entry point of the analyzer CLI.
package main

import (
	"os"

	"github.com/huangsam/analyzer/cmd"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseCaching()

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
