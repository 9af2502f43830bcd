package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/stwalsh4118/blockjoin/internal/cli"
	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(apperrors.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
}
