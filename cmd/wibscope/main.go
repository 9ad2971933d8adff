// Package main provides the wibscope CLI entrypoint.
//
// wibscope is a diagnostic console for WIB cold-electronics readout:
// it configures FEMBs, drives the calibration pulser, and reads the
// spy buffer for live per-channel views or one-shot snapshots.
//
// Usage:
//
//	wibscope <command> [options]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/coldbox-daq/wibscope/cli/cmd"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func newApp(commit string) *cli.App {
	return &cli.App{
		Name:           "wibscope",
		Usage:          "WIB readout diagnostic console",
		Version:        fmt.Sprintf("%s (commit: %s)", cmd.Version, commit),
		ExitErrHandler: exitErrHandler,
		// Bare `wibscope` opens the console.
		DefaultCommand: "ui",
		Commands: []*cli.Command{
			cmd.UICommand(),
			cmd.AcquireCommand(),
			cmd.ConfigureCommand(),
			cmd.PulserCommand(),
			cmd.VersionCommand(commit),
		},
	}
}

func main() {
	if err := newApp(commit).Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit() across wrapped
// errors.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N", so skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
