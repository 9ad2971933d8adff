package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/coldbox-daq/wibscope/cli/tui"
	"github.com/coldbox-daq/wibscope/iox"
	"github.com/coldbox-daq/wibscope/log"
)

// UICommand returns the ui command: the interactive diagnostic
// console with live channel views.
func UICommand() *cli.Command {
	return &cli.Command{
		Name:   "ui",
		Usage:  "Open the interactive diagnostic console",
		Flags:  CommonFlags(),
		Action: uiAction,
	}
}

func uiAction(c *cli.Context) error {
	server := c.String("wib-server")

	// Nop logger: Bubble Tea owns the terminal, stderr would tear it.
	cl, coll, err := dialClient(c, log.Nop())
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer iox.DiscardClose(cl)

	return tui.Run(server, c.String("config"), cl, coll)
}
