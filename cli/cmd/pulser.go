package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/coldbox-daq/wibscope/iox"
	"github.com/coldbox-daq/wibscope/log"
)

// PulserCommand returns the pulser command: switch the calibration
// pulser on or off.
func PulserCommand() *cli.Command {
	return &cli.Command{
		Name:      "pulser",
		Usage:     "Switch the calibration pulser on or off",
		ArgsUsage: "on|off",
		Flags:     CommonFlags(),
		Action:    pulserAction,
	}
}

func pulserAction(c *cli.Context) error {
	var on bool
	switch c.Args().First() {
	case "on":
		on = true
	case "off":
		on = false
	default:
		return cli.Exit("usage: wibscope pulser on|off", 1)
	}

	logger := log.NewLogger(c.String("wib-server"))
	cl, coll, err := dialClient(c, logger)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer iox.DiscardClose(cl)
	defer logSessionMetrics(logger, coll)

	if err := cl.SetPulser(on); err != nil {
		return fmt.Errorf("pulser command failed: %w", err)
	}

	if on {
		fmt.Fprintln(c.App.Writer, "pulser on")
	} else {
		fmt.Fprintln(c.App.Writer, "pulser off")
	}
	return nil
}
