package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/coldbox-daq/wibscope/cli/config"
	"github.com/coldbox-daq/wibscope/iox"
	"github.com/coldbox-daq/wibscope/log"
)

// ConfigureCommand returns the configure command: push the FEMB
// settings from the config file to the board.
func ConfigureCommand() *cli.Command {
	return &cli.Command{
		Name:   "configure",
		Usage:  "Apply the FEMB configuration file to the board",
		Flags:  CommonFlags(),
		Action: configureAction,
	}
}

func configureAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	logger := log.NewLogger(c.String("wib-server"))
	cl, coll, err := dialClient(c, logger)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer iox.DiscardClose(cl)
	defer logSessionMetrics(logger, coll)

	if err := cl.Configure(cfg.ToWire()); err != nil {
		return fmt.Errorf("configure failed: %w", err)
	}

	fmt.Fprintln(c.App.Writer, "configuration applied")
	return nil
}
