// Package cmd provides CLI commands for the wibscope binary.
package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/coldbox-daq/wibscope/client"
	"github.com/coldbox-daq/wibscope/log"
	"github.com/coldbox-daq/wibscope/metrics"
)

// Shared flags across commands.
var (
	// ServerFlag selects the WIB readout server to talk to.
	ServerFlag = &cli.StringFlag{
		Name:    "wib-server",
		Aliases: []string{"w"},
		Usage:   "WIB server address (host or host:port)",
		Value:   "127.0.0.1",
		EnvVars: []string{"WIBSCOPE_SERVER"},
	}

	// ConfigFlag points at the FEMB configuration file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"C"},
		Usage:   "Path to FEMB configuration file",
		Value:   "wibscope.yaml",
		EnvVars: []string{"WIBSCOPE_CONFIG"},
	}

	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}
)

// CommonFlags returns the flags every device-facing command takes.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		ServerFlag,
		ConfigFlag,
	}
}

// dialClient connects to the WIB server named by --wib-server with
// metrics wired in. The caller picks the logger: one-shot commands
// log to stderr, the interactive console passes log.Nop() because
// stderr writes would tear the alt-screen.
func dialClient(c *cli.Context, logger *log.Logger) (*client.Client, *metrics.Collector, error) {
	server := c.String("wib-server")
	coll := metrics.NewCollector(server)
	cl, err := client.New(server,
		client.WithLogger(logger),
		client.WithMetrics(coll),
	)
	if err != nil {
		return nil, nil, err
	}
	return cl, coll, nil
}
