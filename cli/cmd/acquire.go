package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/coldbox-daq/wibscope/archive"
	"github.com/coldbox-daq/wibscope/cli/config"
	"github.com/coldbox-daq/wibscope/cli/render"
	"github.com/coldbox-daq/wibscope/daq"
	"github.com/coldbox-daq/wibscope/dsp"
	"github.com/coldbox-daq/wibscope/iox"
	"github.com/coldbox-daq/wibscope/log"
	"github.com/coldbox-daq/wibscope/metrics"
	"github.com/coldbox-daq/wibscope/record"
)

// ChannelStat summarizes one channel of a capture.
type ChannelStat struct {
	FEMB    int     `json:"femb"`
	Channel int     `json:"channel"`
	Mean    float64 `json:"mean"`
	RMS     float64 `json:"rms"`
}

// AcquireCommand returns the acquire command: a single spy-buffer
// readout with per-channel statistics on stdout.
func AcquireCommand() *cli.Command {
	return &cli.Command{
		Name:  "acquire",
		Usage: "Read the spy buffer once and print channel statistics",
		Flags: append(CommonFlags(),
			FormatFlag,
			&cli.IntFlag{
				Name:  "femb",
				Usage: "Restrict output to one FEMB (0-3, default all)",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "Write the capture to a parquet snapshot",
			},
			&cli.StringFlag{
				Name:  "record-dir",
				Usage: "Snapshot directory (overrides config record.dir)",
			},
			&cli.BoolFlag{
				Name:  "archive",
				Usage: "Upload the snapshot to the configured S3 bucket (implies --record)",
			},
		),
		Action: acquireAction,
	}
}

func acquireAction(c *cli.Context) error {
	femb := c.Int("femb")
	if femb < -1 || femb >= daq.NumFEMBs {
		return cli.Exit(fmt.Sprintf("invalid --femb %d (must be 0-%d)", femb, daq.NumFEMBs-1), 1)
	}

	r, err := render.NewRenderer(c)
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

	capture, err := cl.Acquire()
	if err != nil {
		return fmt.Errorf("acquisition failed: %w", err)
	}

	if c.Bool("record") || c.Bool("archive") {
		if err := recordCapture(c, capture); err != nil {
			return err
		}
	}

	return r.Render(channelStats(capture, femb))
}

// logSessionMetrics surfaces the session counters on the way out, the
// one-shot counterpart of the console's status-line counters.
func logSessionMetrics(logger *log.Logger, coll *metrics.Collector) {
	snap := coll.Snapshot()
	logger.Info("session metrics",
		zap.Int64("acquisitions_started", snap.AcquisitionsStarted),
		zap.Int64("acquisitions_succeeded", snap.AcquisitionsSucceeded),
		zap.Int64("acquisitions_failed", snap.AcquisitionsFailed),
		zap.Int64("decode_errors", snap.DecodeErrors),
		zap.Int64("samples_read", snap.SamplesRead),
		zap.Int64("configures", snap.Configures),
		zap.Int64("pulser_toggles", snap.PulserToggles),
		zap.Int64("transport_errors", snap.TransportErrors),
	)
}

func channelStats(capture *daq.Capture, femb int) []ChannelStat {
	var stats []ChannelStat
	for f := 0; f < daq.NumFEMBs; f++ {
		if femb >= 0 && f != femb {
			continue
		}
		for ch := 0; ch < daq.NumChannels; ch++ {
			mean, std := dsp.MeanStd(capture.Channel(f, ch))
			stats = append(stats, ChannelStat{
				FEMB:    f,
				Channel: ch,
				Mean:    mean,
				RMS:     std,
			})
		}
	}
	return stats
}

// recordCapture writes a parquet snapshot and optionally ships it to
// the archive bucket from the config file.
func recordCapture(c *cli.Context, capture *daq.Capture) error {
	dir := c.String("record-dir")
	var cfg *config.Config
	if dir == "" || c.Bool("archive") {
		var err error
		cfg, err = config.Load(c.String("config"))
		if err != nil {
			return err
		}
	}
	if dir == "" {
		dir = cfg.Record.Dir
	}
	if dir == "" {
		dir = "."
	}

	path, err := record.Save(dir, capture, time.Now())
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "snapshot written to %s\n", path)

	if !c.Bool("archive") {
		return nil
	}

	ctx := context.Background()
	up, err := archive.NewUploader(ctx, archive.Config{
		Bucket:    cfg.Archive.Bucket,
		Prefix:    cfg.Archive.Prefix,
		Region:    cfg.Archive.Region,
		Endpoint:  cfg.Archive.Endpoint,
		PathStyle: cfg.Archive.PathStyle,
	})
	if err != nil {
		return fmt.Errorf("failed to build archive uploader: %w", err)
	}

	key, err := up.UploadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "snapshot archived to s3://%s/%s\n", cfg.Archive.Bucket, key)
	return nil
}
