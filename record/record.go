// Package record writes acquired captures to parquet snapshot files
// so a shift can be replayed offline. One file holds one capture,
// flattened to a row per (femb, channel, timestep).
package record

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/segmentio/parquet-go"

	"github.com/coldbox-daq/wibscope/daq"
)

// SnapshotRow is one sample of a recorded capture.
type SnapshotRow struct {
	FEMB      int32  `parquet:"femb"`
	Channel   int32  `parquet:"channel"`
	Step      int32  `parquet:"step"`
	ADC       int32  `parquet:"adc"`
	Timestamp uint64 `parquet:"timestamp"`
}

// writeBatch is the row buffer size handed to the parquet writer.
const writeBatch = 8192

// WriteCapture writes a capture as parquet rows and returns the row
// count. The capture's timestep count is attached as file metadata.
func WriteCapture(w io.Writer, c *daq.Capture) (int64, error) {
	pw := parquet.NewGenericWriter[SnapshotRow](w,
		parquet.KeyValueMetadata("num_samples", strconv.Itoa(c.NumSamples)),
	)

	ts := c.Timestamps(0)
	rows := make([]SnapshotRow, 0, writeBatch)
	var total int64

	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		n, err := pw.Write(rows)
		if err != nil {
			return err
		}
		total += int64(n)
		rows = rows[:0]
		return nil
	}

	for femb := 0; femb < daq.NumFEMBs; femb++ {
		for ch := 0; ch < daq.NumChannels; ch++ {
			series := c.Channel(femb, ch)
			for step, adc := range series {
				rows = append(rows, SnapshotRow{
					FEMB:      int32(femb),
					Channel:   int32(ch),
					Step:      int32(step),
					ADC:       int32(adc),
					Timestamp: ts[step],
				})
				if len(rows) == writeBatch {
					if err := flush(); err != nil {
						return total, fmt.Errorf("write snapshot rows: %w", err)
					}
				}
			}
		}
	}
	if err := flush(); err != nil {
		return total, fmt.Errorf("write snapshot rows: %w", err)
	}

	if err := pw.Close(); err != nil {
		return total, fmt.Errorf("finalize snapshot: %w", err)
	}
	return total, nil
}

// SnapshotName returns the file name for a capture taken at t.
func SnapshotName(t time.Time) string {
	return fmt.Sprintf("wibscope_%s.parquet", t.UTC().Format("20060102T150405Z"))
}

// Save writes a capture into dir under a timestamped name and returns
// the full path. The directory is created if needed.
func Save(dir string, c *daq.Capture, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, SnapshotName(t))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot file: %w", err)
	}

	if _, err := WriteCapture(f, c); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot file: %w", err)
	}
	return path, nil
}
