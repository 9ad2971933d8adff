// Package daq turns the opaque byte payloads of a deframed spy buffer
// reply into typed sample arrays. Decoding is an exact-shape check:
// payload lengths must match the reported sample count or the whole
// capture is rejected.
package daq

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/coldbox-daq/wibscope/wire"
)

// Fixed geometry of the deframed spy buffer contract.
const (
	// NumFEMBs is the number of front-end boards per WIB.
	NumFEMBs = 4
	// NumChannels is the number of channels per FEMB.
	NumChannels = 128
	// NumTimestampRows is the number of timestamp streams (one per
	// spy buffer half).
	NumTimestampRows = 2
	// ADCRange is the exclusive upper bound of sample values. The
	// ADCs are 14-bit, packed in uint16 words.
	ADCRange = 16384
)

// SampleInterval is the spacing between consecutive timesteps.
const SampleInterval = 320 * time.Nanosecond

// Capture is one atomically acquired sample set: samples indexed by
// (femb, channel, timestep) and the two timestamp streams. A Capture
// is immutable after decode; views copy out whatever they derive.
type Capture struct {
	// NumSamples is the timestep count N shared by all channels.
	NumSamples int

	// samples holds NumFEMBs*NumChannels*NumSamples values,
	// femb-major then channel-major.
	samples []uint16

	// timestamps holds NumTimestampRows streams of NumSamples values.
	timestamps [NumTimestampRows][]uint64
}

// DecodeCapture reinterprets the byte payloads of a deframed spy
// buffer reply. The sample payload must hold exactly
// NumFEMBs*NumChannels*N uint16 values and the timestamp payload
// exactly NumTimestampRows*N uint64 values, both little-endian.
func DecodeCapture(rep *wire.DeframedDaqSpy) (*Capture, error) {
	n := rep.NumSamples
	if n <= 0 {
		return nil, fmt.Errorf("invalid sample count %d", n)
	}

	wantSamples := NumFEMBs * NumChannels * n * 2
	if len(rep.DeframedSamples) != wantSamples {
		return nil, fmt.Errorf("sample payload is %d bytes, want %d for %d timesteps",
			len(rep.DeframedSamples), wantSamples, n)
	}
	wantTimestamps := NumTimestampRows * n * 8
	if len(rep.DeframedTimestamps) != wantTimestamps {
		return nil, fmt.Errorf("timestamp payload is %d bytes, want %d for %d timesteps",
			len(rep.DeframedTimestamps), wantTimestamps, n)
	}

	c := &Capture{NumSamples: n}

	c.samples = make([]uint16, NumFEMBs*NumChannels*n)
	for i := range c.samples {
		c.samples[i] = binary.LittleEndian.Uint16(rep.DeframedSamples[i*2:])
	}

	for row := 0; row < NumTimestampRows; row++ {
		c.timestamps[row] = make([]uint64, n)
		for i := 0; i < n; i++ {
			c.timestamps[row][i] = binary.LittleEndian.Uint64(rep.DeframedTimestamps[(row*n+i)*8:])
		}
	}

	return c, nil
}

// Channel returns the timestep series for one channel. The returned
// slice aliases the capture's backing array and must not be modified.
func (c *Capture) Channel(femb, channel int) []uint16 {
	if femb < 0 || femb >= NumFEMBs {
		panic(fmt.Sprintf("femb index %d out of range", femb))
	}
	if channel < 0 || channel >= NumChannels {
		panic(fmt.Sprintf("channel index %d out of range", channel))
	}
	start := (femb*NumChannels + channel) * c.NumSamples
	return c.samples[start : start+c.NumSamples]
}

// Timestamps returns one of the two timestamp streams.
func (c *Capture) Timestamps(row int) []uint64 {
	if row < 0 || row >= NumTimestampRows {
		panic(fmt.Sprintf("timestamp row %d out of range", row))
	}
	return c.timestamps[row]
}
