// Package wire defines the wib_server command envelope and message
// framing. The schema is a fixed external contract: requests are
// wrapped in a Command envelope, replies arrive as bare typed
// messages. One request must be answered by exactly one reply before
// the next request is sent.
package wire

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// CommandType discriminates the request carried by a Command envelope.
type CommandType string

// Command types understood by wib_server.
const (
	TypeConfigureWIB CommandType = "configure_wib"
	TypeReadDaqSpy   CommandType = "read_daq_spy"
	TypePulser       CommandType = "pulser"
	TypePing         CommandType = "ping"
)

// Command is the envelope for every request. The payload is the
// msgpack encoding of exactly one request message matching Type.
type Command struct {
	Type    CommandType        `msgpack:"type"`
	Payload msgpack.RawMessage `msgpack:"payload"`
}

// NewCommand wraps a request message in an envelope.
func NewCommand(typ CommandType, req any) (*Command, error) {
	payload, err := msgpack.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	return &Command{Type: typ, Payload: payload}, nil
}

// Marshal encodes the envelope for framing.
func (c *Command) Marshal() ([]byte, error) {
	return msgpack.Marshal(c)
}

// UnmarshalCommand decodes an envelope from a frame payload.
func UnmarshalCommand(payload []byte) (*Command, error) {
	var cmd Command
	if err := msgpack.Unmarshal(payload, &cmd); err != nil {
		return nil, &FrameError{Kind: FrameErrorDecode, Msg: "failed to decode command envelope", Err: err}
	}
	return &cmd, nil
}

// Decode unwraps the envelope payload into req, which must match Type.
func (c *Command) Decode(req any) error {
	if err := msgpack.Unmarshal(c.Payload, req); err != nil {
		return fmt.Errorf("decode %s payload: %w", c.Type, err)
	}
	return nil
}

// FEMBConf carries the per-FEMB tuning fields of a ConfigureWIB
// request. Field meanings follow the front-end ASIC register map.
type FEMBConf struct {
	Enabled bool `msgpack:"enabled"`

	TestCap  bool   `msgpack:"test_cap"`
	Gain     uint32 `msgpack:"gain"`
	PeakTime uint32 `msgpack:"peak_time"`
	Baseline uint32 `msgpack:"baseline"`
	PulseDAC uint32 `msgpack:"pulse_dac"`

	Leak     uint32 `msgpack:"leak"`
	Leak10X  bool   `msgpack:"leak_10x"`
	ACCouple bool   `msgpack:"ac_couple"`
	Buffer   uint32 `msgpack:"buffer"`

	StrobeSkip   uint32 `msgpack:"strobe_skip"`
	StrobeDelay  uint32 `msgpack:"strobe_delay"`
	StrobeLength uint32 `msgpack:"strobe_length"`
}

// ConfigureWIB configures the board and all four front-end boards in
// one shot. FEMBs always has exactly four entries; disabled FEMBs keep
// their entry with Enabled=false.
type ConfigureWIB struct {
	Cold  bool       `msgpack:"cold"`
	FEMBs []FEMBConf `msgpack:"fembs"`
}

// ReadDaqSpy requests a snapshot of one or both DAQ spy buffers.
// Deframe asks the server to unpack the raw frames, and Channels asks
// for the per-channel split of the deframed samples.
type ReadDaqSpy struct {
	Buf0     bool `msgpack:"buf0"`
	Buf1     bool `msgpack:"buf1"`
	Deframe  bool `msgpack:"deframe"`
	Channels bool `msgpack:"channels"`
}

// Pulser starts or stops the calibration pulser.
type Pulser struct {
	Start bool `msgpack:"start"`
}

// Ping is an empty liveness probe; the server answers with Status.
type Ping struct{}

// Status is the generic reply for commands that return no data.
type Status struct {
	Success bool   `msgpack:"success"`
	Extra   string `msgpack:"extra,omitempty"`
}

// DeframedDaqSpy is the reply to a ReadDaqSpy with Deframe set. The
// two byte payloads are opaque on the wire: little-endian uint16
// samples (femb-major, then channel, then timestep) and little-endian
// uint64 timestamps (buffer-major). NumSamples is the timestep count
// shared by both payloads.
type DeframedDaqSpy struct {
	Success            bool   `msgpack:"success"`
	NumSamples         int    `msgpack:"num_samples"`
	DeframedSamples    []byte `msgpack:"deframed_samples"`
	DeframedTimestamps []byte `msgpack:"deframed_timestamps"`
}
