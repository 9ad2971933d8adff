// Package client implements the blocking request/reply transport to
// wib_server. One persistent TCP connection is opened at construction
// and owned exclusively by the caller; every operation is one framed
// request followed by exactly one framed reply. There is no retry,
// timeout, or reconnect handling: a transport failure surfaces
// synchronously and leaves the connection unusable.
package client

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/coldbox-daq/wibscope/daq"
	"github.com/coldbox-daq/wibscope/log"
	"github.com/coldbox-daq/wibscope/metrics"
	"github.com/coldbox-daq/wibscope/wire"
)

// DefaultPort is the wib_server control port.
const DefaultPort = 1234

// ErrCommandFailed is the device-reported failure: the reply arrived
// intact but its success flag was false.
type ErrCommandFailed struct {
	Command wire.CommandType
	Extra   string
}

func (e *ErrCommandFailed) Error() string {
	if e.Extra != "" {
		return fmt.Sprintf("%s rejected by device: %s", e.Command, e.Extra)
	}
	return fmt.Sprintf("%s rejected by device", e.Command)
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger. Defaults to a nop logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics sets the session metrics collector. A nil collector
// disables metrics.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// WithDialTimeout bounds the initial TCP connect. Zero means the OS
// default. Established calls are never timed out.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.dialTimeout = d }
}

// Client is a request/reply connection to one wib_server.
type Client struct {
	addr        string
	dialTimeout time.Duration
	log         *log.Logger
	metrics     *metrics.Collector

	// mu enforces the one-outstanding-request discipline: a second
	// send before the first reply would corrupt the stream.
	mu   sync.Mutex
	conn net.Conn
	dec  *wire.FrameDecoder
}

// New connects to a wib_server. The address is a bare host or IP; the
// control port is fixed unless the address already carries one.
func New(server string, opts ...Option) (*Client, error) {
	c := &Client{addr: Addr(server), log: log.Nop()}
	for _, opt := range opts {
		opt(c)
	}

	conn, err := (&net.Dialer{Timeout: c.dialTimeout}).Dial("tcp", c.addr)
	if err != nil {
		c.metrics.IncTransportError()
		return nil, fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	c.conn = conn
	c.dec = wire.NewFrameDecoder(conn)

	c.log.Info("connected", zap.String("addr", c.addr))
	return c, nil
}

// Addr normalizes a server address to host:port, appending the default
// control port when none is given.
func Addr(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, strconv.Itoa(DefaultPort))
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// roundTrip sends one enveloped request and decodes the bare reply
// into reply. Any error leaves the connection in an unknown framing
// state for partial reads, so callers treat transport errors as fatal
// for the session.
func (c *Client) roundTrip(typ wire.CommandType, req, reply any) error {
	cmd, err := wire.NewCommand(typ, req)
	if err != nil {
		return err
	}
	payload, err := cmd.Marshal()
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", typ, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := wire.WriteFrame(c.conn, payload); err != nil {
		c.metrics.IncTransportError()
		return fmt.Errorf("send %s: %w", typ, err)
	}

	raw, err := c.dec.ReadFrame()
	if err != nil {
		c.metrics.IncTransportError()
		return fmt.Errorf("receive %s reply: %w", typ, err)
	}

	if err := msgpack.Unmarshal(raw, reply); err != nil {
		return &wire.FrameError{Kind: wire.FrameErrorDecode, Msg: fmt.Sprintf("failed to decode %s reply", typ), Err: err}
	}
	return nil
}

// Configure sends a full board + front-end configuration.
func (c *Client) Configure(req *wire.ConfigureWIB) error {
	c.log.Info("configuring WIB", zap.Bool("cold", req.Cold))

	var status wire.Status
	if err := c.roundTrip(wire.TypeConfigureWIB, req, &status); err != nil {
		return err
	}
	c.metrics.IncConfigure()
	if !status.Success {
		return &ErrCommandFailed{Command: wire.TypeConfigureWIB, Extra: status.Extra}
	}
	return nil
}

// SetPulser starts or stops the calibration pulser.
func (c *Client) SetPulser(on bool) error {
	c.log.Info("toggling pulser", zap.Bool("start", on))

	var status wire.Status
	if err := c.roundTrip(wire.TypePulser, &wire.Pulser{Start: on}, &status); err != nil {
		return err
	}
	c.metrics.IncPulserToggle()
	if !status.Success {
		return &ErrCommandFailed{Command: wire.TypePulser, Extra: status.Extra}
	}
	return nil
}

// Ping checks server liveness.
func (c *Client) Ping() error {
	var status wire.Status
	if err := c.roundTrip(wire.TypePing, &wire.Ping{}, &status); err != nil {
		return err
	}
	if !status.Success {
		return &ErrCommandFailed{Command: wire.TypePing, Extra: status.Extra}
	}
	return nil
}

// Acquire performs one acquisition cycle: read spy buffer 0 with
// server-side deframing and per-channel splitting, then decode the
// payloads with exact shape checks. A device-reported failure or a
// shape mismatch aborts the cycle; no partial capture is ever
// returned.
func (c *Client) Acquire() (*daq.Capture, error) {
	c.metrics.IncAcquisitionStarted()

	req := &wire.ReadDaqSpy{Buf0: true, Buf1: false, Deframe: true, Channels: true}
	var rep wire.DeframedDaqSpy
	if err := c.roundTrip(wire.TypeReadDaqSpy, req, &rep); err != nil {
		c.metrics.IncAcquisitionFailed()
		return nil, err
	}

	if !rep.Success {
		c.metrics.IncAcquisitionFailed()
		return nil, &ErrCommandFailed{Command: wire.TypeReadDaqSpy}
	}

	capture, err := daq.DecodeCapture(&rep)
	if err != nil {
		c.metrics.IncDecodeError()
		c.metrics.IncAcquisitionFailed()
		return nil, fmt.Errorf("decode spy buffer: %w", err)
	}

	c.metrics.AddAcquisitionSucceeded(int64(capture.NumSamples))
	c.log.Info("acquired spy buffer", zap.Int("num_samples", capture.NumSamples))
	return capture, nil
}
