package client

import (
	"encoding/binary"
	"errors"
	"net"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/coldbox-daq/wibscope/daq"
	"github.com/coldbox-daq/wibscope/metrics"
	"github.com/coldbox-daq/wibscope/wire"
)

// fakeServer answers framed commands on a loopback listener with
// canned replies, recording every envelope it sees.
type fakeServer struct {
	t        *testing.T
	listener net.Listener

	// replyFor maps command type to the reply sent back.
	replyFor func(cmd *wire.Command) any

	commands chan *wire.Command
}

func newFakeServer(t *testing.T, replyFor func(cmd *wire.Command) any) *fakeServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &fakeServer{
		t:        t,
		listener: listener,
		replyFor: replyFor,
		commands: make(chan *wire.Command, 16),
	}
	t.Cleanup(func() { _ = listener.Close() })

	go s.serve()
	return s
}

func (s *fakeServer) addr() string {
	return s.listener.Addr().String()
}

func (s *fakeServer) serve() {
	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	dec := wire.NewFrameDecoder(conn)
	for {
		payload, err := dec.ReadFrame()
		if err != nil {
			return
		}
		cmd, err := wire.UnmarshalCommand(payload)
		if err != nil {
			return
		}
		s.commands <- cmd

		reply, err := msgpack.Marshal(s.replyFor(cmd))
		if err != nil {
			return
		}
		if err := wire.WriteFrame(conn, reply); err != nil {
			return
		}
	}
}

// spyReply builds a well-formed deframed reply of n timesteps with
// every sample set to fill.
func spyReply(n int, fill uint16) *wire.DeframedDaqSpy {
	samples := make([]byte, daq.NumFEMBs*daq.NumChannels*n*2)
	for i := 0; i < len(samples); i += 2 {
		binary.LittleEndian.PutUint16(samples[i:], fill)
	}
	timestamps := make([]byte, daq.NumTimestampRows*n*8)
	for i := 0; i < daq.NumTimestampRows*n; i++ {
		binary.LittleEndian.PutUint64(timestamps[i*8:], uint64(i))
	}
	return &wire.DeframedDaqSpy{
		Success:            true,
		NumSamples:         n,
		DeframedSamples:    samples,
		DeframedTimestamps: timestamps,
	}
}

func statusOK(*wire.Command) any {
	return &wire.Status{Success: true}
}

func TestClient_Configure(t *testing.T) {
	server := newFakeServer(t, statusOK)

	c, err := New(server.addr())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	req := &wire.ConfigureWIB{
		Cold:  true,
		FEMBs: make([]wire.FEMBConf, daq.NumFEMBs),
	}
	req.FEMBs[0] = wire.FEMBConf{Enabled: true, Gain: 2, PeakTime: 3, StrobeSkip: 255}

	if err := c.Configure(req); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	cmd := <-server.commands
	if cmd.Type != wire.TypeConfigureWIB {
		t.Fatalf("command type = %q, want %q", cmd.Type, wire.TypeConfigureWIB)
	}

	var sent wire.ConfigureWIB
	if err := cmd.Decode(&sent); err != nil {
		t.Fatalf("decode sent payload: %v", err)
	}
	if !sent.Cold {
		t.Error("Cold not carried on the wire")
	}
	if len(sent.FEMBs) != daq.NumFEMBs {
		t.Fatalf("len(FEMBs) = %d, want %d", len(sent.FEMBs), daq.NumFEMBs)
	}
	if !sent.FEMBs[0].Enabled || sent.FEMBs[0].Gain != 2 || sent.FEMBs[0].StrobeSkip != 255 {
		t.Errorf("FEMBs[0] = %+v, field values lost", sent.FEMBs[0])
	}
	if sent.FEMBs[1].Enabled {
		t.Error("FEMBs[1].Enabled = true, want false")
	}
}

func TestClient_ConfigureRejected(t *testing.T) {
	server := newFakeServer(t, func(*wire.Command) any {
		return &wire.Status{Success: false, Extra: "fembs powered down"}
	})

	c, err := New(server.addr())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	err = c.Configure(&wire.ConfigureWIB{FEMBs: make([]wire.FEMBConf, daq.NumFEMBs)})
	var cmdErr *ErrCommandFailed
	if !errors.As(err, &cmdErr) {
		t.Fatalf("err = %v, want *ErrCommandFailed", err)
	}
	if cmdErr.Extra != "fembs powered down" {
		t.Errorf("Extra = %q", cmdErr.Extra)
	}
}

func TestClient_Acquire(t *testing.T) {
	const n = 32
	server := newFakeServer(t, func(cmd *wire.Command) any {
		if cmd.Type != wire.TypeReadDaqSpy {
			return &wire.Status{Success: true}
		}
		return spyReply(n, 777)
	})

	coll := metrics.NewCollector("test")
	c, err := New(server.addr(), WithMetrics(coll))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	capture, err := c.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if capture.NumSamples != n {
		t.Errorf("NumSamples = %d, want %d", capture.NumSamples, n)
	}
	if got := capture.Channel(0, 0)[0]; got != 777 {
		t.Errorf("sample = %d, want 777", got)
	}

	cmd := <-server.commands
	var req wire.ReadDaqSpy
	if err := cmd.Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if !req.Buf0 || req.Buf1 || !req.Deframe || !req.Channels {
		t.Errorf("ReadDaqSpy flags = %+v, want buf0+deframe+channels", req)
	}

	snap := coll.Snapshot()
	if snap.AcquisitionsSucceeded != 1 || snap.SamplesRead != n {
		t.Errorf("metrics = %+v", snap)
	}
}

func TestClient_AcquireDeviceFailure(t *testing.T) {
	server := newFakeServer(t, func(*wire.Command) any {
		return &wire.DeframedDaqSpy{Success: false}
	})

	coll := metrics.NewCollector("test")
	c, err := New(server.addr(), WithMetrics(coll))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	capture, err := c.Acquire()
	if capture != nil {
		t.Error("capture returned despite device failure")
	}
	var cmdErr *ErrCommandFailed
	if !errors.As(err, &cmdErr) {
		t.Fatalf("err = %v, want *ErrCommandFailed", err)
	}
	if snap := coll.Snapshot(); snap.AcquisitionsFailed != 1 {
		t.Errorf("AcquisitionsFailed = %d, want 1", snap.AcquisitionsFailed)
	}
}

func TestClient_AcquireShapeMismatch(t *testing.T) {
	server := newFakeServer(t, func(*wire.Command) any {
		rep := spyReply(16, 1)
		rep.DeframedSamples = rep.DeframedSamples[:100] // not 4*128*16*2
		return rep
	})

	coll := metrics.NewCollector("test")
	c, err := New(server.addr(), WithMetrics(coll))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	if _, err := c.Acquire(); err == nil {
		t.Fatal("expected decode error")
	}
	if snap := coll.Snapshot(); snap.DecodeErrors != 1 {
		t.Errorf("DecodeErrors = %d, want 1", snap.DecodeErrors)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		// Hang up mid-conversation without replying.
		conn.Close()
	}()
	t.Cleanup(func() { _ = listener.Close() })

	c, err := New(listener.Addr().String())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	if err := c.Ping(); err == nil {
		t.Fatal("expected transport error after hangup")
	}
}

func TestAddr(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"127.0.0.1", "127.0.0.1:1234"},
		{"wib05", "wib05:1234"},
		{"wib05:9000", "wib05:9000"},
	} {
		if got := Addr(tc.in); got != tc.want {
			t.Errorf("Addr(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
