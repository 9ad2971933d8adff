package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

// encodeFrame builds a raw length-prefixed frame for decoder tests.
func encodeFrame(payload []byte) []byte {
	buf := make([]byte, LengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(buf[:LengthPrefixSize], uint32(len(payload)))
	copy(buf[LengthPrefixSize:], payload)
	return buf
}

func TestWriteFrame_RoundTrip(t *testing.T) {
	cmd, err := NewCommand(TypePulser, &Pulser{Start: true})
	if err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}
	payload, err := cmd.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	decoder := NewFrameDecoder(&buf)
	got, err := decoder.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	decoded, err := UnmarshalCommand(got)
	if err != nil {
		t.Fatalf("UnmarshalCommand failed: %v", err)
	}
	if decoded.Type != TypePulser {
		t.Errorf("Type = %q, want %q", decoded.Type, TypePulser)
	}

	var req Pulser
	if err := decoded.Decode(&req); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !req.Start {
		t.Error("Start = false, want true")
	}
}

func TestFrameDecoder_MultipleFrames(t *testing.T) {
	var stream bytes.Buffer
	for i := 0; i < 3; i++ {
		payload, err := msgpack.Marshal(&Status{Success: i%2 == 0})
		if err != nil {
			t.Fatalf("marshal status %d: %v", i, err)
		}
		stream.Write(encodeFrame(payload))
	}

	decoder := NewFrameDecoder(&stream)
	for i := 0; i < 3; i++ {
		payload, err := decoder.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame %d failed: %v", i, err)
		}
		var st Status
		if err := msgpack.Unmarshal(payload, &st); err != nil {
			t.Fatalf("unmarshal status %d: %v", i, err)
		}
		if st.Success != (i%2 == 0) {
			t.Errorf("frame %d: Success = %v, want %v", i, st.Success, i%2 == 0)
		}
	}

	if _, err := decoder.ReadFrame(); err != io.EOF {
		t.Errorf("after last frame: err = %v, want io.EOF", err)
	}
}

func TestFrameDecoder_PartialFrame(t *testing.T) {
	frame := encodeFrame([]byte("truncated payload"))
	decoder := NewFrameDecoder(bytes.NewReader(frame[:len(frame)-5]))

	_, err := decoder.ReadFrame()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("err = %v, want *FrameError", err)
	}
	if frameErr.Kind != FrameErrorPartial {
		t.Errorf("Kind = %d, want FrameErrorPartial", frameErr.Kind)
	}
	if !IsFatalFrameError(err) {
		t.Error("partial frame should be fatal")
	}
}

func TestFrameDecoder_TooLarge(t *testing.T) {
	var header [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(header[:], MaxPayloadSize+1)

	decoder := NewFrameDecoder(bytes.NewReader(header[:]))
	_, err := decoder.ReadFrame()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("err = %v, want *FrameError", err)
	}
	if frameErr.Kind != FrameErrorTooLarge {
		t.Errorf("Kind = %d, want FrameErrorTooLarge", frameErr.Kind)
	}
}

func TestWriteFrame_RejectsOversizedPayload(t *testing.T) {
	// Reserve the slice without touching the pages.
	payload := make([]byte, MaxPayloadSize+1)
	err := WriteFrame(io.Discard, payload)
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("err = %v, want *FrameError", err)
	}
	if frameErr.Kind != FrameErrorTooLarge {
		t.Errorf("Kind = %d, want FrameErrorTooLarge", frameErr.Kind)
	}
}

func TestUnmarshalCommand_Garbage(t *testing.T) {
	_, err := UnmarshalCommand([]byte{0xc1, 0xff, 0x00})
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("err = %v, want *FrameError", err)
	}
	if frameErr.Kind != FrameErrorDecode {
		t.Errorf("Kind = %d, want FrameErrorDecode", frameErr.Kind)
	}
	if IsFatalFrameError(err) {
		t.Error("decode error should not be fatal")
	}
}
