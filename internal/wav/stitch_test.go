package wav_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"castpipe/internal/testsupport"
	"castpipe/internal/wav"
)

func TestCombineEmptyInputFails(t *testing.T) {
	if _, err := wav.Combine(nil); !errors.Is(err, wav.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestCombineSingleBufferUnchanged(t *testing.T) {
	buf := testsupport.BuildWAV(128)
	out, err := wav.Combine([][]byte{buf})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !bytes.Equal(out, buf) {
		t.Fatal("single buffer must be returned unchanged")
	}
}

func TestCombineTwoBuffers(t *testing.T) {
	a := testsupport.BuildWAV(100)
	b := testsupport.BuildWAV(100)
	out, err := wav.Combine([][]byte{a, b})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	// N + (N - M) for equal N-byte buffers with M-byte headers.
	wantLen := len(a) + len(b) - wav.HeaderSize
	if len(out) != wantLen {
		t.Fatalf("combined length = %d, expected %d", len(out), wantLen)
	}

	riffSize := binary.LittleEndian.Uint32(out[4:8])
	if int(riffSize) != len(out)-8 {
		t.Fatalf("RIFF size field = %d, expected %d", riffSize, len(out)-8)
	}
	dataSize := binary.LittleEndian.Uint32(out[40:44])
	if int(dataSize) != len(out)-wav.HeaderSize {
		t.Fatalf("data size field = %d, expected %d", dataSize, len(out)-wav.HeaderSize)
	}

	// Payloads concatenated in order, second header dropped.
	if !bytes.Equal(out[44:144], a[44:]) {
		t.Fatal("first payload corrupted")
	}
	if !bytes.Equal(out[144:], b[44:]) {
		t.Fatal("second payload corrupted")
	}
}

func TestCombinePreservesOrderAcrossMany(t *testing.T) {
	buffers := make([][]byte, 5)
	for i := range buffers {
		buf := testsupport.BuildWAV(10)
		for j := 0; j < 10; j++ {
			buf[44+j] = byte(i)
		}
		buffers[i] = buf
	}
	out, err := wav.Combine(buffers)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	payload := out[44:]
	if len(payload) != 50 {
		t.Fatalf("expected 50 payload bytes, got %d", len(payload))
	}
	for i := 0; i < 5; i++ {
		for j := 0; j < 10; j++ {
			if payload[i*10+j] != byte(i) {
				t.Fatalf("payload order broken at fragment %d offset %d", i, j)
			}
		}
	}
}

func TestCombineRejectsGarbage(t *testing.T) {
	if _, err := wav.Combine([][]byte{[]byte("short")}); err == nil {
		t.Fatal("expected error for truncated buffer")
	}
	bad := testsupport.BuildWAV(10)
	copy(bad[0:4], "JUNK")
	if _, err := wav.Combine([][]byte{bad}); err == nil {
		t.Fatal("expected error for non-RIFF buffer")
	}
}
