package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteWAV writes a minimal valid PCM WAV file with the requested payload
// size to path, creating parent directories as needed.
func WriteWAV(t testing.TB, path string, payloadSize int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, BuildWAV(payloadSize), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// BuildWAV returns an in-memory canonical 44-byte-header PCM WAV buffer with
// a payload of the requested size filled with a repeating pattern.
func BuildWAV(payloadSize int) []byte {
	if payloadSize < 0 {
		payloadSize = 0
	}
	buf := make([]byte, 44+payloadSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+payloadSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(buf[24:28], 24000)
	binary.LittleEndian.PutUint32(buf[28:32], 48000)
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(payloadSize))
	for i := 0; i < payloadSize; i++ {
		buf[44+i] = byte(i % 251)
	}
	return buf
}
