// Package wav merges independently synthesized waveform fragments into one
// structurally valid WAV container.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the canonical PCM WAV preamble length: RIFF descriptor,
// fmt chunk, and data chunk header.
const HeaderSize = 44

// ErrEmptyInput is returned when there are no buffers to combine.
var ErrEmptyInput = errors.New("no audio buffers to combine")

const (
	riffSizeOffset = 4
	dataSizeOffset = 40
)

// Combine concatenates ordered WAV buffers into a single container. The
// first buffer contributes its header and payload in full; every subsequent
// buffer contributes only its payload. The combined header's RIFF size and
// data size fields are rewritten to the new totals — without that patch the
// container declares the first fragment's length and some players reject or
// truncate it.
func Combine(buffers [][]byte) ([]byte, error) {
	if len(buffers) == 0 {
		return nil, ErrEmptyInput
	}
	for i, buf := range buffers {
		if err := validate(buf); err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
	}
	if len(buffers) == 1 {
		return buffers[0], nil
	}

	total := len(buffers[0])
	for _, buf := range buffers[1:] {
		total += len(buf) - HeaderSize
	}

	combined := make([]byte, 0, total)
	combined = append(combined, buffers[0]...)
	for _, buf := range buffers[1:] {
		combined = append(combined, buf[HeaderSize:]...)
	}

	binary.LittleEndian.PutUint32(combined[riffSizeOffset:], uint32(len(combined)-8))
	binary.LittleEndian.PutUint32(combined[dataSizeOffset:], uint32(len(combined)-HeaderSize))
	return combined, nil
}

func validate(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("waveform buffer too short: %d bytes", len(buf))
	}
	if string(buf[0:4]) != "RIFF" || string(buf[8:12]) != "WAVE" {
		return errors.New("not a RIFF/WAVE container")
	}
	return nil
}
