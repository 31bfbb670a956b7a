package pdm

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const wavHeaderSize = 44

// WriteWAV writes samples as a 16-bit PCM mono RIFF/WAVE file.
func WriteWAV(w io.Writer, samples []int16, sampleRate uint32) error {
	const (
		channels      = 1
		bitsPerSample = 16
		blockAlign    = channels * bitsPerSample / 8
	)
	dataSize := uint32(len(samples)) * blockAlign

	bw := bufio.NewWriter(w)
	hdr := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(wavHeaderSize - 8 + dataSize),
		[4]byte{'W', 'A', 'V', 'E'},

		[4]byte{'f', 'm', 't', ' '},
		uint32(16), // fmt chunk size
		uint16(1),  // PCM
		uint16(channels),
		sampleRate,
		sampleRate * blockAlign, // byte rate
		uint16(blockAlign),
		uint16(bitsPerSample),

		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
	}
	for _, v := range hdr {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return errors.Wrap(err, "wav: header")
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, samples); err != nil {
		return errors.Wrap(err, "wav: samples")
	}
	return errors.Wrap(bw.Flush(), "wav: flush")
}
