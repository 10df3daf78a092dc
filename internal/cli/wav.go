package cli

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/journal"
)

// readWAV loads a 16-bit PCM WAV file and converts it to float64 samples in
// [-1, 1]. Multi-channel recordings are averaged down to mono. Only plain
// PCM is supported; compressed formats are rejected with ErrAudio.
func readWAV(path string) (*journal.AudioClip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading audio file: %w", err)
	}
	return decodeWAV(data)
}

func decodeWAV(data []byte) (*journal.AudioClip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a WAV file", common.ErrAudio)
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		pcm           []byte
	)

	// walk the RIFF chunks; fmt must precede data
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("%w: truncated WAV chunk %q", common.ErrAudio, id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: malformed fmt chunk", common.ErrAudio)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 { // PCM
				return nil, fmt.Errorf("%w: unsupported WAV format %d", common.ErrAudio, format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+size]
		}

		// chunks are word-aligned
		off = body + size + size%2
	}

	if sampleRate == 0 || pcm == nil {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", common.ErrAudio)
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", common.ErrAudio, bitsPerSample)
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channels", common.ErrAudio)
	}

	frameSize := 2 * channels
	frames := len(pcm) / frameSize
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			v := int16(binary.LittleEndian.Uint16(pcm[i*frameSize+2*ch:]))
			sum += float64(v) / 32768
		}
		samples[i] = sum / float64(channels)
	}

	return &journal.AudioClip{Samples: samples, SampleRate: sampleRate}, nil
}
