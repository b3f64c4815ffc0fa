package media

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"cadence/internal/analysis"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// WAVDecoder decodes RIFF/WAVE files containing PCM (8/16/24-bit) or 32-bit
// float samples. It is the built-in audio decode primitive for the CLI path;
// other containers go through the ffmpeg-backed decoder.
type WAVDecoder struct{}

func (WAVDecoder) DecodeAudio(ctx context.Context, path string) (*SampleBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, analysis.Wrap(analysis.ErrDecode, "media", "read audio", path, err)
	}
	buf, err := DecodeWAVBytes(data)
	if err != nil {
		return nil, analysis.Wrap(analysis.ErrDecode, "media", "decode wav", path, err)
	}
	return buf, nil
}

// DecodeWAVBytes parses an in-memory RIFF/WAVE payload.
func DecodeWAVBytes(data []byte) (*SampleBuffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE payload")
	}

	var (
		format        uint16
		channels      int
		sampleRate    int
		bitsPerSample int
		sampleData    []byte
		haveFormat    bool
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if chunkSize < 0 || body+chunkSize > len(data) {
			return nil, fmt.Errorf("chunk %q overruns payload", chunkID)
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("fmt chunk truncated")
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFormat = true
		case "data":
			sampleData = data[body : body+chunkSize]
		}
		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}

	if !haveFormat {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if sampleData == nil {
		return nil, fmt.Errorf("missing data chunk")
	}
	if channels < 1 || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid format: %d channels at %d Hz", channels, sampleRate)
	}

	switch {
	case format == wavFormatPCM && (bitsPerSample == 8 || bitsPerSample == 16 || bitsPerSample == 24):
	case format == wavFormatIEEEFloat && bitsPerSample == 32:
	default:
		return nil, fmt.Errorf("unsupported format %d with %d bits per sample", format, bitsPerSample)
	}

	bytesPerSample := bitsPerSample / 8
	frameSize := bytesPerSample * channels
	frames := len(sampleData) / frameSize

	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}

	for frame := 0; frame < frames; frame++ {
		base := frame * frameSize
		for c := 0; c < channels; c++ {
			pos := base + c*bytesPerSample
			out[c][frame] = decodeSample(sampleData[pos:pos+bytesPerSample], format, bitsPerSample)
		}
	}

	return &SampleBuffer{Channels: out, SampleRate: sampleRate}, nil
}

func decodeSample(raw []byte, format uint16, bits int) float64 {
	if format == wavFormatIEEEFloat {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	}
	switch bits {
	case 8:
		// 8-bit PCM is unsigned.
		return (float64(raw[0]) - 128) / 128
	case 16:
		return float64(int16(binary.LittleEndian.Uint16(raw))) / 32768
	default: // 24
		v := int32(raw[0]) | int32(raw[1])<<8 | int32(raw[2])<<16
		if v&0x800000 != 0 {
			v -= 0x1000000
		}
		return float64(v) / 8388608
	}
}
