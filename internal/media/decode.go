package media

import (
	"context"
	"path/filepath"
	"strings"
)

// AudioDecoder is the raw audio decode collaborator: bytes on disk in,
// sample buffer out. Corrupt or unsupported input fails with a decode error.
type AudioDecoder interface {
	DecodeAudio(ctx context.Context, path string) (*SampleBuffer, error)
}

// FrameSource is a seekable source of decoded frames for one video clip.
type FrameSource interface {
	// Duration reports the clip length in seconds.
	Duration() float64
	// FrameAt decodes the frame nearest the given timestamp.
	FrameAt(ctx context.Context, seconds float64) (*Frame, error)
	Close() error
}

// VideoOpener is the raw video decode collaborator: it turns a file into a
// seekable frame source.
type VideoOpener interface {
	OpenVideo(ctx context.Context, path string) (FrameSource, error)
}

// NewAudioDecoder returns the default audio decode path: WAV files are parsed
// natively, everything else is transcoded through ffmpeg.
func NewAudioDecoder() AudioDecoder {
	return autoAudioDecoder{ffmpeg: NewFFmpegDecoder()}
}

type autoAudioDecoder struct {
	ffmpeg *FFmpegDecoder
}

func (d autoAudioDecoder) DecodeAudio(ctx context.Context, path string) (*SampleBuffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return WAVDecoder{}.DecodeAudio(ctx, path)
	}
	return d.ffmpeg.DecodeAudio(ctx, path)
}
