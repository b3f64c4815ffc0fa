package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"os/exec"
	"strconv"
	"strings"

	"cadence/internal/analysis"
)

// FFmpegDecoder implements the audio and video decode collaborators by
// shelling out to ffmpeg/ffprobe. Audio is transcoded to an in-memory WAV
// and handed to the WAV parser; video frames are extracted one PNG at a time.
type FFmpegDecoder struct {
	FFmpegBin  string
	FFprobeBin string
}

// NewFFmpegDecoder builds a decoder using binaries found on PATH unless
// overridden.
func NewFFmpegDecoder() *FFmpegDecoder {
	return &FFmpegDecoder{FFmpegBin: "ffmpeg", FFprobeBin: "ffprobe"}
}

func (d *FFmpegDecoder) DecodeAudio(ctx context.Context, path string) (*SampleBuffer, error) {
	args := []string{
		"-hide_banner", "-nostats", "-v", "error",
		"-i", path,
		"-vn", "-acodec", "pcm_s16le", "-f", "wav", "-",
	}
	cmd := exec.CommandContext(ctx, d.FFmpegBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, analysis.Wrap(analysis.ErrDecode, "media", "ffmpeg decode audio",
			firstLine(stderr.String()), err)
	}
	buf, err := DecodeWAVBytes(stdout.Bytes())
	if err != nil {
		return nil, analysis.Wrap(analysis.ErrDecode, "media", "parse transcoded wav", path, err)
	}
	return buf, nil
}

func (d *FFmpegDecoder) OpenVideo(ctx context.Context, path string) (FrameSource, error) {
	duration, err := d.probeDuration(ctx, path)
	if err != nil {
		return nil, err
	}
	return &ffmpegFrameSource{decoder: d, path: path, duration: duration}, nil
}

func (d *FFmpegDecoder) probeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{"-v", "error", "-show_format", "-of", "json", path}
	out, err := exec.CommandContext(ctx, d.FFprobeBin, args...).Output()
	if err != nil {
		return 0, analysis.Wrap(analysis.ErrDecode, "media", "ffprobe", path, err)
	}
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, analysis.Wrap(analysis.ErrDecode, "media", "parse ffprobe output", path, err)
	}
	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || duration <= 0 {
		return 0, analysis.Wrap(analysis.ErrDecode, "media", "ffprobe",
			fmt.Sprintf("no usable duration for %s", path), err)
	}
	return duration, nil
}

type ffmpegFrameSource struct {
	decoder  *FFmpegDecoder
	path     string
	duration float64
}

func (s *ffmpegFrameSource) Duration() float64 { return s.duration }

func (s *ffmpegFrameSource) FrameAt(ctx context.Context, seconds float64) (*Frame, error) {
	if seconds < 0 {
		seconds = 0
	}
	args := []string{
		"-hide_banner", "-nostats", "-v", "error",
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", s.path,
		"-frames:v", "1", "-c:v", "png", "-f", "image2", "-",
	}
	cmd := exec.CommandContext(ctx, s.decoder.FFmpegBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, analysis.Wrap(analysis.ErrDecode, "media", "ffmpeg extract frame",
			firstLine(stderr.String()), err)
	}
	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, analysis.Wrap(analysis.ErrDecode, "media", "decode extracted frame", s.path, err)
	}
	return FrameFromImage(img), nil
}

func (s *ffmpegFrameSource) Close() error { return nil }

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
