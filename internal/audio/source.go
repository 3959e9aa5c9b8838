package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/youpy/go-wav"
	"github.com/zaf/g711"
)

const (
	sampleRate      = 8000
	frameDuration   = 20 * time.Millisecond
	samplesPerFrame = 160
)

// FileSource streams a WAV file to a local PCMU track, paced at real time.
// The file must be 8 kHz mono; resampling is out of scope for the test
// tooling this feeds.
type FileSource struct {
	path  string
	track *webrtc.TrackLocalStaticSample
}

// NewFileSource validates the WAV header at path and prepares a local track.
func NewFileSource(path string) (*FileSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	format, err := wav.NewReader(file).Format()
	if err != nil {
		return nil, fmt.Errorf("read wav header: %w", err)
	}
	if format.NumChannels != 1 || format.SampleRate != sampleRate {
		return nil, fmt.Errorf("audio file must be %d Hz mono, got %d Hz %d channel(s)",
			sampleRate, format.SampleRate, format.NumChannels)
	}

	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypePCMU, ClockRate: sampleRate, Channels: 1},
		"audio", "rehearse-file-source",
	)
	if err != nil {
		return nil, fmt.Errorf("create local track: %w", err)
	}

	return &FileSource{path: path, track: track}, nil
}

// Track returns the local track to add to a peer connection.
func (s *FileSource) Track() webrtc.TrackLocal {
	return s.track
}

// Stream reads the file frame by frame, encodes each frame as PCMU and
// writes it to the track every 20 ms. It returns nil at end of file.
func (s *FileSource) Stream(ctx context.Context) error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	reader := wav.NewReader(file)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for {
		samples, err := reader.ReadSamples(samplesPerFrame)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read wav samples: %w", err)
		}

		lpcm := make([]byte, len(samples)*2)
		for i, sample := range samples {
			v := int16(sample.Values[0])
			lpcm[2*i] = byte(v)
			lpcm[2*i+1] = byte(v >> 8)
		}

		frame := media.Sample{Data: g711.EncodeUlaw(lpcm), Duration: frameDuration}
		if err := s.track.WriteSample(frame); err != nil {
			return fmt.Errorf("write audio frame: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
