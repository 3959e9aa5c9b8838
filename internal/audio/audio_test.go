package audio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/youpy/go-wav"
)

func writeTestWAV(t *testing.T, path string, numChannels uint16, rate uint32, frames int) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test wav: %v", err)
	}
	defer file.Close()

	writer := wav.NewWriter(file, uint32(frames), numChannels, rate, 16)
	samples := make([]wav.Sample, frames)
	for i := range samples {
		samples[i].Values[0] = i % 100
		if numChannels > 1 {
			samples[i].Values[1] = i % 100
		}
	}
	if err := writer.WriteSamples(samples); err != nil {
		t.Fatalf("write test wav: %v", err)
	}
}

func TestNewFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.wav")
	writeTestWAV(t, path, 1, sampleRate, 320)

	source, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource err: %v", err)
	}
	if source.Track() == nil {
		t.Fatal("source has no track")
	}
}

func TestNewFileSourceRejectsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeTestWAV(t, path, 2, 44100, 32)

	if _, err := NewFileSource(path); err == nil {
		t.Fatal("expected error for non 8 kHz mono input")
	}
}

func TestFileSinkClearWritesBuffered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	sink := NewFileSink(path)

	// Simulate decoded audio arriving without a live track.
	sink.pcm = make([]byte, 320)
	sink.Clear()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("sink file missing: %v", err)
	}
	defer file.Close()

	format, err := wav.NewReader(file).Format()
	if err != nil {
		t.Fatalf("read sink wav: %v", err)
	}
	if format.NumChannels != 1 || format.SampleRate != sampleRate {
		t.Fatalf("unexpected sink format: %+v", format)
	}
}

func TestFileSinkClearIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	sink := NewFileSink(path)

	sink.Clear()
	sink.Clear()

	if _, err := os.Stat(path); err == nil {
		t.Fatal("empty sink should not write a file")
	}
}

func TestFileSourceStreamReadsWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.wav")
	writeTestWAV(t, path, 1, sampleRate, 480)

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open test wav: %v", err)
	}
	defer file.Close()

	reader := wav.NewReader(file)
	total := 0
	for {
		samples, err := reader.ReadSamples(samplesPerFrame)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read samples: %v", err)
		}
		total += len(samples)
	}
	if total != 480 {
		t.Fatalf("read %d samples, want 480", total)
	}
}
