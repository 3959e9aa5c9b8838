package audio

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/youpy/go-wav"
	"github.com/zaf/g711"
)

// FileSink collects inbound PCMU audio and writes it to a WAV file when the
// connection is torn down. It satisfies the realtime audio sink contract:
// Attach may be called once per connection and Clear flushes and forgets.
type FileSink struct {
	path string

	mu   sync.Mutex
	pcm  []byte
	done chan struct{}
}

// NewFileSink buffers received audio for path. An empty path disables
// writing; Clear still resets the buffer.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Attach starts draining the remote track into the sink's buffer.
func (s *FileSink) Attach(track *webrtc.TrackRemote) {
	s.mu.Lock()
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	go func() {
		var last *rtp.Packet
		for {
			packet, _, err := track.ReadRTP()
			if err != nil {
				return
			}
			select {
			case <-done:
				return
			default:
			}

			if last != nil && packet.SequenceNumber != last.SequenceNumber+1 {
				log.Printf("[audio] sequence gap: %d -> %d", last.SequenceNumber, packet.SequenceNumber)
			}
			last = packet

			lpcm := g711.DecodeUlaw(packet.Payload)
			s.mu.Lock()
			s.pcm = append(s.pcm, lpcm...)
			s.mu.Unlock()
		}
	}()
}

// Clear stops draining, writes any buffered audio to disk and resets the
// sink. Safe to call repeatedly and with nothing buffered.
func (s *FileSink) Clear() {
	s.mu.Lock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	pcm := s.pcm
	s.pcm = nil
	s.mu.Unlock()

	if len(pcm) == 0 || s.path == "" {
		return
	}
	if err := writeWAV(s.path, pcm); err != nil {
		log.Printf("[audio] write sink file: %v", err)
	}
}

func writeWAV(path string, lpcm []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer file.Close()

	numSamples := uint32(len(lpcm) / 2)
	writer := wav.NewWriter(file, numSamples, 1, sampleRate, 16)

	samples := make([]wav.Sample, numSamples)
	for i := range samples {
		v := int16(lpcm[2*i]) | int16(lpcm[2*i+1])<<8
		samples[i].Values[0] = int(v)
	}
	return writer.WriteSamples(samples)
}
