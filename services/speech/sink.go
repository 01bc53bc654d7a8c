package speech

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// SpeakerSink plays WAV payloads through the default output device. The
// speaker is initialized once, with the sample rate of the first payload;
// later payloads are resampled to it.
type SpeakerSink struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
}

func NewSpeakerSink() *SpeakerSink {
	return &SpeakerSink{}
}

func (s *SpeakerSink) Play(wavData []byte) error {
	if len(wavData) == 0 {
		return fmt.Errorf("empty audio payload")
	}

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(wavData)))
	if err != nil {
		return fmt.Errorf("decode wav payload: %w", err)
	}
	defer streamer.Close()

	s.mu.Lock()
	if s.sampleRate == 0 {
		s.sampleRate = format.SampleRate
		if err := speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/10)); err != nil {
			s.sampleRate = 0
			s.mu.Unlock()
			return fmt.Errorf("init speaker: %w", err)
		}
	}
	rate := s.sampleRate
	s.mu.Unlock()

	var stream beep.Streamer = streamer
	if format.SampleRate != rate {
		stream = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}
