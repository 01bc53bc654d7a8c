package hardware

import (
	"context"
	"encoding/binary"
	"errors"
	"math"

	"carevox/utils"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// ErrNoAudio is returned when a recording contains nothing above the
// silence threshold.
var ErrNoAudio = errors.New("no significant audio detected")

const (
	frameSize = 320 // 20ms at 16kHz
	// RMS below this over the whole recording is treated as silence.
	silenceThreshRMS = 0.015
)

// Microphone records one utterance from the default capture device and
// returns it as 16-bit little-endian mono PCM.
type Microphone struct {
	sampleRate int
	seconds    int
}

// NewMicrophone initializes portaudio and prepares the default input
// device. Callers must Close when done.
func NewMicrophone(sampleRate, seconds int) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return &Microphone{sampleRate: sampleRate, seconds: seconds}, nil
}

func (m *Microphone) Close() {
	portaudio.Terminate()
}

// Record captures up to the configured duration of audio. It returns
// ErrNoAudio when the whole recording stays below the silence threshold.
func (m *Microphone) Record(ctx context.Context) ([]byte, int, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, m.sampleRate*m.seconds)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), len(buf), buf)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, 0, err
	}
	defer stream.Stop()

	var peak float64
	maxFrames := m.seconds * m.sampleRate / frameSize
	for i := 0; i < maxFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if err := stream.Read(); err != nil {
			return nil, 0, err
		}
		if rms := frameRMS(buf); rms > peak {
			peak = rms
		}
		out = append(out, buf...)
	}

	if peak < silenceThreshRMS {
		utils.GetLogger().Warn("Recording below silence threshold", zap.Float64("peakRMS", peak))
		return nil, 0, ErrNoAudio
	}
	return float32ToPCM16(out), m.sampleRate, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}

func float32ToPCM16(in []float32) []byte {
	out := make([]byte, len(in)*2)
	for i, x := range in {
		if x > 1 {
			x = 1
		} else if x < -1 {
			x = -1
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(x*32767)))
	}
	return out
}
