package transcribe

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned when the recording or the recognizer produced no
// usable transcript. The engine treats it as a recoverable turn failure.
var ErrNoSpeech = errors.New("no speech detected")

// SpeechCapture records one utterance from the input device as 16-bit
// little-endian mono PCM plus its sample rate. Device access itself lives
// in the hardware package.
type SpeechCapture interface {
	Record(ctx context.Context) (pcm []byte, sampleRate int, err error)
}

// TranscriptionService converts captured audio into a transcript and the
// detected language code.
type TranscriptionService interface {
	Transcribe(ctx context.Context, pcm []byte, sampleRate int) (transcript, languageCode string, err error)
}
