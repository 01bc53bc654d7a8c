package speech

import "context"

// Synthesizer turns response text into audible output. The boolean result
// reflects whichever tier actually produced sound; false means both the
// remote service and the local engine failed.
type Synthesizer interface {
	Speak(ctx context.Context, text, languageCode string) bool
	// SpeakEmergency delivers urgent responses directly, skipping the
	// politeness framing applied to regular responses.
	SpeakEmergency(ctx context.Context, text string) bool
}

// AudioSink plays a synthesized audio payload through the kiosk speaker.
type AudioSink interface {
	Play(wavData []byte) error
}

// LocalEngine is the offline synthesis tier, normally espeak.
type LocalEngine interface {
	Say(ctx context.Context, text string) error
}
