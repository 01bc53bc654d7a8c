package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carevox/utils"
)

type recordingSink struct {
	played [][]byte
	err    error
}

func (s *recordingSink) Play(wavData []byte) error {
	s.played = append(s.played, wavData)
	return s.err
}

type recordingEngine struct {
	spoken []string
	err    error
}

func (e *recordingEngine) Say(_ context.Context, text string) error {
	e.spoken = append(e.spoken, text)
	return e.err
}

func newTestSynthesizer(url string, sink AudioSink, local LocalEngine) *SarvamSynthesizer {
	return &SarvamSynthesizer{
		apiKey:          "test-key",
		url:             url,
		httpClient:      &http.Client{},
		policy:          utils.RetryPolicy{MaxRetries: 1, Delay: 0, Timeout: time.Second},
		sink:            sink,
		local:           local,
		defaultLanguage: "en-IN",
	}
}

func audioServer(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ttsResponse{
			Audios: []string{base64.StdEncoding.EncodeToString(payload)},
		})
	}))
}

func failingServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
}

func TestSpeakRemoteSuccess(t *testing.T) {
	audio := []byte("RIFF-fake-wav")
	srv := audioServer(t, audio)
	defer srv.Close()

	sink := &recordingSink{}
	local := &recordingEngine{}
	s := newTestSynthesizer(srv.URL, sink, local)

	if !s.Speak(context.Background(), "Hello! Welcome to our hospital.", "en-IN") {
		t.Fatal("Speak returned false on a healthy remote service")
	}
	if len(sink.played) != 1 || string(sink.played[0]) != string(audio) {
		t.Errorf("sink received %d payloads", len(sink.played))
	}
	if len(local.spoken) != 0 {
		t.Errorf("local engine used despite remote success: %v", local.spoken)
	}
}

// A dead remote service must still produce audible output through the
// local engine.
func TestSpeakFallsBackToLocal(t *testing.T) {
	srv := failingServer()
	defer srv.Close()

	local := &recordingEngine{}
	s := newTestSynthesizer(srv.URL, &recordingSink{}, local)

	if !s.Speak(context.Background(), "Hello! Your queue number is 5.", "en-IN") {
		t.Fatal("Speak returned false while local engine works")
	}
	if len(local.spoken) != 1 {
		t.Fatalf("local engine spoke %d times, want 1", len(local.spoken))
	}
}

func TestSpeakLocalAnnouncesLostTranslation(t *testing.T) {
	srv := failingServer()
	defer srv.Close()

	local := &recordingEngine{}
	s := newTestSynthesizer(srv.URL, &recordingSink{}, local)

	if !s.Speak(context.Background(), "Please proceed to the pharmacy.", "hi-IN") {
		t.Fatal("Speak returned false")
	}
	if len(local.spoken) != 1 {
		t.Fatalf("local engine spoke %d times", len(local.spoken))
	}
	if got := local.spoken[0]; got != "In Hindi: Please proceed to the pharmacy." {
		t.Errorf("local text = %q", got)
	}
}

func TestSpeakFailsOnlyWhenBothTiersFail(t *testing.T) {
	srv := failingServer()
	defer srv.Close()

	local := &recordingEngine{err: errors.New("espeak broken")}
	s := newTestSynthesizer(srv.URL, &recordingSink{}, local)

	if s.Speak(context.Background(), "Hello there.", "en-IN") {
		t.Fatal("Speak returned true with both tiers failing")
	}
}

func TestSpeakUnsupportedLanguageUsesLocalDirectly(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	local := &recordingEngine{}
	s := newTestSynthesizer(srv.URL, &recordingSink{}, local)

	if !s.Speak(context.Background(), "Hello there.", "fr-FR") {
		t.Fatal("Speak returned false")
	}
	if calls != 0 {
		t.Errorf("remote service called %d times for an unsupported language", calls)
	}
	if len(local.spoken) != 1 {
		t.Errorf("local engine spoke %d times", len(local.spoken))
	}
}

func TestSpeakPlaybackFailureFallsBack(t *testing.T) {
	srv := audioServer(t, []byte("RIFF"))
	defer srv.Close()

	local := &recordingEngine{}
	s := newTestSynthesizer(srv.URL, &recordingSink{err: errors.New("no speaker")}, local)

	if !s.Speak(context.Background(), "Hello there.", "en-IN") {
		t.Fatal("Speak returned false while local engine works")
	}
	if len(local.spoken) != 1 {
		t.Errorf("local engine spoke %d times after playback failure", len(local.spoken))
	}
}

func TestSpeakEmergencySkipsPoliteness(t *testing.T) {
	srv := failingServer()
	defer srv.Close()

	local := &recordingEngine{}
	s := newTestSynthesizer(srv.URL, &recordingSink{}, local)

	text := "This is an emergency situation. Proceed to Room 101."
	if !s.SpeakEmergency(context.Background(), text) {
		t.Fatal("SpeakEmergency returned false")
	}
	if got := local.spoken[0]; got != text {
		t.Errorf("emergency text = %q, want unmodified input", got)
	}
}

func TestPrepare(t *testing.T) {
	s := &SarvamSynthesizer{defaultLanguage: "en-IN"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain statement gets framed", "Your queue number is 5.", "Please note: Your queue number is 5."},
		{"polite starter untouched", "Hello! Welcome.", "Hello! Welcome."},
		{"please untouched", "Please wait here.", "Please wait here."},
		{"apology untouched", "I apologize for the delay.", "I apologize for the delay."},
		{"emergency untouched", "This is an emergency situation.", "This is an emergency situation."},
		{"sorry untouched", "I'm sorry, I didn't understand.", "I'm sorry, I didn't understand."},
		{"whitespace trimmed", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.prepare(tt.in); got != tt.want {
				t.Errorf("prepare(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
