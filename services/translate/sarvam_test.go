package translate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carevox/utils"
)

func newTestTranslator(url string) *SarvamTranslator {
	return &SarvamTranslator{
		apiKey:     "test-key",
		url:        url,
		httpClient: &http.Client{},
		policy:     utils.RetryPolicy{MaxRetries: 1, Delay: 0, Timeout: time.Second},
	}
}

func TestNewSarvamTranslatorRequiresKey(t *testing.T) {
	if _, err := NewSarvamTranslator(""); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewSarvamTranslator("key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Identical source and target must return immediately without any network
// call.
func TestTranslateIdentity(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	tr := newTestTranslator(srv.URL)
	if got := tr.Translate("Hello", "en-IN", "en-IN"); got != "Hello" {
		t.Errorf("identity translation = %q", got)
	}
	if calls != 0 {
		t.Errorf("identity translation made %d network calls", calls)
	}
}

func TestTranslateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-subscription-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.TargetLanguageCode != "hi-IN" {
			t.Errorf("target language = %q", req.TargetLanguageCode)
		}
		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "नमस्ते"})
	}))
	defer srv.Close()

	tr := newTestTranslator(srv.URL)
	if got := tr.Translate("Hello", "en-IN", "hi-IN"); got != "नमस्ते" {
		t.Errorf("translation = %q, want नमस्ते", got)
	}
}

// A failing service must never lose the response: the original English
// text passes through unchanged.
func TestTranslatePassthroughOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "empty translation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(translateResponse{TranslatedText: "  "})
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			tr := newTestTranslator(srv.URL)
			if got := tr.Translate("Please wait for your turn.", "en-IN", "hi-IN"); got != "Please wait for your turn." {
				t.Errorf("passthrough = %q, want original text", got)
			}
		})
	}
}

func TestTranslateRetriesBeforeGivingUp(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			http.Error(w, "transient", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "बिल्कुल"})
	}))
	defer srv.Close()

	tr := newTestTranslator(srv.URL)
	if got := tr.Translate("Certainly", "en-IN", "hi-IN"); got != "बिल्कुल" {
		t.Errorf("translation after retry = %q", got)
	}
	if calls != 2 {
		t.Errorf("made %d calls, want 2", calls)
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("hi-IN") {
		t.Error("hi-IN not supported")
	}
	if IsSupported("fr-FR") {
		t.Error("fr-FR unexpectedly supported")
	}
}
