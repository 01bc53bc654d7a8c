package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"carevox/services/translate"
	"carevox/utils"

	"go.uber.org/zap"
)

const defaultTTSURL = "https://api.sarvam.ai/text-to-speech"

type ttsRequest struct {
	Text               string `json:"text"`
	TargetLanguageCode string `json:"target_language_code"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

// Phrases that already carry an appropriate tone; responses starting with
// one are not reframed.
var politeStarters = []string{
	"please", "thank you", "hello", "welcome", "i apologize", "excuse me",
}

// SarvamSynthesizer is the two-tier speech output: the Sarvam TTS API for
// multilingual synthesis, falling back to the local espeak engine on any
// failure or for unsupported languages.
type SarvamSynthesizer struct {
	apiKey          string
	url             string
	httpClient      *http.Client
	policy          utils.RetryPolicy
	sink            AudioSink
	local           LocalEngine
	defaultLanguage string
}

func NewSarvamSynthesizer(apiKey string, sink AudioSink, local LocalEngine, defaultLanguage string) (*SarvamSynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sarvam api key is not set")
	}
	if local == nil {
		return nil, fmt.Errorf("local synthesis engine is required")
	}
	return &SarvamSynthesizer{
		apiKey:          apiKey,
		url:             defaultTTSURL,
		httpClient:      &http.Client{},
		policy: utils.RetryPolicy{
			MaxRetries: 2,
			Delay:      time.Second,
			Timeout:    15 * time.Second,
		},
		sink:            sink,
		local:           local,
		defaultLanguage: defaultLanguage,
	}, nil
}

// Speak synthesizes and plays the text, remote first then local. It
// returns false only when both tiers fail.
func (s *SarvamSynthesizer) Speak(ctx context.Context, text, languageCode string) bool {
	text = s.prepare(text)
	if text == "" {
		utils.GetLogger().Warn("Empty text provided for synthesis")
		return false
	}

	if !translate.IsSupported(languageCode) {
		utils.GetLogger().Info("Language not supported by remote synthesis, using local engine",
			zap.String("language", languageCode))
		return s.speakLocal(ctx, text, languageCode)
	}

	if s.speakRemote(ctx, text, languageCode) {
		return true
	}
	utils.GetLogger().Warn("Remote synthesis failed, falling back to local engine",
		zap.String("language", languageCode))
	return s.speakLocal(ctx, text, languageCode)
}

// SpeakEmergency delivers urgent responses in the default language without
// politeness framing.
func (s *SarvamSynthesizer) SpeakEmergency(ctx context.Context, text string) bool {
	if text == "" {
		return false
	}
	if s.speakRemote(ctx, text, s.defaultLanguage) {
		return true
	}
	return s.speakLocal(ctx, text, s.defaultLanguage)
}

func (s *SarvamSynthesizer) speakRemote(ctx context.Context, text, languageCode string) bool {
	var audio []byte
	err := s.policy.Do(ctx, "sarvam tts", func(ctx context.Context) error {
		payload, err := s.call(ctx, text, languageCode)
		if err != nil {
			return err
		}
		audio = payload
		return nil
	})
	if err != nil {
		utils.GetLogger().Warn("Remote synthesis degraded", zap.Error(err))
		return false
	}
	if err := s.sink.Play(audio); err != nil {
		utils.GetLogger().Error("Audio playback failed", zap.Error(err))
		return false
	}
	utils.GetLogger().Info("Remote synthesis complete", zap.String("language", languageCode))
	return true
}

func (s *SarvamSynthesizer) speakLocal(ctx context.Context, text, languageCode string) bool {
	// The local engine only speaks the default language well; announce
	// the intended language so the patient knows a translation was lost.
	if languageCode != s.defaultLanguage {
		if name, ok := translate.SupportedLanguages[languageCode]; ok {
			text = fmt.Sprintf("In %s: %s", name, text)
		}
	}
	if err := s.local.Say(ctx, text); err != nil {
		utils.GetLogger().Error("Local synthesis failed", zap.Error(err))
		return false
	}
	return true
}

func (s *SarvamSynthesizer) call(ctx context.Context, text, languageCode string) ([]byte, error) {
	body, err := json.Marshal(ttsRequest{Text: text, TargetLanguageCode: languageCode})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-subscription-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts api status %d: %s", resp.StatusCode, payload)
	}

	var parsed ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode tts response: %w", err)
	}
	if len(parsed.Audios) == 0 || parsed.Audios[0] == "" {
		return nil, fmt.Errorf("no audio data received")
	}
	audio, err := base64.StdEncoding.DecodeString(parsed.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return audio, nil
}

// prepare trims the text and frames plain statements politely. Emergency
// and apology wording stays untouched.
func (s *SarvamSynthesizer) prepare(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}

	lower := strings.ToLower(text)
	for _, starter := range politeStarters {
		if strings.HasPrefix(lower, starter) {
			return text
		}
	}
	if strings.Contains(lower, "emergency") || strings.Contains(lower, "sorry") {
		return text
	}
	return "Please note: " + text
}
