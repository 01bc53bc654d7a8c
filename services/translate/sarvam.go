package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"carevox/utils"

	"go.uber.org/zap"
)

const defaultTranslateURL = "https://api.sarvam.ai/translate"

type translateRequest struct {
	Input              string `json:"input"`
	SourceLanguageCode string `json:"source_language_code"`
	TargetLanguageCode string `json:"target_language_code"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// SarvamTranslator implements Translator on the Sarvam translate API with
// the shared bounded-retry policy and a passthrough fallback.
type SarvamTranslator struct {
	apiKey     string
	url        string
	httpClient *http.Client
	policy     utils.RetryPolicy
}

// NewSarvamTranslator fails only on a missing credential; runtime failures
// all degrade to passthrough.
func NewSarvamTranslator(apiKey string) (*SarvamTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sarvam api key is not set")
	}
	return &SarvamTranslator{
		apiKey:     apiKey,
		url:        defaultTranslateURL,
		httpClient: &http.Client{},
		policy: utils.RetryPolicy{
			MaxRetries: 2,
			Delay:      time.Second,
			Timeout:    10 * time.Second,
		},
	}, nil
}

// Translate returns text in the target language, or the original text
// unchanged when source and target match or every attempt fails. Identical
// source and target never touch the network.
func (t *SarvamTranslator) Translate(text, sourceLanguage, targetLanguage string) string {
	if sourceLanguage == targetLanguage {
		return text
	}

	logger := utils.GetLogger()
	var translated string
	err := t.policy.Do(context.Background(), "sarvam translate", func(ctx context.Context) error {
		out, err := t.call(ctx, text, sourceLanguage, targetLanguage)
		if err != nil {
			return err
		}
		translated = out
		return nil
	})
	if err != nil {
		logger.Warn("Translation degraded to passthrough",
			zap.String("target", targetLanguage),
			zap.Error(err))
		return text
	}

	logger.Info("Translation complete", zap.String("target", targetLanguage))
	return translated
}

func (t *SarvamTranslator) call(ctx context.Context, text, source, target string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Input:              text,
		SourceLanguageCode: source,
		TargetLanguageCode: target,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-subscription-key", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translate api status %d: %s", resp.StatusCode, payload)
	}

	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	out := strings.TrimSpace(parsed.TranslatedText)
	if out == "" {
		return "", fmt.Errorf("empty translation received")
	}
	return out, nil
}
