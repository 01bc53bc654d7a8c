package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carevox/utils"

	speech "cloud.google.com/go/speech/apiv1"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

// Alternative languages offered to the recognizer alongside the primary
// code. The detected code is returned with the transcript so downstream
// responses can be translated back.
var alternativeLanguages = []string{"hi-IN", "bn-IN", "ta-IN", "te-IN", "mr-IN"}

// GoogleTranscriber implements TranscriptionService on Google Cloud
// Speech-to-Text.
type GoogleTranscriber struct {
	client          *speech.Client
	primaryLanguage string
	policy          utils.RetryPolicy
}

// NewGoogleTranscriber builds a recognizer from a service account file.
// A missing or invalid credential is a startup failure, not a degradable
// condition.
func NewGoogleTranscriber(ctx context.Context, credentialsFile, primaryLanguage string) (*GoogleTranscriber, error) {
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &GoogleTranscriber{
		client:          client,
		primaryLanguage: primaryLanguage,
		policy: utils.RetryPolicy{
			MaxRetries: 2,
			Delay:      time.Second,
			Timeout:    10 * time.Second,
		},
	}, nil
}

func (t *GoogleTranscriber) Close() error {
	return t.client.Close()
}

// Transcribe sends one utterance to the recognizer. It returns ErrNoSpeech
// when recognition yields no transcript, and the last transport error once
// retries are exhausted.
func (t *GoogleTranscriber) Transcribe(ctx context.Context, pcm []byte, sampleRate int) (string, string, error) {
	if len(pcm) == 0 {
		return "", "", ErrNoSpeech
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                 speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:          int32(sampleRate),
			LanguageCode:             t.primaryLanguage,
			AlternativeLanguageCodes: alternativeLanguages,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: pcm},
		},
	}

	var resp *speechpb.RecognizeResponse
	err := t.policy.Do(ctx, "speech recognize", func(ctx context.Context) error {
		var err error
		resp, err = t.client.Recognize(ctx, req)
		return err
	})
	if err != nil {
		return "", "", err
	}

	transcript, language := "", t.primaryLanguage
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		transcript += result.Alternatives[0].Transcript
		if result.LanguageCode != "" {
			language = result.LanguageCode
		}
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", "", ErrNoSpeech
	}

	utils.GetLogger().Info("Transcription complete",
		zap.String("language", language),
		zap.Int("chars", len(transcript)))
	return transcript, language, nil
}
