package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"carevox/models"
	"carevox/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const classifyTimeout = 10 * time.Second

const systemInstructions = `You are a helpful healthcare assistant robot in a hospital. Your role is to assist patients with various hospital-related needs in a calm, sweet, and simple manner.

INTENT CLASSIFICATIONS you can identify:
registration, queue_status, directions, appointment, emergency, information, billing, greeting, complaint, discharge, medication, doctor_inquiry, test_results, visitor_info, unknown

RESPONSE GUIDELINES:
- Always be calm, sweet, and use simple language
- For emergencies, prioritize immediate action and set priority to "urgent"
- Provide specific room numbers and directions when possible
- If unsure, guide the patient to reception or staff

RESPONSE FORMAT:
Return only a JSON object:
{
  "intent": "classification_name",
  "confidence": 0.95,
  "response": "Your calm and helpful response here",
  "priority": "normal|high|urgent",
  "entities": {}
}

Always respond in English; the system translates to the patient's language afterwards.`

const (
	fallbackResponse = "I understand you need help. Please let me connect you with our hospital staff who can assist you better."
	degradedResponse = "I apologize, but I'm having trouble understanding right now. Please speak with our reception staff who will be happy to help you."
)

// geminiPayload is the strict response contract expected from the model.
type geminiPayload struct {
	Intent     string                 `json:"intent"`
	Confidence *float64               `json:"confidence"`
	Response   string                 `json:"response"`
	Priority   string                 `json:"priority"`
	Entities   map[string]interface{} `json:"entities"`
}

// GeminiClassifier asks Gemini for intent, confidence, response text and
// entities in one shot, with the conversation context folded into the
// prompt. Any failure degrades to an unknown-intent result; the engine
// never sees an error from classification.
type GeminiClassifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClassifier constructs the Gemini client. A missing API key is a
// startup failure.
func NewGeminiClassifier(ctx context.Context, apiKey string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClassifier{
		client: client,
		model:  client.GenerativeModel("models/gemini-2.0-flash-exp"),
	}, nil
}

func (c *GeminiClassifier) Close() error {
	return c.client.Close()
}

func (c *GeminiClassifier) Classify(ctx context.Context, transcript, language, convContext string) models.IntentResult {
	logger := utils.GetLogger()

	if strings.TrimSpace(transcript) == "" {
		return models.IntentResult{
			Intent:   models.IntentUnknown,
			Priority: models.PriorityNormal,
			Entities: map[string]string{},
		}
	}

	if convContext == "" {
		convContext = "No previous conversation history available."
	}
	prompt := fmt.Sprintf(`%s

PATIENT CONTEXT AND CONVERSATION HISTORY:
%s

USER INPUT: %q
USER LANGUAGE: %s

Classify this input and provide an appropriate response, considering the patient's previous interactions.`,
		systemInstructions, convContext, transcript, language)

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logger.Error("Gemini classification unavailable", zap.Error(err))
		return degradedResult(transcript)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if textPart, ok := part.(genai.Text); ok {
				sb.WriteString(string(textPart))
			}
		}
	}
	raw := sb.String()

	payload, err := parsePayload(raw)
	if err != nil {
		logger.Warn("Gemini response malformed, using fallback", zap.Error(err))
		return fallbackResult(transcript, raw)
	}

	result := models.IntentResult{
		Intent:     payload.Intent,
		Confidence: clamp01(*payload.Confidence),
		Entities:   flattenEntities(payload.Entities),
		Priority:   models.Priority(payload.Priority),
		Response:   payload.Response,
		Raw:        raw,
	}
	if result.Priority == "" {
		result.Priority = models.PriorityNormal
	}
	if !models.KnownIntent(result.Intent) {
		logger.Warn("Gemini returned unlisted intent", zap.String("intent", result.Intent))
		result.Intent = models.IntentUnknown
	}

	logger.Info("Gemini classification",
		zap.String("intent", result.Intent),
		zap.Float64("confidence", result.Confidence))
	return result
}

// parsePayload strips markdown fences and enforces the response contract:
// intent, confidence and response are all required.
func parsePayload(raw string) (*geminiPayload, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload geminiPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if payload.Intent == "" || payload.Response == "" || payload.Confidence == nil {
		return nil, fmt.Errorf("missing required fields in gemini response")
	}
	return &payload, nil
}

// fallbackResult covers a reachable service returning an unusable payload.
func fallbackResult(transcript, raw string) models.IntentResult {
	response := fallbackResponse
	if text := strings.TrimSpace(raw); text != "" {
		if len(text) > 500 {
			text = text[:500]
		}
		response = text
	}
	return models.IntentResult{
		Intent:     models.IntentUnknown,
		Confidence: 0.5,
		Entities:   map[string]string{},
		Priority:   models.PriorityNormal,
		Response:   response,
		Raw:        transcript,
		Fallback:   true,
	}
}

// degradedResult covers an unreachable or timed-out service.
func degradedResult(transcript string) models.IntentResult {
	return models.IntentResult{
		Intent:     models.IntentUnknown,
		Confidence: 0,
		Entities:   map[string]string{},
		Priority:   models.PriorityNormal,
		Response:   degradedResponse,
		Raw:        transcript,
		Degraded:   true,
	}
}

func flattenEntities(in map[string]interface{}) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case []interface{}:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			out[k] = strings.Join(parts, ", ")
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
