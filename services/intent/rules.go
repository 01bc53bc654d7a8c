package intent

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"carevox/models"
	"carevox/utils"

	"go.uber.org/zap"
)

// Winning scores below this resolve to unknown.
const minConfidence = 0.1

type pattern struct {
	keywords []string
	phrases  []string
}

// Keyword and phrase tables per intent. Keywords weigh 1.0, phrases 2.0.
var intentPatterns = map[string]pattern{
	models.IntentRegistration: {
		keywords: []string{
			"register", "registration", "sign up", "enroll", "new patient",
			"first time", "join", "admit", "admission", "check in",
		},
		phrases: []string{
			"i want to register", "i need to register", "register me",
			"i am new here", "first visit", "new patient registration",
		},
	},
	models.IntentQueueStatus: {
		keywords: []string{
			"queue", "wait", "turn", "number", "position", "how long",
			"status", "waiting", "line", "when", "my turn",
		},
		phrases: []string{
			"what is my position", "how long to wait", "when is my turn",
			"queue status", "waiting time", "am i next", "my number",
		},
	},
	models.IntentDirections: {
		keywords: []string{
			"where", "direction", "room", "find", "location", "go to",
			"bathroom", "toilet", "doctor", "clinic", "department",
			"pharmacy", "lab", "laboratory", "ward", "floor",
		},
		phrases: []string{
			"where is", "how to go", "show me the way", "find room",
			"which floor", "where can i find", "direct me to",
		},
	},
	models.IntentAppointment: {
		keywords: []string{
			"appointment", "book", "schedule", "meet", "doctor",
			"consultation", "visit", "see doctor", "meeting",
		},
		phrases: []string{
			"book appointment", "schedule meeting", "see a doctor",
			"make appointment", "consultation booking",
		},
	},
	models.IntentEmergency: {
		keywords: []string{
			"emergency", "urgent", "help", "pain", "hurt", "accident",
			"critical", "serious", "ambulance", "immediate", "emergency room",
		},
		phrases: []string{
			"this is emergency", "i need help", "urgent care",
			"call doctor", "medical emergency",
		},
	},
	models.IntentInformation: {
		keywords: []string{
			"information", "details", "hours", "time", "open", "close",
			"contact", "phone", "services", "facilities", "visiting hours",
		},
		phrases: []string{
			"what time", "hospital hours", "visiting hours",
			"contact information", "available services",
		},
	},
	models.IntentBilling: {
		keywords: []string{
			"bill", "payment", "cost", "price", "insurance", "money",
			"pay", "charge", "fee", "cashier", "billing",
		},
		phrases: []string{
			"how much", "payment counter", "billing information",
			"insurance claim", "pay bill",
		},
	},
	models.IntentGreeting: {
		keywords: []string{
			"hello", "hi", "good morning", "good afternoon", "good evening",
			"namaste", "hey", "greetings",
		},
		phrases: []string{
			"good morning", "good afternoon", "good evening",
			"hello there", "hi there",
		},
	},
}

// Entity templates, tried in order; the first match wins per entity type.
// They run against preprocessed text (lowercase, punctuation stripped).
var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`my name is (\w+)`),
		regexp.MustCompile(`\bi am (\w+)`),
		regexp.MustCompile(`(\w+) is my name`),
		regexp.MustCompile(`call me (\w+)`),
		regexp.MustCompile(`\bi m (\w+)`),
	}
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`room (\d+)`),
		regexp.MustCompile(`ward (\w+)`),
		regexp.MustCompile(`floor (\d+)`),
		regexp.MustCompile(`department (\w+)`),
		regexp.MustCompile(`(\w+) department`),
	}
	numberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`number (\d+)`),
		regexp.MustCompile(`(\d+)`),
		regexp.MustCompile(`position (\d+)`),
	}
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[^\w\s]`)
)

var specializations = []string{
	"cardiologist", "neurologist", "orthopedic", "pediatrician",
	"gynecologist", "dermatologist", "psychiatrist", "surgeon",
	"general", "physician", "dentist", "eye doctor", "heart doctor",
}

// RuleClassifier is the lightweight keyword scorer used when no AI service
// is configured. It never calls out over the network.
type RuleClassifier struct {
	// intents in lexicographic order; ties between equal scores resolve
	// to the lexicographically smallest intent name.
	ordered []string
}

func NewRuleClassifier() *RuleClassifier {
	ordered := make([]string, 0, len(intentPatterns))
	for name := range intentPatterns {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)
	return &RuleClassifier{ordered: ordered}
}

// Classify scores every intent against the transcript and extracts
// entities for the winner. The conversation context is unused by this
// variant. It never fails.
func (c *RuleClassifier) Classify(_ context.Context, transcript, _, _ string) models.IntentResult {
	if strings.TrimSpace(transcript) == "" {
		return models.IntentResult{
			Intent:   models.IntentUnknown,
			Priority: models.PriorityNormal,
			Entities: map[string]string{},
		}
	}

	text := preprocess(transcript)

	best, bestScore := models.IntentUnknown, -1.0
	for _, name := range c.ordered {
		score := scoreIntent(text, intentPatterns[name])
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore < minConfidence {
		best, bestScore = models.IntentUnknown, 0
	}

	result := models.IntentResult{
		Intent:     best,
		Confidence: math.Round(bestScore*1000) / 1000,
		Entities:   extractEntities(text, best),
		Priority:   models.PriorityNormal,
		Raw:        transcript,
	}
	if best == models.IntentEmergency {
		result.Priority = models.PriorityUrgent
	}

	utils.GetLogger().Info("Intent resolved",
		zap.String("intent", result.Intent),
		zap.Float64("confidence", result.Confidence))
	return result
}

func preprocess(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// scoreIntent combines the fraction of matched keywords (weight 1.0) with
// the fraction of matched phrases (weight 2.0), normalized by the weight
// actually used.
func scoreIntent(text string, p pattern) float64 {
	var score, totalWeight float64

	if len(p.keywords) > 0 {
		matches := 0
		for _, kw := range p.keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		score += float64(matches) / float64(len(p.keywords))
		totalWeight += 1.0
	}

	if len(p.phrases) > 0 {
		matches := 0
		for _, ph := range p.phrases {
			if strings.Contains(text, ph) {
				matches++
			}
		}
		score += float64(matches) / float64(len(p.phrases)) * 2.0
		totalWeight += 2.0
	}

	if totalWeight == 0 {
		return 0
	}
	return score / totalWeight
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

func extractEntities(text, intent string) map[string]string {
	entities := map[string]string{}

	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			entities["name"] = capitalize(m[1])
			break
		}
	}

	if intent == models.IntentDirections || intent == models.IntentAppointment {
		for _, re := range locationPatterns {
			if m := re.FindStringSubmatch(text); m != nil {
				entities["location"] = m[1]
				break
			}
		}
	}

	for _, re := range numberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			entities["number"] = m[1]
			break
		}
	}

	for _, spec := range specializations {
		if strings.Contains(text, spec) {
			entities["specialization"] = spec
			break
		}
	}

	return entities
}
