package memory

import (
	"regexp"
	"strings"
)

// Introduction patterns tried in order against the raw transcript. The
// captured group is one to three capitalized words; matching stops at
// common continuations so "I am John Smith and I need help" captures just
// the name.
var introPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:(?i)(?:i am|my name is|i'm|call me))\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})(?:\s+(?:and|here|speaking|from)|$|\.|,)`),
	regexp.MustCompile(`(?:(?i)(?:this is|speaking is))\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})(?:\s+(?:and|here|speaking|from)|$|\.|,)`),
}

// Common words that show up after introduction phrases but are never
// names.
var nameExclusions = map[string]bool{
	"help": true, "please": true, "thank": true, "you": true,
	"pain": true, "doctor": true, "nurse": true, "emergency": true,
	"appointment": true, "medicine": true, "water": true, "food": true,
	"having": true,
}

// extractName attempts a best-effort name extraction from a transcript.
// It returns "" when nothing passes validation; callers only invoke it
// while no name is known, so extraction can never overwrite.
func extractName(transcript string) string {
	for _, re := range introPatterns {
		m := re.FindStringSubmatch(transcript)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		words := strings.Fields(candidate)
		if len(words) == 0 || len(words) > 3 {
			continue
		}
		valid := true
		for _, w := range words {
			if nameExclusions[strings.ToLower(w)] {
				valid = false
				break
			}
		}
		if valid {
			return candidate
		}
	}
	return ""
}
