package intent

import (
	"context"

	"carevox/models"
)

// Classifier resolves a transcript into a structured intent. Both variants
// are internally fault tolerant: they always return a usable result, never
// an error, so a turn can always proceed to routing.
type Classifier interface {
	Classify(ctx context.Context, transcript, language, convContext string) models.IntentResult
}
