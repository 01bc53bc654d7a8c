package translate

// Translator converts English responses into the patient's language.
// Implementations never fail: on any error the original text comes back
// unchanged and the degradation is logged.
type Translator interface {
	Translate(text, sourceLanguage, targetLanguage string) string
}

// SupportedLanguages maps the language codes the remote translator accepts
// to their display names.
var SupportedLanguages = map[string]string{
	"hi-IN": "Hindi",
	"bn-IN": "Bengali",
	"ta-IN": "Tamil",
	"te-IN": "Telugu",
	"mr-IN": "Marathi",
	"gu-IN": "Gujarati",
	"kn-IN": "Kannada",
	"ml-IN": "Malayalam",
	"pa-IN": "Punjabi",
	"or-IN": "Odia",
	"as-IN": "Assamese",
	"en-IN": "English",
}

// IsSupported reports whether a language code is handled by the remote
// services.
func IsSupported(languageCode string) bool {
	_, ok := SupportedLanguages[languageCode]
	return ok
}
