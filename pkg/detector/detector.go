// Package detector guesses the natural language of article text.
package detector

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Languages the detector chooses between. Restricting the set keeps model
// loading fast and the guesses stable for short texts.
var Languages = []lingua.Language{
	lingua.English,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Russian,
}

// minTextLength below which detection is not attempted.
const minTextLength = 20

var (
	once     sync.Once
	detector lingua.LanguageDetector
)

func get() lingua.LanguageDetector {
	once.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(Languages...).
			Build()
	})
	return detector
}

// DetectLanguage returns a lowercase ISO-639-1 code, or "" when the text is
// too short or ambiguous.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minTextLength {
		return ""
	}
	language, ok := get().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
