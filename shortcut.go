package kotone

import "strings"

// intent classifies small talk that gets a canned reply instead of a trip
// to the model.
type intent int

const (
	intentNone intent = iota
	intentGreeting
	intentFarewell
	intentWellbeing
)

var (
	greetingWords = []string{"hi", "hello", "hey"}
	farewellWords = []string{"bye", "goodbye", "see you"}
)

const wellbeingPhrase = "how are you"

// matchIntent runs case-insensitive substring checks in a fixed priority
// order: greeting beats farewell beats wellbeing. The order is load-bearing
// for mixed inputs.
func matchIntent(text string) intent {
	lowered := strings.ToLower(text)

	for _, w := range greetingWords {
		if strings.Contains(lowered, w) {
			return intentGreeting
		}
	}
	for _, w := range farewellWords {
		if strings.Contains(lowered, w) {
			return intentFarewell
		}
	}
	if strings.Contains(lowered, wellbeingPhrase) {
		return intentWellbeing
	}

	return intentNone
}

func cannedReply(in intent) string {
	switch in {
	case intentGreeting:
		return "Hey! What's up?"
	case intentFarewell:
		return "Goodbye!"
	case intentWellbeing:
		return "I'm doing great! Thanks for asking"
	}
	return ""
}
