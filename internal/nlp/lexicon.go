package nlp

import "github.com/spec-kit/support-engine/internal/domain"

// moodLexiconOrder fixes the evaluation order of the keyword layer; the
// first mood with any hit wins.
var moodLexiconOrder = []domain.Mood{
	domain.MoodAngry,
	domain.MoodHappy,
	domain.MoodUrgent,
	domain.MoodConfused,
}

var moodLexicon = map[domain.Mood][]string{
	domain.MoodAngry: {
		"angry", "upset", "frustrated", "annoyed", "furious", "mad", "disappointed",
		"worst", "terrible", "horrible", "awful", "garbage", "trash", "useless", "broken", "damaged", "defective",
		"scam", "fraud", "rip off", "refund", "money back", "chargeback", "cheated",
		"stupid", "idiot", "incompetent", "ridiculous", "pathetic", "damn", "hell", "sucks",
	},
	domain.MoodHappy: {
		"thanks", "thank you", "thx", "appreciate", "grateful",
		"love", "great", "awesome", "amazing", "excellent", "perfect", "wonderful", "fantastic",
		"good job", "best", "satisfied", "happy", "fast shipping", "high quality",
	},
	domain.MoodUrgent: {
		"asap", "urgent", "emergency", "immediately", "right now", "hurry", "rush",
		"deadline", "late", "overdue", "where is my", "haven't received", "waiting",
	},
	domain.MoodConfused: {
		"confused", "don't understand", "didn't understand", "unsure", "not sure", "clarify", "explain",
		"weird", "strange", "odd", "doesn't make sense", "help me understand", "how do i", "what does this mean",
	},
}

// happyNegations flip a model-predicted Happy to Angry; customers quoting
// a delay or disappointment are not happy no matter what the model says.
var happyNegations = []string{
	"not happy", "unhappy", "disappointed", "delay", "waiting", "where is", "late",
}

// calmPhrases flip a model-predicted Urgent back to Neutral.
var calmPhrases = []string{
	"just checking", "curious", "wondering", "no rush", "take your time", "update?",
}

// DefaultMoodAnchors provides one reference phrase per mood for the
// nearest-anchor fallback layer.
var DefaultMoodAnchors = map[domain.Mood]string{
	domain.MoodAngry:    "I am very angry and upset with this service.",
	domain.MoodHappy:    "I am so happy and satisfied, thank you!",
	domain.MoodUrgent:   "This is an emergency, I need help immediately.",
	domain.MoodConfused: "I am confused and don't understand how this works.",
	domain.MoodNeutral:  "Just asking a normal question about my order.",
}
