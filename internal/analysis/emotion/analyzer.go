package emotion

import "strings"

// Label is the emotional tone detected in a reply.
type Label string

const (
	Neutral    Label = "neutral"
	Anxiety    Label = "anxiety"
	Depression Label = "depression"
	Stress     Label = "stress"
	Positive   Label = "positive"
)

// Urgency tells whether a reply needs crisis handling. There is no level
// between low and crisis.
type Urgency string

const (
	Low    Urgency = "low"
	Crisis Urgency = "crisis"
)

// Classification is the outcome of the keyword rules for one text.
type Classification struct {
	Emotion              Label
	Urgency              Urgency
	RequiresIntervention bool
}

// Analysis is a classification together with the suggestions for it.
type Analysis struct {
	Emotion              Label    `json:"emotion"`
	Urgency              Urgency  `json:"urgency"`
	RequiresIntervention bool     `json:"requires_intervention"`
	Suggestions          []string `json:"suggestions"`
}

type bucket struct {
	label    Label
	keywords []string
}

var crisisKeywords = []string{"suicide", "kill myself", "end it all", "want to die", "harm myself"}

// emotionBuckets are checked in order and the first bucket with a hit wins,
// so "anxious and depressed" is anxiety.
var emotionBuckets = []bucket{
	{label: Anxiety, keywords: []string{"anxious", "anxiety", "worried"}},
	{label: Depression, keywords: []string{"sad", "depressed", "down"}},
	{label: Stress, keywords: []string{"stressed", "overwhelmed"}},
	{label: Positive, keywords: []string{"happy", "good", "great"}},
}

// Classify runs the crisis check and the emotion check over text. The two
// checks are independent of each other.
func Classify(text string) Classification {
	normalized := strings.ToLower(text)

	crisis := containsAny(normalized, crisisKeywords)

	emotion := Neutral
	for _, b := range emotionBuckets {
		if containsAny(normalized, b.keywords) {
			emotion = b.label
			break
		}
	}

	urgency := Low
	if crisis {
		urgency = Crisis
	}

	return Classification{
		Emotion:              emotion,
		Urgency:              urgency,
		RequiresIntervention: crisis,
	}
}

// Analyze classifies text and attaches the matching suggestions.
func Analyze(text string) Analysis {
	c := Classify(text)
	return Analysis{
		Emotion:              c.Emotion,
		Urgency:              c.Urgency,
		RequiresIntervention: c.RequiresIntervention,
		Suggestions:          Suggest(c.Emotion, c.Urgency),
	}
}

// NeutralAnalysis is reported when no reply could be classified, e.g. when
// the assistant answered with the connection fallback.
func NeutralAnalysis() Analysis {
	return Analysis{
		Emotion:     Neutral,
		Urgency:     Low,
		Suggestions: Suggest(Neutral, Low),
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
