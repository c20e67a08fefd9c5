package emotion

var (
	crisisSuggestions     = []string{"Contact crisis helpline (988)", "Reach out to campus counseling"}
	anxietySuggestions    = []string{"Try deep breathing", "Practice grounding techniques"}
	depressionSuggestions = []string{"Talk to a friend", "Consider professional help"}
	stressSuggestions     = []string{"Try mindfulness", "Take breaks"}
	defaultSuggestions    = []string{"Tell me more", "How can I help?"}
)

// Suggest maps a classification to follow-up actions. Crisis urgency wins
// over every emotion. The returned slice is owned by the caller.
func Suggest(emotion Label, urgency Urgency) []string {
	var picked []string
	switch {
	case urgency == Crisis:
		picked = crisisSuggestions
	case emotion == Anxiety:
		picked = anxietySuggestions
	case emotion == Depression:
		picked = depressionSuggestions
	case emotion == Stress:
		picked = stressSuggestions
	default:
		picked = defaultSuggestions
	}
	return append([]string(nil), picked...)
}
