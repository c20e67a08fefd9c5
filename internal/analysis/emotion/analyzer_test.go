package emotion

import (
	"reflect"
	"testing"
)

func TestClassifyWithoutCrisisKeywordsIsLow(t *testing.T) {
	inputs := []string{
		"",
		"I am doing fine today",
		"I feel anxious about exams",
		"Everything is great, thanks!",
		"I killed it at the recital",
	}
	for _, in := range inputs {
		got := Classify(in)
		if got.Urgency != Low {
			t.Fatalf("Classify(%q) urgency = %s, want low", in, got.Urgency)
		}
		if got.RequiresIntervention {
			t.Fatalf("Classify(%q) requires intervention, want false", in)
		}
	}
}

func TestClassifyCrisisIgnoresCase(t *testing.T) {
	inputs := []string{
		"I want to KILL MYSELF",
		"sometimes i think i should Kill Myself and i'm anxious",
		"kill myself",
	}
	for _, in := range inputs {
		got := Classify(in)
		if got.Urgency != Crisis {
			t.Fatalf("Classify(%q) urgency = %s, want crisis", in, got.Urgency)
		}
		if !got.RequiresIntervention {
			t.Fatalf("Classify(%q) should require intervention", in)
		}
	}
}

func TestClassifyCrisisDoesNotSuppressEmotion(t *testing.T) {
	got := Classify("I'm so worried, I want to die")
	if got.Emotion != Anxiety {
		t.Fatalf("expected anxiety emotion, got %s", got.Emotion)
	}
	if got.Urgency != Crisis {
		t.Fatalf("expected crisis urgency, got %s", got.Urgency)
	}
}

func TestClassifyEmotionPriority(t *testing.T) {
	cases := []struct {
		text string
		want Label
	}{
		{"I am anxious and depressed", Anxiety},
		{"sad and overwhelmed", Depression},
		{"stressed but happy", Stress},
		{"a GOOD day", Positive},
		{"tell me about the weather", Neutral},
		{"Anxiety about deadlines", Anxiety},
		{"I feel down", Depression},
	}
	for _, tc := range cases {
		if got := Classify(tc.text).Emotion; got != tc.want {
			t.Fatalf("Classify(%q).Emotion = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestSuggest(t *testing.T) {
	cases := []struct {
		emotion Label
		urgency Urgency
		want    []string
	}{
		{Depression, Low, []string{"Talk to a friend", "Consider professional help"}},
		{Anxiety, Low, []string{"Try deep breathing", "Practice grounding techniques"}},
		{Stress, Low, []string{"Try mindfulness", "Take breaks"}},
		{Positive, Low, []string{"Tell me more", "How can I help?"}},
		{Neutral, Low, []string{"Tell me more", "How can I help?"}},
	}
	for _, tc := range cases {
		if got := Suggest(tc.emotion, tc.urgency); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Suggest(%s, %s) = %v, want %v", tc.emotion, tc.urgency, got, tc.want)
		}
	}
}

func TestSuggestCrisisOverridesEmotion(t *testing.T) {
	want := []string{"Contact crisis helpline (988)", "Reach out to campus counseling"}
	for _, label := range []Label{Neutral, Anxiety, Depression, Stress, Positive} {
		if got := Suggest(label, Crisis); !reflect.DeepEqual(got, want) {
			t.Fatalf("Suggest(%s, crisis) = %v", label, got)
		}
	}
}

func TestSuggestReturnsCopy(t *testing.T) {
	first := Suggest(Anxiety, Low)
	first[0] = "mutated"
	if second := Suggest(Anxiety, Low); second[0] != "Try deep breathing" {
		t.Fatalf("suggestion table was mutated: %v", second)
	}
}

func TestAnalyzeAttachesSuggestions(t *testing.T) {
	got := Analyze("That sounds stressful, try grounding techniques. Are you overwhelmed?")
	if got.Emotion != Stress {
		t.Fatalf("expected stress, got %s", got.Emotion)
	}
	if !reflect.DeepEqual(got.Suggestions, []string{"Try mindfulness", "Take breaks"}) {
		t.Fatalf("unexpected suggestions %v", got.Suggestions)
	}
}

func TestAnalyzeNearMissKeywordsStayNeutral(t *testing.T) {
	got := Analyze("That sounds stressful, try grounding techniques")
	if got.Emotion != Neutral || got.Urgency != Low {
		t.Fatalf("expected neutral/low, got %+v", got)
	}
}

func TestNeutralAnalysis(t *testing.T) {
	got := NeutralAnalysis()
	want := Analysis{
		Emotion:     Neutral,
		Urgency:     Low,
		Suggestions: []string{"Tell me more", "How can I help?"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NeutralAnalysis() = %+v", got)
	}
}
