// Package catalog holds the static activity and mood vocabularies. These are
// configuration data consumed by the analyzer and the insight engine, not logic.
package catalog

// Mood is one step on the 9-point mood scale.
type Mood string

const (
	MoodTerrible  Mood = "terrible"
	MoodBad       Mood = "bad"
	MoodStressed  Mood = "stressed"
	MoodNeutral   Mood = "neutral"
	MoodOkay      Mood = "okay"
	MoodGood      Mood = "good"
	MoodCalm      Mood = "calm"
	MoodGreat     Mood = "great"
	MoodExcellent Mood = "excellent"
)

var moodScores = map[Mood]int{
	MoodTerrible:  1,
	MoodBad:       2,
	MoodStressed:  3,
	MoodNeutral:   4,
	MoodOkay:      5,
	MoodGood:      6,
	MoodCalm:      7,
	MoodGreat:     8,
	MoodExcellent: 9,
}

// MoodScore maps a mood onto the 9-point integer scale.
// Unknown moods score as neutral.
func MoodScore(m Mood) int {
	if s, ok := moodScores[m]; ok {
		return s
	}
	return 4
}

// KnownMood reports whether m is part of the scale.
func KnownMood(m Mood) bool {
	_, ok := moodScores[m]
	return ok
}

// Activity is one trackable behavior.
type Activity struct {
	Key      string
	Label    string
	Category string
}

// Activities is the fixed activity catalog.
var Activities = []Activity{
	{Key: "walked", Label: "Spaziergang", Category: "movement"},
	{Key: "meditated", Label: "Meditation", Category: "mindfulness"},
	{Key: "exercised", Label: "Sport", Category: "movement"},
	{Key: "focused", Label: "Fokussiert gearbeitet", Category: "work"},
	{Key: "slept_well", Label: "Gut geschlafen", Category: "rest"},
	{Key: "ate_healthy", Label: "Gesund gegessen", Category: "nutrition"},
	{Key: "journaled", Label: "Tagebuch geschrieben", Category: "mindfulness"},
	{Key: "called_friend", Label: "Mit Freunden gesprochen", Category: "social"},
	{Key: "read_book", Label: "Gelesen", Category: "learning"},
	{Key: "listened_music", Label: "Musik gehört", Category: "rest"},
	{Key: "worked_on_hobby", Label: "Hobby gepflegt", Category: "leisure"},
	{Key: "took_break", Label: "Pause gemacht", Category: "rest"},
	{Key: "organized_space", Label: "Aufgeräumt", Category: "environment"},
	{Key: "planned_day", Label: "Tag geplant", Category: "work"},
	{Key: "practiced_gratitude", Label: "Dankbarkeit geübt", Category: "mindfulness"},
}

// Keys returns the catalog activity keys in declaration order.
func Keys() []string {
	out := make([]string, 0, len(Activities))
	for _, a := range Activities {
		out = append(out, a.Key)
	}
	return out
}

// Periods are the time-of-day buckets in tie-break order.
var Periods = []string{"morning", "afternoon", "evening", "night"}

// PeriodForHour buckets an hour of day: morning 6-12, afternoon 12-18,
// evening 18-22, night 22-6.
func PeriodForHour(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

// FundamentalKeys are the activities the engine suggests when missing from today.
var FundamentalKeys = []string{"walked", "meditated", "focused", "took_break"}

// Complementary maps an activity to activities that pair well with it.
var Complementary = map[string][]string{
	"walked":    {"meditated", "focused"},
	"meditated": {"focused", "journaled"},
	"exercised": {"slept_well", "ate_healthy"},
	"focused":   {"took_break", "practiced_gratitude"},
	"worked":    {"took_break", "listened_music"},
}
