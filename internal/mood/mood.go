// Package mood maps emotion probability distributions to coarse mood
// categories.
package mood

import "sort"

// Labels is the canonical emotion label order of the FER+ classifier output.
// The order matters: it is the tie-break order when two labels carry the same
// probability.
var Labels = []string{"neutral", "happiness", "surprise", "sadness", "anger", "disgust", "fear"}

// Mood categories.
const (
	Happy   = "happy"
	Unhappy = "unhappy"
	Focused = "focused"
	Neutral = "neutral"
	Unknown = "unknown"
)

// Categorize reduces an emotion distribution to a mood category. An empty
// distribution yields Unknown; otherwise the dominant emotion decides.
func Categorize(emotions map[string]float64) string {
	if len(emotions) == 0 {
		return Unknown
	}
	switch dominant(emotions) {
	case "happiness":
		return Happy
	case "sadness", "anger", "disgust", "fear":
		return Unhappy
	case "surprise":
		return Focused
	default:
		return Neutral
	}
}

// dominant returns the label with the highest probability. Canonical labels
// are considered first, in canonical order; any non-canonical labels follow in
// sorted order so the result stays deterministic.
func dominant(emotions map[string]float64) string {
	best := ""
	have := false
	var bestScore float64

	canonical := make(map[string]bool, len(Labels))
	for _, label := range Labels {
		canonical[label] = true
		score, ok := emotions[label]
		if !ok {
			continue
		}
		if !have || score > bestScore {
			best, bestScore, have = label, score, true
		}
	}

	var extras []string
	for label := range emotions {
		if !canonical[label] {
			extras = append(extras, label)
		}
	}
	sort.Strings(extras)
	for _, label := range extras {
		if score := emotions[label]; !have || score > bestScore {
			best, bestScore, have = label, score, true
		}
	}
	return best
}
