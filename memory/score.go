package memory

import (
	"math"
	"strings"
	"time"

	"github.com/havenlabs/aria-go-sdk/core"
)

// Keyword signal for the importance heuristic. Strong signals mark content
// that should survive into long-term memory; moderate signals nudge the
// score without forcing the class.
var (
	strongSignals = []string{
		"death", "dying", "grief", "hopeless", "depressed", "crisis",
		"afraid", "scared", "anxious", "panic", "alone", "lonely",
		"divorce", "marriage", "breakup", "family", "father", "mother",
		"child", "job", "fired", "career", "illness", "diagnosis",
		"health", "decision",
	}
	moderateSignals = []string{
		"friend", "relationship", "feel", "feeling", "happy", "upset",
		"angry", "calm", "change", "plan", "goal", "future", "past",
		"memory", "remember", "experience",
	}
	firstPerson = []string{"i ", "i'm", "my ", "me ", "myself", "mine"}
)

var emotionWeights = map[core.Emotion]float64{
	core.EmotionSad:        0.2,
	core.EmotionAnxious:    0.2,
	core.EmotionAngry:      0.15,
	core.EmotionFrustrated: 0.15,
	core.EmotionExcited:    0.1,
	core.EmotionHappy:      0.05,
	core.EmotionConfused:   0.1,
}

// ScoreContent estimates the importance of candidate content in [0,1].
// Used when the caller supplies no external importance estimate.
func ScoreContent(content string, emotion core.Emotion) float64 {
	score := 0.5
	lower := strings.ToLower(content)

	for _, kw := range strongSignals {
		if strings.Contains(lower, kw) {
			score += 0.15
		}
	}
	for _, kw := range moderateSignals {
		if strings.Contains(lower, kw) {
			score += 0.08
		}
	}

	if w, ok := emotionWeights[emotion]; ok {
		score += w
	} else if emotion != "" && emotion != core.EmotionNeutral {
		score += 0.05
	}

	// Longer messages tend to carry more to remember.
	switch {
	case len(lower) > 200:
		score += 0.15
	case len(lower) > 100:
		score += 0.1
	}

	if strings.Contains(lower, "?") {
		score += 0.1
	}

	// Personal statements matter more than small talk.
	for _, p := range firstPerson {
		if strings.Contains(lower, p) {
			score += 0.05
			break
		}
	}

	return core.Clamp01(score)
}

// composite ranks an entry for retrieval and eviction: a weighted sum of
// relevance (0 when no index is configured or the entry is short-term),
// importance, exponentially decayed recency, and log-dampened access
// frequency.
func (c *Config) composite(e *core.MemoryEntry, relevance float64, now time.Time) float64 {
	age := now.Sub(e.CreatedAt)
	if age < 0 {
		age = 0
	}
	recency := math.Exp(-math.Ln2 * age.Seconds() / c.RecencyHalfLife.Seconds())

	access := math.Log1p(float64(e.AccessCount)) / math.Log1p(10)
	if access > 1 {
		access = 1
	}

	return c.WeightRelevance*relevance +
		c.WeightImportance*e.Importance +
		c.WeightRecency*recency +
		c.WeightAccess*access
}
