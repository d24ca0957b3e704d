package engine

import "github.com/havenlabs/aria-go-sdk/core"

// FallbackSet holds the canned responses returned when generation fails
// unrecoverably. The user sees one of these, never an internal error.
type FallbackSet struct {
	// ByEmotion maps the detected emotion to candidate responses. An
	// emotion with no entry falls through to Default.
	ByEmotion map[core.Emotion][]string

	// Default is used when no emotion-specific candidates exist.
	Default []string
}

// DefaultFallbacks keeps the degraded response in register with the
// detected emotion instead of a single generic apology.
var DefaultFallbacks = FallbackSet{
	ByEmotion: map[core.Emotion][]string{
		core.EmotionSad: {
			"I'm having trouble finding the right words right now, but I'm here with you. Tell me more about what's weighing on you.",
			"Something went wrong on my end, and I don't want to give you a half answer. I'm still listening, whenever you're ready.",
		},
		core.EmotionAnxious: {
			"I hit a snag putting my response together. Take a slow breath with me, and let's try that again in a moment.",
			"I'm sorry, I couldn't form a proper reply just now. Whatever is worrying you, we can work through it step by step.",
		},
		core.EmotionAngry: {
			"I couldn't put together a proper response just now, and you deserve better than a canned line. I hear that you're upset.",
		},
		core.EmotionFrustrated: {
			"Something broke on my side while I was answering. That must add to the frustration. Give me another try?",
		},
	},
	Default: []string{
		"I'm sorry, I ran into a problem forming my response. Could you try sending that again?",
		"Something went wrong on my end just now. I didn't lose our conversation, so please try once more.",
	},
}

// Pick returns a fallback response for the emotion. r in [0,1) selects
// among the candidates.
func (f FallbackSet) Pick(emotion core.Emotion, r float64) string {
	candidates := f.ByEmotion[emotion]
	if len(candidates) == 0 {
		candidates = f.Default
	}
	if len(candidates) == 0 {
		return "I'm sorry, I couldn't form a response just now. Please try again."
	}
	idx := int(r * float64(len(candidates)))
	if idx >= len(candidates) {
		idx = len(candidates) - 1
	}
	return candidates[idx]
}
