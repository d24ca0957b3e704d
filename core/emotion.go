package core

// Emotion is the per-message emotion detected during analysis. It is finer
// grained than EmotionalState, which tracks the user's baseline over time.
type Emotion string

const (
	EmotionNeutral    Emotion = "neutral"
	EmotionHappy      Emotion = "happy"
	EmotionSad        Emotion = "sad"
	EmotionAngry      Emotion = "angry"
	EmotionAnxious    Emotion = "anxious"
	EmotionExcited    Emotion = "excited"
	EmotionConfused   Emotion = "confused"
	EmotionFrustrated Emotion = "frustrated"
)

// Negative reports whether e is a negative emotion. High-intensity negative
// emotion biases the turn toward a reflective response.
func (e Emotion) Negative() bool {
	switch e {
	case EmotionSad, EmotionAngry, EmotionAnxious, EmotionFrustrated:
		return true
	}
	return false
}

// State maps a per-message emotion onto the baseline EmotionalState scale.
func (e Emotion) State() EmotionalState {
	switch e {
	case EmotionSad:
		return StateDepressed
	case EmotionAnxious, EmotionFrustrated, EmotionAngry:
		return StateAnxious
	case EmotionExcited, EmotionHappy:
		return StateExcited
	case EmotionConfused:
		return StateConfused
	default:
		return StateStable
	}
}
