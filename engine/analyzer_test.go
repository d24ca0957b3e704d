package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/havenlabs/aria-go-sdk/core"
)

func TestDetect_KeywordHeuristic(t *testing.T) {
	a := newAnalyzer()

	cases := map[string]core.Emotion{
		"I'm so worried about the results":          core.EmotionAnxious,
		"this is amazing, I got in!":                core.EmotionExcited,
		"I'm furious about how they treated her":    core.EmotionAngry,
		"honestly I'm fed up with this commute":     core.EmotionFrustrated,
		"feeling pretty lonely since the move":      core.EmotionSad,
		"I don't understand what you mean by that":  core.EmotionConfused,
		"the meeting got moved to thursday morning": core.EmotionNeutral,
	}
	for text, want := range cases {
		assert.Equal(t, want, a.Detect(text), "text: %s", text)
	}
}

func TestDetect_StrongerEmotionWinsOnMixedSignals(t *testing.T) {
	a := newAnalyzer()
	// "hate" (angry) outranks "happy" in declaration order.
	assert.Equal(t, core.EmotionAngry, a.Detect("I hate pretending to be happy about this"))
}

func TestDetect_IsStableAcrossRepeatedCalls(t *testing.T) {
	a := newAnalyzer()
	text := "I'm scared I made the wrong call"
	first := a.Detect(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.Detect(text))
	}
}

func TestVague_ShortOrGenericMessages(t *testing.T) {
	assert.True(t, vague("hi"))
	assert.True(t, vague("  hello  "))
	assert.True(t, vague("how are you"))
	assert.False(t, vague("I wanted to ask about the trip we discussed"))
}
