package engine

import (
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/havenlabs/aria-go-sdk/core"
)

// analysisCacheTTL bounds how long a message's detected emotion is reused.
// Repeated identical messages within the window skip re-analysis.
const analysisCacheTTL = 5 * time.Minute

// emotionKeywords maps per-message emotions to the markers that signal
// them. First match in declaration order wins; stronger emotions are
// checked before milder ones.
var emotionKeywords = []struct {
	emotion core.Emotion
	words   []string
}{
	{core.EmotionAngry, []string{"angry", "furious", "hate", "pissed", "mad at", "rage"}},
	{core.EmotionFrustrated, []string{"frustrated", "annoyed", "fed up", "sick of", "tired of", "stuck"}},
	{core.EmotionAnxious, []string{"anxious", "worried", "nervous", "scared", "afraid", "panic", "stress"}},
	{core.EmotionSad, []string{"sad", "depressed", "lonely", "miserable", "cry", "hopeless", "down"}},
	{core.EmotionExcited, []string{"excited", "can't wait", "amazing", "awesome", "thrilled"}},
	{core.EmotionHappy, []string{"happy", "glad", "great news", "wonderful", "love it", "grateful"}},
	{core.EmotionConfused, []string{"confused", "don't understand", "not sure", "lost", "what do you mean"}},
}

// analyzer detects the emotion of a user message with a keyword heuristic,
// memoized in a TTL cache so repeated analysis of the same text is free.
type analyzer struct {
	cache *ristretto.Cache
}

func newAnalyzer() *analyzer {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		// Config above is static and valid; reaching here is a bug.
		panic("engine: ristretto cache init: " + err.Error())
	}
	return &analyzer{cache: cache}
}

// Detect returns the message's dominant emotion, neutral when no marker
// matches.
func (a *analyzer) Detect(text string) core.Emotion {
	if v, ok := a.cache.Get(text); ok {
		if e, ok := v.(core.Emotion); ok {
			return e
		}
	}

	lower := strings.ToLower(text)
	detected := core.EmotionNeutral
	for _, ek := range emotionKeywords {
		for _, w := range ek.words {
			if strings.Contains(lower, w) {
				detected = ek.emotion
				break
			}
		}
		if detected != core.EmotionNeutral {
			break
		}
	}

	a.cache.SetWithTTL(text, detected, 1, analysisCacheTTL)
	return detected
}
