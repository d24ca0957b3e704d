package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/havenlabs/aria-go-sdk/core"
)

func TestScoreContent_StrongSignalsReachLongTermThreshold(t *testing.T) {
	score := ScoreContent("I'm grieving since my father died, I feel so alone", core.EmotionSad)
	assert.GreaterOrEqual(t, score, 0.7, "grief content with sad emotion is long-term material")
}

func TestScoreContent_SmallTalkStaysShortTerm(t *testing.T) {
	score := ScoreContent("nice weather today", core.EmotionNeutral)
	assert.Less(t, score, 0.7)
}

func TestScoreContent_EmotionLiftsScore(t *testing.T) {
	neutral := ScoreContent("we talked about the weekend", core.EmotionNeutral)
	sad := ScoreContent("we talked about the weekend", core.EmotionSad)
	assert.Greater(t, sad, neutral)
}

func TestScoreContent_AlwaysInUnitRange(t *testing.T) {
	loaded := "I'm scared and anxious about my health diagnosis, my family, my job, my marriage, and every decision ahead of me. " +
		"I feel hopeless and alone, and I remember the grief of losing my mother. What should I do?"
	score := ScoreContent(loaded, core.EmotionAnxious)
	assert.LessOrEqual(t, score, 1.0)
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestComposite_RecencyDecays(t *testing.T) {
	cfg := &Config{RecencyHalfLife: 24 * time.Hour, WeightRecency: 1}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fresh := &core.MemoryEntry{CreatedAt: now}
	dayOld := &core.MemoryEntry{CreatedAt: now.Add(-24 * time.Hour)}

	assert.InDelta(t, 1.0, cfg.composite(fresh, 0, now), 1e-9)
	assert.InDelta(t, 0.5, cfg.composite(dayOld, 0, now), 1e-9, "one half-life halves the recency term")
}

func TestComposite_AccessTermIsLogDampedAndCapped(t *testing.T) {
	cfg := &Config{RecencyHalfLife: 24 * time.Hour, WeightAccess: 1}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	once := &core.MemoryEntry{CreatedAt: now, AccessCount: 1}
	tenTimes := &core.MemoryEntry{CreatedAt: now, AccessCount: 10}
	hammered := &core.MemoryEntry{CreatedAt: now, AccessCount: 1000}

	s1 := cfg.composite(once, 0, now)
	s10 := cfg.composite(tenTimes, 0, now)
	s1000 := cfg.composite(hammered, 0, now)

	assert.Greater(t, s10, s1)
	assert.InDelta(t, 1.0, s10, 1e-9)
	assert.Equal(t, 1.0, s1000, "access term never exceeds 1")
}
