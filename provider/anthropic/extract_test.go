package anthropic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenlabs/aria-go-sdk/core"
)

func TestSplitExtraction_FencedBlock(t *testing.T) {
	text := "That sounds like a big step, congratulations!\n\n```json\n" +
		`{"memories":[{"content":"User got the promotion","importance":0.8}],"emotion":"excited"}` +
		"\n```"

	response, ex := splitExtraction(text)
	assert.Equal(t, "That sounds like a big step, congratulations!", strings.TrimSpace(response))
	require.NotNil(t, ex)
	require.Len(t, ex.Memories, 1)
	assert.Equal(t, "User got the promotion", ex.Memories[0].Content)
	assert.Equal(t, "excited", ex.Emotion)
}

func TestSplitExtraction_UnfencedTrailingObject(t *testing.T) {
	text := "I hear you, moving is a lot.\n" +
		`{"memories":[{"content":"User is moving cities"}],"emotion":"sad"}`

	response, ex := splitExtraction(text)
	require.NotNil(t, ex)
	assert.Equal(t, "sad", ex.Emotion)
	require.Len(t, ex.Memories, 1)
	assert.Equal(t, "I hear you, moving is a lot.", strings.TrimSpace(response))
	assert.NotContains(t, response, `{"memories"`, "the block is machine-read, never user-visible")
}

func TestSplitExtraction_NoBlockIsFine(t *testing.T) {
	response, ex := splitExtraction("Just a plain answer with no extraction.")
	assert.Equal(t, "Just a plain answer with no extraction.", response)
	assert.Nil(t, ex)
}

func TestSplitExtraction_MalformedBlockKeepsText(t *testing.T) {
	text := "Here's my answer.\n```json\n{not json at all\n```"
	response, ex := splitExtraction(text)
	assert.Equal(t, "Here's my answer.", strings.TrimSpace(response))
	assert.Nil(t, ex, "a broken block is dropped, never fatal")
}

func TestApplyExtraction_ClampsImportanceAndSkipsBlanks(t *testing.T) {
	big := 1.7
	var result core.GenerationResult
	applyExtraction(&result, &extraction{
		Memories: []struct {
			Content    string   `json:"content"`
			Importance *float64 `json:"importance"`
		}{
			{Content: "User runs marathons", Importance: &big},
			{Content: "   "},
		},
	})

	require.Len(t, result.Memories, 1)
	require.NotNil(t, result.Memories[0].Importance)
	assert.Equal(t, 1.0, *result.Memories[0].Importance)
}

func TestApplyExtraction_DropsUnknownCategoricals(t *testing.T) {
	var result core.GenerationResult
	applyExtraction(&result, &extraction{
		TraitDelta: &struct {
			Openness          float64 `json:"openness"`
			Conscientiousness float64 `json:"conscientiousness"`
			Extraversion      float64 `json:"extraversion"`
			Agreeableness     float64 `json:"agreeableness"`
			Neuroticism       float64 `json:"neuroticism"`
			Style             string  `json:"communication_style"`
			State             string  `json:"emotional_state"`
			Approach          string  `json:"preferred_approach"`
		}{Openness: 0.05, Style: "sarcastic", State: "anxious"},
	})

	require.NotNil(t, result.TraitDelta)
	assert.InDelta(t, 0.05, result.TraitDelta.Openness, 1e-9)
	assert.Empty(t, result.TraitDelta.Style, "unknown style dropped")
	assert.Equal(t, core.StateAnxious, result.TraitDelta.State)
}

func TestApplyExtraction_UnknownEmotionIgnored(t *testing.T) {
	var result core.GenerationResult
	applyExtraction(&result, &extraction{Emotion: "melancholy"})
	assert.Empty(t, result.Emotion)

	applyExtraction(&result, &extraction{Emotion: "sad"})
	assert.Equal(t, core.EmotionSad, result.Emotion)
}

func TestBuildSystemPrompt_CarriesPlanContext(t *testing.T) {
	plan := &core.TurnPlan{
		Mode:    core.ModeReflective,
		Emotion: core.EmotionSad,
		Traits:  core.NeutralTraits(),
		Memories: []core.MemoryEntry{
			{Content: "User's sister lives in Lisbon"},
		},
	}

	prompt := buildSystemPrompt(plan)
	assert.Contains(t, prompt, "User's sister lives in Lisbon")
	assert.Contains(t, prompt, "reflect their feelings back")
	assert.Contains(t, prompt, "reads as sad")
	assert.Contains(t, prompt, "```json")
}
