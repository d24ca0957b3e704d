package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/havenlabs/aria-go-sdk/core"
)

// extraction is the wire shape of the trailing JSON block. Every field is
// optional; parsing is lenient because the block is model-written.
type extraction struct {
	Memories []struct {
		Content    string   `json:"content"`
		Importance *float64 `json:"importance"`
	} `json:"memories"`
	TraitDelta *struct {
		Openness          float64 `json:"openness"`
		Conscientiousness float64 `json:"conscientiousness"`
		Extraversion      float64 `json:"extraversion"`
		Agreeableness     float64 `json:"agreeableness"`
		Neuroticism       float64 `json:"neuroticism"`
		Style             string  `json:"communication_style"`
		State             string  `json:"emotional_state"`
		Approach          string  `json:"preferred_approach"`
	} `json:"trait_delta"`
	Emotion string `json:"emotion"`
}

// splitExtraction separates the response text from the trailing JSON
// block. A missing or unparseable block yields (text, nil): extraction is
// best-effort, never a reason to fail a turn that produced usable text.
func splitExtraction(text string) (string, *extraction) {
	start := strings.LastIndex(text, "```json")
	if start < 0 {
		if idx, ex := tryBareObject(text); ex != nil {
			return text[:idx], ex
		}
		return text, nil
	}
	body := text[start+len("```json"):]
	end := strings.Index(body, "```")
	if end < 0 {
		end = len(body)
	}

	var ex extraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(body[:end])), &ex); err != nil {
		return text[:start], nil
	}
	return text[:start], &ex
}

// tryBareObject handles models that append the object without a fence:
// the response's last line starting with '{' is tried as the block. The
// returned index is where the block begins, so the caller can keep the
// block out of the user-visible response.
func tryBareObject(text string) (int, *extraction) {
	idx := strings.LastIndex(text, "\n{")
	if idx < 0 {
		return 0, nil
	}
	var ex extraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(text[idx:])), &ex); err != nil {
		return 0, nil
	}
	return idx, &ex
}

// applyExtraction folds a parsed block into the generation result,
// dropping entries that cannot be used rather than failing.
func applyExtraction(result *core.GenerationResult, ex *extraction) {
	for _, m := range ex.Memories {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		cand := core.MemoryCandidate{Content: content}
		if m.Importance != nil {
			imp := core.Clamp01(*m.Importance)
			cand.Importance = &imp
		}
		result.Memories = append(result.Memories, cand)
	}

	if ex.TraitDelta != nil {
		delta := &core.TraitDelta{
			Openness:          ex.TraitDelta.Openness,
			Conscientiousness: ex.TraitDelta.Conscientiousness,
			Extraversion:      ex.TraitDelta.Extraversion,
			Agreeableness:     ex.TraitDelta.Agreeableness,
			Neuroticism:       ex.TraitDelta.Neuroticism,
			Style:             core.CommunicationStyle(ex.TraitDelta.Style),
			State:             core.EmotionalState(ex.TraitDelta.State),
			Approach:          core.Approach(ex.TraitDelta.Approach),
		}
		// Unknown categorical values are dropped here instead of
		// surfacing later as invariant violations.
		if delta.Style != "" && !delta.Style.Valid() {
			delta.Style = ""
		}
		if delta.State != "" && !delta.State.Valid() {
			delta.State = ""
		}
		if delta.Approach != "" && !delta.Approach.Valid() {
			delta.Approach = ""
		}
		if !delta.IsZero() {
			result.TraitDelta = delta
		}
	}

	if e := core.Emotion(ex.Emotion); e != "" {
		switch e {
		case core.EmotionNeutral, core.EmotionHappy, core.EmotionSad, core.EmotionAngry,
			core.EmotionAnxious, core.EmotionExcited, core.EmotionConfused, core.EmotionFrustrated:
			result.Emotion = e
		}
	}
}
