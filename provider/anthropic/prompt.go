package anthropic

import (
	"fmt"
	"strings"

	"github.com/havenlabs/aria-go-sdk/core"
)

// basePersona is the fixed identity prelude; everything after it is built
// per turn from the plan.
const basePersona = `You are Aria, a warm and attentive companion. You remember what matters to the people you talk to and you meet them where they are emotionally.

GUIDELINES:
- Be conversational, specific, and human
- Use what you know about this person naturally, never recite it
- Keep responses to a few sentences unless depth is asked for`

// buildSystemPrompt assembles the per-turn system prompt: persona, trait
// summary, memory context, mode directive, extraction instructions.
func buildSystemPrompt(plan *core.TurnPlan) string {
	var b strings.Builder
	b.WriteString(basePersona)

	b.WriteString("\n\nABOUT THIS PERSON:\n")
	b.WriteString(traitSummary(plan.Traits))

	if len(plan.Memories) > 0 {
		b.WriteString("\n\nWHAT YOU REMEMBER (most relevant first):\n")
		for _, m := range plan.Memories {
			fmt.Fprintf(&b, "- %s\n", m.Content)
		}
	}

	if plan.Emotion != core.EmotionNeutral {
		fmt.Fprintf(&b, "\nTheir message reads as %s.\n", plan.Emotion)
	}

	b.WriteString("\n")
	b.WriteString(modeDirective(plan.Mode))
	b.WriteString("\n\n")
	b.WriteString(extractionInstructions())
	return b.String()
}

// traitSummary renders the vector in words the model can act on rather
// than raw numbers.
func traitSummary(tv core.TraitVector) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Communication style they respond to: %s\n", tv.Style)
	fmt.Fprintf(&b, "- Emotional baseline: %s\n", tv.State)
	fmt.Fprintf(&b, "- Preferred approach: %s\n", tv.Approach)
	fmt.Fprintf(&b, "- Openness %s, conscientiousness %s, extraversion %s, agreeableness %s, neuroticism %s",
		level(tv.Openness), level(tv.Conscientiousness), level(tv.Extraversion),
		level(tv.Agreeableness), level(tv.Neuroticism))
	return b.String()
}

func level(v float64) string {
	switch {
	case v < 0.35:
		return "low"
	case v > 0.65:
		return "high"
	default:
		return "moderate"
	}
}

func modeDirective(mode core.ResponseMode) string {
	switch mode {
	case core.ModeClarifying:
		return "THIS TURN: ask one gentle clarifying question before offering anything else. You need to understand what they mean first."
	case core.ModeReflective:
		return "THIS TURN: reflect their feelings back first. Acknowledge what they are going through before any suggestion or answer."
	default:
		return "THIS TURN: answer them directly and naturally."
	}
}
