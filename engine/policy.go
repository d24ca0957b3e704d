package engine

import (
	"strings"

	"github.com/havenlabs/aria-go-sdk/core"
)

// Mode prior: immediate 30%, clarifying 40%, reflective 30%. The prior is
// overridden when the message carries strong signals.
const (
	immediateWeight  = 0.30
	clarifyingWeight = 0.40
)

// shortMessageRunes is the length below which a first-contact message is
// considered too thin to answer directly.
const shortMessageRunes = 12

// chooseMode selects the response strategy for a turn.
//
// High-intensity negative emotion always yields a reflective response: the
// user is met where they are before any advice. A short or vague message
// from a user with no conversation history yields a clarifying question.
// Everything else follows the weighted prior.
func (e *Engine) chooseMode(text string, emotion core.Emotion, windowLen int) core.ResponseMode {
	if emotion.Negative() {
		return core.ModeReflective
	}
	if windowLen == 0 && vague(text) {
		return core.ModeClarifying
	}

	r := e.randFloat()
	switch {
	case r < immediateWeight:
		return core.ModeImmediate
	case r < immediateWeight+clarifyingWeight:
		return core.ModeClarifying
	default:
		return core.ModeReflective
	}
}

// vague reports whether a message is too short or generic to answer
// without asking what the user means.
func vague(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < shortMessageRunes {
		return true
	}
	switch strings.ToLower(trimmed) {
	case "hello", "hi there", "hey there", "good morning", "good evening", "how are you", "what's up":
		return true
	}
	return false
}
