package core

import "time"

// ResponseMode is the strategy the generation stage is asked to follow.
type ResponseMode string

const (
	// ModeImmediate answers the message directly.
	ModeImmediate ResponseMode = "immediate"

	// ModeClarifying asks a follow-up question before advising.
	ModeClarifying ResponseMode = "clarifying"

	// ModeReflective mirrors the user's feelings back before anything else.
	ModeReflective ResponseMode = "reflective"
)

// TurnPlan is the output of the analysis stage: the chosen response mode
// plus the assembled context bundle the generator needs. Producing a plan
// performs no external call and no store mutation, so analysis is
// retry-safe.
type TurnPlan struct {
	TurnID  string
	UserID  string
	Message string

	Mode    ResponseMode
	Emotion Emotion

	Traits   TraitVector
	Memories []MemoryEntry
	Window   []TranscriptEntry

	PlannedAt time.Time
}

// GenerationResult is what the external generation capability returns for a
// plan: the response text plus optional structured extraction.
type GenerationResult struct {
	ResponseText string

	// Memories are candidate memory entries extracted from the exchange.
	Memories []MemoryCandidate

	// TraitDelta is the suggested per-turn trait adjustment, if any.
	TraitDelta *TraitDelta

	// Emotion is the generator's read of the user message, if provided.
	// It refines the analyzer's keyword heuristic.
	Emotion Emotion
}
