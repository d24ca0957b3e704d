// Package engine implements the turn orchestrator: the two-stage state
// machine that drives one conversational turn from inbound message to
// committed state.
//
// A turn moves through Analyzing, Generating, Committing and back to idle.
// Analyzing is pure read plus decide and is therefore retry-safe.
// Generating is the only stage that performs a blocking external call and
// the only one with timeout and retry handling. Committing applies the
// turn's mutations as ordered sub-steps; partial commit is permitted and
// earlier sub-steps are never rolled back. The orchestrator itself keeps
// no state across turns beyond the stores it coordinates.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/havenlabs/aria-go-sdk/core"
	"github.com/havenlabs/aria-go-sdk/memory"
	"github.com/havenlabs/aria-go-sdk/metrics"
	"github.com/havenlabs/aria-go-sdk/traits"
	"github.com/havenlabs/aria-go-sdk/transcript"
)

// Stage identifies where in the turn pipeline an error arose.
type Stage string

const (
	StageAnalyzing  Stage = "analyzing"
	StageGenerating Stage = "generating"
	StageCommitting Stage = "committing"
)

// Generator is the external generation capability. Implementations must
// honor ctx cancellation, return a core.TransientError for transport and
// timeout failures, and a core.ContentError for unusable output.
type Generator interface {
	Generate(ctx context.Context, plan *core.TurnPlan) (*core.GenerationResult, error)
}

// RetryPolicy bounds the generating stage.
type RetryPolicy struct {
	// MaxAttempts is the total number of generation attempts, first try
	// included. Default: 3.
	MaxAttempts int

	// AttemptTimeout bounds each individual attempt. Default: 30s.
	AttemptTimeout time.Duration

	// InitialBackoff is the wait before the second attempt; it doubles
	// after every further transient failure. Default: 500ms.
	InitialBackoff time.Duration
}

// DefaultRetryPolicy is applied when no policy option is given.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:    3,
	AttemptTimeout: 30 * time.Second,
	InitialBackoff: 500 * time.Millisecond,
}

// TurnReport is the caller-visible outcome of one turn.
type TurnReport struct {
	TurnID  string
	UserID  string
	Mode    core.ResponseMode
	Emotion core.Emotion

	// ResponseText is what the assistant says: the generated response, or
	// a canned fallback when generation failed unrecoverably.
	ResponseText string

	// Fallback is true when the turn aborted before committing and
	// ResponseText is canned. No store mutation happened on this turn.
	Fallback bool

	// Attempts is how many generation calls the turn made.
	Attempts int

	// CommitErrors lists failed commit sub-steps. Earlier sub-steps were
	// applied and stay applied.
	CommitErrors []error
}

// Engine coordinates the memory store, trait tracker and transcript buffer
// through the two-stage pipeline.
type Engine struct {
	gen        Generator
	memory     *memory.Store
	traits     *traits.Tracker
	transcript *transcript.Buffer
	analyzer   *analyzer

	retry     RetryPolicy
	fallbacks FallbackSet
	retrieveK int

	now func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	userLocks sync.Map // userID -> *sync.Mutex
}

// Option configures the engine.
type Option func(*Engine)

// WithRetryPolicy overrides the generating stage's retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(e *Engine) {
		e.retry = p
	}
}

// WithFallbacks overrides the canned responses used when generation fails.
func WithFallbacks(f FallbackSet) Option {
	return func(e *Engine) {
		e.fallbacks = f
	}
}

// WithRetrieveK sets how many memories the analyzing stage retrieves.
func WithRetrieveK(k int) Option {
	return func(e *Engine) {
		e.retrieveK = k
	}
}

// WithClock injects the time source. Test seam.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithRandSeed seeds mode selection deterministically. Test seam.
func WithRandSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates an engine over the given stores and generation capability.
func New(gen Generator, mem *memory.Store, tr *traits.Tracker, tb *transcript.Buffer, opts ...Option) *Engine {
	e := &Engine{
		gen:        gen,
		memory:     mem,
		traits:     tr,
		transcript: tb,
		analyzer:   newAnalyzer(),
		retry:      DefaultRetryPolicy,
		fallbacks:  DefaultFallbacks,
		retrieveK:  5,
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.retry.MaxAttempts < 1 {
		e.retry.MaxAttempts = 1
	}
	return e
}

// ProcessMessage drives one full turn for the user's message. Turns for the
// same user are serialized; distinct users proceed concurrently.
// Cancellation is honored while analyzing and while awaiting generation;
// once committing begins the sub-steps run to completion so the transcript
// and memory stores cannot drift apart.
func (e *Engine) ProcessMessage(ctx context.Context, userID, text string) (*TurnReport, error) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	turnID := uuid.New().String()

	// === ANALYZING ===
	plan, err := e.analyze(ctx, turnID, userID, text)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("aborted").Inc()
		return nil, fmt.Errorf("turn %s: analyzing: %w", turnID, err)
	}
	log.Printf("[TURN] %s analyzing done user=%s mode=%s emotion=%s memories=%d",
		turnID, userID, plan.Mode, plan.Emotion, len(plan.Memories))

	// === GENERATING ===
	result, attempts, genErr := e.generate(ctx, plan)
	metrics.GenerationAttempts.Observe(float64(attempts))

	report := &TurnReport{
		TurnID:   turnID,
		UserID:   userID,
		Mode:     plan.Mode,
		Emotion:  plan.Emotion,
		Attempts: attempts,
	}

	if genErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(genErr, ctxErr) {
			// Caller cancellation, honored while awaiting generation.
			metrics.TurnsTotal.WithLabelValues("aborted").Inc()
			return nil, fmt.Errorf("turn %s: generating: %w", turnID, genErr)
		}
		// Abort before committing: zero store mutation, canned response.
		log.Printf("[TURN] %s generation failed after %d attempt(s): %v", turnID, attempts, genErr)
		report.Fallback = true
		report.ResponseText = e.fallbacks.Pick(plan.Emotion, e.randFloat())
		metrics.TurnsTotal.WithLabelValues("fallback").Inc()
		return report, nil
	}

	if result.Emotion != "" {
		// The generator saw the full context; its read refines the
		// keyword heuristic.
		report.Emotion = result.Emotion
		plan.Emotion = result.Emotion
	}
	report.ResponseText = result.ResponseText

	// === COMMITTING ===
	report.CommitErrors = e.commit(context.WithoutCancel(ctx), plan, result)
	if len(report.CommitErrors) == 0 {
		metrics.TurnsTotal.WithLabelValues("ok").Inc()
	} else {
		metrics.TurnsTotal.WithLabelValues("partial").Inc()
	}
	return report, nil
}

// analyze is the pure read+decide stage: no external call, no mutation.
func (e *Engine) analyze(ctx context.Context, turnID, userID, text string) (*core.TurnPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tv, err := e.traits.Current(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read traits: %w", err)
	}
	memories, err := e.memory.Retrieve(ctx, userID, text, e.retrieveK)
	if err != nil {
		return nil, fmt.Errorf("retrieve memories: %w", err)
	}
	window, err := e.transcript.Window(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read transcript window: %w", err)
	}

	emotion := e.analyzer.Detect(text)
	mode := e.chooseMode(text, emotion, len(window))

	return &core.TurnPlan{
		TurnID:    turnID,
		UserID:    userID,
		Message:   text,
		Mode:      mode,
		Emotion:   emotion,
		Traits:    tv,
		Memories:  memories,
		Window:    window,
		PlannedAt: e.now(),
	}, nil
}

// generate runs the external call with per-attempt timeout, retrying
// transient failures with doubling backoff. Content failures are never
// retried.
func (e *Engine) generate(ctx context.Context, plan *core.TurnPlan) (*core.GenerationResult, int, error) {
	start := e.now()
	defer func() {
		metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	backoff := e.retry.InitialBackoff
	attempts := 0
	var lastErr error

	for attempts < e.retry.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, e.retry.AttemptTimeout)
		result, err := e.gen.Generate(attemptCtx, plan)
		cancel()

		if err == nil {
			if result == nil || result.ResponseText == "" {
				err = core.Content("empty generation result")
			} else {
				return result, attempts, nil
			}
		}

		lastErr = err
		if core.IsContent(err) {
			log.Printf("[TURN] %s content failure, not retrying: %v", plan.TurnID, err)
			return nil, attempts, err
		}
		if !core.IsTransient(err) && ctx.Err() != nil {
			// Caller cancellation, not a provider failure.
			return nil, attempts, ctx.Err()
		}
		if attempts < e.retry.MaxAttempts {
			log.Printf("[TURN] %s attempt %d failed, retrying in %s: %v", plan.TurnID, attempts, backoff, err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, attempts, ctx.Err()
			}
			backoff *= 2
		}
	}
	return nil, attempts, lastErr
}

// commit applies the turn's mutations as ordered sub-steps. Failed steps
// are logged and surfaced; earlier steps are never rolled back and later
// steps still run. Re-running a turn never repeats committed steps because
// a failed turn returns its report instead of retrying.
func (e *Engine) commit(ctx context.Context, plan *core.TurnPlan, result *core.GenerationResult) []error {
	var errs []error
	fail := func(step string, err error) {
		log.Printf("[COMMIT] %s step %s failed: %v", plan.TurnID, step, err)
		metrics.CommitFailures.WithLabelValues(step).Inc()
		errs = append(errs, fmt.Errorf("%s: %w", step, err))
	}

	userTag := core.TagForScore(memory.ScoreContent(plan.Message, plan.Emotion))
	if _, err := e.transcript.Append(ctx, plan.UserID, core.RoleUser, plan.Message, plan.Emotion, userTag); err != nil {
		fail("transcript_user", err)
	}

	assistantTag := core.TagForScore(memory.ScoreContent(result.ResponseText, core.EmotionNeutral))
	if _, err := e.transcript.Append(ctx, plan.UserID, core.RoleAssistant, result.ResponseText, core.EmotionNeutral, assistantTag); err != nil {
		fail("transcript_assistant", err)
	}

	for _, cand := range result.Memories {
		if cand.Emotion == "" {
			cand.Emotion = plan.Emotion
		}
		if _, err := e.memory.Record(ctx, plan.UserID, cand); err != nil {
			fail("memory_record", err)
		}
	}

	if !result.TraitDelta.IsZero() {
		if _, err := e.traits.ApplyDelta(ctx, plan.UserID, result.TraitDelta); err != nil {
			fail("trait_delta", err)
		}
	}
	return errs
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	if mu, ok := e.userLocks.Load(userID); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := e.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (e *Engine) randFloat() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}
