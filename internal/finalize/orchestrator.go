package finalize

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/gyeh/notewizard/internal/model"
)

// Func sends a finalize request to the downstream system. A nil result with a
// nil error means success with nothing to report.
type Func func(ctx context.Context, req *model.FinalizeRequest) (*model.FinalizeResult, error)

// DefaultErrorMessage is surfaced when a failure carries no message.
const DefaultErrorMessage = "Failed to finalize note."

// Orchestrator runs at most one finalize call at a time and keeps the outcome
// of the latest one for display.
type Orchestrator struct {
	fn  Func
	log zerolog.Logger
	sem *semaphore.Weighted

	mu        sync.Mutex
	gen       uint64
	state     model.FinalizeState
	requestID string
	result    *model.FinalizeResult
	errMsg    string
}

// New returns an idle orchestrator around fn.
func New(fn Func, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		fn:    fn,
		log:   log,
		sem:   semaphore.NewWeighted(1),
		state: model.FinalizeIdle,
	}
}

// Finalize builds a fresh request from in and hands it to the finalize
// function. It returns ErrInFlight without calling the function when another
// call is pending, and ErrStale when Reset was called before the function
// returned. ctx is forwarded to the function as is.
func (o *Orchestrator) Finalize(ctx context.Context, in Input) (*model.FinalizeResult, error) {
	a, err := o.Begin()
	if err != nil {
		return nil, err
	}
	return a.Run(ctx, BuildRequest(in))
}

// Attempt holds the single-flight slot for one finalize call, bound to the
// model generation current when it was claimed.
type Attempt struct {
	o    *Orchestrator
	gen  uint64
	used bool
}

// Begin claims the single-flight slot. Callers that snapshot a model should
// call Begin while that snapshot is still current, so a Reset after it marks
// the attempt stale. The returned Attempt must be Run exactly once.
func (o *Orchestrator) Begin() (*Attempt, error) {
	if !o.sem.TryAcquire(1) {
		return nil, ErrInFlight
	}
	o.mu.Lock()
	gen := o.gen
	o.mu.Unlock()
	return &Attempt{o: o, gen: gen}, nil
}

// Run sends req to the finalize function and records the outcome. An attempt
// already stale when Run starts never calls the function. The returned result
// carries req's id.
func (a *Attempt) Run(ctx context.Context, req *model.FinalizeRequest) (*model.FinalizeResult, error) {
	if a.used {
		return nil, errAttemptUsed
	}
	a.used = true
	o := a.o
	defer o.sem.Release(1)

	log := o.log.With().Str("request_id", req.RequestID.String()).Logger()

	o.mu.Lock()
	if o.gen != a.gen {
		o.mu.Unlock()
		log.Warn().Msg("model changed before finalize, not dispatching")
		return nil, ErrStale
	}
	o.state = model.FinalizeInFlight
	o.requestID = req.RequestID.String()
	o.result = nil
	o.errMsg = ""
	o.mu.Unlock()

	log.Info().
		Int("codes", len(req.Codes.All())).
		Int("compliance", len(req.Compliance)).
		Msg("finalizing note")

	start := time.Now()
	res, err := o.call(ctx, req)
	if err == nil {
		if res == nil {
			res = DefaultResult(req)
		} else {
			stamped := *res
			res = &stamped
		}
		res.RequestID = req.RequestID.String()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gen != a.gen {
		log.Warn().Msg("model changed during finalize, discarding outcome")
		return nil, ErrStale
	}
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = DefaultErrorMessage
		}
		o.state = model.FinalizeFailed
		o.errMsg = msg
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("finalize failed")
		return nil, &Error{Phase: PhaseDispatch, Err: err}
	}
	o.state = model.FinalizeSucceeded
	o.result = res
	log.Info().
		Int("code_summary", len(res.CodeSummary)).
		Bool("export_ready", res.ExportReady).
		Dur("duration", time.Since(start)).
		Msg("finalize succeeded")
	return res, nil
}

func (o *Orchestrator) call(ctx context.Context, req *model.FinalizeRequest) (res *model.FinalizeResult, err error) {
	if o.fn == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("finalize panicked: %v", r)
		}
	}()
	return o.fn(ctx, req)
}

// Reset returns the orchestrator to idle and clears any cached outcome. A call
// still in flight keeps the single-flight slot, but its outcome is discarded.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.state = model.FinalizeIdle
	o.requestID = ""
	o.result = nil
	o.errMsg = ""
}

// Status returns a snapshot of the latest outcome.
func (o *Orchestrator) Status() model.FinalizeStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return model.FinalizeStatus{State: o.state, RequestID: o.requestID, Result: o.result, Error: o.errMsg}
}
