// Package research runs the multi-stage research pipeline: a fixed set of
// independent sub-queries fanned out in rate-limit-respecting batches, a
// cache in front of every sub-query, and a second-phase synthesis pass over
// the merged result. Partial failure is the normal case, not an abort.
package research

import (
	"context"
	"fmt"
	"time"

	"github.com/polwatch/regime-risk-meter/internal/monitoring"
	"github.com/polwatch/regime-risk-meter/internal/reasoning"
	"github.com/polwatch/regime-risk-meter/internal/subcache"
)

// batchSize caps concurrent reasoning-service calls per batch. The upstream
// service rate-limits aggressively, so the four sub-queries run as two
// batches of two with a strict barrier between them.
const batchSize = 2

// ErrorsKey is the merged-object field carrying sub-query diagnostics. It is
// attached only when at least one phase failed; its presence is
// informational and never a reason to discard the merged data.
const ErrorsKey = "_errors"

// CallerFactory builds a reasoning-service caller from a per-request
// credential.
type CallerFactory func(credential string) reasoning.Caller

// SubQueryResult is one sub-query outcome, consumed immediately by the
// merge step.
type SubQueryResult struct {
	Name   string
	Data   map[string]any
	Err    string
	Cached bool
}

// Orchestrator coordinates the research pipeline. The cache is injected so
// tests can control TTL behavior and so a distributed cache can replace it
// without touching call sites.
type Orchestrator struct {
	cache     *subcache.Cache
	metrics   *monitoring.Metrics
	logger    *monitoring.Logger
	newCaller CallerFactory
}

// New creates an orchestrator.
func New(cache *subcache.Cache, metrics *monitoring.Metrics, logger *monitoring.Logger, factory CallerFactory) *Orchestrator {
	return &Orchestrator{
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		newCaller: factory,
	}
}

// Run executes the full pipeline for one subject. It returns an error only
// for malformed input; every downstream failure degrades into the merged
// object's diagnostics list.
func (o *Orchestrator) Run(ctx context.Context, subject, credential, mode string) (map[string]any, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if credential == "" {
		return nil, fmt.Errorf("credential is required")
	}
	if mode != reasoning.ModeLive {
		mode = reasoning.ModeQuick
	}

	start := time.Now()
	o.metrics.IncrementResearchRun()
	caller := o.newCaller(credential)

	merged := make(map[string]any)
	errs := make([]string, 0)
	cached := 0

	// Two batches with a strict barrier in between: batch 2 starts only
	// after every batch-1 sub-query settles.
	queries := reasoning.SubQueries
	for i := 0; i < len(queries); i += batchSize {
		end := i + batchSize
		if end > len(queries) {
			end = len(queries)
		}
		results := o.runBatch(ctx, caller, subject, mode, queries[i:end])

		for _, res := range results {
			if res.Cached {
				cached++
			}
			if res.Err != "" {
				errs = append(errs, fmt.Sprintf("%s: %s", res.Name, res.Err))
				continue
			}
			// Shallow last-write-wins merge. Safe because sub-query
			// schemas are disjoint by construction.
			for k, v := range res.Data {
				merged[k] = v
			}
		}
	}

	// Second phase: uncached, no-search synthesis over the merged object.
	// Its failure degrades like any sub-query failure.
	o.metrics.IncrementReasoningCall()
	synth, err := caller.Call(ctx,
		reasoning.SynthesisPrompt(subject, merged),
		reasoning.SynthesisBudget(mode),
		false,
		reasoning.SynthesisTool,
	)
	if err != nil {
		o.metrics.IncrementSynthesisFailure()
		errs = append(errs, fmt.Sprintf("%s: %s", reasoning.QuerySynthesis, err.Error()))
	} else {
		for k, v := range synth {
			merged[k] = v
		}
	}

	if len(errs) > 0 {
		merged[ErrorsKey] = errs
	}

	o.logger.ResearchLogger(subject, mode, len(queries), cached, len(errs), time.Since(start))
	return merged, nil
}

// runBatch settles every sub-query in the slice concurrently. No result
// short-circuits another: panics and errors alike end up as diagnostic
// strings in the result slot.
func (o *Orchestrator) runBatch(ctx context.Context, caller reasoning.Caller, subject, mode string, queries []reasoning.SubQuery) []SubQueryResult {
	results := make([]SubQueryResult, len(queries))
	done := make(chan struct{})

	remaining := len(queries)
	for i, q := range queries {
		go func(slot int, q reasoning.SubQuery) {
			defer func() {
				if r := recover(); r != nil {
					results[slot] = SubQueryResult{
						Name: q.Name,
						Err:  fmt.Sprintf("panic: %v", r),
					}
				}
				done <- struct{}{}
			}()
			results[slot] = o.runSubQuery(ctx, caller, subject, mode, q)
		}(i, q)
	}
	for ; remaining > 0; remaining-- {
		<-done
	}
	return results
}

func (o *Orchestrator) runSubQuery(ctx context.Context, caller reasoning.Caller, subject, mode string, q reasoning.SubQuery) SubQueryResult {
	if entry, ok := o.cache.Get(subject, mode, q.Name); ok {
		o.metrics.IncrementCacheHit()
		return SubQueryResult{Name: q.Name, Data: entry.Data, Cached: true}
	}
	o.metrics.IncrementCacheMiss()

	start := time.Now()
	o.metrics.IncrementReasoningCall()
	data, err := caller.Call(ctx, q.Prompt(subject), q.Budget(mode), mode == reasoning.ModeLive, q.Tool)
	o.logger.ReasoningLogger(q.Name, mode, err == nil, time.Since(start))
	if err != nil {
		o.metrics.IncrementReasoningError()
		return SubQueryResult{Name: q.Name, Err: err.Error()}
	}

	o.cache.Set(subject, mode, q.Name, data)
	return SubQueryResult{Name: q.Name, Data: data}
}
