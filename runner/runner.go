// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/poiesic/menusync/core"
	"github.com/poiesic/menusync/storage"
)

// FileLoader is the per-file load surface the runner drives. The loader
// package's Loader satisfies it.
type FileLoader interface {
	Prepare(ctx context.Context) error
	RetireDate(ctx context.Context, date string) error
	Files(date string) ([]string, error)
	LoadFile(ctx context.Context, path string) (bool, error)
	Flush(ctx context.Context) error
}

// State is the runner's lifecycle state.
type State string

const (
	StateNotStarted  State = "not_started"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateInterrupted State = "interrupted"
)

// Runner orchestrates one day's resumable load run.
type Runner struct {
	loader   FileLoader
	states   storage.StateRepository
	policy   RetryPolicy
	resume   bool
	progress io.Writer
	logger   *slog.Logger
	state    State
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) RunnerOption {
	return func(r *Runner) {
		r.policy = policy
	}
}

// WithResume controls whether a prior state for the same date is resumed.
// Default is true; disabling it starts every run from scratch.
func WithResume(resume bool) RunnerOption {
	return func(r *Runner) {
		r.resume = resume
	}
}

// WithProgress sets the writer progress lines go to. Default is no
// progress output.
func WithProgress(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.progress = w
	}
}

// WithRunnerLogger sets a custom logger. Default is slog.Default().
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner over the given loader and state repository.
func NewRunner(loader FileLoader, states storage.StateRepository, opts ...RunnerOption) (*Runner, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if states == nil {
		return nil, ErrStateRepoRequired
	}

	r := &Runner{
		loader:   loader,
		states:   states,
		policy:   DefaultRetryPolicy(),
		resume:   true,
		progress: io.Discard,
		logger:   slog.Default().With("component", "runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State {
	if r.state == "" {
		return StateNotStarted
	}
	return r.state
}

// Run executes the resumable load for today, retiring yesterday's
// partition first. The returned state carries the final per-file outcome
// even when an error is returned; on cancellation the state is persisted
// before returning so the next run resumes correctly.
func (r *Runner) Run(ctx context.Context, today, yesterday string) (*core.LoadState, error) {
	r.state = StateRunning

	state, err := r.loadOrCreateState(ctx, today)
	if err != nil {
		r.state = StateInterrupted
		return nil, err
	}

	if err := r.loader.Prepare(ctx); err != nil {
		r.state = StateInterrupted
		return state, fmt.Errorf("preparing index: %w", err)
	}

	// Best-effort retirement: failure is reported but never blocks
	// loading today's data.
	if yesterday != "" {
		if err := r.loader.RetireDate(ctx, yesterday); err != nil {
			r.logger.Error("error retiring previous partition", "date", yesterday, "err", err)
		}
	}

	files, err := r.loader.Files(today)
	if err != nil {
		r.state = StateInterrupted
		return state, fmt.Errorf("listing documents: %w", err)
	}
	state.Total = len(files)

	tracker := NewProgressTracker(r.progress, len(files), 1)
	tracker.Start()

	for _, path := range files {
		name := filepath.Base(path)
		if state.IsLoaded(name) {
			r.logger.Debug("skipping already-loaded file", "file", name)
			tracker.Increment(1)
			continue
		}

		err := r.loadOne(ctx, path)
		switch {
		case ctx.Err() != nil:
			// Persist progress before reporting the interruption.
			if saveErr := r.states.SaveState(ctx, state); saveErr != nil {
				r.logger.Error("error persisting state on interrupt", "err", saveErr)
			}
			r.state = StateInterrupted
			return state, ctx.Err()
		case err != nil:
			r.logger.Error("file failed after all attempts", "file", name, "err", err)
			state.MarkFailed(name)
		default:
			state.MarkLoaded(name)
		}

		tracker.Increment(1)
		if err := r.states.SaveState(ctx, state); err != nil {
			r.state = StateInterrupted
			return state, fmt.Errorf("persisting state: %w", err)
		}
	}

	tracker.Finish()

	if err := r.states.SaveState(ctx, state); err != nil {
		r.state = StateInterrupted
		return state, fmt.Errorf("persisting final state: %w", err)
	}

	r.state = StateCompleted
	r.logger.Info("run complete",
		"date", today, "status", string(state.Status()),
		"loaded", len(state.Loaded), "failed", len(state.Failed), "total", state.Total,
		"elapsed", tracker.Elapsed())
	return state, nil
}

// loadOne loads a single file with the configured retry policy. Each
// attempt flushes immediately so a success is durable before the state
// records it.
func (r *Runner) loadOne(ctx context.Context, path string) error {
	return RetryWithPolicy(ctx, r.policy, func(attemptCtx context.Context) error {
		if _, err := r.loader.LoadFile(attemptCtx, path); err != nil {
			return err
		}
		return r.loader.Flush(attemptCtx)
	})
}

// loadOrCreateState resumes the prior state for the date when resume is
// enabled, or starts a fresh one.
func (r *Runner) loadOrCreateState(ctx context.Context, date string) (*core.LoadState, error) {
	if r.resume {
		prior, err := r.states.LoadState(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("loading prior state: %w", err)
		}
		if prior != nil {
			r.logger.Info("resuming prior run",
				"date", date, "runID", prior.RunID,
				"loaded", len(prior.Loaded), "failed", len(prior.Failed))
			// Failed files get fresh attempts on resume.
			prior.Failed = nil
			return prior, nil
		}
	}

	return &core.LoadState{
		RunID:   uuid.NewString(),
		Date:    date,
		SiteTag: core.SiteTag(date),
	}, nil
}
