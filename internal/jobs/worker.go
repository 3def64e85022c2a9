package jobs

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"reflekt/internal/state"
)

// Worker drains the job queue: pattern recomputations triggered by appends
// and the daily retention sweep.
type Worker struct {
	ID       string
	Repo     *Repo
	Store    *state.Store
	Analyzer *state.Analyzer

	RetentionDays int
	Log           *zap.Logger
}

func (w *Worker) Run(ctx context.Context) {
	// Seed the retention sweep; reruns self-schedule.
	if err := w.Repo.EnqueuePrune(nextPruneTime(time.Now())); err != nil {
		w.Log.Warn("prune schedule failed", zap.Error(err))
	}

	ticker := time.NewTicker(800 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				w.Log.Warn("worker claim failed", zap.Error(err))
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypeAnalyzePatterns:
		w.handleAnalyze(ctx, job)
	case TypePruneRetention:
		w.handlePrune(ctx, job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

func (w *Worker) handleAnalyze(ctx context.Context, job *Job) {
	var p struct {
		StateKey string `json:"state_key"`
	}
	if err := json.Unmarshal(job.Payload, &p); err != nil || p.StateKey == "" {
		_ = w.Repo.MarkFailed(job.ID, "bad payload")
		return
	}

	if _, err := w.Analyzer.Analyze(ctx, job.UserID, p.StateKey); err != nil {
		w.retry(job, err.Error())
		return
	}
	_ = w.Repo.MarkDone(job.ID)
}

func (w *Worker) handlePrune(ctx context.Context, job *Job) {
	removed, err := w.Store.Prune(ctx, w.RetentionDays)
	if err != nil {
		// Hygiene only: correctness never depends on pruning.
		w.Log.Warn("retention prune failed", zap.Error(err))
		w.retry(job, err.Error())
		return
	}

	w.Log.Info("retention prune done", zap.Int64("removed", removed))
	_ = w.Repo.MarkDone(job.ID)

	if err := w.Repo.EnqueuePrune(nextPruneTime(time.Now())); err != nil {
		w.Log.Warn("prune reschedule failed", zap.Error(err))
	}
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}

// nextPruneTime is the next 03:00 local.
func nextPruneTime(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
