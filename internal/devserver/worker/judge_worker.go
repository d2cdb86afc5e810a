package worker

import (
	"context"
	"errors"
	"time"

	"brewalgo_client/internal/domain/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrStopped is returned for jobs submitted after the worker shut down.
var ErrStopped = errors.New("judge worker stopped")

// Evaluator is the judge the worker drives.
type Evaluator interface {
	Evaluate(ctx context.Context, problem *model.Problem, code string, language model.Language) (*model.ExecutionResult, error)
}

type Job struct {
	ID       string
	Problem  *model.Problem
	Code     string
	Language model.Language

	ctx    context.Context
	result chan jobResult
}

type jobResult struct {
	res *model.ExecutionResult
	err error
}

// JudgeWorker runs queued evaluations strictly one at a time, like a judge
// with a single sandbox. Callers block in Evaluate until their verdict is
// ready, which keeps the HTTP contract synchronous.
type JudgeWorker struct {
	judge  Evaluator
	queue  chan *Job
	logger *zap.Logger
	done   chan struct{}
}

func NewJudgeWorker(judge Evaluator, queueSize int, logger *zap.Logger) *JudgeWorker {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &JudgeWorker{
		judge:  judge,
		queue:  make(chan *Job, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
}

func (w *JudgeWorker) Start(ctx context.Context) {
	w.logger.Info("judge worker started")
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("judge worker stopping")
			w.drain()
			return
		case job := <-w.queue:
			w.process(job)
		}
	}
}

// Evaluate queues one job and waits for its verdict.
func (w *JudgeWorker) Evaluate(ctx context.Context, problem *model.Problem, code string, language model.Language) (*model.ExecutionResult, error) {
	job := &Job{
		ID:       uuid.NewString(),
		Problem:  problem,
		Code:     code,
		Language: language,
		ctx:      ctx,
		result:   make(chan jobResult, 1),
	}

	select {
	case <-w.done:
		return nil, ErrStopped
	default:
	}

	select {
	case w.queue <- job:
	case <-w.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-job.result:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.done:
		// the verdict may have landed just before shutdown
		select {
		case r := <-job.result:
			return r.res, r.err
		default:
			return nil, ErrStopped
		}
	}
}

func (w *JudgeWorker) process(job *Job) {
	if err := job.ctx.Err(); err != nil {
		// the submitter gave up while the job was queued
		job.result <- jobResult{err: err}
		return
	}
	started := time.Now()
	res, err := w.judge.Evaluate(job.ctx, job.Problem, job.Code, job.Language)
	if err != nil {
		w.logger.Error("judge failed", zap.String("job_id", job.ID), zap.Error(err))
	} else {
		status := ""
		if res != nil && res.Status != nil {
			status = string(*res.Status)
		}
		w.logger.Debug("job judged",
			zap.String("job_id", job.ID),
			zap.Int64("problem_id", job.Problem.ID),
			zap.String("status", status),
			zap.Duration("elapsed", time.Since(started)))
	}
	job.result <- jobResult{res: res, err: err}
}

func (w *JudgeWorker) drain() {
	for {
		select {
		case job := <-w.queue:
			job.result <- jobResult{err: ErrStopped}
		default:
			return
		}
	}
}
