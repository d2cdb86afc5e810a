package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"brewalgo_client/internal/domain/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type evaluatorFunc func(ctx context.Context, problem *model.Problem, code string, language model.Language) (*model.ExecutionResult, error)

func (f evaluatorFunc) Evaluate(ctx context.Context, problem *model.Problem, code string, language model.Language) (*model.ExecutionResult, error) {
	return f(ctx, problem, code, language)
}

var problem = &model.Problem{ID: 1, Slug: "two-sum"}

func TestJudgeWorkerRunsOneJobAtATime(t *testing.T) {
	var running, peak atomic.Int32
	judge := evaluatorFunc(func(context.Context, *model.Problem, string, model.Language) (*model.ExecutionResult, error) {
		n := running.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return &model.ExecutionResult{Status: model.Ptr(model.StatusAccepted)}, nil
	})

	w := NewJudgeWorker(judge, 4, zap.NewNop())
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go w.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := w.Evaluate(ctx, problem, "code", model.LanguageCpp)
			if err == nil && res != nil {
				return
			}
			t.Errorf("evaluate: %v", err)
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, peak.Load())
}

func TestJudgeWorkerPassesJudgeErrors(t *testing.T) {
	boom := errors.New("sandbox crashed")
	w := NewJudgeWorker(evaluatorFunc(func(context.Context, *model.Problem, string, model.Language) (*model.ExecutionResult, error) {
		return nil, boom
	}), 1, zap.NewNop())
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go w.Start(ctx)

	_, err := w.Evaluate(ctx, problem, "code", model.LanguagePython)
	require.ErrorIs(t, err, boom)
}

func TestJudgeWorkerStopped(t *testing.T) {
	w := NewJudgeWorker(evaluatorFunc(func(context.Context, *model.Problem, string, model.Language) (*model.ExecutionResult, error) {
		return &model.ExecutionResult{}, nil
	}), 1, zap.NewNop())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()
	<-done

	_, err := w.Evaluate(t.Context(), problem, "code", model.LanguagePython)
	require.ErrorIs(t, err, ErrStopped)
}

func TestJudgeWorkerCallerGivesUp(t *testing.T) {
	release := make(chan struct{})
	w := NewJudgeWorker(evaluatorFunc(func(context.Context, *model.Problem, string, model.Language) (*model.ExecutionResult, error) {
		<-release
		return &model.ExecutionResult{}, nil
	}), 1, zap.NewNop())
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go w.Start(ctx)
	defer close(release)

	callCtx, callCancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer callCancel()
	_, err := w.Evaluate(callCtx, problem, "code", model.LanguageJava)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
