package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"
)

type ProblemRepository interface {
	CreateProblem(ctx context.Context, problem *model.Problem) error
	FindProblemByID(ctx context.Context, id int64) (*model.Problem, error)
	FindProblemBySlug(ctx context.Context, slug string) (*model.Problem, error)
	// ListProblems returns every problem, or only one difficulty when
	// difficulty is non-empty, ordered by ID.
	ListProblems(ctx context.Context, difficulty model.Difficulty) ([]model.Problem, error)
	// RecordAttempt updates the submission counters behind AcceptanceRate.
	RecordAttempt(ctx context.Context, id int64, accepted bool) error
}

type problemRow struct {
	problem  model.Problem
	accepted int
}

type memProblemRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*problemRow
}

func NewMemProblemRepository() ProblemRepository {
	return &memProblemRepository{nextID: 1, byID: make(map[int64]*problemRow)}
}

func (r *memProblemRepository) CreateProblem(_ context.Context, p *model.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.byID {
		if row.problem.Slug == p.Slug {
			return fmt.Errorf("problem slug %q already taken: %w", p.Slug, common.ErrConflict)
		}
	}
	p.ID = r.nextID
	r.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = model.Timestamp{Time: time.Now().UTC()}
	}
	r.byID[p.ID] = &problemRow{problem: *p}
	return nil
}

func (r *memProblemRepository) FindProblemByID(_ context.Context, id int64) (*model.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	p := row.problem
	return &p, nil
}

func (r *memProblemRepository) FindProblemBySlug(_ context.Context, slug string) (*model.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.byID {
		if row.problem.Slug == slug {
			p := row.problem
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memProblemRepository) ListProblems(_ context.Context, difficulty model.Difficulty) ([]model.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Problem, 0, len(r.byID))
	for _, row := range r.byID {
		if difficulty != "" && row.problem.Difficulty != difficulty {
			continue
		}
		out = append(out, row.problem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProblemRepository) RecordAttempt(_ context.Context, id int64, accepted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	row.problem.TotalSubmissions++
	if accepted {
		row.accepted++
	}
	row.problem.AcceptanceRate = float64(row.accepted) * 100 / float64(row.problem.TotalSubmissions)
	return nil
}
