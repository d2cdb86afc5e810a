package repository

import (
	"context"
	"sync"

	"brewalgo_client/internal/domain/model"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, submission *model.SubmissionRecord) error
	// ListByUserAndProblem returns newest first.
	ListByUserAndProblem(ctx context.Context, userID, problemID int64) ([]model.SubmissionRecord, error)
	HasAccepted(ctx context.Context, userID, problemID int64) (bool, error)
}

type memSubmissionRepository struct {
	mu     sync.RWMutex
	nextID int64
	all    []model.SubmissionRecord
}

func NewMemSubmissionRepository() SubmissionRepository {
	return &memSubmissionRepository{nextID: 1}
}

func (r *memSubmissionRepository) CreateSubmission(_ context.Context, s *model.SubmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = model.Ptr(r.nextID)
	r.nextID++
	r.all = append(r.all, *s)
	return nil
}

func (r *memSubmissionRepository) ListByUserAndProblem(_ context.Context, userID, problemID int64) ([]model.SubmissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.SubmissionRecord{}
	for i := len(r.all) - 1; i >= 0; i-- {
		s := r.all[i]
		if s.UserID != nil && *s.UserID == userID && s.ProblemID != nil && *s.ProblemID == problemID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSubmissionRepository) HasAccepted(ctx context.Context, userID, problemID int64) (bool, error) {
	subs, err := r.ListByUserAndProblem(ctx, userID, problemID)
	if err != nil {
		return false, err
	}
	for _, s := range subs {
		if s.Status != nil && *s.Status == model.StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}
