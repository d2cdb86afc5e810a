package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/devserver/repository"
	"brewalgo_client/internal/domain/model"

	"go.uber.org/zap"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	userRepo       repository.UserRepository
	judge          Judge
	logger         *zap.Logger
	now            func() time.Time

	// serializes the first-accept check with the score it awards
	scoreMu sync.Mutex
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	probRepo repository.ProblemRepository,
	userRepo repository.UserRepository,
	judge Judge,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		problemRepo:    probRepo,
		userRepo:       userRepo,
		judge:          judge,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateSubmission judges the attempt before replying. The caller may only
// submit as itself.
func (s *SubmissionService) CreateSubmission(ctx context.Context, userID int64, req model.SubmitRequest) (*model.SubmitResponse, error) {
	if req.UserID != userID {
		return nil, common.Errorf("cannot submit for user %d: %w", req.UserID, common.ErrForbidden)
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, common.Errorf("code is required: %w", common.ErrBadRequest)
	}
	if !req.Language.Valid() {
		return nil, common.Errorf("unsupported language %q: %w", req.Language, common.ErrBadRequest)
	}

	problem, err := s.problemRepo.FindProblemByID(ctx, req.ProblemID)
	if err != nil {
		return nil, common.Errorf("problem not found: %w", err)
	}

	verdict, err := s.judge.Evaluate(ctx, problem, req.Code, req.Language)
	if err != nil {
		return nil, common.Errorf("failed to judge submission: %w", err)
	}
	status := model.StatusError
	if verdict != nil && verdict.Status != nil {
		status = *verdict.Status
	}
	accepted := status == model.StatusAccepted

	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	firstAccept := false
	if accepted {
		solved, err := s.submissionRepo.HasAccepted(ctx, userID, problem.ID)
		if err != nil {
			return nil, common.Errorf("failed to check history: %w", err)
		}
		firstAccept = !solved
	}
	score := 0
	if firstAccept {
		score = problem.BaseScore
	}

	record := &model.SubmissionRecord{
		UserID:       model.Ptr(userID),
		ProblemID:    model.Ptr(problem.ID),
		Code:         model.Ptr(req.Code),
		Language:     model.Ptr(req.Language),
		Status:       model.Ptr(status),
		ScoreAwarded: model.Ptr(score),
		SubmittedAt:  &model.Timestamp{Time: s.now().UTC()},
	}
	if verdict != nil {
		record.ExecutionTimeMs = verdict.ExecutionTimeMs
	}
	if err := s.submissionRepo.CreateSubmission(ctx, record); err != nil {
		return nil, common.Errorf("failed to create submission: %w", err)
	}

	if err := s.problemRepo.RecordAttempt(ctx, problem.ID, accepted); err != nil {
		s.logger.Warn("failed to update problem stats", zap.Int64("problem_id", problem.ID), zap.Error(err))
	}
	if firstAccept {
		if err := s.userRepo.IncrementSolved(ctx, userID); err != nil {
			s.logger.Warn("failed to update solved count", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	s.logger.Info("submission judged",
		zap.Int64("submission_id", *record.ID),
		zap.Int64("user_id", userID),
		zap.Int64("problem_id", problem.ID),
		zap.String("status", string(status)))

	return &model.SubmitResponse{Submission: record, ExecutionResult: verdict}, nil
}

func (s *SubmissionService) ListUserProblemSubmissions(ctx context.Context, callerID, userID, problemID int64) ([]model.SubmissionRecord, error) {
	if callerID != userID {
		return nil, common.Errorf("history of user %d: %w", userID, common.ErrForbidden)
	}
	return s.submissionRepo.ListByUserAndProblem(ctx, userID, problemID)
}
