package service

import (
	"context"
	"fmt"
	"strings"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/devserver/repository"
	"brewalgo_client/internal/domain/model"

	"github.com/gosimple/slug"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo}
}

type CreateProblemRequest struct {
	Title       string
	Description string
	Hints       string
	Difficulty  model.Difficulty
	BaseScore   int
}

func (s *ProblemService) CreateProblem(ctx context.Context, req CreateProblemRequest) (*model.Problem, error) {
	if strings.TrimSpace(req.Title) == "" || req.Description == "" {
		return nil, common.Errorf("title and description are required: %w", common.ErrBadRequest)
	}
	difficulty, ok := model.ParseDifficulty(string(req.Difficulty))
	if !ok {
		return nil, common.Errorf("unknown difficulty %q: %w", req.Difficulty, common.ErrBadRequest)
	}
	if req.BaseScore <= 0 {
		req.BaseScore = defaultBaseScore(difficulty)
	}

	problem := &model.Problem{
		Slug:        slug.Make(req.Title),
		Title:       req.Title,
		Description: req.Description,
		Hints:       req.Hints,
		Difficulty:  difficulty,
		BaseScore:   req.BaseScore,
	}
	if err := s.problemRepo.CreateProblem(ctx, problem); err != nil {
		return nil, common.Errorf("failed to create problem: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) ListProblems(ctx context.Context) ([]model.Problem, error) {
	return s.problemRepo.ListProblems(ctx, "")
}

func (s *ProblemService) ListByDifficulty(ctx context.Context, raw string) ([]model.Problem, error) {
	difficulty, ok := model.ParseDifficulty(raw)
	if !ok {
		return nil, common.Errorf("unknown difficulty %q: %w", raw, common.ErrBadRequest)
	}
	return s.problemRepo.ListProblems(ctx, difficulty)
}

func (s *ProblemService) GetProblem(ctx context.Context, id int64) (*model.Problem, error) {
	return s.problemRepo.FindProblemByID(ctx, id)
}

func (s *ProblemService) GetProblemBySlug(ctx context.Context, problemSlug string) (*model.Problem, error) {
	return s.problemRepo.FindProblemBySlug(ctx, slug.Make(problemSlug))
}

func defaultBaseScore(d model.Difficulty) int {
	switch d {
	case model.DifficultyMedium:
		return 200
	case model.DifficultyHard:
		return 300
	}
	return 100
}

// Seed loads the built-in problem set. Problems already present are
// skipped so Seed may run against a warm repository.
func (s *ProblemService) Seed(ctx context.Context) error {
	for _, req := range seedProblems {
		if _, err := s.problemRepo.FindProblemBySlug(ctx, slug.Make(req.Title)); err == nil {
			continue
		}
		if _, err := s.CreateProblem(ctx, req); err != nil {
			return fmt.Errorf("seed %q: %w", req.Title, err)
		}
	}
	return nil
}

var seedProblems = []CreateProblemRequest{
	{
		Title:       "Two Sum",
		Description: "Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.",
		Hints:       "A hash map from value to index finds the complement in one pass.",
		Difficulty:  model.DifficultyEasy,
	},
	{
		Title:       "Valid Parentheses",
		Description: "Given a string containing just the characters '(', ')', '{', '}', '[' and ']', determine if the input string is valid.",
		Hints:       "Push openers on a stack and pop on every closer.",
		Difficulty:  model.DifficultyEasy,
	},
	{
		Title:       "Longest Substring Without Repeating Characters",
		Description: "Given a string s, find the length of the longest substring without repeating characters.",
		Hints:       "Slide a window and remember the last index of each character.",
		Difficulty:  model.DifficultyMedium,
	},
	{
		Title:       "Merge Intervals",
		Description: "Given an array of intervals, merge all overlapping intervals and return the non-overlapping intervals that cover all the input.",
		Difficulty:  model.DifficultyMedium,
	},
	{
		Title:       "Median of Two Sorted Arrays",
		Description: "Given two sorted arrays nums1 and nums2 of size m and n respectively, return the median of the two sorted arrays in O(log (m+n)).",
		Hints:       "Binary search the partition of the shorter array.",
		Difficulty:  model.DifficultyHard,
	},
}
