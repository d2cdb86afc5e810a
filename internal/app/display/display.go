// Package display derives presentation from verdicts and problems. Every
// lookup here is total: values the client has never heard of map to
// CategoryNeutral instead of failing.
package display

import (
	"fmt"
	"strings"

	"brewalgo_client/internal/domain/model"
)

type Category string

const (
	CategoryAccepted            Category = "accepted"
	CategoryWrongAnswer         Category = "wrong-answer"
	CategoryTimeLimitExceeded   Category = "time-limit-exceeded"
	CategoryMemoryLimitExceeded Category = "memory-limit-exceeded"
	CategoryCompileError        Category = "compile-error"
	CategoryRuntimeError        Category = "runtime-error"
	CategoryPending             Category = "pending"
	CategoryError               Category = "error"
	CategoryNeutral             Category = "neutral"

	CategoryEasy   Category = "easy"
	CategoryMedium Category = "medium"
	CategoryHard   Category = "hard"
)

var statusCategories = map[string]Category{
	"ACCEPTED":              CategoryAccepted,
	"WRONG_ANSWER":          CategoryWrongAnswer,
	"TIME_LIMIT_EXCEEDED":   CategoryTimeLimitExceeded,
	"MEMORY_LIMIT_EXCEEDED": CategoryMemoryLimitExceeded,
	"COMPILATION_ERROR":     CategoryCompileError,
	"COMPILE_ERROR":         CategoryCompileError,
	"RUNTIME_ERROR":         CategoryRuntimeError,
	"PENDING":               CategoryPending,
	"RUNNING":               CategoryPending,
	"IN_QUEUE":              CategoryPending,
	"ERROR":                 CategoryError,
	"SYSTEM_ERROR":          CategoryError,
}

var difficultyCategories = map[string]Category{
	"EASY":   CategoryEasy,
	"MEDIUM": CategoryMedium,
	"HARD":   CategoryHard,
}

func StatusCategory(s *model.SubmissionStatus) Category {
	if s == nil {
		return CategoryNeutral
	}
	if c, ok := statusCategories[strings.ToUpper(strings.TrimSpace(string(*s)))]; ok {
		return c
	}
	return CategoryNeutral
}

func DifficultyCategory(d model.Difficulty) Category {
	if c, ok := difficultyCategories[strings.ToUpper(strings.TrimSpace(string(d)))]; ok {
		return c
	}
	return CategoryNeutral
}

// StatusLabel is the text shown in the status badge.
func StatusLabel(s *model.SubmissionStatus) string {
	if s == nil || strings.TrimSpace(string(*s)) == "" {
		return "UNKNOWN"
	}
	return string(*s)
}

type Row struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ResultRows lists the optional verdict details that are worth showing.
// Each row is decided on its own; a missing field never hides another.
func ResultRows(r *model.ReconciledResult) []Row {
	if r == nil {
		return nil
	}
	var rows []Row
	if r.PassedTestCases != nil && r.TotalTestCases != nil {
		rows = append(rows, Row{"testCases", "Test Cases", fmt.Sprintf("%d/%d passed", *r.PassedTestCases, *r.TotalTestCases)})
	}
	if r.ExecutionTimeMs != nil && *r.ExecutionTimeMs > 0 {
		rows = append(rows, Row{"executionTime", "Execution Time", fmt.Sprintf("%dms", *r.ExecutionTimeMs)})
	}
	if r.MemoryUsedKb != nil && *r.MemoryUsedKb > 0 {
		rows = append(rows, Row{"memory", "Memory Used", fmt.Sprintf("%dKB", *r.MemoryUsedKb)})
	}
	if r.ScoreAwarded != nil && *r.ScoreAwarded > 0 {
		rows = append(rows, Row{"score", "Score", fmt.Sprintf("%d pts", *r.ScoreAwarded)})
	}
	if r.Output != nil && *r.Output != "" {
		rows = append(rows, Row{"output", "Output", *r.Output})
	}
	if r.ErrorMessage != nil && *r.ErrorMessage != "" {
		rows = append(rows, Row{"error", "Error", *r.ErrorMessage})
	}
	return rows
}
