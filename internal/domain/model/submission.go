package model

type SubmissionStatus string

const (
	StatusPending             SubmissionStatus = "PENDING"
	StatusRunning             SubmissionStatus = "RUNNING"
	StatusAccepted            SubmissionStatus = "ACCEPTED"
	StatusWrongAnswer         SubmissionStatus = "WRONG_ANSWER"
	StatusTimeLimitExceeded   SubmissionStatus = "TIME_LIMIT_EXCEEDED"
	StatusMemoryLimitExceeded SubmissionStatus = "MEMORY_LIMIT_EXCEEDED"
	StatusCompilationError    SubmissionStatus = "COMPILATION_ERROR"
	StatusRuntimeError        SubmissionStatus = "RUNTIME_ERROR"
	StatusError               SubmissionStatus = "ERROR" // Judge-side failure
)

// SubmitRequest is the body of POST /submissions.
type SubmitRequest struct {
	UserID    int64    `json:"userId"`
	ProblemID int64    `json:"problemId"`
	Code      string   `json:"code"`
	Language  Language `json:"language"`
}

// SubmissionRecord is the persisted bookkeeping entry. Every field may be
// missing from a response, so all of them are optional.
type SubmissionRecord struct {
	ID              *int64            `json:"id,omitempty"`
	UserID          *int64            `json:"userId,omitempty"`
	ProblemID       *int64            `json:"problemId,omitempty"`
	Code            *string           `json:"code,omitempty"`
	Language        *Language         `json:"language,omitempty"`
	Status          *SubmissionStatus `json:"status,omitempty"`
	ScoreAwarded    *int              `json:"scoreAwarded,omitempty"`
	ExecutionTimeMs *int64            `json:"executionTimeMs,omitempty"`
	SubmittedAt     *Timestamp        `json:"submittedAt,omitempty"`
}

// ExecutionResult is the judge verdict for one attempt.
type ExecutionResult struct {
	Status          *SubmissionStatus `json:"status,omitempty"`
	ExecutionTimeMs *int64            `json:"executionTimeMs,omitempty"`
	MemoryUsedKb    *int64            `json:"memoryUsedKb,omitempty"`
	ErrorMessage    *string           `json:"errorMessage,omitempty"`
	Output          *string           `json:"output,omitempty"`
	PassedTestCases *int              `json:"passedTestCases,omitempty"`
	TotalTestCases  *int              `json:"totalTestCases,omitempty"`
}

// SubmitResponse carries both sub-resources of one submit call. Either may be
// absent.
type SubmitResponse struct {
	Submission      *SubmissionRecord `json:"submission,omitempty"`
	ExecutionResult *ExecutionResult  `json:"executionResult,omitempty"`
}

// ReconciledResult is the display-ready merge of a SubmitResponse. Nil means
// the backend did not report the field.
type ReconciledResult struct {
	Status          *SubmissionStatus `json:"status,omitempty"`
	ExecutionTimeMs *int64            `json:"executionTimeMs,omitempty"`
	MemoryUsedKb    *int64            `json:"memoryUsedKb,omitempty"`
	ScoreAwarded    *int              `json:"scoreAwarded,omitempty"`
	ErrorMessage    *string           `json:"errorMessage,omitempty"`
	Output          *string           `json:"output,omitempty"`
	PassedTestCases *int              `json:"passedTestCases,omitempty"`
	TotalTestCases  *int              `json:"totalTestCases,omitempty"`
}

// Ptr is a small helper for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}
