package submission

import "brewalgo_client/internal/domain/model"

// Reconcile merges the two halves of a submit response into one result.
// Status comes from the execution result when it has one and falls back to
// the submission record; metrics and output only exist on the execution
// result and the score only on the submission record. Missing halves are
// treated as empty, so a nil or partial response never fails.
func Reconcile(resp *model.SubmitResponse) *model.ReconciledResult {
	exec := &model.ExecutionResult{}
	sub := &model.SubmissionRecord{}
	if resp != nil {
		if resp.ExecutionResult != nil {
			exec = resp.ExecutionResult
		}
		if resp.Submission != nil {
			sub = resp.Submission
		}
	}

	return &model.ReconciledResult{
		Status:          firstStatus(exec.Status, sub.Status),
		ExecutionTimeMs: exec.ExecutionTimeMs,
		MemoryUsedKb:    exec.MemoryUsedKb,
		ScoreAwarded:    sub.ScoreAwarded,
		ErrorMessage:    exec.ErrorMessage,
		Output:          exec.Output,
		PassedTestCases: exec.PassedTestCases,
		TotalTestCases:  exec.TotalTestCases,
	}
}

func firstStatus(candidates ...*model.SubmissionStatus) *model.SubmissionStatus {
	for _, s := range candidates {
		if s != nil && *s != "" {
			return s
		}
	}
	return nil
}
