package submission

import (
	"testing"

	"brewalgo_client/internal/domain/model"

	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		resp *model.SubmitResponse
		want *model.ReconciledResult
	}{
		{
			name: "execution status with score from submission",
			resp: &model.SubmitResponse{
				ExecutionResult: &model.ExecutionResult{Status: model.Ptr(model.StatusAccepted), ExecutionTimeMs: model.Ptr(int64(42))},
				Submission:      &model.SubmissionRecord{ScoreAwarded: model.Ptr(100)},
			},
			want: &model.ReconciledResult{
				Status:          model.Ptr(model.StatusAccepted),
				ExecutionTimeMs: model.Ptr(int64(42)),
				ScoreAwarded:    model.Ptr(100),
			},
		},
		{
			name: "empty execution result falls back to submission status",
			resp: &model.SubmitResponse{
				ExecutionResult: &model.ExecutionResult{},
				Submission:      &model.SubmissionRecord{Status: model.Ptr(model.StatusPending)},
			},
			want: &model.ReconciledResult{Status: model.Ptr(model.StatusPending)},
		},
		{
			name: "blank execution status also falls back",
			resp: &model.SubmitResponse{
				ExecutionResult: &model.ExecutionResult{Status: model.Ptr(model.SubmissionStatus(""))},
				Submission:      &model.SubmissionRecord{Status: model.Ptr(model.StatusWrongAnswer)},
			},
			want: &model.ReconciledResult{Status: model.Ptr(model.StatusWrongAnswer)},
		},
		{
			name: "missing submission record",
			resp: &model.SubmitResponse{
				ExecutionResult: &model.ExecutionResult{
					Status:          model.Ptr(model.StatusWrongAnswer),
					PassedTestCases: model.Ptr(3),
					TotalTestCases:  model.Ptr(10),
					Output:          model.Ptr("7"),
					MemoryUsedKb:    model.Ptr(int64(2048)),
					ErrorMessage:    model.Ptr("expected 8"),
				},
			},
			want: &model.ReconciledResult{
				Status:          model.Ptr(model.StatusWrongAnswer),
				PassedTestCases: model.Ptr(3),
				TotalTestCases:  model.Ptr(10),
				Output:          model.Ptr("7"),
				MemoryUsedKb:    model.Ptr(int64(2048)),
				ErrorMessage:    model.Ptr("expected 8"),
			},
		},
		{
			name: "submission metrics are not used",
			resp: &model.SubmitResponse{
				Submission: &model.SubmissionRecord{ExecutionTimeMs: model.Ptr(int64(99))},
			},
			want: &model.ReconciledResult{},
		},
		{name: "both halves missing", resp: &model.SubmitResponse{}, want: &model.ReconciledResult{}},
		{name: "nil response", resp: nil, want: &model.ReconciledResult{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Reconcile(tc.resp))
		})
	}
}
