package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", `"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"local date-time", `"2024-03-01T10:20:30.123456"`, time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC)},
		{"no fraction", `"2024-03-01T10:20:30"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"date only", `"2024-03-01"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"garbage", `"yesterday"`, time.Time{}},
		{"wrong type", `42`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			require.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestUserWithBadTimestampStillDecodes(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"id":3,"username":"ada","createdAt":"not a date","lastLoginAt":null}`), &u)
	require.NoError(t, err)
	require.EqualValues(t, 3, u.ID)
	require.True(t, u.CreatedAt.IsZero())

	out, err := json.Marshal(u)
	require.NoError(t, err)
	require.Contains(t, string(out), `"createdAt":null`)
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{
		"Python": LanguagePython,
		"c++":    LanguageCpp,
		" js ":   LanguageJavaScript,
		"JAVA":   LanguageJava,
	} {
		got, ok := ParseLanguage(in)
		require.True(t, ok, in)
		require.Equal(t, want, got)
		require.True(t, got.Valid())
	}

	_, ok := ParseLanguage("cobol")
	require.False(t, ok)
	require.False(t, Language("RUST").Valid())
}

func TestParseDifficulty(t *testing.T) {
	d, ok := ParseDifficulty("medium")
	require.True(t, ok)
	require.Equal(t, DifficultyMedium, d)

	_, ok = ParseDifficulty("ALL")
	require.False(t, ok)
}

func TestSubmitResponseOptionalFields(t *testing.T) {
	var resp SubmitResponse
	require.NoError(t, json.Unmarshal([]byte(`{"executionResult":{"status":"ACCEPTED","executionTimeMs":12}}`), &resp))
	require.Nil(t, resp.Submission)
	require.Equal(t, StatusAccepted, *resp.ExecutionResult.Status)
	require.Nil(t, resp.ExecutionResult.MemoryUsedKb)
}
