package model

import "strings"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Difficulties lists the filter values in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts any casing of the known difficulties.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	}
	return "", false
}

// Problem is read-only reference data owned by the backend.
type Problem struct {
	ID               int64      `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Hints            string     `json:"hints,omitempty"`
	Difficulty       Difficulty `json:"difficulty"`
	BaseScore        int        `json:"baseScore"`
	AcceptanceRate   float64    `json:"acceptanceRate"`
	TotalSubmissions int        `json:"totalSubmissions"`
	CreatedAt        Timestamp  `json:"createdAt"`
}
