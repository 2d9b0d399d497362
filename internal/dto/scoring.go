package dto

import (
	"time"

	"github.com/noah-isme/pjbl-tracker-api/internal/models"
)

// SubmissionScoreResponse is the write-back result of scoring one
// submission. Field names follow the dashboard API contract.
type SubmissionScoreResponse struct {
	ID        string                  `json:"id"`
	Score     float64                 `json:"score"`
	Breakdown []models.DimensionScore `json:"breakdown"`
	Feedback  string                  `json:"feedback"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// StudentRollupResponse aggregates one student's dimension scores across
// every submission in a project.
type StudentRollupResponse struct {
	StudentID               string                  `json:"studentId"`
	StudentName             string                  `json:"studentName,omitempty"`
	ProjectID               string                  `json:"projectId"`
	DimensionScores         []models.DimensionScore `json:"dimensionScores"`
	OverallAverageScore     float64                 `json:"overallAverageScore"`
	OverallQualitativeLabel string                  `json:"overallQualitativeLabel"`
	OverallQualitativeCode  string                  `json:"overallQualitativeCode,omitempty"`
}

// ClassRollupResponse aggregates a whole roster.
type ClassRollupResponse struct {
	ClassID                 string                  `json:"classId"`
	ClassName               string                  `json:"className,omitempty"`
	ProjectID               string                  `json:"projectId"`
	Students                []StudentRollupResponse `json:"students"`
	DimensionScores         []models.DimensionScore `json:"dimensionScores"`
	OverallAverageScore     float64                 `json:"overallAverageScore"`
	OverallQualitativeLabel string                  `json:"overallQualitativeLabel"`
}

// RecomputeRequest scopes a batch recompute run. An empty ProjectID
// recomputes every eligible submission.
type RecomputeRequest struct {
	ProjectID string `json:"projectId" validate:"omitempty"`
	Force     bool   `json:"force"`
	Async     bool   `json:"async"`
}

// StreakResponse reports a student's trailing engagement streak in days.
type StreakResponse struct {
	StudentID string `json:"studentId"`
	Streak    int    `json:"streak"`
}
