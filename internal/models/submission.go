package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SubmissionKind tags the content payload variant a submission carries.
type SubmissionKind string

const (
	KindAssessment  SubmissionKind = "assessment"
	KindObservation SubmissionKind = "observation"
	KindJournal     SubmissionKind = "journal"
)

// DefaultDimensionName returns the display name used for questions without
// a dimension assignment, per submission kind.
func (k SubmissionKind) DefaultDimensionName() string {
	if k == KindObservation {
		return "Observasi Umum"
	}
	return "Umum"
}

// AssessmentContent is the payload of a self/peer assessment submission.
type AssessmentContent struct {
	Answers []*float64 `json:"answers"`
}

// ObservationContent is the payload of a teacher observation submission.
type ObservationContent struct {
	Answers []*float64 `json:"answers"`
	Notes   *string    `json:"notes,omitempty"`
}

// JournalContent is the payload of a reflective journal submission. It
// shares the rated answers array and adds free-form reflection text.
type JournalContent struct {
	Answers    []*float64 `json:"answers"`
	Reflection string     `json:"reflection,omitempty"`
}

// Submission is one student's answer set for an instrument. Score,
// Feedback and Breakdown are written back by the scorer; recomputing with
// unchanged inputs yields the same values.
type Submission struct {
	ID           string             `db:"id" json:"id"`
	InstrumentID string             `db:"instrument_id" json:"instrument_id"`
	ProjectID    string             `db:"project_id" json:"project_id"`
	StudentID    string             `db:"student_id" json:"student_id"`
	Kind         SubmissionKind     `db:"kind" json:"kind"`
	Content      json.RawMessage    `db:"content" json:"content"`
	Score        *float64           `db:"score" json:"score,omitempty"`
	Feedback     *string            `db:"feedback" json:"feedback,omitempty"`
	Breakdown    DimensionBreakdown `db:"breakdown" json:"breakdown,omitempty"`
	SubmittedAt  time.Time          `db:"submitted_at" json:"submitted_at"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// AnswerValues decodes the kind-specific content payload and returns the
// raw answer array. Entries are nil for unanswered questions.
func (s *Submission) AnswerValues() ([]*float64, error) {
	if len(s.Content) == 0 {
		return nil, fmt.Errorf("submission %s has no content", s.ID)
	}

	var answers []*float64
	switch s.Kind {
	case KindObservation:
		var content ObservationContent
		if err := json.Unmarshal(s.Content, &content); err != nil {
			return nil, fmt.Errorf("decode observation content: %w", err)
		}
		answers = content.Answers
	case KindJournal:
		var content JournalContent
		if err := json.Unmarshal(s.Content, &content); err != nil {
			return nil, fmt.Errorf("decode journal content: %w", err)
		}
		answers = content.Answers
	default:
		var content AssessmentContent
		if err := json.Unmarshal(s.Content, &content); err != nil {
			return nil, fmt.Errorf("decode assessment content: %w", err)
		}
		answers = content.Answers
	}

	if answers == nil {
		return nil, fmt.Errorf("submission %s content has no answers array", s.ID)
	}
	return answers, nil
}
