package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MaxDimensionScore is the upper bound of a normalized dimension score.
const MaxDimensionScore = 100.0

// DimensionScore is the normalized result for one dimension of one or
// more submissions. AverageScore is 0..100; TotalSubmissions counts the
// answered questions that contributed. Field names follow the public API
// contract consumed by the dashboards.
type DimensionScore struct {
	DimensionID      string  `json:"dimensionId"`
	DimensionName    string  `json:"dimensionName"`
	AverageScore     float64 `json:"averageScore"`
	TotalSubmissions int     `json:"totalSubmissions"`
	MaxScore         float64 `json:"maxScore"`
	QualitativeScore string  `json:"qualitativeScore,omitempty"`
	QualitativeCode  string  `json:"qualitativeCode,omitempty"`
}

// DimensionBreakdown is a JSONB-persisted list of dimension scores.
type DimensionBreakdown []DimensionScore

// Value implements driver.Valuer for JSONB storage.
func (b DimensionBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (b *DimensionBreakdown) Scan(src interface{}) error {
	if src == nil {
		*b = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported breakdown source type %T", src)
	}
	return json.Unmarshal(raw, b)
}

// BatchError records one submission's failure inside a batch run.
type BatchError struct {
	SubmissionID string `json:"submissionId"`
	Message      string `json:"message"`
}

// BatchResult summarises a batch recompute: successful count plus the
// per-submission failures that did not stop the run.
type BatchResult struct {
	Processed int          `json:"processed"`
	Errors    []BatchError `json:"errors"`
}
