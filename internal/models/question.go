package models

import "time"

// DefaultDimensionID groups questions that carry no dimension assignment.
const DefaultDimensionID = "default"

// Dimension is a named competency axis questions are tagged with.
type Dimension struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}

// Instrument ties an ordered set of questions together as one assessable
// unit within a project stage.
type Instrument struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Question is one rated item belonging to an instrument. CreatedAt is the
// stable ordering key: answers are aligned to questions positionally in
// created-at ascending order.
type Question struct {
	ID            string    `db:"id" json:"id"`
	InstrumentID  string    `db:"instrument_id" json:"instrument_id"`
	Text          string    `db:"text" json:"text"`
	DimensionID   *string   `db:"dimension_id" json:"dimension_id,omitempty"`
	DimensionName *string   `db:"dimension_name" json:"dimension_name,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
