package models

import "time"

// Project is a project-based learning unit a class works through.
type Project struct {
	ID          string    `db:"id" json:"id"`
	ClassID     string    `db:"class_id" json:"class_id"`
	Title       string    `db:"title" json:"title"`
	Theme       string    `db:"theme" json:"theme"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Class groups students for roster-level aggregation.
type Class struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Student is the subject whose submissions are scored.
type Student struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	NISN     string `db:"nisn" json:"nisn"`
	ClassID  string `db:"class_id" json:"class_id"`
}
