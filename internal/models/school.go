package models

import "time"

// School is a school record. Names are unique.
type School struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolDetail includes the number of student profiles attached to the school.
type SchoolDetail struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	StudentCount int       `db:"student_count" json:"student_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolRequest creates or renames a school.
type SchoolRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
