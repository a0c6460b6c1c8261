package models

import "time"

// StudentStatus tracks where a student is in the enrollment lifecycle.
type StudentStatus string

const (
	StudentStatusInquiry   StudentStatus = "INQUIRY"
	StudentStatusEnrolled  StudentStatus = "ENROLLED"
	StudentStatusWaiting   StudentStatus = "WAITING"
	StudentStatusWithdrawn StudentStatus = "WITHDRAWN"
)

var studentStatusDisplayNames = map[StudentStatus]string{
	StudentStatusInquiry:   "Inquiry",
	StudentStatusEnrolled:  "Enrolled",
	StudentStatusWaiting:   "Waiting",
	StudentStatusWithdrawn: "Withdrawn",
}

// DisplayName returns the human readable label for the status.
func (s StudentStatus) DisplayName() string {
	return studentStatusDisplayNames[s]
}

// Gender enumerates student gender values.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var genderDisplayNames = map[Gender]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderOther:  "Other",
}

// DisplayName returns the human readable label for the gender.
func (g Gender) DisplayName() string {
	return genderDisplayNames[g]
}

// StudentProfile is the per-user student record, keyed by the user id.
type StudentProfile struct {
	UserID    string        `db:"user_id" json:"user_id"`
	Status    StudentStatus `db:"status" json:"status"`
	SchoolID  *string       `db:"school_id" json:"school_id,omitempty"`
	Grade     *int          `db:"grade" json:"grade,omitempty"`
	Gender    Gender        `db:"gender" json:"gender"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentProfileDetail joins the profile with user and school names.
type StudentProfileDetail struct {
	UserID      string        `db:"user_id" json:"user_id"`
	StudentName string        `db:"student_name" json:"student_name"`
	Status      StudentStatus `db:"status" json:"status"`
	StatusLabel string        `db:"-" json:"status_display_name"`
	SchoolID    *string       `db:"school_id" json:"school_id,omitempty"`
	SchoolName  *string       `db:"school_name" json:"school_name,omitempty"`
	Grade       *int          `db:"grade" json:"grade,omitempty"`
	Gender      Gender        `db:"gender" json:"gender"`
	GenderLabel string        `db:"-" json:"gender_display_name"`
}

// StudentProfileRequest creates or updates a student profile.
type StudentProfileRequest struct {
	Status   StudentStatus `json:"status" validate:"required,oneof=INQUIRY ENROLLED WAITING WITHDRAWN"`
	SchoolID *string       `json:"school_id"`
	Grade    *int          `json:"grade" validate:"omitempty,min=1,max=12"`
	Gender   Gender        `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
}

// StudentFilter captures search criteria for listing student profiles.
type StudentFilter struct {
	SchoolID  string
	Grade     *int
	Name      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
