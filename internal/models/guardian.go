package models

import "time"

// RelationshipKind enumerates how a guardian relates to a student.
type RelationshipKind string

const (
	RelationshipFather RelationshipKind = "FATHER"
	RelationshipMother RelationshipKind = "MOTHER"
	RelationshipOther  RelationshipKind = "OTHER"
)

var relationshipDisplayNames = map[RelationshipKind]string{
	RelationshipFather: "Father",
	RelationshipMother: "Mother",
	RelationshipOther:  "Other",
}

// DisplayName returns the human readable label for the kind.
func (k RelationshipKind) DisplayName() string {
	return relationshipDisplayNames[k]
}

// ValidRelationshipKind reports whether the kind is a known value.
func ValidRelationshipKind(k RelationshipKind) bool {
	_, ok := relationshipDisplayNames[k]
	return ok
}

// GuardianKey is the composite identity of a student↔guardian relationship.
// At most one relationship record exists per ordered pair; the value is
// compared structurally and used directly as the store lookup key.
type GuardianKey struct {
	StudentID  string `db:"student_id" json:"student_id"`
	GuardianID string `db:"guardian_id" json:"guardian_id"`
}

// GuardianRelationship is a student↔guardian association record.
type GuardianRelationship struct {
	StudentID  string           `db:"student_id" json:"student_id"`
	GuardianID string           `db:"guardian_id" json:"guardian_id"`
	Kind       RelationshipKind `db:"relationship" json:"relationship"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// Key returns the composite key of the relationship.
func (g *GuardianRelationship) Key() GuardianKey {
	return GuardianKey{StudentID: g.StudentID, GuardianID: g.GuardianID}
}

// GuardianRelationshipDetail joins the relationship with both identities'
// display names for response purposes.
type GuardianRelationshipDetail struct {
	StudentID    string           `db:"student_id" json:"student_id"`
	StudentName  string           `db:"student_name" json:"student_name"`
	GuardianID   string           `db:"guardian_id" json:"guardian_id"`
	GuardianName string           `db:"guardian_name" json:"guardian_name"`
	Kind         RelationshipKind `db:"relationship" json:"relationship"`
	KindLabel    string           `db:"-" json:"relationship_display_name"`
}

// GuardianRelationshipRequest creates or updates a relationship.
type GuardianRelationshipRequest struct {
	StudentID  string           `json:"student_id" validate:"required"`
	GuardianID string           `json:"guardian_id" validate:"required"`
	Kind       RelationshipKind `json:"relationship" validate:"required,oneof=FATHER MOTHER OTHER"`
}
