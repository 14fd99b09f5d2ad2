package models

import "time"

// Assignment lifecycle states. Transitions: not_started -> in_progress on
// the first saved score, in_progress -> completed on full submission.
// ClearScores is the only way back to not_started.
const (
	AssignmentNotStarted = "not_started"
	AssignmentInProgress = "in_progress"
	AssignmentCompleted  = "completed"
)

// ReviewAssignment pairs one reviewer with one application. Unique on
// (application_id, reviewer_id); duplicate creation is an upsert no-op.
type ReviewAssignment struct {
	AssignmentID  int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	ReferenceCode string     `gorm:"column:reference_code" json:"reference_code"`
	ApplicationID int        `gorm:"column:application_id;uniqueIndex:idx_application_reviewer" json:"application_id"`
	ReviewerID    int        `gorm:"column:reviewer_id;uniqueIndex:idx_application_reviewer" json:"reviewer_id"`
	AssignedBy    int        `gorm:"column:assigned_by" json:"assigned_by"`
	Deadline      *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	Status        string     `gorm:"column:status;default:not_started" json:"status"`
	AssignedAt    time.Time  `gorm:"column:assigned_at" json:"assigned_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	// Relations
	Application Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Reviewer    User        `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName overrides
func (ReviewAssignment) TableName() string {
	return "review_assignments"
}

// IsCompleted reports whether the assignment reached its terminal state.
func (a *ReviewAssignment) IsCompleted() bool {
	return a.Status == AssignmentCompleted
}
