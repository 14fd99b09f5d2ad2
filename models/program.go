package models

import "time"

// Program categories recognized by the built-in criteria templates.
const (
	CategoryWorkshop   = "workshop"
	CategoryConference = "conference"
	CategoryHackathon  = "hackathon"
	CategoryFellowship = "fellowship"
)

// Scoring methods for application-level consensus.
const (
	ScoringMethodAverage         = "average"
	ScoringMethodWeightedAverage = "weighted_average"
	ScoringMethodMedian          = "median"
)

// Program represents the programs table
type Program struct {
	ProgramID   int        `gorm:"primaryKey;column:program_id" json:"program_id"`
	ProgramName string     `gorm:"column:program_name" json:"program_name"`
	Category    string     `gorm:"column:category" json:"category"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	OwnerID     int        `gorm:"column:owner_id" json:"owner_id"`
	IsActive    bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Owner    User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Settings *ReviewSettings `gorm:"foreignKey:ProgramID;references:ProgramID" json:"settings,omitempty"`
}

// Application represents the applications table
type Application struct {
	ApplicationID  int        `gorm:"primaryKey;column:application_id" json:"application_id"`
	ProgramID      int        `gorm:"column:program_id" json:"program_id"`
	ApplicantName  string     `gorm:"column:applicant_name" json:"applicant_name"`
	ApplicantEmail string     `gorm:"column:applicant_email" json:"applicant_email"`
	Summary        *string    `gorm:"column:summary" json:"summary,omitempty"`
	Status         string     `gorm:"column:status;default:submitted" json:"status"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Program Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// ReviewSettings holds per-program consensus configuration. One row per
// program; programs without a row fall back to the defaults below.
type ReviewSettings struct {
	SettingID               int     `gorm:"primaryKey;column:setting_id" json:"setting_id"`
	ProgramID               int     `gorm:"column:program_id;unique" json:"program_id"`
	ScoringMethod           string  `gorm:"column:scoring_method;default:average" json:"scoring_method"`
	ConsensusEnabled        bool    `gorm:"column:consensus_enabled" json:"consensus_enabled"`
	ConsensusThreshold      float64 `gorm:"column:consensus_threshold;default:0.2" json:"consensus_threshold"`
	ReviewersPerApplication int     `gorm:"column:reviewers_per_application;default:2" json:"reviewers_per_application"`
}

// TableName overrides
func (Program) TableName() string {
	return "programs"
}

func (Application) TableName() string {
	return "applications"
}

func (ReviewSettings) TableName() string {
	return "review_settings"
}

// DefaultReviewSettings returns the settings used when a program has no
// review_settings row.
func DefaultReviewSettings(programID int) ReviewSettings {
	return ReviewSettings{
		ProgramID:               programID,
		ScoringMethod:           ScoringMethodAverage,
		ConsensusEnabled:        false,
		ConsensusThreshold:      0.2,
		ReviewersPerApplication: 2,
	}
}
