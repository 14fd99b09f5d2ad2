package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Scoring types supported by criteria.
const (
	ScoringTypeNumerical   = "numerical"
	ScoringTypeCategorical = "categorical"
	ScoringTypeBinary      = "binary"
	ScoringTypeRubric      = "rubric"
	ScoringTypeWeighted    = "weighted"
)

// RubricLevel maps a named qualitative tier to a fixed raw score.
type RubricLevel struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
}

// RubricDefinition is the ordered set of levels for a rubric criterion,
// stored as a JSON column.
type RubricDefinition []RubricLevel

func (r RubricDefinition) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *RubricDefinition) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported rubric_definition type %T", value)
	}
}

// LevelForScore returns the level whose score equals raw, if any.
func (r RubricDefinition) LevelForScore(raw float64) (string, bool) {
	for _, lvl := range r {
		if lvl.Score == raw {
			return lvl.Level, true
		}
	}
	return "", false
}

// Criterion represents the criteria table: one scoring dimension of a program.
type Criterion struct {
	CriteriaID       int              `gorm:"primaryKey;column:criteria_id" json:"criteria_id"`
	ProgramID        int              `gorm:"column:program_id" json:"program_id"`
	CriteriaName     string           `gorm:"column:criteria_name" json:"criteria_name"`
	Description      *string          `gorm:"column:description" json:"description,omitempty"`
	ScoringType      string           `gorm:"column:scoring_type" json:"scoring_type"`
	Weight           float64          `gorm:"column:weight" json:"weight"`
	MinScore         float64          `gorm:"column:min_score;default:0" json:"min_score"`
	MaxScore         float64          `gorm:"column:max_score" json:"max_score"`
	SortOrder        int              `gorm:"column:sort_order" json:"sort_order"`
	RubricDefinition RubricDefinition `gorm:"column:rubric_definition;type:json" json:"rubric_definition,omitempty"`
	IsRequired       bool             `gorm:"column:is_required;default:true" json:"is_required"`
	CreatedAt        time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        *time.Time       `gorm:"column:updated_at" json:"updated_at,omitempty"`
	DeletedAt        *time.Time       `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
}

// TableName overrides
func (Criterion) TableName() string {
	return "criteria"
}
