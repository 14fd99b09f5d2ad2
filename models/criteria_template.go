package models

import "time"

// CriteriaTemplate represents the criteria_templates table: a reusable,
// named set of criteria definitions for one program category.
type CriteriaTemplate struct {
	TemplateID   int        `gorm:"primaryKey;column:template_id" json:"template_id"`
	TemplateName string     `gorm:"column:template_name" json:"template_name"`
	Category     string     `gorm:"column:category" json:"category"`
	Description  *string    `gorm:"column:description" json:"description,omitempty"`
	IsActive     bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Items []CriteriaTemplateItem `gorm:"foreignKey:TemplateID;references:TemplateID" json:"items,omitempty"`
}

// CriteriaTemplateItem is one criterion definition inside a template,
// mirroring the Criterion fields that ApplyTemplate copies.
type CriteriaTemplateItem struct {
	ItemID           int              `gorm:"primaryKey;column:item_id" json:"item_id"`
	TemplateID       int              `gorm:"column:template_id" json:"template_id"`
	CriteriaName     string           `gorm:"column:criteria_name" json:"criteria_name"`
	Description      *string          `gorm:"column:description" json:"description,omitempty"`
	ScoringType      string           `gorm:"column:scoring_type" json:"scoring_type"`
	Weight           float64          `gorm:"column:weight" json:"weight"`
	MinScore         float64          `gorm:"column:min_score;default:0" json:"min_score"`
	MaxScore         float64          `gorm:"column:max_score" json:"max_score"`
	SortOrder        int              `gorm:"column:sort_order" json:"sort_order"`
	RubricDefinition RubricDefinition `gorm:"column:rubric_definition;type:json" json:"rubric_definition,omitempty"`
	IsRequired       bool             `gorm:"column:is_required;default:true" json:"is_required"`
}

// TableName overrides
func (CriteriaTemplate) TableName() string {
	return "criteria_templates"
}

func (CriteriaTemplateItem) TableName() string {
	return "criteria_template_items"
}
