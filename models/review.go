package models

import "time"

// LegacyOverallScale is the maximum of the historical single-score scale.
// Reviews imported from the old system carry an overall_score in [0,10]
// and no per-criterion rows.
const LegacyOverallScale = 10.0

// Review is the reviewer's work product for one assignment (1:1). It is
// created lazily when the first score or comment is saved.
//
// Two variants share this row type: a scored review carries per-criterion
// Scores, a legacy review carries only OverallScore. ReviewLevelScore is
// the single accessor callers should use for either.
type Review struct {
	ReviewID      int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	AssignmentID  int        `gorm:"column:assignment_id;unique" json:"assignment_id"`
	ApplicationID int        `gorm:"column:application_id" json:"application_id"`
	ReviewerID    int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	OverallScore  *float64   `gorm:"column:overall_score" json:"overall_score,omitempty"`
	Comments      *string    `gorm:"column:comments" json:"comments,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	// Relations
	Reviewer *User         `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Scores   []ReviewScore `gorm:"foreignKey:ReviewID;references:ReviewID" json:"scores,omitempty"`
}

// ReviewScore is one normalized per-criterion score inside a review.
// Unique on (review_id, criteria_id); re-submission overwrites.
type ReviewScore struct {
	ScoreID            int        `gorm:"primaryKey;column:score_id" json:"score_id"`
	ReviewID           int        `gorm:"column:review_id;uniqueIndex:idx_review_criteria" json:"review_id"`
	CriteriaID         int        `gorm:"column:criteria_id;uniqueIndex:idx_review_criteria" json:"criteria_id"`
	RawScore           float64    `gorm:"column:raw_score" json:"raw_score"`
	NormalizedScore    float64    `gorm:"column:normalized_score" json:"normalized_score"`
	WeightApplied      float64    `gorm:"column:weight_applied" json:"weight_applied"`
	WeightedScore      float64    `gorm:"column:weighted_score" json:"weighted_score"`
	RubricLevel        *string    `gorm:"column:rubric_level" json:"rubric_level,omitempty"`
	ScoreRationale     *string    `gorm:"column:score_rationale" json:"score_rationale,omitempty"`
	ReviewerConfidence *int       `gorm:"column:reviewer_confidence" json:"reviewer_confidence,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// TableName overrides
func (Review) TableName() string {
	return "reviews"
}

func (ReviewScore) TableName() string {
	return "review_scores"
}

// IsLegacy reports whether the review predates per-criterion scoring.
func (r *Review) IsLegacy() bool {
	return len(r.Scores) == 0 && r.OverallScore != nil
}

// ReviewLevelScore returns the review's [0,1] score and whether one can be
// computed. Scored reviews use the weighted average over scored criteria;
// legacy reviews rescale overall_score from the historical 0-10 scale.
func (r *Review) ReviewLevelScore() (float64, bool) {
	if len(r.Scores) > 0 {
		var weighted, weights float64
		for _, s := range r.Scores {
			weighted += s.WeightedScore
			weights += s.WeightApplied
		}
		if weights <= 0 {
			return 0, false
		}
		return weighted / weights, true
	}
	if r.OverallScore != nil {
		return *r.OverallScore / LegacyOverallScale, true
	}
	return 0, false
}
