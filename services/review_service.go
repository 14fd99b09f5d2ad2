package services

import (
	"errors"
	"strings"
	"time"

	"review-management-api/config"
	"review-management-api/models"
	"review-management-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreInput is one per-criterion score as submitted by a reviewer.
type ScoreInput struct {
	CriteriaID         int     `json:"criteria_id" binding:"required"`
	RawScore           float64 `json:"raw_score"`
	ScoreRationale     *string `json:"score_rationale,omitempty"`
	ReviewerConfidence *int    `json:"reviewer_confidence,omitempty"`
}

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	if db == nil {
		db = config.DB
	}
	return &ReviewService{db: db}
}

// Get loads a review with its scores.
func (s *ReviewService) Get(reviewID int) (*models.Review, error) {
	var review models.Review
	err := s.db.Preload("Scores").Where("review_id = ?", reviewID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("review %d not found", reviewID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load review %d", reviewID)
	}
	return &review, nil
}

// GetOrCreateByAssignment returns the assignment's review, creating the
// row lazily on first access. Only the assigned reviewer may open it.
func (s *ReviewService) GetOrCreateByAssignment(assignmentID, actorID int) (*models.Review, error) {
	assignment, err := NewAssignmentService(s.db).Get(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.ReviewerID != actorID {
		return nil, ForbiddenError("assignment %d belongs to another reviewer", assignmentID)
	}

	var review models.Review
	err = s.db.Preload("Scores").Where("assignment_id = ?", assignmentID).First(&review).Error
	if err == nil {
		return &review, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, InternalError(err, "failed to load review for assignment %d", assignmentID)
	}

	review = models.Review{
		AssignmentID:  assignmentID,
		ApplicationID: assignment.ApplicationID,
		ReviewerID:    assignment.ReviewerID,
		CreatedAt:     time.Now(),
	}
	// Racing first saves hit the unique assignment_id index; fall back to
	// the row the other request created.
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "assignment_id"}},
		DoNothing: true,
	}).Create(&review)
	if res.Error != nil {
		return nil, InternalError(res.Error, "failed to create review for assignment %d", assignmentID)
	}
	if res.RowsAffected == 0 {
		if err := s.db.Preload("Scores").Where("assignment_id = ?", assignmentID).First(&review).Error; err != nil {
			return nil, InternalError(err, "failed to reload review for assignment %d", assignmentID)
		}
	}
	return &review, nil
}

// SaveScores upserts the given per-criterion scores. Partial coverage is
// allowed; each score is validated and normalized before its own write, and
// rows are written independently (best-effort bulk). The first successful
// save moves the assignment from not_started to in_progress.
//
// Scores of a completed assignment are locked: saving returns a conflict
// until ClearScores resets the assignment.
func (s *ReviewService) SaveScores(reviewID int, items []ScoreInput, actorID int) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, ValidationError("at least one score is required")
	}

	review, assignment, criteria, err := s.loadScoringContext(reviewID, actorID)
	if err != nil {
		return nil, err
	}
	if assignment.IsCompleted() {
		return nil, ConflictError("assignment %d is completed; clear scores before editing", assignment.AssignmentID)
	}

	result := &BatchResult{}
	saved := 0
	for _, item := range items {
		if err := s.upsertScore(review, criteria, item); err != nil {
			result.addErr(item.CriteriaID, err)
			continue
		}
		saved++
		result.addOK(item.CriteriaID, BatchUpdated)
	}

	if saved > 0 && assignment.Status == models.AssignmentNotStarted {
		if err := s.db.Model(assignment).Update("status", models.AssignmentInProgress).Error; err != nil {
			return result, InternalError(err, "failed to advance assignment %d", assignment.AssignmentID)
		}
	}
	return result, nil
}

// SubmitReview writes the submitted scores, stores the comments, and marks
// the assignment completed. Every required criterion of the program must be
// covered by the union of previously saved and newly submitted scores;
// otherwise the submission is rejected before any write and the assignment
// state is left untouched.
func (s *ReviewService) SubmitReview(reviewID int, items []ScoreInput, comments *string, actorID int) (*models.Review, error) {
	review, assignment, criteria, err := s.loadScoringContext(reviewID, actorID)
	if err != nil {
		return nil, err
	}
	if assignment.IsCompleted() {
		return nil, ConflictError("assignment %d is already completed", assignment.AssignmentID)
	}

	// Validate everything before the first write.
	for _, item := range items {
		criterion, ok := criteria[item.CriteriaID]
		if !ok {
			return nil, NotFoundError("criterion %d does not belong to this program", item.CriteriaID)
		}
		if _, err := NormalizeScore(item.RawScore, criterion); err != nil {
			return nil, err
		}
		if err := validateConfidence(item.ReviewerConfidence); err != nil {
			return nil, err
		}
	}

	covered := make(map[int]bool, len(review.Scores)+len(items))
	for _, existing := range review.Scores {
		covered[existing.CriteriaID] = true
	}
	for _, item := range items {
		covered[item.CriteriaID] = true
	}
	var missing []string
	for _, criterion := range criteria {
		if criterion.IsRequired && !covered[criterion.CriteriaID] {
			missing = append(missing, criterion.CriteriaName)
		}
	}
	if len(missing) > 0 {
		return nil, ConflictError("required criteria not scored: %s", strings.Join(missing, ", "))
	}

	for _, item := range items {
		if err := s.upsertScore(review, criteria, item); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if comments != nil {
		updates["comments"] = utils.SanitizeInput(*comments)
	}
	err = s.db.Model(&models.Review{}).Where("review_id = ?", reviewID).Updates(updates).Error
	if err != nil {
		return nil, InternalError(err, "failed to update review %d", reviewID)
	}

	err = s.db.Model(&models.ReviewAssignment{}).
		Where("assignment_id = ?", assignment.AssignmentID).
		Updates(map[string]interface{}{
			"status":       models.AssignmentCompleted,
			"completed_at": now,
		}).Error
	if err != nil {
		return nil, InternalError(err, "failed to complete assignment %d", assignment.AssignmentID)
	}

	return s.Get(reviewID)
}

// ClearScores is the administrative reset: it deletes the review's scores
// and returns the assignment to not_started with completed_at cleared.
// Only the program owner or a super admin may clear.
func (s *ReviewService) ClearScores(reviewID, requesterID, requesterRole int) error {
	review, err := s.Get(reviewID)
	if err != nil {
		return err
	}

	assignment, err := NewAssignmentService(s.db).Get(review.AssignmentID)
	if err != nil {
		return err
	}

	if requesterRole != models.RoleSuperAdmin {
		var program models.Program
		err := s.db.Where("program_id = ?", assignment.Application.ProgramID).First(&program).Error
		if err != nil {
			return InternalError(err, "failed to load program %d", assignment.Application.ProgramID)
		}
		if program.OwnerID != requesterID {
			return ForbiddenError("only the program owner may clear scores")
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.ReviewScore{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.ReviewAssignment{}).
			Where("assignment_id = ?", assignment.AssignmentID).
			Updates(map[string]interface{}{
				"status":       models.AssignmentNotStarted,
				"completed_at": nil,
			}).Error
	})
	if err != nil {
		return InternalError(err, "failed to clear scores of review %d", reviewID)
	}
	return nil
}

// loadScoringContext resolves the review, its assignment and the program's
// criteria keyed by id, and checks the actor is the assigned reviewer.
func (s *ReviewService) loadScoringContext(reviewID, actorID int) (*models.Review, *models.ReviewAssignment, map[int]*models.Criterion, error) {
	review, err := s.Get(reviewID)
	if err != nil {
		return nil, nil, nil, err
	}
	if review.ReviewerID != actorID {
		return nil, nil, nil, ForbiddenError("review %d belongs to another reviewer", reviewID)
	}

	assignment, err := NewAssignmentService(s.db).Get(review.AssignmentID)
	if err != nil {
		return nil, nil, nil, err
	}

	criteriaList, err := NewCriteriaService(s.db).ListByProgram(assignment.Application.ProgramID)
	if err != nil {
		return nil, nil, nil, err
	}
	criteria := make(map[int]*models.Criterion, len(criteriaList))
	for i := range criteriaList {
		criteria[criteriaList[i].CriteriaID] = &criteriaList[i]
	}
	return review, assignment, criteria, nil
}

// upsertScore normalizes one input and writes it keyed on
// (review_id, criteria_id); the last writer wins.
func (s *ReviewService) upsertScore(review *models.Review, criteria map[int]*models.Criterion, item ScoreInput) error {
	criterion, ok := criteria[item.CriteriaID]
	if !ok {
		return NotFoundError("criterion %d does not belong to this program", item.CriteriaID)
	}
	if err := validateConfidence(item.ReviewerConfidence); err != nil {
		return err
	}

	normalized, err := NormalizeScore(item.RawScore, criterion)
	if err != nil {
		return err
	}

	rationale := item.ScoreRationale
	if rationale != nil {
		clean := utils.SanitizeInput(*rationale)
		rationale = &clean
	}

	now := time.Now()
	score := models.ReviewScore{
		ReviewID:           review.ReviewID,
		CriteriaID:         criterion.CriteriaID,
		RawScore:           normalized.Raw,
		NormalizedScore:    normalized.Normalized,
		WeightApplied:      criterion.Weight,
		WeightedScore:      normalized.Weighted,
		RubricLevel:        normalized.RubricLevel,
		ScoreRationale:     rationale,
		ReviewerConfidence: item.ReviewerConfidence,
		CreatedAt:          now,
		UpdatedAt:          &now,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "review_id"}, {Name: "criteria_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"raw_score", "normalized_score", "weight_applied", "weighted_score",
			"rubric_level", "score_rationale", "reviewer_confidence", "updated_at",
		}),
	}).Create(&score).Error
	if err != nil {
		return InternalError(err, "failed to save score for criterion %d", criterion.CriteriaID)
	}
	return nil
}

func validateConfidence(confidence *int) error {
	if confidence == nil {
		return nil
	}
	if *confidence < 1 || *confidence > 5 {
		return ValidationError("reviewer confidence must be between 1 and 5, got %d", *confidence)
	}
	return nil
}
