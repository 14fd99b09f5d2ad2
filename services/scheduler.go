package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"review-management-api/config"
	"review-management-api/models"
	"review-management-api/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	if db == nil {
		db = config.DB
	}
	return &AssignmentService{db: db}
}

// CreateAssignments assigns one reviewer to each given application of the
// program. Creation is upsert-safe: an existing (application, reviewer)
// pair is reported as already_exists and its deadline is left untouched.
// Each application is written independently (best-effort bulk).
func (s *AssignmentService) CreateAssignments(programID int, applicationIDs []int, reviewerID int, deadline *time.Time, assignedBy int) (*BatchResult, error) {
	if len(applicationIDs) == 0 {
		return nil, ValidationError("at least one application id is required")
	}

	var reviewer models.User
	err := s.db.Where("user_id = ? AND deleted_at IS NULL", reviewerID).First(&reviewer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("reviewer %d not found", reviewerID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load reviewer %d", reviewerID)
	}
	if !reviewer.IsReviewer() {
		return nil, NotFoundError("user %d is not a reviewer", reviewerID)
	}

	// Membership check happens before any write: application ids outside
	// the program fail per item without touching the rest.
	var apps []models.Application
	err = s.db.Where("program_id = ? AND deleted_at IS NULL", programID).Find(&apps).Error
	if err != nil {
		return nil, InternalError(err, "failed to load applications of program %d", programID)
	}
	inProgram := make(map[int]bool, len(apps))
	for _, app := range apps {
		inProgram[app.ApplicationID] = true
	}

	result := &BatchResult{}
	created := 0
	for _, appID := range applicationIDs {
		if !inProgram[appID] {
			result.addErr(appID, ValidationError("application %d does not belong to program %d", appID, programID))
			continue
		}

		assignment := models.ReviewAssignment{
			ReferenceCode: uuid.NewString(),
			ApplicationID: appID,
			ReviewerID:    reviewerID,
			AssignedBy:    assignedBy,
			Deadline:      deadline,
			Status:        models.AssignmentNotStarted,
			AssignedAt:    time.Now(),
		}
		// Conflict-safe against racing organizer requests: the unique
		// (application_id, reviewer_id) index plus DoNothing makes the
		// duplicate a no-op instead of an error or a second row.
		res := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "application_id"}, {Name: "reviewer_id"}},
			DoNothing: true,
		}).Create(&assignment)
		if res.Error != nil {
			result.addErr(appID, InternalError(res.Error, "failed to create assignment for application %d", appID))
			continue
		}
		if res.RowsAffected == 0 {
			result.addOK(appID, BatchAlreadyExists)
			continue
		}
		created++
		result.addOK(appID, BatchCreated)
	}

	if created > 0 {
		s.notifyReviewer(&reviewer, created, deadline)
	}
	return result, nil
}

// Get loads one assignment with its application.
func (s *AssignmentService) Get(assignmentID int) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	err := s.db.Preload("Application").
		Where("assignment_id = ?", assignmentID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("assignment %d not found", assignmentID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load assignment %d", assignmentID)
	}
	return &assignment, nil
}

// ListForReviewer returns a reviewer's assignments, newest first,
// optionally filtered by status.
func (s *AssignmentService) ListForReviewer(reviewerID int, status string) ([]models.ReviewAssignment, error) {
	q := s.db.Preload("Application").Where("reviewer_id = ?", reviewerID)
	if status != "" {
		if status != models.AssignmentNotStarted && status != models.AssignmentInProgress && status != models.AssignmentCompleted {
			return nil, ValidationError("unknown assignment status '%s'", status)
		}
		q = q.Where("status = ?", status)
	}

	var assignments []models.ReviewAssignment
	if err := q.Order("assigned_at DESC, assignment_id DESC").Find(&assignments).Error; err != nil {
		return nil, InternalError(err, "failed to list assignments for reviewer %d", reviewerID)
	}
	return assignments, nil
}

// Delete removes an assignment together with its review and scores. Only
// the program owner or a super admin may delete. The cascade runs in one
// transaction: a half-deleted assignment would violate the 1:1 contract
// between assignments and reviews.
func (s *AssignmentService) Delete(assignmentID, requesterID, requesterRole int) error {
	assignment, err := s.Get(assignmentID)
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
			return ForbiddenError("only the program owner may delete assignments")
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		err := tx.Where("assignment_id = ?", assignmentID).First(&review).Error
		if err == nil {
			if err := tx.Where("review_id = ?", review.ReviewID).Delete(&models.ReviewScore{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&review).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Delete(&models.ReviewAssignment{}, assignmentID).Error
	})
	if err != nil {
		return InternalError(err, "failed to delete assignment %d", assignmentID)
	}
	return nil
}

// notifyReviewer sends a best-effort assignment notification. Mail
// failures are logged and never fail the request.
func (s *AssignmentService) notifyReviewer(reviewer *models.User, count int, deadline *time.Time) {
	if !utils.ValidateEmail(reviewer.Email) {
		log.Printf("Warning: reviewer %d has no valid email, skipping notification", reviewer.UserID)
		return
	}

	subject := fmt.Sprintf("You have %d new review assignment(s)", count)
	body := fmt.Sprintf("<p>Hello %s,</p><p>%d new application(s) were assigned to you for review.</p>",
		reviewer.FullName(), count)
	if deadline != nil {
		body += fmt.Sprintf("<p>Deadline: %s</p>", deadline.Format("2 Jan 2006"))
	}
	if err := config.SendMail([]string{reviewer.Email}, subject, body); err != nil {
		log.Printf("Warning: failed to send assignment notification to %s: %v", reviewer.Email, err)
	}
}
