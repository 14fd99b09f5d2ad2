package services

import (
	"sort"
	"time"

	"review-management-api/config"
	"review-management-api/models"

	"gorm.io/gorm"
)

// ReviewerWorkload is derived on read from assignment rows; it is never
// stored.
type ReviewerWorkload struct {
	ReviewerID   int    `json:"reviewer_id"`
	ReviewerName string `json:"reviewer_name,omitempty"`
	Assigned     int    `json:"assigned"`
	NotStarted   int    `json:"not_started"`
	InProgress   int    `json:"in_progress"`
	Completed    int    `json:"completed"`
}

// ReviewerStats extends the workload with scoring activity for the
// reviewer-facing stats endpoint.
type ReviewerStats struct {
	ReviewerWorkload
	AverageReviewScore *float64 `json:"average_review_score,omitempty"`
	OverdueAssignments int      `json:"overdue_assignments"`
}

// ProgramReviewStats summarizes review progress across one program.
type ProgramReviewStats struct {
	ProgramID        int                `json:"program_id"`
	Applications     int                `json:"applications"`
	Assignments      int                `json:"assignments"`
	Completed        int                `json:"completed"`
	CompletionRate   float64            `json:"completion_rate"`
	ReviewerWorkload []ReviewerWorkload `json:"reviewer_workload"`
}

type WorkloadService struct {
	db *gorm.DB
}

func NewWorkloadService(db *gorm.DB) *WorkloadService {
	if db == nil {
		db = config.DB
	}
	return &WorkloadService{db: db}
}

// WorkloadFor counts the reviewer's assignments by status, optionally
// scoped to one program (programID 0 means all programs).
func (s *WorkloadService) WorkloadFor(reviewerID, programID int) (*ReviewerWorkload, error) {
	assignments, err := s.assignmentsFor(reviewerID, programID)
	if err != nil {
		return nil, err
	}
	workload := tally(reviewerID, assignments)
	return &workload, nil
}

// StatsFor builds the reviewer stats payload: workload counts, overdue
// assignments, and the mean score of the reviewer's completed reviews.
func (s *WorkloadService) StatsFor(reviewerID, programID int) (*ReviewerStats, error) {
	assignments, err := s.assignmentsFor(reviewerID, programID)
	if err != nil {
		return nil, err
	}

	stats := &ReviewerStats{ReviewerWorkload: tally(reviewerID, assignments)}
	now := time.Now()
	for _, a := range assignments {
		if a.Deadline != nil && a.Deadline.Before(now) && a.Status != models.AssignmentCompleted {
			stats.OverdueAssignments++
		}
	}

	var reviews []models.Review
	err = s.db.Preload("Scores").Where("reviewer_id = ?", reviewerID).Find(&reviews).Error
	if err != nil {
		return nil, InternalError(err, "failed to load reviews for reviewer %d", reviewerID)
	}
	var sum float64
	var count int
	for i := range reviews {
		if score, ok := reviews[i].ReviewLevelScore(); ok {
			sum += score
			count++
		}
	}
	if count > 0 {
		avg := sum / float64(count)
		stats.AverageReviewScore = &avg
	}
	return stats, nil
}

// ProgramStats aggregates assignment progress for every reviewer active in
// the program. Assignments, applications and reviewers are fetched
// separately and joined in memory by id.
func (s *WorkloadService) ProgramStats(programID int) (*ProgramReviewStats, error) {
	var appIDs []int
	err := s.db.Model(&models.Application{}).
		Where("program_id = ? AND deleted_at IS NULL", programID).
		Pluck("application_id", &appIDs).Error
	if err != nil {
		return nil, InternalError(err, "failed to load applications of program %d", programID)
	}

	stats := &ProgramReviewStats{ProgramID: programID, Applications: len(appIDs)}
	if len(appIDs) == 0 {
		stats.ReviewerWorkload = []ReviewerWorkload{}
		return stats, nil
	}

	var assignments []models.ReviewAssignment
	if err := s.db.Where("application_id IN ?", appIDs).Find(&assignments).Error; err != nil {
		return nil, InternalError(err, "failed to load assignments of program %d", programID)
	}

	byReviewer := make(map[int][]models.ReviewAssignment)
	for _, a := range assignments {
		stats.Assignments++
		if a.Status == models.AssignmentCompleted {
			stats.Completed++
		}
		byReviewer[a.ReviewerID] = append(byReviewer[a.ReviewerID], a)
	}
	if stats.Assignments > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Assignments)
	}

	reviewerIDs := make([]int, 0, len(byReviewer))
	for id := range byReviewer {
		reviewerIDs = append(reviewerIDs, id)
	}
	names := make(map[int]string, len(reviewerIDs))
	if len(reviewerIDs) > 0 {
		var reviewers []models.User
		if err := s.db.Where("user_id IN ?", reviewerIDs).Find(&reviewers).Error; err != nil {
			return nil, InternalError(err, "failed to load reviewers of program %d", programID)
		}
		for i := range reviewers {
			names[reviewers[i].UserID] = reviewers[i].FullName()
		}
	}

	sort.Ints(reviewerIDs)
	stats.ReviewerWorkload = make([]ReviewerWorkload, 0, len(reviewerIDs))
	for _, id := range reviewerIDs {
		workload := tally(id, byReviewer[id])
		workload.ReviewerName = names[id]
		stats.ReviewerWorkload = append(stats.ReviewerWorkload, workload)
	}
	return stats, nil
}

// PlannedAssignment is one row of an auto-assignment plan.
type PlannedAssignment struct {
	ApplicationID int `json:"application_id"`
	ReviewerID    int `json:"reviewer_id"`
}

// PlanAutoAssignments distributes applications round-robin across
// reviewers by ascending current workload, ties broken by ascending
// reviewer id. Pure planning function; the caller persists the plan.
func PlanAutoAssignments(applicationIDs []int, workloads []ReviewerWorkload) []PlannedAssignment {
	if len(applicationIDs) == 0 || len(workloads) == 0 {
		return nil
	}

	queue := make([]ReviewerWorkload, len(workloads))
	copy(queue, workloads)

	plan := make([]PlannedAssignment, 0, len(applicationIDs))
	for _, appID := range applicationIDs {
		sort.SliceStable(queue, func(i, j int) bool {
			if queue[i].Assigned != queue[j].Assigned {
				return queue[i].Assigned < queue[j].Assigned
			}
			return queue[i].ReviewerID < queue[j].ReviewerID
		})
		plan = append(plan, PlannedAssignment{ApplicationID: appID, ReviewerID: queue[0].ReviewerID})
		queue[0].Assigned++
	}
	return plan
}

// AutoAssign plans round-robin assignments for the given applications
// across the eligible reviewers and persists them through the scheduler's
// idempotent creation path.
func (s *WorkloadService) AutoAssign(programID int, applicationIDs []int, reviewerIDs []int, deadline *time.Time, assignedBy int) (*BatchResult, error) {
	if len(reviewerIDs) == 0 {
		return nil, ValidationError("at least one reviewer id is required")
	}

	workloads := make([]ReviewerWorkload, 0, len(reviewerIDs))
	for _, id := range reviewerIDs {
		workload, err := s.WorkloadFor(id, programID)
		if err != nil {
			return nil, err
		}
		workloads = append(workloads, *workload)
	}

	plan := PlanAutoAssignments(applicationIDs, workloads)
	scheduler := NewAssignmentService(s.db)

	// Group the plan per reviewer so each reviewer gets a single
	// notification for their batch.
	perReviewer := make(map[int][]int)
	order := make([]int, 0, len(reviewerIDs))
	for _, p := range plan {
		if _, seen := perReviewer[p.ReviewerID]; !seen {
			order = append(order, p.ReviewerID)
		}
		perReviewer[p.ReviewerID] = append(perReviewer[p.ReviewerID], p.ApplicationID)
	}

	combined := &BatchResult{}
	for _, reviewerID := range order {
		result, err := scheduler.CreateAssignments(programID, perReviewer[reviewerID], reviewerID, deadline, assignedBy)
		if err != nil {
			for _, appID := range perReviewer[reviewerID] {
				combined.addErr(appID, err)
			}
			continue
		}
		for _, item := range result.Items {
			combined.add(item)
		}
	}
	return combined, nil
}

func (s *WorkloadService) assignmentsFor(reviewerID, programID int) ([]models.ReviewAssignment, error) {
	q := s.db.Where("reviewer_id = ?", reviewerID)
	if programID > 0 {
		q = q.Joins("JOIN applications ON applications.application_id = review_assignments.application_id").
			Where("applications.program_id = ?", programID)
	}
	var assignments []models.ReviewAssignment
	if err := q.Find(&assignments).Error; err != nil {
		return nil, InternalError(err, "failed to load assignments for reviewer %d", reviewerID)
	}
	return assignments, nil
}

func tally(reviewerID int, assignments []models.ReviewAssignment) ReviewerWorkload {
	workload := ReviewerWorkload{ReviewerID: reviewerID}
	for _, a := range assignments {
		workload.Assigned++
		switch a.Status {
		case models.AssignmentNotStarted:
			workload.NotStarted++
		case models.AssignmentInProgress:
			workload.InProgress++
		case models.AssignmentCompleted:
			workload.Completed++
		}
	}
	return workload
}
