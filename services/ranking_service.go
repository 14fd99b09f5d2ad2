package services

import (
	"errors"

	"review-management-api/config"
	"review-management-api/models"

	"gorm.io/gorm"
)

type RankingService struct {
	db *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	if db == nil {
		db = config.DB
	}
	return &RankingService{db: db}
}

// ProgramRanking computes the consensus score of every application in the
// program from its completed reviews and returns them in rank order.
// Applications without any completed review are listed after the ranked
// ones with a zero consensus and review count.
//
// Applications, assignments, reviews and reviewer profiles are fetched in
// separate queries and joined in memory via id maps; aggregation is
// computed on read, nothing is materialized.
func (s *RankingService) ProgramRanking(programID int) ([]RankedApplication, error) {
	var program models.Program
	err := s.db.Where("program_id = ? AND deleted_at IS NULL", programID).First(&program).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("program %d not found", programID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load program %d", programID)
	}

	settings, err := s.settingsFor(programID)
	if err != nil {
		return nil, err
	}

	var apps []models.Application
	err = s.db.Where("program_id = ? AND deleted_at IS NULL", programID).Find(&apps).Error
	if err != nil {
		return nil, InternalError(err, "failed to load applications of program %d", programID)
	}
	if len(apps) == 0 {
		return []RankedApplication{}, nil
	}

	appIDs := make([]int, len(apps))
	for i, app := range apps {
		appIDs[i] = app.ApplicationID
	}

	var assignments []models.ReviewAssignment
	err = s.db.Where("application_id IN ? AND status = ?", appIDs, models.AssignmentCompleted).
		Find(&assignments).Error
	if err != nil {
		return nil, InternalError(err, "failed to load assignments of program %d", programID)
	}

	completedAssignments := make(map[int]bool, len(assignments))
	for _, a := range assignments {
		completedAssignments[a.AssignmentID] = true
	}

	var reviews []models.Review
	err = s.db.Preload("Scores").Where("application_id IN ?", appIDs).Find(&reviews).Error
	if err != nil {
		return nil, InternalError(err, "failed to load reviews of program %d", programID)
	}

	expertise, err := s.expertiseFor(reviews)
	if err != nil {
		return nil, err
	}

	// Only reviews whose assignment reached completed count toward
	// consensus; in-progress partial scores do not leak into the ranking.
	inputsByApp := make(map[int][]ReviewInput, len(apps))
	for i := range reviews {
		review := &reviews[i]
		if !completedAssignments[review.AssignmentID] {
			continue
		}
		score, ok := review.ReviewLevelScore()
		if !ok {
			continue
		}
		inputsByApp[review.ApplicationID] = append(inputsByApp[review.ApplicationID], ReviewInput{
			ReviewerID:      review.ReviewerID,
			Score:           score,
			ExpertiseWeight: expertise[review.ReviewerID],
		})
	}

	ranked := make([]RankedApplication, 0, len(apps))
	unreviewed := make([]RankedApplication, 0)
	for _, app := range apps {
		row := RankedApplication{
			ApplicationID: app.ApplicationID,
			ApplicantName: app.ApplicantName,
			SubmittedAt:   app.SubmittedAt,
		}
		inputs := inputsByApp[app.ApplicationID]
		if len(inputs) == 0 {
			unreviewed = append(unreviewed, row)
			continue
		}
		consensus, err := Consensus(inputs, settings)
		if err != nil {
			return nil, err
		}
		row.Consensus = consensus
		ranked = append(ranked, row)
	}

	ranked = RankApplications(ranked)
	unreviewed = RankApplications(unreviewed)
	for i := range unreviewed {
		unreviewed[i].Rank = len(ranked) + i + 1
	}
	return append(ranked, unreviewed...), nil
}

// ApplicationConsensus computes the consensus result for one application.
func (s *RankingService) ApplicationConsensus(applicationID int) (*ConsensusResult, error) {
	var app models.Application
	err := s.db.Where("application_id = ? AND deleted_at IS NULL", applicationID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("application %d not found", applicationID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load application %d", applicationID)
	}

	ranking, err := s.ProgramRanking(app.ProgramID)
	if err != nil {
		return nil, err
	}
	for _, row := range ranking {
		if row.ApplicationID != applicationID {
			continue
		}
		if row.Consensus.ReviewCount == 0 {
			break
		}
		consensus := row.Consensus
		return &consensus, nil
	}
	return nil, ConflictError("no completed reviews for application %d", applicationID)
}

func (s *RankingService) settingsFor(programID int) (models.ReviewSettings, error) {
	var settings models.ReviewSettings
	err := s.db.Where("program_id = ?", programID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultReviewSettings(programID), nil
	}
	if err != nil {
		return settings, InternalError(err, "failed to load review settings of program %d", programID)
	}
	return settings, nil
}

func (s *RankingService) expertiseFor(reviews []models.Review) (map[int]float64, error) {
	ids := make([]int, 0, len(reviews))
	seen := make(map[int]bool, len(reviews))
	for _, r := range reviews {
		if !seen[r.ReviewerID] {
			seen[r.ReviewerID] = true
			ids = append(ids, r.ReviewerID)
		}
	}

	expertise := make(map[int]float64, len(ids))
	if len(ids) == 0 {
		return expertise, nil
	}

	var reviewers []models.User
	if err := s.db.Where("user_id IN ?", ids).Find(&reviewers).Error; err != nil {
		return nil, InternalError(err, "failed to load reviewer profiles")
	}
	for _, reviewer := range reviewers {
		expertise[reviewer.UserID] = reviewer.ExpertiseLevel
	}
	return expertise, nil
}
