package services

import (
	"errors"
	"time"

	"review-management-api/config"
	"review-management-api/models"

	"gorm.io/gorm"
)

type CriteriaService struct {
	db *gorm.DB
}

func NewCriteriaService(db *gorm.DB) *CriteriaService {
	if db == nil {
		db = config.DB
	}
	return &CriteriaService{db: db}
}

// ListByProgram returns the program's criteria ordered by sort_order, with
// criteria_id as the stable tie-break.
func (s *CriteriaService) ListByProgram(programID int) ([]models.Criterion, error) {
	var criteria []models.Criterion
	err := s.db.
		Where("program_id = ? AND deleted_at IS NULL", programID).
		Order("sort_order ASC, criteria_id ASC").
		Find(&criteria).Error
	if err != nil {
		return nil, InternalError(err, "failed to list criteria for program %d", programID)
	}
	return criteria, nil
}

// Get returns one criterion by id.
func (s *CriteriaService) Get(criteriaID int) (*models.Criterion, error) {
	var criterion models.Criterion
	err := s.db.
		Where("criteria_id = ? AND deleted_at IS NULL", criteriaID).
		First(&criterion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("criterion %d not found", criteriaID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load criterion %d", criteriaID)
	}
	return &criterion, nil
}

// Create validates and inserts a new criterion. A missing sort_order places
// the criterion after the program's current last one.
func (s *CriteriaService) Create(criterion *models.Criterion) (*models.Criterion, error) {
	if err := ValidateCriterionDefinition(criterion); err != nil {
		return nil, err
	}

	var program models.Program
	err := s.db.
		Where("program_id = ? AND deleted_at IS NULL", criterion.ProgramID).
		First(&program).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("program %d not found", criterion.ProgramID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load program %d", criterion.ProgramID)
	}

	if criterion.SortOrder == 0 {
		var maxOrder int
		row := s.db.Model(&models.Criterion{}).
			Where("program_id = ? AND deleted_at IS NULL", criterion.ProgramID).
			Select("COALESCE(MAX(sort_order), 0)").
			Row()
		if err := row.Scan(&maxOrder); err == nil {
			criterion.SortOrder = maxOrder + 1
		}
	}

	criterion.CreatedAt = time.Now()
	if err := s.db.Create(criterion).Error; err != nil {
		return nil, InternalError(err, "failed to create criterion")
	}
	return criterion, nil
}

// Update applies edits to a criterion. Cosmetic fields (name, description,
// sort order) are always editable; structural fields (scoring type, weight,
// bounds, rubric, is_required) are frozen once any score references the
// criterion.
func (s *CriteriaService) Update(criteriaID int, updated *models.Criterion) (*models.Criterion, error) {
	existing, err := s.Get(criteriaID)
	if err != nil {
		return nil, err
	}

	structuralChange := updated.ScoringType != existing.ScoringType ||
		updated.Weight != existing.Weight ||
		updated.MinScore != existing.MinScore ||
		updated.MaxScore != existing.MaxScore ||
		updated.IsRequired != existing.IsRequired ||
		!rubricEqual(updated.RubricDefinition, existing.RubricDefinition)

	if structuralChange {
		referenced, err := s.hasScores(criteriaID)
		if err != nil {
			return nil, err
		}
		if referenced {
			return nil, ConflictError(
				"criterion %d has saved scores; only name, description and sort order may change", criteriaID)
		}
	}

	existing.CriteriaName = updated.CriteriaName
	existing.Description = updated.Description
	existing.SortOrder = updated.SortOrder
	existing.ScoringType = updated.ScoringType
	existing.Weight = updated.Weight
	existing.MinScore = updated.MinScore
	existing.MaxScore = updated.MaxScore
	existing.RubricDefinition = updated.RubricDefinition
	existing.IsRequired = updated.IsRequired

	if err := ValidateCriterionDefinition(existing); err != nil {
		return nil, err
	}

	now := time.Now()
	existing.UpdatedAt = &now
	if err := s.db.Save(existing).Error; err != nil {
		return nil, InternalError(err, "failed to update criterion %d", criteriaID)
	}
	return existing, nil
}

// Delete soft-deletes a criterion. Criteria referenced by any review score
// cannot be removed.
func (s *CriteriaService) Delete(criteriaID int) error {
	criterion, err := s.Get(criteriaID)
	if err != nil {
		return err
	}

	referenced, err := s.hasScores(criteriaID)
	if err != nil {
		return err
	}
	if referenced {
		return ConflictError("criterion %d has saved scores and cannot be deleted", criteriaID)
	}

	now := time.Now()
	err = s.db.Model(&models.Criterion{}).
		Where("criteria_id = ?", criterion.CriteriaID).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now}).Error
	if err != nil {
		return InternalError(err, "failed to delete criterion %d", criteriaID)
	}
	return nil
}

// Reorder rewrites sort_order to match the given id sequence. Each row is
// updated independently; the per-item results tell the caller which rows
// took the new order.
func (s *CriteriaService) Reorder(programID int, orderedIDs []int) (*BatchResult, error) {
	if len(orderedIDs) == 0 {
		return nil, ValidationError("ordered criteria ids are required")
	}

	criteria, err := s.ListByProgram(programID)
	if err != nil {
		return nil, err
	}
	known := make(map[int]bool, len(criteria))
	for _, c := range criteria {
		known[c.CriteriaID] = true
	}

	result := &BatchResult{}
	for position, id := range orderedIDs {
		if !known[id] {
			result.addErr(id, NotFoundError("criterion %d does not belong to program %d", id, programID))
			continue
		}
		err := s.db.Model(&models.Criterion{}).
			Where("criteria_id = ?", id).
			Update("sort_order", position+1).Error
		if err != nil {
			result.addErr(id, InternalError(err, "failed to reorder criterion %d", id))
			continue
		}
		result.addOK(id, BatchUpdated)
	}
	return result, nil
}

func (s *CriteriaService) hasScores(criteriaID int) (bool, error) {
	var count int64
	err := s.db.Model(&models.ReviewScore{}).
		Where("criteria_id = ?", criteriaID).
		Count(&count).Error
	if err != nil {
		return false, InternalError(err, "failed to count scores for criterion %d", criteriaID)
	}
	return count > 0, nil
}

func rubricEqual(a, b models.RubricDefinition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
