package services

import (
	"errors"
	"time"

	"review-management-api/config"
	"review-management-api/models"

	"gorm.io/gorm"
)

type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	if db == nil {
		db = config.DB
	}
	return &TemplateService{db: db}
}

// List returns active templates, optionally filtered by program category.
func (s *TemplateService) List(category string) ([]models.CriteriaTemplate, error) {
	q := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, item_id ASC")
	}).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var templates []models.CriteriaTemplate
	if err := q.Order("template_name ASC").Find(&templates).Error; err != nil {
		return nil, InternalError(err, "failed to list criteria templates")
	}
	return templates, nil
}

// Apply expands a template into concrete criteria for the program,
// preserving item order, weights, bounds and rubric definitions.
//
// Re-applying a template is safe: items whose name matches an existing
// criterion of the program are skipped and reported as such, so a second
// application of the same template is a no-op.
func (s *TemplateService) Apply(programID, templateID int) (*BatchResult, error) {
	var template models.CriteriaTemplate
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, item_id ASC")
	}).Where("template_id = ?", templateID).First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("template %d not found", templateID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load template %d", templateID)
	}
	if !template.IsActive {
		return nil, NotFoundError("template %d is inactive", templateID)
	}
	if len(template.Items) == 0 {
		return nil, ValidationError("template %d has no items", templateID)
	}

	var program models.Program
	err = s.db.Where("program_id = ? AND deleted_at IS NULL", programID).First(&program).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("program %d not found", programID)
	}
	if err != nil {
		return nil, InternalError(err, "failed to load program %d", programID)
	}

	existing, err := NewCriteriaService(s.db).ListByProgram(programID)
	if err != nil {
		return nil, err
	}
	existingNames := make(map[string]bool, len(existing))
	maxOrder := 0
	for _, c := range existing {
		existingNames[c.CriteriaName] = true
		if c.SortOrder > maxOrder {
			maxOrder = c.SortOrder
		}
	}

	// Independent per-item inserts: a failure partway leaves earlier
	// criteria in place, reported row by row.
	result := &BatchResult{}
	nextOrder := maxOrder
	for _, item := range template.Items {
		if existingNames[item.CriteriaName] {
			result.addOK(item.ItemID, BatchSkipped)
			continue
		}

		nextOrder++
		criterion := models.Criterion{
			ProgramID:        programID,
			CriteriaName:     item.CriteriaName,
			Description:      item.Description,
			ScoringType:      item.ScoringType,
			Weight:           item.Weight,
			MinScore:         item.MinScore,
			MaxScore:         item.MaxScore,
			SortOrder:        nextOrder,
			RubricDefinition: item.RubricDefinition,
			IsRequired:       item.IsRequired,
			CreatedAt:        time.Now(),
		}
		if err := ValidateCriterionDefinition(&criterion); err != nil {
			result.addErr(item.ItemID, err)
			nextOrder--
			continue
		}
		if err := s.db.Create(&criterion).Error; err != nil {
			result.addErr(item.ItemID, InternalError(err, "failed to create criterion '%s'", item.CriteriaName))
			nextOrder--
			continue
		}
		existingNames[item.CriteriaName] = true
		result.addOK(item.ItemID, BatchCreated)
	}
	return result, nil
}

func strPtr(s string) *string { return &s }

// BuiltinTemplates returns the seed definitions installed by the
// seed-templates command, one per program category.
func BuiltinTemplates() []models.CriteriaTemplate {
	return []models.CriteriaTemplate{
		{
			TemplateName: "Workshop Application Review",
			Category:     models.CategoryWorkshop,
			Description:  strPtr("Default rubric for hands-on workshop admissions"),
			IsActive:     true,
			Items: []models.CriteriaTemplateItem{
				{CriteriaName: "Technical Merit", ScoringType: models.ScoringTypeNumerical, Weight: 0.4, MinScore: 0, MaxScore: 10, SortOrder: 1, IsRequired: true},
				{CriteriaName: "Motivation", ScoringType: models.ScoringTypeNumerical, Weight: 0.3, MinScore: 0, MaxScore: 10, SortOrder: 2, IsRequired: true},
				{CriteriaName: "Community Impact", ScoringType: models.ScoringTypeNumerical, Weight: 0.2, MinScore: 0, MaxScore: 5, SortOrder: 3, IsRequired: true},
				{CriteriaName: "Prior Attendance", ScoringType: models.ScoringTypeBinary, Weight: 0.1, MinScore: 0, MaxScore: 1, SortOrder: 4, IsRequired: false},
			},
		},
		{
			TemplateName: "Conference Talk Review",
			Category:     models.CategoryConference,
			Description:  strPtr("Default rubric for conference talk proposals"),
			IsActive:     true,
			Items: []models.CriteriaTemplateItem{
				{CriteriaName: "Relevance", ScoringType: models.ScoringTypeNumerical, Weight: 0.3, MinScore: 0, MaxScore: 10, SortOrder: 1, IsRequired: true},
				{CriteriaName: "Originality", ScoringType: models.ScoringTypeNumerical, Weight: 0.3, MinScore: 0, MaxScore: 10, SortOrder: 2, IsRequired: true},
				{
					CriteriaName: "Presentation Quality", ScoringType: models.ScoringTypeRubric,
					Weight: 0.4, MinScore: 0, MaxScore: 4, SortOrder: 3, IsRequired: true,
					RubricDefinition: models.RubricDefinition{
						{Level: "poor", Score: 0},
						{Level: "fair", Score: 1},
						{Level: "good", Score: 2},
						{Level: "very_good", Score: 3},
						{Level: "excellent", Score: 4},
					},
				},
			},
		},
		{
			TemplateName: "Hackathon Team Review",
			Category:     models.CategoryHackathon,
			Description:  strPtr("Default rubric for hackathon team applications"),
			IsActive:     true,
			Items: []models.CriteriaTemplateItem{
				{CriteriaName: "Idea Feasibility", ScoringType: models.ScoringTypeNumerical, Weight: 0.4, MinScore: 0, MaxScore: 10, SortOrder: 1, IsRequired: true},
				{CriteriaName: "Team Balance", ScoringType: models.ScoringTypeNumerical, Weight: 0.3, MinScore: 0, MaxScore: 5, SortOrder: 2, IsRequired: true},
				{CriteriaName: "Demo Ready", ScoringType: models.ScoringTypeBinary, Weight: 0.3, MinScore: 0, MaxScore: 1, SortOrder: 3, IsRequired: true},
			},
		},
		{
			TemplateName: "Fellowship Application Review",
			Category:     models.CategoryFellowship,
			Description:  strPtr("Default rubric for fellowship cohort selection"),
			IsActive:     true,
			Items: []models.CriteriaTemplateItem{
				{CriteriaName: "Track Record", ScoringType: models.ScoringTypeNumerical, Weight: 0.35, MinScore: 0, MaxScore: 10, SortOrder: 1, IsRequired: true},
				{CriteriaName: "Project Proposal", ScoringType: models.ScoringTypeNumerical, Weight: 0.35, MinScore: 0, MaxScore: 10, SortOrder: 2, IsRequired: true},
				{
					CriteriaName: "Mentorship Fit", ScoringType: models.ScoringTypeRubric,
					Weight: 0.3, MinScore: 0, MaxScore: 3, SortOrder: 3, IsRequired: true,
					RubricDefinition: models.RubricDefinition{
						{Level: "weak", Score: 0},
						{Level: "moderate", Score: 1},
						{Level: "strong", Score: 2},
						{Level: "exceptional", Score: 3},
					},
				},
			},
		},
	}
}
