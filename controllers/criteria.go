package controllers

import (
	"net/http"
	"strconv"

	"review-management-api/models"
	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

type criterionRequest struct {
	CriteriaName     string                  `json:"criteria_name" binding:"required"`
	Description      *string                 `json:"description"`
	ScoringType      string                  `json:"scoring_type" binding:"required"`
	Weight           float64                 `json:"weight" binding:"required"`
	MinScore         float64                 `json:"min_score"`
	MaxScore         float64                 `json:"max_score" binding:"required"`
	SortOrder        int                     `json:"sort_order"`
	RubricDefinition models.RubricDefinition `json:"rubric_definition"`
	IsRequired       *bool                   `json:"is_required"`
}

func (r *criterionRequest) toModel(programID int) *models.Criterion {
	criterion := &models.Criterion{
		ProgramID:        programID,
		CriteriaName:     r.CriteriaName,
		Description:      r.Description,
		ScoringType:      r.ScoringType,
		Weight:           r.Weight,
		MinScore:         r.MinScore,
		MaxScore:         r.MaxScore,
		SortOrder:        r.SortOrder,
		RubricDefinition: r.RubricDefinition,
		IsRequired:       true,
	}
	if r.IsRequired != nil {
		criterion.IsRequired = *r.IsRequired
	}
	return criterion
}

// GetCriteria lists a program's criteria in scoring order.
func GetCriteria(c *gin.Context) {
	programID, err := strconv.Atoi(c.Param("id"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	criteria, err := services.NewCriteriaService(nil).ListByProgram(programID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"criteria": criteria,
		"total":    len(criteria),
	})
}

// CreateCriterion adds one criterion to a program.
func CreateCriterion(c *gin.Context) {
	programID, err := strconv.Atoi(c.Param("id"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	var req criterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criterion, svcErr := services.NewCriteriaService(nil).Create(req.toModel(programID))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"criterion": criterion,
	})
}

// UpdateCriterion edits a criterion. Structural fields are rejected once
// the criterion has saved scores.
func UpdateCriterion(c *gin.Context) {
	criteriaID, err := strconv.Atoi(c.Param("id"))
	if err != nil || criteriaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion ID"})
		return
	}

	var req criterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criterion, svcErr := services.NewCriteriaService(nil).Update(criteriaID, req.toModel(0))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"criterion": criterion,
	})
}

// DeleteCriterion removes an unscored criterion.
func DeleteCriterion(c *gin.Context) {
	criteriaID, err := strconv.Atoi(c.Param("id"))
	if err != nil || criteriaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion ID"})
		return
	}

	if err := services.NewCriteriaService(nil).Delete(criteriaID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Criterion deleted",
	})
}

// ReorderCriteria rewrites the program's sort order. Best-effort: the
// response carries a per-item outcome list.
func ReorderCriteria(c *gin.Context) {
	programID, err := strconv.Atoi(c.Param("id"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	var req struct {
		CriteriaIDs []int `json:"criteria_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, svcErr := services.NewCriteriaService(nil).Reorder(programID, req.CriteriaIDs)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.AllSucceeded(),
		"result":  result,
	})
}

// GetTemplates lists active criteria templates, optionally by category.
func GetTemplates(c *gin.Context) {
	templates, err := services.NewTemplateService(nil).List(c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"templates": templates,
		"total":     len(templates),
	})
}

// ApplyTemplate expands a criteria template into the program. Items whose
// name already exists in the program are skipped.
func ApplyTemplate(c *gin.Context) {
	programID, err := strconv.Atoi(c.Param("id"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	var req struct {
		TemplateID int `json:"template_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, svcErr := services.NewTemplateService(nil).Apply(programID, req.TemplateID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.AllSucceeded(),
		"created": result.Created,
		"skipped": result.Skipped,
		"result":  result,
	})
}
