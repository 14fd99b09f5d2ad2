package controllers

import (
	"net/http"
	"strconv"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetReview returns a review with its scores and, when computable, the
// review-level score.
func GetReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	review, svcErr := services.NewReviewService(nil).Get(reviewID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	score, scored := review.ReviewLevelScore()
	payload := gin.H{
		"success": true,
		"review":  review,
		"legacy":  review.IsLegacy(),
	}
	if scored {
		payload["review_score"] = score
	}
	c.JSON(http.StatusOK, payload)
}

// SaveScores upserts a partial set of per-criterion scores. Each row is
// written independently; the response itemizes the outcome per criterion.
func SaveScores(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req struct {
		Scores []services.ScoreInput `json:"scores" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, svcErr := services.NewReviewService(nil).SaveScores(reviewID, req.Scores, currentUserID(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.AllSucceeded(),
		"result":  result,
	})
}

// SubmitReview finalizes a review: all required criteria must be covered,
// then the assignment becomes completed.
func SubmitReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req struct {
		Scores   []services.ScoreInput `json:"scores"`
		Comments *string               `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, svcErr := services.NewReviewService(nil).SubmitReview(reviewID, req.Scores, req.Comments, currentUserID(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
		"message": "Review submitted",
	})
}

// ClearScores resets a review's scores and returns the assignment to
// not_started. Program owner or super admin only.
func ClearScores(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	svcErr := services.NewReviewService(nil).ClearScores(reviewID, currentUserID(c), currentRoleID(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Scores cleared",
	})
}
