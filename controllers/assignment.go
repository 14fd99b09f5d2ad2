package controllers

import (
	"net/http"
	"strconv"
	"time"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

// CreateAssignments assigns a reviewer to a batch of applications of one
// program. Existing (application, reviewer) pairs are reported as
// already_exists and never duplicated.
func CreateAssignments(c *gin.Context) {
	programID, err := strconv.Atoi(c.Param("id"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	var req struct {
		ApplicationIDs []int      `json:"application_ids" binding:"required"`
		ReviewerID     int        `json:"reviewer_id" binding:"required"`
		Deadline       *time.Time `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, svcErr := services.NewAssignmentService(nil).CreateAssignments(
		programID, req.ApplicationIDs, req.ReviewerID, req.Deadline, currentUserID(c))
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

// AutoAssignReviewers distributes applications across a set of reviewers
// round-robin by ascending current workload.
func AutoAssignReviewers(c *gin.Context) {
	programID, err := strconv.Atoi(c.Param("id"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	var req struct {
		ApplicationIDs []int      `json:"application_ids" binding:"required"`
		ReviewerIDs    []int      `json:"reviewer_ids" binding:"required"`
		Deadline       *time.Time `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, svcErr := services.NewWorkloadService(nil).AutoAssign(
		programID, req.ApplicationIDs, req.ReviewerIDs, req.Deadline, currentUserID(c))
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

// GetMyAssignments lists the current reviewer's assignments, optionally
// filtered by status.
func GetMyAssignments(c *gin.Context) {
	assignments, err := services.NewAssignmentService(nil).ListForReviewer(
		currentUserID(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// DeleteAssignment removes an assignment with its review and scores.
func DeleteAssignment(c *gin.Context) {
	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assignmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	svcErr := services.NewAssignmentService(nil).Delete(assignmentID, currentUserID(c), currentRoleID(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Assignment deleted",
	})
}

// GetAssignmentReview opens (and lazily creates) the review for one of the
// current reviewer's assignments.
func GetAssignmentReview(c *gin.Context) {
	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assignmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	review, svcErr := services.NewReviewService(nil).GetOrCreateByAssignment(assignmentID, currentUserID(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}
