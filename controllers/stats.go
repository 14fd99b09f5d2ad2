package controllers

import (
	"net/http"
	"strconv"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetReviewerWorkload reports a reviewer's assignment counts by status,
// optionally scoped to one program via ?program_id=.
func GetReviewerWorkload(c *gin.Context) {
	reviewerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}
	programID, _ := strconv.Atoi(c.Query("program_id"))

	workload, svcErr := services.NewWorkloadService(nil).WorkloadFor(reviewerID, programID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"workload": workload,
	})
}

// GetReviewerStats reports workload plus scoring activity for a reviewer.
func GetReviewerStats(c *gin.Context) {
	reviewerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}
	programID, _ := strconv.Atoi(c.Query("program_id"))

	stats, svcErr := services.NewWorkloadService(nil).StatsFor(reviewerID, programID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// GetProgramStats reports per-reviewer progress across one program.
func GetProgramStats(c *gin.Context) {
	programID, err := strconv.Atoi(c.Param("id"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	stats, svcErr := services.NewWorkloadService(nil).ProgramStats(programID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// GetApplicationRanking returns the program's applications ordered by
// consensus score, with needs-adjudication flags.
func GetApplicationRanking(c *gin.Context) {
	programID, err := strconv.Atoi(c.Param("id"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	ranking, svcErr := services.NewRankingService(nil).ProgramRanking(programID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ranking": ranking,
		"total":   len(ranking),
	})
}

// GetApplicationConsensus returns the consensus result for one application.
func GetApplicationConsensus(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	consensus, svcErr := services.NewRankingService(nil).ApplicationConsensus(applicationID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"consensus": consensus,
	})
}
