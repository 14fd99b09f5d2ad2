package services

import (
	"math"
	"sort"
	"time"

	"review-management-api/models"
)

// ReviewInput is one reviewer's contribution to an application's consensus:
// the review-level score plus the reviewer's expertise weight (used only by
// the weighted_average method).
type ReviewInput struct {
	ReviewerID      int     `json:"reviewer_id"`
	Score           float64 `json:"score"`
	ExpertiseWeight float64 `json:"expertise_weight"`
}

// ConsensusResult is the application-level aggregate across reviewers.
type ConsensusResult struct {
	Score             float64 `json:"score"`
	ReviewCount       int     `json:"review_count"`
	MaxPairwiseDiff   float64 `json:"max_pairwise_diff"`
	NeedsAdjudication bool    `json:"needs_adjudication"`
}

// RankedApplication is one row of a program ranking.
type RankedApplication struct {
	ApplicationID int       `json:"application_id"`
	ApplicantName string    `json:"applicant_name"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Rank          int       `json:"rank"`
	Consensus     ConsensusResult `json:"consensus"`
}

// Consensus combines the review-level scores of all reviewers of one
// application according to the program's settings. Reviews that cannot
// produce a score are expected to be filtered out by the caller.
func Consensus(reviews []ReviewInput, settings models.ReviewSettings) (ConsensusResult, error) {
	if len(reviews) == 0 {
		return ConsensusResult{}, ConflictError("no completed reviews to aggregate")
	}

	var score float64
	switch settings.ScoringMethod {
	case models.ScoringMethodMedian:
		score = medianScore(reviews)
	case models.ScoringMethodWeightedAverage:
		score = expertiseWeightedScore(reviews)
	case models.ScoringMethodAverage, "":
		score = meanScore(reviews)
	default:
		return ConsensusResult{}, ValidationError("unknown scoring method '%s'", settings.ScoringMethod)
	}

	result := ConsensusResult{
		Score:           score,
		ReviewCount:     len(reviews),
		MaxPairwiseDiff: maxPairwiseDiff(reviews),
	}
	if settings.ConsensusEnabled && result.MaxPairwiseDiff > settings.ConsensusThreshold {
		result.NeedsAdjudication = true
	}
	return result, nil
}

func meanScore(reviews []ReviewInput) float64 {
	var sum float64
	for _, r := range reviews {
		sum += r.Score
	}
	return sum / float64(len(reviews))
}

// expertiseWeightedScore falls back to the plain mean when the expertise
// weights sum to zero.
func expertiseWeightedScore(reviews []ReviewInput) float64 {
	var sum, weights float64
	for _, r := range reviews {
		w := r.ExpertiseWeight
		if w < 0 {
			w = 0
		}
		sum += r.Score * w
		weights += w
	}
	if weights <= 0 {
		return meanScore(reviews)
	}
	return sum / weights
}

func medianScore(reviews []ReviewInput) float64 {
	scores := make([]float64, len(reviews))
	for i, r := range reviews {
		scores[i] = r.Score
	}
	sort.Float64s(scores)
	n := len(scores)
	if n%2 == 1 {
		return scores[n/2]
	}
	return (scores[n/2-1] + scores[n/2]) / 2
}

func maxPairwiseDiff(reviews []ReviewInput) float64 {
	// Max pairwise |a-b| is max-min; no need for the quadratic scan.
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range reviews {
		if r.Score < lo {
			lo = r.Score
		}
		if r.Score > hi {
			hi = r.Score
		}
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}

// RankApplications orders applications by consensus score descending.
// Ties break by earlier submitted_at, then by application id, so the
// ranking is a stable total order across runs. Rank fields are assigned
// 1-based in the returned order.
func RankApplications(apps []RankedApplication) []RankedApplication {
	ranked := make([]RankedApplication, len(apps))
	copy(ranked, apps)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Consensus.Score != ranked[j].Consensus.Score {
			return ranked[i].Consensus.Score > ranked[j].Consensus.Score
		}
		if !ranked[i].SubmittedAt.Equal(ranked[j].SubmittedAt) {
			return ranked[i].SubmittedAt.Before(ranked[j].SubmittedAt)
		}
		return ranked[i].ApplicationID < ranked[j].ApplicationID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
