package services

import (
	"math"

	"review-management-api/models"
)

// NormalizedScore is the result of validating one raw score against its
// criterion: a [0,1] normalized value, the weighted contribution, and the
// matched rubric level for rubric-type criteria.
type NormalizedScore struct {
	Raw         float64
	Normalized  float64
	Weighted    float64
	RubricLevel *string
}

// NormalizeScore validates raw against the criterion's bounds and scoring
// type and computes its normalized and weighted values. Pure function, no
// datastore access.
//
// Rules:
//   - raw outside [min_score, max_score] is rejected (bounds inclusive);
//     binary criteria accept only the two bound values themselves.
//   - normalized = (raw - min) / (max - min); a degenerate criterion with
//     max == min always normalizes to 1.0.
//   - weighted = normalized * weight.
//   - rubric criteria additionally require raw to equal one of the defined
//     level scores; the matching level key is recorded.
func NormalizeScore(raw float64, criterion *models.Criterion) (*NormalizedScore, error) {
	if criterion == nil {
		return nil, ValidationError("criterion is required")
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return nil, ValidationError("raw score must be a finite number")
	}

	min, max := criterion.MinScore, criterion.MaxScore

	if criterion.ScoringType == models.ScoringTypeBinary {
		if raw != min && raw != max {
			return nil, OutOfRangeError(
				"binary criterion '%s' accepts only %g or %g, got %g",
				criterion.CriteriaName, min, max, raw)
		}
	} else if raw < min || raw > max {
		return nil, OutOfRangeError(
			"score %g for criterion '%s' is outside [%g, %g]",
			raw, criterion.CriteriaName, min, max)
	}

	result := &NormalizedScore{Raw: raw}

	if max == min {
		// Degenerate criterion: any accepted score fully satisfies it.
		result.Normalized = 1.0
	} else {
		result.Normalized = (raw - min) / (max - min)
	}
	if result.Normalized < 0 {
		result.Normalized = 0
	} else if result.Normalized > 1 {
		result.Normalized = 1
	}

	if criterion.ScoringType == models.ScoringTypeRubric {
		level, ok := criterion.RubricDefinition.LevelForScore(raw)
		if !ok {
			return nil, InvalidRubricLevelError(
				"score %g does not match any rubric level of criterion '%s'",
				raw, criterion.CriteriaName)
		}
		result.RubricLevel = &level
	}

	result.Weighted = result.Normalized * criterion.Weight
	return result, nil
}

// ValidateCriterionDefinition checks the structural invariants of a
// criterion definition before it is created. Shared by manual creation and
// template application.
func ValidateCriterionDefinition(c *models.Criterion) error {
	if c.CriteriaName == "" {
		return ValidationError("criteria name is required")
	}
	switch c.ScoringType {
	case models.ScoringTypeNumerical, models.ScoringTypeCategorical,
		models.ScoringTypeBinary, models.ScoringTypeRubric, models.ScoringTypeWeighted:
	default:
		return ValidationError("unknown scoring type '%s'", c.ScoringType)
	}
	if c.Weight <= 0 {
		return ValidationError("criterion weight must be greater than zero, got %g", c.Weight)
	}
	if c.MaxScore <= c.MinScore {
		return ValidationError("max_score (%g) must be greater than min_score (%g)",
			c.MaxScore, c.MinScore)
	}
	if c.ScoringType == models.ScoringTypeRubric {
		if len(c.RubricDefinition) == 0 {
			return ValidationError("rubric criterion '%s' needs at least one level", c.CriteriaName)
		}
		seen := make(map[string]bool, len(c.RubricDefinition))
		for _, lvl := range c.RubricDefinition {
			if lvl.Level == "" {
				return ValidationError("rubric level name must not be empty")
			}
			if seen[lvl.Level] {
				return ValidationError("duplicate rubric level '%s'", lvl.Level)
			}
			seen[lvl.Level] = true
			if lvl.Score < c.MinScore || lvl.Score > c.MaxScore {
				return ValidationError("rubric level '%s' score %g is outside [%g, %g]",
					lvl.Level, lvl.Score, c.MinScore, c.MaxScore)
			}
		}
	}
	return nil
}
