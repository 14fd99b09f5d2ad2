package services

import (
	"testing"

	"review-management-api/models"
)

func numericCriterion(min, max, weight float64) *models.Criterion {
	return &models.Criterion{
		CriteriaID:   1,
		CriteriaName: "Technical Merit",
		ScoringType:  models.ScoringTypeNumerical,
		Weight:       weight,
		MinScore:     min,
		MaxScore:     max,
	}
}

func TestNormalizeScoreBounds(t *testing.T) {
	criterion := numericCriterion(0, 10, 0.5)

	cases := []struct {
		raw        float64
		normalized float64
		weighted   float64
	}{
		{0, 0, 0},
		{10, 1, 0.5},
		{8, 0.8, 0.4},
		{5, 0.5, 0.25},
	}
	for _, tc := range cases {
		result, err := NormalizeScore(tc.raw, criterion)
		if err != nil {
			t.Fatalf("NormalizeScore(%g) returned error: %v", tc.raw, err)
		}
		if !almostEqual(result.Normalized, tc.normalized) {
			t.Fatalf("NormalizeScore(%g): normalized = %g, want %g", tc.raw, result.Normalized, tc.normalized)
		}
		if !almostEqual(result.Weighted, tc.weighted) {
			t.Fatalf("NormalizeScore(%g): weighted = %g, want %g", tc.raw, result.Weighted, tc.weighted)
		}
		if result.Normalized < 0 || result.Normalized > 1 {
			t.Fatalf("NormalizeScore(%g): normalized %g out of [0,1]", tc.raw, result.Normalized)
		}
	}
}

func TestNormalizeScoreRejectsOutOfRange(t *testing.T) {
	criterion := numericCriterion(2, 10, 1)

	for _, raw := range []float64{1.999, 10.001, -5, 100} {
		_, err := NormalizeScore(raw, criterion)
		if err == nil {
			t.Fatalf("NormalizeScore(%g) should fail", raw)
		}
		if !IsKind(err, KindOutOfRange) {
			t.Fatalf("NormalizeScore(%g): kind = %s, want %s", raw, KindOf(err), KindOutOfRange)
		}
	}

	// Boundaries are inclusive.
	for _, raw := range []float64{2, 10} {
		if _, err := NormalizeScore(raw, criterion); err != nil {
			t.Fatalf("NormalizeScore(%g) on boundary returned error: %v", raw, err)
		}
	}
}

func TestNormalizeScoreNonZeroMinimum(t *testing.T) {
	criterion := numericCriterion(2, 12, 1)

	result, err := NormalizeScore(7, criterion)
	if err != nil {
		t.Fatalf("NormalizeScore returned error: %v", err)
	}
	if !almostEqual(result.Normalized, 0.5) {
		t.Fatalf("normalized = %g, want 0.5", result.Normalized)
	}
}

func TestNormalizeScoreDegenerateCriterion(t *testing.T) {
	criterion := numericCriterion(5, 5, 0.3)
	criterion.ScoringType = models.ScoringTypeBinary

	result, err := NormalizeScore(5, criterion)
	if err != nil {
		t.Fatalf("NormalizeScore returned error: %v", err)
	}
	if result.Normalized != 1.0 {
		t.Fatalf("degenerate criterion: normalized = %g, want 1.0", result.Normalized)
	}
	if !almostEqual(result.Weighted, 0.3) {
		t.Fatalf("degenerate criterion: weighted = %g, want 0.3", result.Weighted)
	}
}

func TestNormalizeScoreBinaryAcceptsOnlyBounds(t *testing.T) {
	criterion := numericCriterion(0, 1, 0.2)
	criterion.ScoringType = models.ScoringTypeBinary

	for _, raw := range []float64{0.5, 0.001, 0.999} {
		_, err := NormalizeScore(raw, criterion)
		if !IsKind(err, KindOutOfRange) {
			t.Fatalf("binary NormalizeScore(%g): kind = %s, want %s", raw, KindOf(err), KindOutOfRange)
		}
	}

	for raw, want := range map[float64]float64{0: 0, 1: 1} {
		result, err := NormalizeScore(raw, criterion)
		if err != nil {
			t.Fatalf("binary NormalizeScore(%g) returned error: %v", raw, err)
		}
		if result.Normalized != want {
			t.Fatalf("binary NormalizeScore(%g): normalized = %g, want %g", raw, result.Normalized, want)
		}
	}
}

func TestNormalizeScoreRubric(t *testing.T) {
	criterion := &models.Criterion{
		CriteriaName: "Presentation Quality",
		ScoringType:  models.ScoringTypeRubric,
		Weight:       0.4,
		MinScore:     0,
		MaxScore:     4,
		RubricDefinition: models.RubricDefinition{
			{Level: "poor", Score: 0},
			{Level: "good", Score: 2},
			{Level: "excellent", Score: 4},
		},
	}

	result, err := NormalizeScore(2, criterion)
	if err != nil {
		t.Fatalf("NormalizeScore returned error: %v", err)
	}
	if result.RubricLevel == nil || *result.RubricLevel != "good" {
		t.Fatalf("rubric level = %v, want good", result.RubricLevel)
	}
	if !almostEqual(result.Normalized, 0.5) {
		t.Fatalf("normalized = %g, want 0.5", result.Normalized)
	}

	// In-range but not a defined level.
	_, err = NormalizeScore(3, criterion)
	if !IsKind(err, KindInvalidRubricLevel) {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindInvalidRubricLevel)
	}

	// Out of range wins over rubric matching.
	_, err = NormalizeScore(9, criterion)
	if !IsKind(err, KindOutOfRange) {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindOutOfRange)
	}
}

func TestNormalizeScoreRejectsNonFinite(t *testing.T) {
	criterion := numericCriterion(0, 10, 1)
	nan := 0.0
	nan = nan / nan
	if _, err := NormalizeScore(nan, criterion); !IsKind(err, KindValidation) {
		t.Fatalf("NaN: kind = %s, want %s", KindOf(err), KindValidation)
	}
}

func TestValidateCriterionDefinition(t *testing.T) {
	base := func() *models.Criterion {
		return numericCriterion(0, 10, 0.5)
	}

	if err := ValidateCriterionDefinition(base()); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}

	zeroWeight := base()
	zeroWeight.Weight = 0
	if err := ValidateCriterionDefinition(zeroWeight); !IsKind(err, KindValidation) {
		t.Fatalf("zero weight: kind = %s, want %s", KindOf(err), KindValidation)
	}

	inverted := base()
	inverted.MinScore, inverted.MaxScore = 10, 0
	if err := ValidateCriterionDefinition(inverted); !IsKind(err, KindValidation) {
		t.Fatalf("inverted bounds: kind = %s, want %s", KindOf(err), KindValidation)
	}

	rubricNoLevels := base()
	rubricNoLevels.ScoringType = models.ScoringTypeRubric
	if err := ValidateCriterionDefinition(rubricNoLevels); !IsKind(err, KindValidation) {
		t.Fatalf("rubric without levels: kind = %s, want %s", KindOf(err), KindValidation)
	}

	rubricOutOfBounds := base()
	rubricOutOfBounds.ScoringType = models.ScoringTypeRubric
	rubricOutOfBounds.RubricDefinition = models.RubricDefinition{{Level: "excellent", Score: 11}}
	if err := ValidateCriterionDefinition(rubricOutOfBounds); !IsKind(err, KindValidation) {
		t.Fatalf("rubric level out of bounds: kind = %s, want %s", KindOf(err), KindValidation)
	}

	unknownType := base()
	unknownType.ScoringType = "stars"
	if err := ValidateCriterionDefinition(unknownType); !IsKind(err, KindValidation) {
		t.Fatalf("unknown type: kind = %s, want %s", KindOf(err), KindValidation)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
