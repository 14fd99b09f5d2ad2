package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
)

// Scripts the context loading of a score save: review with preloaded
// scores, assignment with its application, and the program's criteria.
func scoringContextSteps(assignmentStatus string) []*queryStep {
	return []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `reviews` WHERE review_id = \\?"),
			args:    []driver.Value{int64(5)},
			columns: []string{"review_id", "assignment_id", "application_id", "reviewer_id"},
			rows:    [][]driver.Value{{int64(5), int64(9), int64(101), int64(7)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `review_scores` WHERE `review_scores`.`review_id` = \\?"),
			args:    []driver.Value{int64(5)},
			columns: []string{"score_id", "review_id", "criteria_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `review_assignments` WHERE assignment_id = \\?"),
			args:    []driver.Value{int64(9)},
			columns: []string{"assignment_id", "application_id", "reviewer_id", "status"},
			rows:    [][]driver.Value{{int64(9), int64(101), int64(7), assignmentStatus}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `applications` WHERE `applications`.`application_id` = \\?"),
			args:    []driver.Value{int64(101)},
			columns: []string{"application_id", "program_id"},
			rows:    [][]driver.Value{{int64(101), int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `criteria` WHERE program_id = \\? AND deleted_at IS NULL"),
			args:    []driver.Value{int64(1)},
			columns: []string{"criteria_id", "program_id", "criteria_name", "scoring_type", "weight", "min_score", "max_score", "is_required"},
			rows: [][]driver.Value{
				{int64(11), int64(1), "Technical Merit", "numerical", 0.5, 0.0, 10.0, int64(1)},
				{int64(12), int64(1), "Motivation", "numerical", 0.3, 0.0, 5.0, int64(1)},
			},
		},
	}
}

func TestSaveScoresLockedOnceCompleted(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, scoringContextSteps("completed"))
	defer cleanup()

	_, err := NewReviewService(db).SaveScores(5, []ScoreInput{{CriteriaID: 11, RawScore: 8}}, 7)
	if !IsKind(err, KindConflict) {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindConflict)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveScoresUpsertsAndAdvancesAssignment(t *testing.T) {
	steps := scoringContextSteps("not_started")
	steps = append(steps,
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_scores`.*ON DUPLICATE KEY UPDATE"),
			anyArgs: true,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `review_assignments` SET `status`=\\?"),
			anyArgs: true,
			result:  scriptedResult{rowsAffected: 1},
		},
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewReviewService(db).SaveScores(5, []ScoreInput{{CriteriaID: 11, RawScore: 8}}, 7)
	if err != nil {
		t.Fatalf("SaveScores returned error: %v", err)
	}
	if result.Updated != 1 || result.Failed != 0 {
		t.Fatalf("unexpected batch result: %+v", result)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveScoresRejectsForeignReviewer(t *testing.T) {
	// Context loading stops at the review itself: actor 8 is not the
	// review's reviewer.
	steps := scoringContextSteps("not_started")[:2]

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewReviewService(db).SaveScores(5, []ScoreInput{{CriteriaID: 11, RawScore: 8}}, 8)
	if !IsKind(err, KindForbidden) {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindForbidden)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveScoresItemizesBadScores(t *testing.T) {
	steps := scoringContextSteps("in_progress")
	steps = append(steps, &queryStep{
		kind:    kindExec,
		pattern: regexp.MustCompile("INSERT INTO `review_scores`.*ON DUPLICATE KEY UPDATE"),
		anyArgs: true,
		result:  scriptedResult{lastInsertID: 2, rowsAffected: 1},
	})

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	// 99 is out of range for criterion 11 and criterion 77 is unknown;
	// criterion 12 saves fine.
	result, err := NewReviewService(db).SaveScores(5, []ScoreInput{
		{CriteriaID: 11, RawScore: 99},
		{CriteriaID: 77, RawScore: 1},
		{CriteriaID: 12, RawScore: 4},
	}, 7)
	if err != nil {
		t.Fatalf("SaveScores returned error: %v", err)
	}
	if result.Failed != 2 || result.Updated != 1 {
		t.Fatalf("unexpected batch result: %+v", result)
	}
	if result.Items[0].ErrorKind != string(KindOutOfRange) {
		t.Fatalf("item 0 kind = %s, want %s", result.Items[0].ErrorKind, KindOutOfRange)
	}
	if result.Items[1].ErrorKind != string(KindNotFound) {
		t.Fatalf("item 1 kind = %s, want %s", result.Items[1].ErrorKind, KindNotFound)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitReviewRequiresFullCoverage(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, scoringContextSteps("in_progress"))
	defer cleanup()

	// Only criterion 11 is covered; required criterion 12 is missing, so
	// nothing is written and the submission conflicts.
	_, err := NewReviewService(db).SubmitReview(5, []ScoreInput{{CriteriaID: 11, RawScore: 8}}, nil, 7)
	if !IsKind(err, KindConflict) {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindConflict)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTemplateApplyRejectsInactiveTemplate(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `criteria_templates` WHERE template_id = \\?"),
			args:    []driver.Value{int64(4)},
			columns: []string{"template_id", "template_name", "category", "is_active"},
			rows:    [][]driver.Value{{int64(4), "Workshop Application Review", "workshop", int64(0)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `criteria_template_items` WHERE `criteria_template_items`.`template_id` = \\?"),
			args:    []driver.Value{int64(4)},
			columns: []string{"item_id", "template_id", "criteria_name"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewTemplateService(db).Apply(1, 4)
	if !IsKind(err, KindNotFound) {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindNotFound)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
