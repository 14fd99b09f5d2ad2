package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
)

func userColumns() []string {
	return []string{"user_id", "first_name", "last_name", "email", "role_id", "expertise_level"}
}

func TestCreateAssignmentsDuplicateIsNoOp(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users` WHERE user_id = \\? AND deleted_at IS NULL"),
			args:    []driver.Value{int64(7)},
			columns: userColumns(),
			// Blank email keeps the notification path quiet.
			rows: [][]driver.Value{{int64(7), "Ada", "Reviewer", "", int64(1), 1.0}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `applications` WHERE program_id = \\? AND deleted_at IS NULL"),
			args:    []driver.Value{int64(1)},
			columns: []string{"application_id", "program_id"},
			rows: [][]driver.Value{
				{int64(101), int64(1)},
				{int64(102), int64(1)},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_assignments`.*ON DUPLICATE KEY UPDATE"),
			anyArgs: true,
			result:  scriptedResult{lastInsertID: 55, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_assignments`.*ON DUPLICATE KEY UPDATE"),
			anyArgs: true,
			// The unique (application_id, reviewer_id) pair already exists.
			result: scriptedResult{rowsAffected: 0},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAssignmentService(db)
	result, err := svc.CreateAssignments(1, []int{101, 102}, 7, nil, 2)
	if err != nil {
		t.Fatalf("CreateAssignments returned error: %v", err)
	}

	if result.Created != 1 || result.Skipped != 1 || result.Failed != 0 {
		t.Fatalf("unexpected batch result: %+v", result)
	}
	if result.Items[0].Status != BatchCreated {
		t.Fatalf("application 101: status %s, want %s", result.Items[0].Status, BatchCreated)
	}
	if result.Items[1].Status != BatchAlreadyExists {
		t.Fatalf("application 102: status %s, want %s", result.Items[1].Status, BatchAlreadyExists)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAssignmentsRejectsForeignApplication(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users` WHERE user_id = \\? AND deleted_at IS NULL"),
			args:    []driver.Value{int64(7)},
			columns: userColumns(),
			rows:    [][]driver.Value{{int64(7), "Ada", "Reviewer", "", int64(1), 1.0}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `applications` WHERE program_id = \\? AND deleted_at IS NULL"),
			args:    []driver.Value{int64(1)},
			columns: []string{"application_id", "program_id"},
			rows:    [][]driver.Value{{int64(101), int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	// Application 999 is not part of program 1: no insert happens and the
	// item fails with a validation error.
	result, err := NewAssignmentService(db).CreateAssignments(1, []int{999}, 7, nil, 2)
	if err != nil {
		t.Fatalf("CreateAssignments returned error: %v", err)
	}
	if result.Failed != 1 || result.Created != 0 {
		t.Fatalf("unexpected batch result: %+v", result)
	}
	if result.Items[0].ErrorKind != string(KindValidation) {
		t.Fatalf("error kind = %s, want %s", result.Items[0].ErrorKind, KindValidation)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAssignmentsUnknownReviewer(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users` WHERE user_id = \\? AND deleted_at IS NULL"),
			args:    []driver.Value{int64(99)},
			columns: userColumns(),
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewAssignmentService(db).CreateAssignments(1, []int{101}, 99, nil, 2)
	if !IsKind(err, KindNotFound) {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindNotFound)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
