package postgres

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fakeErr("pq: relation matches does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
