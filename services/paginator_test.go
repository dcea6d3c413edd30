package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"ttms-analytics/models"
)

func TestFetchAllStopsOnShortPage(t *testing.T) {
	fake := newFakeTTMS()
	fake.students[testPeriod.Key()] = studentRows(3, "FC")
	env := newTestEnv(t, fake, 3, 10)

	params := periodParams(testPeriod)
	rows, err := fetchAll[wireStudent](context.Background(), env.paginator, "pelajar", params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d records, want 3", len(rows))
	}
	// ровно PAGE_SIZE на первой странице, пустая вторая
	if got := fake.count("pelajar"); got != 2 {
		t.Errorf("page requests = %d, want 2", got)
	}
}

func TestFetchAllAcrossPages(t *testing.T) {
	fake := newFakeTTMS()
	fake.students[testPeriod.Key()] = studentRows(7, "FC")
	env := newTestEnv(t, fake, 3, 10)

	rows, err := fetchAll[wireStudent](context.Background(), env.paginator, "pelajar", periodParams(testPeriod))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 7 {
		t.Errorf("got %d records, want 7", len(rows))
	}
	if got := fake.count("pelajar"); got != 3 {
		t.Errorf("page requests = %d, want 3", got)
	}
	if rows[6].MatricNo != "FC6" {
		t.Errorf("last record = %q, want FC6", rows[6].MatricNo)
	}
}

func TestFetchAllPageCap(t *testing.T) {
	fake := newFakeTTMS()
	fake.override = func(w http.ResponseWriter, r *http.Request) bool {
		// всегда полная страница
		writeRows(w, studentRows(2, "FC"))
		return true
	}
	env := newTestEnv(t, fake, 2, 3)

	_, err := fetchAll[wireStudent](context.Background(), env.paginator, "pelajar", url.Values{})
	if !errors.Is(err, models.ErrUpstreamPagination) {
		t.Fatalf("expected ErrUpstreamPagination, got %v", err)
	}
	if got := fake.count("pelajar"); got != 3 {
		t.Errorf("page requests = %d, want 3", got)
	}
}

func TestFetchAllPropagatesFetchError(t *testing.T) {
	fake := newFakeTTMS()
	fake.failStudents[testPeriod.Key()] = true
	env := newTestEnv(t, fake, 3, 10)

	_, err := fetchAll[wireStudent](context.Background(), env.paginator, "pelajar", periodParams(testPeriod))
	if !errors.Is(err, models.ErrUpstreamFetch) {
		t.Fatalf("expected ErrUpstreamFetch, got %v", err)
	}
}
