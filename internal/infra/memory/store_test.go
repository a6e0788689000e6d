package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"coges-quiz-app/internal/domain"
)

func TestListTestsEmpty(t *testing.T) {
	store := NewStore()
	tests, err := store.ListTests(context.Background())
	if err != nil {
		t.Fatalf("list tests: %v", err)
	}
	if tests == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(tests) != 0 {
		t.Fatalf("expected no tests, got %d", len(tests))
	}
}

func TestGetTestNotFound(t *testing.T) {
	store := NewStore()
	store.AddTest(domain.Test{ID: "t1", Title: "Known"})

	_, err := store.GetTest(context.Background(), "absent-but-valid-id")
	if !errors.Is(err, domain.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}
}

func TestSaveResultDefaultsTimestampAndID(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(func() time.Time { return now })

	result := domain.Result{Username: "Mario", TestID: "t1", Score: "1/2",
		CorrectAnswers: 1, TotalQuestions: 2, SessionID: "s1"}
	if err := store.SaveResult(context.Background(), &result); err != nil {
		t.Fatalf("save result: %v", err)
	}
	if result.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !result.Date.Equal(now) {
		t.Fatalf("expected zero date defaulted to %v, got %v", now, result.Date)
	}
}

func TestListResultsNewestFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	// Inserted out of chronological order on purpose.
	for _, r := range []domain.Result{
		{Username: "a", TestID: "t1", Date: now.Add(-time.Hour)},
		{Username: "b", TestID: "t1", Date: now},
		{Username: "c", TestID: "t1", Date: now.Add(-2 * time.Hour)},
	} {
		r := r
		if err := store.SaveResult(ctx, &r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	results, err := store.ListResults(ctx)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Date.After(results[i-1].Date) {
			t.Fatalf("results out of order at %d: %v after %v", i, results[i].Date, results[i-1].Date)
		}
	}
	if results[0].Username != "b" {
		t.Fatalf("expected newest result first, got %s", results[0].Username)
	}
}

func TestListResultsByUsernameFilters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	for i, name := range []string{"Mario", "Luigi", "Mario"} {
		r := domain.Result{Username: name, TestID: "t1", Date: now.Add(time.Duration(i) * time.Minute)}
		if err := store.SaveResult(ctx, &r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	results, err := store.ListResultsByUsername(ctx, "Mario")
	if err != nil {
		t.Fatalf("list by username: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 Mario results, got %d", len(results))
	}
	for _, r := range results {
		if r.Username != "Mario" {
			t.Fatalf("unexpected username %s", r.Username)
		}
	}
	if results[0].Date.Before(results[1].Date) {
		t.Fatalf("expected descending date order")
	}
}

func TestListAnswersBySessionOrdersByQuestionIndex(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	// Answers arrive out of presentation order over the network.
	for _, idx := range []int{2, 0, 1} {
		a := domain.UserAnswer{Username: "Mario", TestID: "t1", SessionID: "s1", QuestionIndex: idx}
		if err := store.SaveUserAnswer(ctx, &a); err != nil {
			t.Fatalf("save answer: %v", err)
		}
	}
	other := domain.UserAnswer{Username: "Luigi", TestID: "t1", SessionID: "s2", QuestionIndex: 0}
	if err := store.SaveUserAnswer(ctx, &other); err != nil {
		t.Fatalf("save answer: %v", err)
	}

	answers, err := store.ListAnswersBySession(ctx, "s1")
	if err != nil {
		t.Fatalf("list by session: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(answers))
	}
	for i, a := range answers {
		if a.QuestionIndex != i {
			t.Fatalf("expected question index %d at position %d, got %d", i, i, a.QuestionIndex)
		}
	}
}

func TestListAnswersByUserAndTest(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		a := domain.UserAnswer{Username: "Mario", TestID: "t1", SessionID: "s1",
			QuestionIndex: i, AnsweredAt: now.Add(time.Duration(i) * time.Second)}
		if err := store.SaveUserAnswer(ctx, &a); err != nil {
			t.Fatalf("save answer: %v", err)
		}
	}
	stray := domain.UserAnswer{Username: "Mario", TestID: "t2", SessionID: "s9", QuestionIndex: 0}
	if err := store.SaveUserAnswer(ctx, &stray); err != nil {
		t.Fatalf("save answer: %v", err)
	}

	answers, err := store.ListAnswersByUserAndTest(ctx, "Mario", "t1")
	if err != nil {
		t.Fatalf("list by user and test: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(answers))
	}
	for i := 1; i < len(answers); i++ {
		if answers[i].AnsweredAt.After(answers[i-1].AnsweredAt) {
			t.Fatalf("expected descending AnsweredAt order")
		}
	}
}

func TestCountAttempts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, testID := range []string{"t1", "t2", "t1", "t1"} {
		r := domain.Result{Username: "Mario", TestID: testID}
		if err := store.SaveResult(ctx, &r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n, err := store.CountAttempts(ctx, "t1")
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 attempts for t1, got %d", n)
	}
	n, err = store.CountAttempts(ctx, "t3")
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 attempts for t3, got %d", n)
	}
}
