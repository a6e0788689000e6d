package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"coges-quiz-app/internal/domain"

	"github.com/google/uuid"
)

// Store keeps all three collections in process memory. It backs the unit
// tests and lets the server run without Postgres configured.
type Store struct {
	clock func() time.Time

	mu      sync.RWMutex
	tests   []domain.Test
	results []domain.Result
	answers []domain.UserAnswer
}

func NewStore() *Store {
	return &Store{clock: time.Now}
}

// NewStoreWithClock allows deterministic timestamps in tests.
func NewStoreWithClock(clock func() time.Time) *Store {
	return &Store{clock: clock}
}

// AddTest seeds a test, generating an id when the caller left it empty.
func (s *Store) AddTest(test domain.Test) domain.Test {
	s.mu.Lock()
	defer s.mu.Unlock()
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	s.tests = append(s.tests, test)
	return test
}

func (s *Store) ListTests(_ context.Context) ([]domain.Test, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Test, len(s.tests))
	copy(out, s.tests)
	return out, nil
}

func (s *Store) GetTest(_ context.Context, id string) (domain.Test, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, test := range s.tests {
		if test.ID == id {
			return test, nil
		}
	}
	return domain.Test{}, domain.ErrTestNotFound
}

func (s *Store) SaveResult(_ context.Context, result *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Date.IsZero() {
		result.Date = s.clock()
	}
	s.results = append(s.results, *result)
	return nil
}

func (s *Store) ListResults(_ context.Context) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedResults(s.results, func(domain.Result) bool { return true }), nil
}

func (s *Store) ListResultsByUsername(_ context.Context, username string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedResults(s.results, func(r domain.Result) bool { return r.Username == username }), nil
}

// sortedResults filters and orders by date descending; the stable sort keeps
// insertion order for equal dates.
func sortedResults(results []domain.Result, keep func(domain.Result) bool) []domain.Result {
	out := make([]domain.Result, 0, len(results))
	for _, r := range results {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (s *Store) SaveUserAnswer(_ context.Context, answer *domain.UserAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if answer.ID == "" {
		answer.ID = uuid.NewString()
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = s.clock()
	}
	s.answers = append(s.answers, *answer)
	return nil
}

func (s *Store) ListAnswersBySession(_ context.Context, sessionID string) ([]domain.UserAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserAnswer, 0)
	for _, a := range s.answers {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuestionIndex < out[j].QuestionIndex
	})
	return out, nil
}

func (s *Store) ListAnswersByUserAndTest(_ context.Context, username, testID string) ([]domain.UserAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserAnswer, 0)
	for _, a := range s.answers {
		if a.Username == username && a.TestID == testID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnsweredAt.After(out[j].AnsweredAt)
	})
	return out, nil
}

func (s *Store) CountAttempts(_ context.Context, testID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.results {
		if r.TestID == testID {
			n++
		}
	}
	return n, nil
}
