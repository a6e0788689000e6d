package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"coges-quiz-app/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store is the Postgres-backed persistence gateway. Tests are kept as whole
// jsonb documents; results and user answers are flat rows. The results table
// carries a bigserial seq column so equal-date listings keep insertion order.
type Store struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, clock: time.Now}
}

// EnsureIndexes creates the supporting indexes for the read paths. Queries
// stay correct without them, so a failure only logs a warning.
func (s *Store) EnsureIndexes(ctx context.Context) {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_results_date_username ON results (date DESC, username ASC)`,
		`CREATE INDEX IF NOT EXISTS idx_user_answers_user_test ON user_answers (username, test_id, answered_at)`,
		`CREATE INDEX IF NOT EXISTS idx_user_answers_session ON user_answers (session_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			log.Printf("warning: create index failed, queries will run unindexed: %v", err)
		}
	}
}

func (s *Store) ListTests(ctx context.Context) ([]domain.Test, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, data FROM tests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	tests := make([]domain.Test, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		var test domain.Test
		if err := json.Unmarshal(raw, &test); err != nil {
			return nil, fmt.Errorf("unmarshal test %s: %w", id, err)
		}
		test.ID = id
		tests = append(tests, test)
	}
	return tests, rows.Err()
}

func (s *Store) GetTest(ctx context.Context, id string) (domain.Test, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM tests WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Test{}, domain.ErrTestNotFound
	}
	if err != nil {
		return domain.Test{}, fmt.Errorf("get test: %w", err)
	}
	var test domain.Test
	if err := json.Unmarshal(raw, &test); err != nil {
		return domain.Test{}, fmt.Errorf("unmarshal test %s: %w", id, err)
	}
	test.ID = id
	return test, nil
}

// SaveTest inserts a test document; used by the seed command.
func (s *Store) SaveTest(ctx context.Context, test *domain.Test) error {
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	data, err := json.Marshal(test)
	if err != nil {
		return fmt.Errorf("marshal test: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO tests (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		test.ID, data)
	if err != nil {
		return fmt.Errorf("save test: %w", err)
	}
	return nil
}

func (s *Store) SaveResult(ctx context.Context, result *domain.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Date.IsZero() {
		result.Date = s.clock()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO results
		   (id, username, test_id, test_title, score, correct_answers, total_questions, date, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.ID, result.Username, result.TestID, result.TestTitle, result.Score,
		result.CorrectAnswers, result.TotalQuestions, result.Date, result.SessionID)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

const resultColumns = `id, username, test_id, test_title, score, correct_answers, total_questions, date, session_id`

func (s *Store) ListResults(ctx context.Context) ([]domain.Result, error) {
	return s.queryResults(ctx,
		`SELECT `+resultColumns+` FROM results ORDER BY date DESC, seq ASC`)
}

func (s *Store) ListResultsByUsername(ctx context.Context, username string) ([]domain.Result, error) {
	return s.queryResults(ctx,
		`SELECT `+resultColumns+` FROM results WHERE username=$1 ORDER BY date DESC, seq ASC`, username)
}

func (s *Store) queryResults(ctx context.Context, sql string, args ...any) ([]domain.Result, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Result, 0)
	for rows.Next() {
		var r domain.Result
		if err := rows.Scan(&r.ID, &r.Username, &r.TestID, &r.TestTitle, &r.Score,
			&r.CorrectAnswers, &r.TotalQuestions, &r.Date, &r.SessionID); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *Store) SaveUserAnswer(ctx context.Context, answer *domain.UserAnswer) error {
	if answer.ID == "" {
		answer.ID = uuid.NewString()
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = s.clock()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_answers
		   (id, username, test_id, test_title, question_index, question_text,
		    selected_answer_index, selected_answer_text, correct_answer_index,
		    is_correct, answered_at, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		answer.ID, answer.Username, answer.TestID, answer.TestTitle, answer.QuestionIndex,
		answer.QuestionText, answer.SelectedAnswerIndex, answer.SelectedAnswerText,
		answer.CorrectAnswerIndex, answer.IsCorrect, answer.AnsweredAt, answer.SessionID)
	if err != nil {
		return fmt.Errorf("save user answer: %w", err)
	}
	return nil
}

const answerColumns = `id, username, test_id, test_title, question_index, question_text,
	selected_answer_index, selected_answer_text, correct_answer_index, is_correct, answered_at, session_id`

func (s *Store) ListAnswersBySession(ctx context.Context, sessionID string) ([]domain.UserAnswer, error) {
	return s.queryAnswers(ctx,
		`SELECT `+answerColumns+` FROM user_answers WHERE session_id=$1 ORDER BY question_index ASC`, sessionID)
}

func (s *Store) ListAnswersByUserAndTest(ctx context.Context, username, testID string) ([]domain.UserAnswer, error) {
	return s.queryAnswers(ctx,
		`SELECT `+answerColumns+` FROM user_answers WHERE username=$1 AND test_id=$2 ORDER BY answered_at DESC`,
		username, testID)
}

func (s *Store) queryAnswers(ctx context.Context, sql string, args ...any) ([]domain.UserAnswer, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list user answers: %w", err)
	}
	defer rows.Close()

	answers := make([]domain.UserAnswer, 0)
	for rows.Next() {
		var a domain.UserAnswer
		if err := rows.Scan(&a.ID, &a.Username, &a.TestID, &a.TestTitle, &a.QuestionIndex,
			&a.QuestionText, &a.SelectedAnswerIndex, &a.SelectedAnswerText,
			&a.CorrectAnswerIndex, &a.IsCorrect, &a.AnsweredAt, &a.SessionID); err != nil {
			return nil, fmt.Errorf("scan user answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *Store) CountAttempts(ctx context.Context, testID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM results WHERE test_id=$1`, testID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}
