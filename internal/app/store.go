package app

import (
	"context"

	"coges-quiz-app/internal/domain"
)

// Store is the persistence gateway over the three collections (tests,
// results, user_answers). Implementations live under internal/infra.
//
// Contract notes shared by all implementations:
//   - List operations return empty slices, never nil.
//   - GetTest signals an absent id with domain.ErrTestNotFound.
//   - SaveResult and SaveUserAnswer are insert-only; a zero timestamp is
//     replaced with the current time before the record is persisted.
//   - ListResults and ListResultsByUsername order by Date descending,
//     insertion order for equal dates. ListAnswersBySession orders by
//     QuestionIndex ascending. ListAnswersByUserAndTest orders by
//     AnsweredAt descending.
type Store interface {
	ListTests(ctx context.Context) ([]domain.Test, error)
	GetTest(ctx context.Context, id string) (domain.Test, error)

	SaveResult(ctx context.Context, result *domain.Result) error
	ListResults(ctx context.Context) ([]domain.Result, error)
	ListResultsByUsername(ctx context.Context, username string) ([]domain.Result, error)

	SaveUserAnswer(ctx context.Context, answer *domain.UserAnswer) error
	ListAnswersBySession(ctx context.Context, sessionID string) ([]domain.UserAnswer, error)
	ListAnswersByUserAndTest(ctx context.Context, username, testID string) ([]domain.UserAnswer, error)

	CountAttempts(ctx context.Context, testID string) (int64, error)
}
