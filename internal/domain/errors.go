package domain

import "errors"

var (
	// ErrTestNotFound is the normal outcome of looking up an absent test id.
	ErrTestNotFound = errors.New("test not found")
	// ErrInvalidScore is returned when a result's counters cannot form a valid score.
	ErrInvalidScore = errors.New("invalid score")
)
