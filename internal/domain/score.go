package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatScore renders the canonical "correct/total" score string.
func FormatScore(correct, total int) string {
	return fmt.Sprintf("%d/%d", correct, total)
}

// ParseScore splits a "correct/total" score string back into its counters.
func ParseScore(score string) (correct, total int, err error) {
	left, right, ok := strings.Cut(score, "/")
	if !ok {
		return 0, 0, fmt.Errorf("parse score %q: %w", score, ErrInvalidScore)
	}
	correct, err = strconv.Atoi(left)
	if err != nil {
		return 0, 0, fmt.Errorf("parse score %q: %w", score, ErrInvalidScore)
	}
	total, err = strconv.Atoi(right)
	if err != nil {
		return 0, 0, fmt.Errorf("parse score %q: %w", score, ErrInvalidScore)
	}
	if correct < 0 || total < 0 || correct > total {
		return 0, 0, fmt.Errorf("parse score %q: %w", score, ErrInvalidScore)
	}
	return correct, total, nil
}

// ValidScore reports whether the counters form a valid score pair.
func ValidScore(correct, total int) bool {
	return correct >= 0 && total >= 0 && correct <= total
}

// Percentage converts answer counters to a 0-100 percentage. A zero-question
// attempt scores 0.
func Percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Percentage is the result's score as a 0-100 value.
func (r Result) Percentage() float64 {
	return Percentage(r.CorrectAnswers, r.TotalQuestions)
}
