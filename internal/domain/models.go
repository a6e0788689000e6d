package domain

import "time"

// Answer is a single selectable option for a question.
type Answer struct {
	Text string `json:"Text"`
}

// Question is one multiple-choice question inside a test. CorrectAnswerIndex
// is zero-based and must point inside Answers.
type Question struct {
	Text               string   `json:"Text"`
	Answers            []Answer `json:"Answers"`
	CorrectAnswerIndex int      `json:"CorrectAnswerIndex"`
}

// Test is a quiz definition: a title plus its questions in presentation order.
// Tests are seeded out of band; the service only reads them.
type Test struct {
	ID        string     `json:"Id"`
	Title     string     `json:"Title"`
	Questions []Question `json:"Questions"`
}

// Result is the scored outcome of one completed attempt. It is written once
// and never updated. TestTitle is denormalized so listings need no join, and
// SessionID correlates the result with the attempt's UserAnswer records.
type Result struct {
	ID             string    `json:"Id"`
	Username       string    `json:"Username"`
	TestID         string    `json:"TestId"`
	TestTitle      string    `json:"TestTitle"`
	Score          string    `json:"Score"`
	CorrectAnswers int       `json:"CorrectAnswers"`
	TotalQuestions int       `json:"TotalQuestions"`
	Date           time.Time `json:"Date"`
	SessionID      string    `json:"SessionId"`
}

// UserAnswer records one response to one question within an attempt. Question
// and answer texts are snapshotted at write time so later test edits do not
// rewrite history. Many UserAnswers share one SessionID.
type UserAnswer struct {
	ID                  string    `json:"Id"`
	Username            string    `json:"Username"`
	TestID              string    `json:"TestId"`
	TestTitle           string    `json:"TestTitle"`
	QuestionIndex       int       `json:"QuestionIndex"`
	QuestionText        string    `json:"QuestionText"`
	SelectedAnswerIndex int       `json:"SelectedAnswerIndex"`
	SelectedAnswerText  string    `json:"SelectedAnswerText"`
	CorrectAnswerIndex  int       `json:"CorrectAnswerIndex"`
	IsCorrect           bool      `json:"IsCorrect"`
	AnsweredAt          time.Time `json:"AnsweredAt"`
	SessionID           string    `json:"SessionId"`
}
