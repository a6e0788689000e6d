package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"coges-quiz-app/internal/app"
	"coges-quiz-app/internal/domain"

	"github.com/gorilla/mux"
)

// UserAnswersHandler records and lists the per-question answer events of an
// attempt. Inbound payloads may use any field-name casing; encoding/json
// matches the struct tags case-insensitively.
type UserAnswersHandler struct {
	store app.Store
}

func NewUserAnswersHandler(store app.Store) *UserAnswersHandler {
	return &UserAnswersHandler{store: store}
}

type answerSavedResponse struct {
	Message   string `json:"message"`
	IsCorrect bool   `json:"isCorrect"`
}

// Create handles POST /user-answers.
func (h *UserAnswersHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var answer domain.UserAnswer
	if err := json.NewDecoder(r.Body).Decode(&answer); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user answer data")
		return
	}

	// Validation order is part of the contract: username, then testId, then
	// sessionId; the first blank field names the 400.
	if strings.TrimSpace(answer.Username) == "" {
		writeMessage(w, http.StatusBadRequest, "Username is required")
		return
	}
	if strings.TrimSpace(answer.TestID) == "" {
		writeMessage(w, http.StatusBadRequest, "TestId is required")
		return
	}
	if strings.TrimSpace(answer.SessionID) == "" {
		writeMessage(w, http.StatusBadRequest, "SessionId is required")
		return
	}

	// Correctness is decided here, not trusted from the client.
	answer.ID = ""
	answer.IsCorrect = answer.SelectedAnswerIndex == answer.CorrectAnswerIndex

	if err := h.store.SaveUserAnswer(r.Context(), &answer); err != nil {
		writeStoreError(w, "user-answers", err)
		return
	}
	writeJSON(w, http.StatusCreated, answerSavedResponse{
		Message:   "Answer saved successfully",
		IsCorrect: answer.IsCorrect,
	})
}

// BySession handles GET /user-answers/session/{sessionId}.
func (h *UserAnswersHandler) BySession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if strings.TrimSpace(sessionID) == "" {
		writeMessage(w, http.StatusBadRequest, "SessionId is required")
		return
	}
	answers, err := h.store.ListAnswersBySession(r.Context(), sessionID)
	if err != nil {
		writeStoreError(w, "user-answers", err)
		return
	}
	writeJSON(w, http.StatusOK, answers)
}

// ByUserAndTest handles GET /user-answers?username=X&testId=Y.
func (h *UserAnswersHandler) ByUserAndTest(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	testID := r.URL.Query().Get("testId")
	if username == "" || testID == "" {
		writeMessage(w, http.StatusBadRequest, "Username and testId are required")
		return
	}
	answers, err := h.store.ListAnswersByUserAndTest(r.Context(), username, testID)
	if err != nil {
		writeStoreError(w, "user-answers", err)
		return
	}
	writeJSON(w, http.StatusOK, answers)
}
