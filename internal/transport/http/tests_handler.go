package http

import (
	"errors"
	"net/http"

	"coges-quiz-app/internal/app"
	"coges-quiz-app/internal/domain"

	"github.com/gorilla/mux"
)

// TestsHandler serves the read-only test catalog.
type TestsHandler struct {
	store app.Store
}

func NewTestsHandler(store app.Store) *TestsHandler {
	return &TestsHandler{store: store}
}

// List handles GET /tests.
func (h *TestsHandler) List(w http.ResponseWriter, r *http.Request) {
	tests, err := h.store.ListTests(r.Context())
	if err != nil {
		writeStoreError(w, "tests", err)
		return
	}
	writeJSON(w, http.StatusOK, tests)
}

// Get handles GET /tests/{id}.
func (h *TestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	test, err := h.store.GetTest(r.Context(), id)
	if errors.Is(err, domain.ErrTestNotFound) {
		writeMessage(w, http.StatusNotFound, "Test not found")
		return
	}
	if err != nil {
		writeStoreError(w, "tests", err)
		return
	}
	writeJSON(w, http.StatusOK, test)
}

type attemptsResponse struct {
	TestID   string `json:"testId"`
	Attempts int64  `json:"attempts"`
}

// Attempts handles GET /tests/{id}/attempts, the per-test attempt counter.
func (h *TestsHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	count, err := h.store.CountAttempts(r.Context(), id)
	if err != nil {
		writeStoreError(w, "tests", err)
		return
	}
	writeJSON(w, http.StatusOK, attemptsResponse{TestID: id, Attempts: count})
}
