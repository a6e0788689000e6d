package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"coges-quiz-app/internal/app"
	"coges-quiz-app/internal/domain"
)

// ResultsHandler owns the results resource: one POST per completed attempt,
// plus the listings the stats page reads.
type ResultsHandler struct {
	store app.Store
	feed  *ResultFeed
	clock func() time.Time
}

func NewResultsHandler(store app.Store, feed *ResultFeed) *ResultsHandler {
	return &ResultsHandler{store: store, feed: feed, clock: time.Now}
}

// Create handles POST /results.
func (h *ResultsHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var result domain.Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid result data")
		return
	}
	if !domain.ValidScore(result.CorrectAnswers, result.TotalQuestions) {
		writeMessage(w, http.StatusBadRequest, "Invalid score")
		return
	}

	// Server-authoritative fields: the client cannot pick the record id,
	// forge the completion time, or send a score string that disagrees with
	// its counters.
	result.ID = ""
	result.Date = h.clock()
	result.Score = domain.FormatScore(result.CorrectAnswers, result.TotalQuestions)

	if err := h.store.SaveResult(r.Context(), &result); err != nil {
		writeStoreError(w, "results", err)
		return
	}
	if h.feed != nil {
		h.feed.Publish(result)
	}
	writeMessage(w, http.StatusOK, "Result saved successfully")
}

// List handles GET /results and GET /results?username=X.
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))

	var (
		results []domain.Result
		err     error
	)
	if username != "" {
		results, err = h.store.ListResultsByUsername(r.Context(), username)
	} else {
		results, err = h.store.ListResults(r.Context())
	}
	if err != nil {
		writeStoreError(w, "results", err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
