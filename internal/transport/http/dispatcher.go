package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"coges-quiz-app/internal/app"

	"github.com/gorilla/mux"
)

// NewRouter builds the API route table. Anything that doesn't match — wrong
// path or wrong method under a known prefix — gets the 404 envelope.
func NewRouter(store app.Store, feed *ResultFeed) *mux.Router {
	tests := NewTestsHandler(store)
	results := NewResultsHandler(store, feed)
	answers := NewUserAnswersHandler(store)

	r := mux.NewRouter()
	r.HandleFunc("/tests", tests.List).Methods(http.MethodGet)
	r.HandleFunc("/tests/{id}/attempts", tests.Attempts).Methods(http.MethodGet)
	r.HandleFunc("/tests/{id}", tests.Get).Methods(http.MethodGet)

	r.HandleFunc("/results", results.Create).Methods(http.MethodPost)
	r.HandleFunc("/results", results.List).Methods(http.MethodGet)

	r.HandleFunc("/user-answers", answers.Create).Methods(http.MethodPost)
	r.HandleFunc("/user-answers", answers.ByUserAndTest).Methods(http.MethodGet)
	// The pattern admits an empty segment so a blank sessionId reaches the
	// handler's 400 instead of falling through to the 404 envelope.
	r.HandleFunc("/user-answers/session/{sessionId:.*}", answers.BySession).Methods(http.MethodGet)

	if feed != nil {
		r.HandleFunc("/ws/results", feed.ServeWS).Methods(http.MethodGet)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Endpoint not found")
	})
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound
	return r
}

// Dispatcher resolves each request against the static webroot first and only
// then hands it to the API router. The root path maps to index.html. With no
// webroot configured the service is API-only.
type Dispatcher struct {
	webroot string
	api     http.Handler
}

func NewDispatcher(webroot string, api http.Handler) *Dispatcher {
	return &Dispatcher{webroot: webroot, api: api}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if d.webroot != "" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		if file, ok := d.resolveStatic(r.URL.Path); ok {
			// ServeFile derives Content-Type from the file extension.
			http.ServeFile(w, r, file)
			return
		}
	}
	d.api.ServeHTTP(w, r)
}

// resolveStatic maps a URL path onto the webroot, refusing anything that
// escapes it, and reports whether a regular file exists there.
func (d *Dispatcher) resolveStatic(urlPath string) (string, bool) {
	cleaned := path.Clean("/" + urlPath)
	if cleaned == "/" {
		cleaned = "/index.html"
	}

	file := filepath.Join(d.webroot, filepath.FromSlash(cleaned))
	root, err := filepath.Abs(d.webroot)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(file)
	if err != nil || !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", false
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", false
	}
	return abs, true
}
