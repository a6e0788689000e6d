package http

import (
	"encoding/json"
	"log"
	"net/http"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON emits UTF-8 JSON with HTML escaping off so accented characters in
// titles and questions reach the client verbatim.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, messageResponse{Message: message})
}

// writeStoreError is the outermost failure boundary of every handler: the
// request dies with a 500 but the server keeps accepting.
func writeStoreError(w http.ResponseWriter, handler string, err error) {
	log.Printf("%s handler error: %v", handler, err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
