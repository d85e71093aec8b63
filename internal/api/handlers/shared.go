package handlers

import (
	"encoding/json"
	"net/http"
)

// parseJSON decodes the request body into a value of the given request type.
// The body is read once; callers validate the decoded value separately.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}
