package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"watchparty/internal/model"
	"watchparty/internal/transport/rest/middleware"
	"watchparty/internal/transport/rest/response"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst, answering 400 itself on
// failure. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

// identity returns the authenticated caller, answering 401 itself when the
// route was not behind the auth middleware.
func identity(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization token required")
	}
	return id, ok
}
