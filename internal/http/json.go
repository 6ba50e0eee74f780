package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxJSONBodyBytes caps API request bodies. Portal payloads are small
// metadata records; anything larger is a client bug.
const maxJSONBodyBytes = 1 << 20

// apiError is the JSON error envelope returned by the API routes. The
// error field carries a stable machine-readable code, message a
// human-readable detail.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DecodeJSON decodes the request body into dst, rejecting unknown
// fields, empty bodies, and bodies over maxJSONBodyBytes. On failure it
// writes a 400 response and returns false; the caller should just
// return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_json",
			Err:     errors.New("request body is empty"),
		})
	default:
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
	}
	return false
}

// WriteJSON marshals v and writes it with the given status. Marshaling
// happens before any header is written so an encoding failure can still
// produce a clean 500.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	// Write errors mean the client went away; nothing to do.
	_, _ = w.Write(body)
}

// ErrorParams carries the pieces of an API error response.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes the apiError envelope for p.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	msg := ""
	if p.Err != nil {
		msg = p.Err.Error()
	}
	WriteJSON(w, p.Code, apiError{Error: p.ErrCode, Message: msg})
}
