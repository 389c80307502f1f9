package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/lovenote/lovenote-web/internal/errors"
)

// Consent and login payloads are tiny.
const maxJSONBody = 64 << 10

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorParams describes a JSON error response. Err, when set, becomes the message.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// DecodeJSON reads a strict JSON body into dst. It answers 400 itself and
// returns false when the body is malformed, oversized or has unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	return true
}

// WriteJSON encodes before writing headers so an encoding failure still
// yields a clean 500.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func WriteError(w http.ResponseWriter, p ErrorParams) {
	body := errorBody{Error: p.ErrCode, Message: http.StatusText(p.Code)}
	if p.Err != nil {
		body.Message = p.Err.Error()
	}
	WriteJSON(w, p.Code, body)
}

// WriteAppError derives the status from err's AppError code. Internal and
// unclassified errors get the generic status text instead of their message.
func WriteAppError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}

	msg := http.StatusText(status)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" && code != apperrors.ErrCodeInternal {
		msg = appErr.Message
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: string(code), Err: errors.New(msg)})
}
